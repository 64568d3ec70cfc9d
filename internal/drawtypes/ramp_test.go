package drawtypes

import "testing"

func addLabel(r *Ramp, text string, weight ...int) {
	r.Add(NewLabel(text), weight...)
}

func TestRampByPercentageEqualWeight(t *testing.T) {
	r := NewRamp()
	addLabel(r, "test1")
	addLabel(r, "test2")
	addLabel(r, "test3")

	tests := []struct {
		perc float64
		want string
	}{
		{33, "test1"},
		{34, "test2"},
		{67, "test3"},
	}
	for _, tt := range tests {
		if got := r.GetByPercentage(tt.perc).Text; got != tt.want {
			t.Errorf("GetByPercentage(%v) = %q, want %q", tt.perc, got, tt.want)
		}
	}
}

func TestRampByPercentageWithBordersEqualWeight(t *testing.T) {
	r := NewRamp()
	addLabel(r, "test1")
	addLabel(r, "test2")
	addLabel(r, "test3")

	tests := []struct {
		perc, min, max float64
		want           string
	}{
		{19, 20, 40, "test1"},
		{21, 20, 40, "test2"},
		{39, 20, 40, "test2"},
		{41, 20, 40, "test3"},
		{20, 20, 40, "test1"},
		{40, 20, 40, "test3"},
	}
	for _, tt := range tests {
		if got := r.GetByPercentageWithBorders(tt.perc, tt.min, tt.max).Text; got != tt.want {
			t.Errorf("GetByPercentageWithBorders(%v,%v,%v) = %q, want %q", tt.perc, tt.min, tt.max, got, tt.want)
		}
	}

	addLabel(r, "test4")
	more := []struct {
		perc, min, max float64
		want           string
	}{
		{29, 20, 40, "test2"},
		{31, 20, 40, "test3"},
	}
	for _, tt := range more {
		if got := r.GetByPercentageWithBorders(tt.perc, tt.min, tt.max).Text; got != tt.want {
			t.Errorf("GetByPercentageWithBorders(%v,%v,%v) = %q, want %q", tt.perc, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestRampByPercentageWeighted(t *testing.T) {
	r := NewRamp()
	addLabel(r, "test1", 1)
	addLabel(r, "test2", 2)
	addLabel(r, "test3", 5)

	tests := []struct {
		perc float64
		want string
	}{
		{12, "test1"},
		{13, "test2"},
		{37, "test2"},
		{38, "test3"},
	}
	for _, tt := range tests {
		if got := r.GetByPercentage(tt.perc).Text; got != tt.want {
			t.Errorf("GetByPercentage(%v) = %q, want %q", tt.perc, got, tt.want)
		}
	}
}

func TestRampByPercentageWithBordersWeighted(t *testing.T) {
	r := NewRamp()
	addLabel(r, "test1", 1)
	addLabel(r, "test2", 2)
	addLabel(r, "test3", 5)

	tests := []struct {
		perc, min, max float64
		want           string
	}{
		{19, 20, 40, "test1"},
		{21, 20, 40, "test2"},
		{39, 20, 40, "test2"},
		{41, 20, 40, "test3"},
		{20, 20, 40, "test1"},
		{40, 20, 40, "test3"},
	}
	for _, tt := range tests {
		if got := r.GetByPercentageWithBorders(tt.perc, tt.min, tt.max).Text; got != tt.want {
			t.Errorf("GetByPercentageWithBorders(%v,%v,%v) = %q, want %q", tt.perc, tt.min, tt.max, got, tt.want)
		}
	}

	addLabel(r, "test4", 1)
	addLabel(r, "test5", 1)
	more := []struct {
		perc, min, max float64
		want           string
	}{
		{24, 20, 40, "test2"},
		{25, 20, 40, "test3"},
	}
	for _, tt := range more {
		if got := r.GetByPercentageWithBorders(tt.perc, tt.min, tt.max).Text; got != tt.want {
			t.Errorf("GetByPercentageWithBorders(%v,%v,%v) = %q, want %q", tt.perc, tt.min, tt.max, got, tt.want)
		}
	}
}
