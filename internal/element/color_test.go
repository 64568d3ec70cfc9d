package element

import "testing"

func TestParseColorForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantReset bool
	}{
		{"dash resets", "-", true},
		{"empty resets", "", true},
		{"3-digit", "#f00", false},
		{"4-digit", "#ff00", false},
		{"6-digit", "#ff0000", false},
		{"8-digit", "#ffff0000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.input, err)
			}
			if c.IsSet() == tt.wantReset {
				t.Errorf("ParseColor(%q).IsSet() = %v, want %v", tt.input, c.IsSet(), !tt.wantReset)
			}
		})
	}
}

func TestParseColorAlphaInvariant(t *testing.T) {
	// For all color strings with 3 or 6 hex digits, alpha must equal 0xFF.
	for _, s := range []string{"#f00", "#0f0", "#00f", "#ff0000", "#00ff00", "#abcdef"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", s, err)
		}
		if c.Alpha() != 0xFF {
			t.Errorf("ParseColor(%q).Alpha() = %#x, want 0xff", s, c.Alpha())
		}
	}
}

func TestParseColorExpansion(t *testing.T) {
	three, err := ParseColor("#f00")
	if err != nil {
		t.Fatal(err)
	}
	six, err := ParseColor("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if three.ARGB() != six.ARGB() {
		t.Errorf("#f00 = %#08x, #ff0000 = %#08x, want equal", three.ARGB(), six.ARGB())
	}
}

func TestParseColorInvalid(t *testing.T) {
	tests := []string{"red", "#", "#ff", "#fffff", "#gggggg"}
	for _, s := range tests {
		if _, err := ParseColor(s); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", s)
		}
	}
}

func TestColorStringRoundTrip(t *testing.T) {
	for _, s := range []string{"-", "#ffff0000", "#ff00ff00"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatal(err)
		}
		got := c.String()
		reparsed, err := ParseColor(got)
		if err != nil {
			t.Fatalf("re-parsing %q: %v", got, err)
		}
		if reparsed.ARGB() != c.ARGB() || reparsed.IsSet() != c.IsSet() {
			t.Errorf("round trip mismatch for %q: got %q", s, got)
		}
	}
}

func TestExtentPixels(t *testing.T) {
	e := Extent{Value: 36, Unit: Point}
	// 36pt * 96dpi / 72 = 48px
	if got := e.Pixels(96); got != 48 {
		t.Errorf("Pixels() = %d, want 48", got)
	}
	px := Extent{Value: 10, Unit: Pixel}
	if got := px.Pixels(96); got != 10 {
		t.Errorf("Pixels() for px unit = %d, want 10", got)
	}
}

func TestActivationApply(t *testing.T) {
	var attrs Attribute
	attrs = ActivationOn.Apply(attrs, AttrUnderline)
	if attrs&AttrUnderline == 0 {
		t.Fatal("expected underline set")
	}
	attrs = ActivationToggle.Apply(attrs, AttrUnderline)
	if attrs&AttrUnderline != 0 {
		t.Fatal("expected underline cleared by toggle")
	}
	attrs = ActivationOn.Apply(attrs, AttrOverline)
	attrs = ActivationOff.Apply(attrs, AttrOverline)
	if attrs&AttrOverline != 0 {
		t.Fatal("expected overline cleared")
	}
}

func TestParseButtonRange(t *testing.T) {
	for n := 1; n <= 8; n++ {
		if _, err := ParseButton(n); err != nil {
			t.Errorf("ParseButton(%d): %v", n, err)
		}
	}
	for _, n := range []int{0, 9, -1} {
		if _, err := ParseButton(n); err == nil {
			t.Errorf("ParseButton(%d) succeeded, want error", n)
		}
	}
}

func TestMouseButtonIsDouble(t *testing.T) {
	for _, b := range []MouseButton{ButtonDoubleLeft, ButtonDoubleMiddle, ButtonDoubleRight} {
		if !b.IsDouble() {
			t.Errorf("%v.IsDouble() = false, want true", b)
		}
	}
	for _, b := range []MouseButton{ButtonNone, ButtonLeft, ButtonScrollUp} {
		if b.IsDouble() {
			t.Errorf("%v.IsDouble() = true, want false", b)
		}
	}
}
