package drawtypes

// rampEntry pairs a label with its weight in the ramp's percentage split.
type rampEntry struct {
	label  *Label
	weight int
}

// Ramp selects one of a weighted sequence of labels by percentage, used for
// things like signal-strength or volume icons with more than two states.
type Ramp struct {
	entries []rampEntry
}

// NewRamp returns an empty Ramp.
func NewRamp() *Ramp {
	return &Ramp{}
}

// Add appends label to the ramp with an optional weight (default 1); a
// larger weight gives the label a proportionally larger share of the
// percentage range in GetByPercentage.
func (r *Ramp) Add(label *Label, weight ...int) {
	w := 1
	if len(weight) > 0 && weight[0] > 0 {
		w = weight[0]
	}
	r.entries = append(r.entries, rampEntry{label: label, weight: w})
}

// Len reports how many labels are in the ramp.
func (r *Ramp) Len() int { return len(r.entries) }

// Get returns the label at idx.
func (r *Ramp) Get(idx int) *Label {
	return r.entries[idx].label
}

// GetByPercentage returns the label whose weighted slice of [0,100]
// contains percentage, using a strict less-than comparison against each
// cumulative weight boundary (so a value exactly on a boundary belongs to
// the following entry, not the preceding one).
func (r *Ramp) GetByPercentage(percentage float64) *Label {
	idx := selectByWeight(percentage, weightsOf(r.entries))
	return r.entries[idx].label
}

// GetByPercentageWithBorders is like GetByPercentage but treats min and max
// as saturation points: percentage <= min always selects the first label,
// percentage >= max always selects the last, and the labels strictly
// between first and last evenly (by weight) split the open interval
// (min, max). With fewer than 3 labels there is no interior to split, so
// values inside (min, max) fall to the nearer endpoint at the midpoint.
func (r *Ramp) GetByPercentageWithBorders(percentage, min, max float64) *Label {
	n := len(r.entries)
	if n == 0 {
		return nil
	}
	if n == 1 || percentage <= min {
		return r.entries[0].label
	}
	if percentage >= max {
		return r.entries[n-1].label
	}

	middle := r.entries[1 : n-1]
	if len(middle) == 0 {
		mid := (min + max) / 2
		if percentage < mid {
			return r.entries[0].label
		}
		return r.entries[n-1].label
	}

	rel := (percentage - min) / (max - min) * 100
	idx := selectByWeight(rel, weightsOf(middle))
	return middle[idx].label
}

func weightsOf(entries []rampEntry) []int {
	w := make([]int, len(entries))
	for i, e := range entries {
		w[i] = e.weight
	}
	return w
}

// selectByWeight returns the index whose cumulative weight boundary is the
// first to exceed value (a 0..100-scaled position), treating the last
// index as the catch-all for anything not strictly below an earlier
// boundary.
func selectByWeight(value float64, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return 0
	}
	cum := 0
	for i, w := range weights {
		cum += w
		boundary := float64(cum) / float64(total) * 100
		if value < boundary {
			return i
		}
	}
	return len(weights) - 1
}
