// Package settings carries the plain-data configuration structs the
// aggregator and modules are wired up with. Parsing a config file into
// these structs is explicitly out of scope here; callers populate them
// however they like (flags, a config library, hardcoded demo values).
package settings

import "time"

// BarSettings mirrors the handful of bar-wide knobs the aggregator needs to
// compose module output: separator between modules, per-module margins, and
// edge padding for the leftmost/rightmost sections.
type BarSettings struct {
	Width, Height int
	DPI           float64

	Separator string

	PaddingLeft  int
	PaddingRight int

	ModuleMarginLeft  int
	ModuleMarginRight int
}

// DefaultBarSettings returns reasonable values for a demo bar: no separator,
// one space of margin on either side of a module, no extra edge padding.
func DefaultBarSettings() BarSettings {
	return BarSettings{
		Width:             1920,
		Height:            24,
		DPI:               96,
		ModuleMarginLeft:  1,
		ModuleMarginRight: 1,
	}
}

// ModuleSettings holds the fields common to every module type (name,
// format string, update cadence); module-specific values live in each
// module package's own config struct.
type ModuleSettings struct {
	Name     string
	Type     string
	Format   string
	Interval time.Duration
}
