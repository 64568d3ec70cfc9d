// Package subprocess implements the script/tail producer, grounded on the
// original's script_module and cmdscript_module (see
// _examples/original_source/include/modules/script.hpp and cmdscript.hpp):
// an external command whose stdout lines become the module's content, one
// line at a time, with the process restarted on exit. The teacher's
// process-supervision idiom (module.Tail) already implements the restart
// backoff; this package just wires a config-driven command plus
// SPEC_FULL.md's supplemented MaxRestarts bound onto it.
package subprocess

import (
	"github.com/polybar-go/bard/internal/module"
)

// Config wires the external command a subprocess module tails.
type Config struct {
	Command string
	Args    []string
	// MaxRestarts bounds how many times the command may exit and be
	// restarted before the module fails permanently. 0 means unlimited.
	MaxRestarts int
}

// New returns a Tail module named name wrapping cfg.Command.
func New(name string, cfg Config) *module.Tail {
	return module.NewTail(name, cfg.Command, cfg.Args, cfg.MaxRestarts)
}
