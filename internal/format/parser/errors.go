package parser

import "fmt"

// ParseError is the common shape of every recoverable parser error: it names
// which tag misbehaved and carries a short slice of surrounding input so a
// log line can show where things went wrong, mirroring the original
// parser's set_context().
type ParseError struct {
	Kind    string // "tag", "attribute", "color", "font", "control", "offset", "button", "action", "unterminated"
	Detail  string
	Context string
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (context: %q)", e.Detail, e.Context)
	}
	return e.Detail
}

func newErr(kind, context string, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...), Context: context}
}
