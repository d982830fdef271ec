// Copyright © 2024 The ELPS authors

// Package diagnostic renders annotated errors for rvm command line input.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span marks a region of an input string, such as a vector literal given
// as a command argument.
type Span struct {
	// Name identifies the input, e.g. "operand 1".
	Name string
	// Text is the complete input.
	Text string
	// Offset is the 0-based byte offset of the region.  A negative offset
	// shows the input without an underline.
	Offset int
	// Len is the region length in bytes.  Zero extends the region to the
	// end of the current token.
	Len   int
	Label string
}

// Diagnostic is an error, warning or note with annotated inputs.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}
