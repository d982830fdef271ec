// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/rvm/diagnostic"
	"github.com/luthersystems/rvm/rparse"
	"github.com/spf13/viper"
)

// operandError is a command argument that is not a vector literal.
type operandError struct {
	name string
	err  error
}

func (e *operandError) Error() string {
	return fmt.Sprintf("%s: %v", e.name, e.err)
}

func (e *operandError) Unwrap() error {
	return e.err
}

func newRenderer() *diagnostic.Renderer {
	mode, _ := diagnostic.ParseColorMode(viper.GetString("color"))
	return &diagnostic.Renderer{Color: mode}
}

// errorDiagnostic converts a command error for display.  Syntax errors in
// operands point at the offending text.
func errorDiagnostic(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{Severity: diagnostic.SeverityError, Message: err.Error()}
	var oerr *operandError
	var serr *rparse.SyntaxError
	if !errors.As(err, &oerr) || !errors.As(err, &serr) {
		return d
	}
	d.Message = serr.Msg
	d.Spans = []diagnostic.Span{{
		Name:   oerr.name,
		Text:   serr.Text,
		Offset: serr.Offset,
	}}
	d.Notes = []string{`numbers are double unless suffixed with L; sequences are written a:b or seq(start, stride, n)`}
	return d
}

func renderError(w io.Writer, err error) {
	if rerr := newRenderer().Render(w, errorDiagnostic(err)); rerr != nil {
		fmt.Fprintln(w, err)
	}
}
