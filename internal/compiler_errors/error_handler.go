package compiler_errors

import (
	"errors"
	"fmt"
	"io"
	"os"
)

type CompilerError interface {
	GetMessage() string
}

// PositionedError is a CompilerError that knows where in the source it happened.
type PositionedError interface {
	CompilerError
	GetFileName() string
	GetLine() int
	GetColumn() int
}

type ErrorHandler interface {
	AddError(err CompilerError)
	HasErrors() bool
	FailNow()
}

type CompilerErrorHandler struct {
	errors []CompilerError
	writer io.Writer

	exit func(code int)
}

func NewErrorHandler(outputWriter io.Writer) *CompilerErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
		writer: outputWriter,
		exit:   os.Exit,
	}
}

// WithExit replaces the function FailNow terminates the process with.
func (eh *CompilerErrorHandler) WithExit(exit func(code int)) *CompilerErrorHandler {
	eh.exit = exit
	return eh
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

// AddGoError unwraps err to the first CompilerError in its chain. Plain errors
// are reported with their Error() text.
func (eh *CompilerErrorHandler) AddGoError(err error) {
	var compilerErr CompilerError
	if errors.As(err, &compilerErr) {
		eh.AddError(compilerErr)
		return
	}

	eh.AddError(plainError{err})
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) FailNow() {
	fmt.Fprintln(eh.writer, "Build failed with errors:")

	for _, err := range eh.errors {
		fmt.Fprintf(eh.writer, "ERROR: %s\n", Format(err))
	}

	eh.exit(1)
}

// Format renders err with a file:line:column prefix when it carries a position.
func Format(err CompilerError) string {
	positioned, ok := err.(PositionedError)
	if !ok || positioned.GetLine() == 0 {
		return err.GetMessage()
	}

	return fmt.Sprintf(
		"%s:%d:%d: %s",
		positioned.GetFileName(),
		positioned.GetLine(),
		positioned.GetColumn(),
		err.GetMessage(),
	)
}

type plainError struct {
	err error
}

func (e plainError) GetMessage() string {
	return e.err.Error()
}
