// Package errors provides structured error handling for udf-suite.
//
// Errors carry:
//   - a numeric code for programmatic handling
//   - a severity
//   - context fields for the diagnostic log
//   - an optional cause and stack trace
//
// Error codes follow a hierarchical scheme:
//   - 1xxx: Configuration errors
//   - 2xxx: Connection errors (installer, parity checks)
//   - 3xxx: Initialization errors (arity, argument type, constant values)
//   - 4xxx: Row processing errors
//   - 5xxx: Registry and installation errors
//   - 9xxx: Internal errors, including recovered panics
//
// The Message of an initialization error is shown to the SQL client verbatim,
// so it never includes the code prefix that Error() adds.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Code is a numeric error code for programmatic handling.
type Code int

// Error codes by category
const (
	// Configuration errors (1xxx)
	ErrCodeConfigInvalid Code = 1001
	ErrCodeConfigParse   Code = 1002
	ErrCodeConfigMissing Code = 1003

	// Connection errors (2xxx)
	ErrCodeConnectionFailed Code = 2001
	ErrCodeQueryFailed      Code = 2002

	// Initialization errors (3xxx)
	ErrCodeArgCount    Code = 3001
	ErrCodeArgType     Code = 3002
	ErrCodeArgValue    Code = 3003
	ErrCodeInitFailed  Code = 3004
	ErrCodeUnavailable Code = 3005

	// Row processing errors (4xxx)
	ErrCodeProcessFailed Code = 4001
	ErrCodeBadRowValue   Code = 4002
	ErrCodeWrongPhase    Code = 4003
	ErrCodeResultTooLong Code = 4004

	// Registry and installation errors (5xxx)
	ErrCodeDuplicateFunc Code = 5001
	ErrCodeUnknownFunc   Code = 5002
	ErrCodeInstallFailed Code = 5003
	ErrCodeBuildFailed   Code = 5004

	// Internal errors (9xxx)
	ErrCodeInternal Code = 9001
	ErrCodePanic    Code = 9003
)

// String returns the error code as a string.
func (c Code) String() string {
	return fmt.Sprintf("E%04d", c)
}

// Category returns the category for this code.
func (c Code) Category() string {
	switch {
	case c >= 1000 && c < 2000:
		return "configuration"
	case c >= 2000 && c < 3000:
		return "connection"
	case c >= 3000 && c < 4000:
		return "init"
	case c >= 4000 && c < 5000:
		return "process"
	case c >= 5000 && c < 6000:
		return "registry"
	case c >= 9000:
		return "internal"
	default:
		return "unknown"
	}
}

// Severity indicates error severity.
type Severity int

const (
	SeverityWarning  Severity = iota // Row-scoped, the statement continues
	SeverityError                    // The statement fails
	SeverityCritical                 // An invariant of the binding layer was violated
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a structured error with code, context, and optional cause.
type Error struct {
	Code     Code
	Message  string
	Severity Severity

	Fields map[string]interface{}

	Cause error

	Stack  []Frame
	Time   time.Time
	OpName string // e.g. "uuid_to_bin.init", "cabi.Process"
}

// Frame represents a stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf strings.Builder

	buf.WriteString(e.Code.String())
	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}

	return buf.String()
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Format implements fmt.Formatter for detailed output.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "%s [%s] %s: %s\n",
				e.Time.Format(time.RFC3339),
				e.Severity,
				e.Code.String(),
				e.Message)

			if e.OpName != "" {
				fmt.Fprintf(f, "  Operation: %s\n", e.OpName)
			}

			if len(e.Fields) > 0 {
				fmt.Fprintf(f, "  Context:\n")
				for k, v := range e.Fields {
					fmt.Fprintf(f, "    %s: %v\n", k, v)
				}
			}

			if e.Cause != nil {
				fmt.Fprintf(f, "  Caused by: %v\n", e.Cause)
			}

			if len(e.Stack) > 0 {
				fmt.Fprintf(f, "  Stack:\n")
				for _, frame := range e.Stack {
					fmt.Fprintf(f, "    %s\n      %s:%d\n",
						frame.Function, frame.File, frame.Line)
				}
			}
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(f, e.Error())
	case 'q':
		fmt.Fprintf(f, "%q", e.Error())
	}
}

// Builder helps construct errors fluently.
type Builder struct {
	code     Code
	message  string
	severity Severity
	cause    error
	fields   map[string]interface{}
	op       string
	stack    bool
}

// New starts building a new error with the given code.
func New(code Code, message string) *Builder {
	return &Builder{
		code:     code,
		message:  message,
		severity: SeverityError,
	}
}

// Newf starts building a new error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Builder {
	return &Builder{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		severity: SeverityError,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code Code, message string) *Builder {
	return &Builder{
		code:     code,
		message:  message,
		severity: SeverityError,
		cause:    cause,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(cause error, code Code, format string, args ...interface{}) *Builder {
	return &Builder{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		severity: SeverityError,
		cause:    cause,
	}
}

// Warning sets severity to warning.
func (b *Builder) Warning() *Builder {
	b.severity = SeverityWarning
	return b
}

// Critical sets severity to critical.
func (b *Builder) Critical() *Builder {
	b.severity = SeverityCritical
	return b
}

// WithCause adds a cause to the error.
func (b *Builder) WithCause(err error) *Builder {
	b.cause = err
	return b
}

// WithField adds a context field.
func (b *Builder) WithField(key string, value interface{}) *Builder {
	if b.fields == nil {
		b.fields = make(map[string]interface{})
	}
	b.fields[key] = value
	return b
}

// WithOp sets the operation name.
func (b *Builder) WithOp(op string) *Builder {
	b.op = op
	return b
}

// WithStack captures a stack trace.
func (b *Builder) WithStack() *Builder {
	b.stack = true
	return b
}

// Build creates the Error.
func (b *Builder) Build() *Error {
	e := &Error{
		Code:     b.code,
		Message:  b.message,
		Severity: b.severity,
		Cause:    b.cause,
		Fields:   b.fields,
		OpName:   b.op,
		Time:     time.Now(),
	}

	if b.stack {
		e.Stack = captureStack(2)
	}

	return e
}

// Err is a shorthand for Build() that returns error interface.
func (b *Builder) Err() error {
	return b.Build()
}

func captureStack(skip int) []Frame {
	var frames []Frame
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	pcs = pcs[:n]

	callersFrames := runtime.CallersFrames(pcs)
	for {
		frame, more := callersFrames.Next()
		if !more {
			break
		}

		if strings.HasPrefix(frame.Function, "runtime.") {
			continue
		}

		frames = append(frames, Frame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})

		if len(frames) >= 10 {
			break
		}
	}

	return frames
}

// Helper functions for common error types

// ArgCount creates the arity error shown to clients when a function is called
// with the wrong number of arguments.
func ArgCount(function, expected string, got int) *Builder {
	return Newf(ErrCodeArgCount, "%s takes %s but got %d", function, expected, got).
		WithField("function", function).
		WithField("got", got)
}

// ArgValue creates an error for an invalid constant argument.
func ArgValue(function string, index int, reason string) *Builder {
	return Newf(ErrCodeArgValue, "%s: argument %d %s", function, index+1, reason).
		WithField("function", function).
		WithField("index", index)
}

// BadRow creates a row-scoped warning.
func BadRow(function, reason string) *Builder {
	return Newf(ErrCodeBadRowValue, "%s: %s", function, reason).
		Warning().
		WithField("function", function)
}

// Panic converts a recovered panic value into an internal error.
func Panic(op string, recovered interface{}) *Builder {
	b := Newf(ErrCodePanic, "internal error in %s: %v", op, recovered).
		Critical().
		WithOp(op).
		WithStack()
	if err, ok := recovered.(error); ok {
		b.WithCause(err)
	}
	return b
}

// Internal creates an internal error (for unexpected conditions).
func Internal(msg string) *Builder {
	return New(ErrCodeInternal, msg).Critical().WithStack()
}

// Extraction helpers

// GetCode extracts the error code from an error, or returns ErrCodeInternal.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetSeverity extracts the severity from an error.
func GetSeverity(err error) Severity {
	var e *Error
	if errors.As(err, &e) {
		return e.Severity
	}
	return SeverityError
}

// GetFields extracts context fields from an error.
func GetFields(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Message returns the client-facing text of err: the Message of the first
// *Error in the chain, or err.Error() for foreign errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, category string) bool {
	return GetCode(err).Category() == category
}

// Standard library compatibility

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join combines multiple errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
