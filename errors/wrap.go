// Package errors provides the github.com/pkg/errors API plus coded, user-facing plan errors.
//
// Errors are wrapped aggressively so a logged failure always carries a stack trace. To keep
// reports readable, redundant traces with a shared caller are suppressed and typically only
// the root trace survives.
package errors

import (
	stderrors "errors" //nolint: depguard
	"fmt"
	"io"
	"runtime"

	"github.com/pkg/errors" //nolint: depguard
)

// New returns an error with the supplied message and a stack trace recorded at the call site.
func New(message string) error {
	return newStackErr(nil, message)
}

// Errorf formats according to a format specifier and returns an error with a stack trace.
func Errorf(format string, args ...interface{}) error {
	return newStackErr(nil, fmt.Sprintf(format, args...))
}

// Wrapf annotates err with a stack trace and the format specifier. Returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return newStackErr(err, fmt.Sprintf(format, args...))
}

// Wrap annotates err with a stack trace and message. Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return newStackErr(err, message)
}

// WithStack annotates err with a stack trace at the point WithStack was called.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return newStackErr(err, "")
}

// Cause returns the underlying cause of the error, if it implements Cause() error.
func Cause(err error) error {
	for err != nil {
		cause, ok := err.(causer)
		if !ok {
			break
		}
		// all stackErr errors implement Cause, so check if this is the last error
		if cause.Cause() == nil {
			break
		}
		err = cause.Cause()
	}
	return err
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

type stackErr struct {
	cause error
	stack errors.StackTrace
	msg   string
}

func newStackErr(cause error, msg string) error {
	// remove 2 frames to account for this method and the public api calling method (e.g. Wrapf)
	stack := errors.New("").(stackTracer).StackTrace()[2:]
	return &stackErr{
		cause: cause,
		stack: stack,
		msg:   msg,
	}
}

func (e *stackErr) Error() string {
	if e.cause != nil {
		if e.msg != "" {
			return e.msg + ": " + e.cause.Error()
		}
		return e.cause.Error()
	}
	return e.msg
}

func (e *stackErr) Cause() error {
	return e.cause
}

// StackTrace returns the trace for this error unless the cause already carries it, in which
// case nil is returned so reports keep a single root trace per goroutine.
func (e *stackErr) StackTrace() errors.StackTrace {
	var cStack errors.StackTrace
	if sCause, ok := e.cause.(stackTracer); ok {
		if pCause, ok := e.cause.(*stackErr); ok {
			// special case stackErr so we don't recurse into this filtering method
			cStack = pCause.stack
		} else {
			cStack = sCause.StackTrace()
		}
	}
	if cStack == nil || len(cStack) < len(e.stack) {
		return e.stack
	}
	// walk up from the bottom of the stack, comparing program counters against the cause.
	// stop before the topmost frame of this stack, it's compared separately below
	for i := 1; i < len(e.stack); i++ {
		if cStack[len(cStack)-i] != e.stack[len(e.stack)-i] {
			return e.stack
		}
	}
	// the program counters of the top frames differ even for the same call site, so compare
	// the function identity instead
	if sameFn(cStack[len(cStack)-len(e.stack)], e.stack[0]) {
		return nil
	}
	return e.stack
}

// sameFn checks if the 2 stack frames are the same function. It deliberately ignores the line
// number, which differs for the common propagation idiom:
//
// if err := thing(); err != nil {
//   return errors.WithStack(err)
// }
func sameFn(f1 errors.Frame, f2 errors.Frame) bool {
	return file(f1) == file(f2) && name(f1) == name(f2)
}

func pc(f errors.Frame) uintptr { return uintptr(f) - 1 }

func file(f errors.Frame) string {
	fn := runtime.FuncForPC(pc(f))
	if fn == nil {
		return "unknown"
	}
	file, _ := fn.FileLine(pc(f))
	return file
}

func name(f errors.Frame) string {
	fn := runtime.FuncForPC(pc(f))
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

// Unwrap provides compatibility for Go 1.13 error chains.
func (e *stackErr) Unwrap() error { return e.cause }

// nolint:errcheck
func (e *stackErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if e.cause != nil {
				fmt.Fprintf(s, "%+v", e.cause)
			}
			if e.msg != "" {
				if e.cause != nil {
					io.WriteString(s, "\n")
				}
				fmt.Fprintf(s, "%s", e.msg)
			}
			stack := e.StackTrace()
			if stack != nil {
				fmt.Fprintf(s, "%+v", stack)
			}
		} else {
			io.WriteString(s, e.Error())
		}
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}
