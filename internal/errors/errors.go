package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
)

// Kind classifies a failure by where it was detected
type Kind string

const (
	// KindUnauthenticated means a token was required but absent or malformed; nothing was sent.
	KindUnauthenticated Kind = "unauthenticated"
	// KindTransport covers network failures, timeouts and unreadable responses.
	KindTransport Kind = "transport"
	// KindApplication means the service answered with an error status.
	KindApplication Kind = "application"
	// KindValidation is a client-side precondition failure; nothing was sent.
	KindValidation Kind = "validation"
)

// Error is a classified client error
type Error struct {
	Kind    Kind
	Op      string // operation name, e.g. "book"
	Status  int    // HTTP status for application errors
	Message string // server payload or user-facing text
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(op, message string) *Error {
	return &Error{Kind: KindUnauthenticated, Op: op, Message: message}
}

func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func Application(op string, status int, message string) *Error {
	return &Error{Kind: KindApplication, Op: op, Status: status, Message: message}
}

func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// KindOf returns the kind of the first classified error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the HTTP status of an application error, or 0
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) && e.Kind == KindApplication {
		return e.Status
	}
	return 0
}

// MessageOf returns the payload or user text carried by a classified error, or ""
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return ""
}

// UserMessage turns err into text suitable for showing to the user.
// Application payloads are shown verbatim; transport failures get a retry hint.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	switch e.Kind {
	case KindTransport:
		return constants.MsgServiceUnreachable
	default:
		if e.Message != "" {
			return e.Message
		}
		return err.Error()
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", UserMessage(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
