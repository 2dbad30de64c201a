package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed print or directory operation.
type ErrorKind int

const (
	KindInvalidText ErrorKind = iota + 1
	KindPrinterNotFound
	KindCupsError
	KindSystemError
)

var (
	ErrInvalidText     = errors.New("invalid text")
	ErrPrinterNotFound = errors.New("printer not found")
	ErrCupsError       = errors.New("cups error")
	ErrSystemError     = errors.New("system error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidText:
		return "invalid_text"
	case KindPrinterNotFound:
		return "printer_not_found"
	case KindCupsError:
		return "cups_error"
	case KindSystemError:
		return "system_error"
	default:
		return "unknown"
	}
}

func (k ErrorKind) label() string {
	switch k {
	case KindInvalidText:
		return "Invalid text"
	case KindPrinterNotFound:
		return "Printer not found"
	case KindCupsError:
		return "CUPS error"
	case KindSystemError:
		return "System error"
	default:
		return "Error"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidText:
		return ErrInvalidText
	case KindPrinterNotFound:
		return ErrPrinterNotFound
	case KindCupsError:
		return ErrCupsError
	case KindSystemError:
		return ErrSystemError
	default:
		return nil
	}
}

// PrintError is the typed failure returned by PrintService and Directory.
// Message carries the raw diagnostic, for CUPS errors the gateway's stderr.
type PrintError struct {
	Kind    ErrorKind
	Message string
}

func (e *PrintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.label(), e.Message)
}

// Is lets errors.Is match a PrintError against the Err* sentinels.
func (e *PrintError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

func invalidText(msg string) error {
	return &PrintError{Kind: KindInvalidText, Message: msg}
}

func printerNotFound(msg string) error {
	return &PrintError{Kind: KindPrinterNotFound, Message: msg}
}

func cupsError(stderr string) error {
	return &PrintError{Kind: KindCupsError, Message: stderr}
}

func systemError(format string, args ...any) error {
	return &PrintError{Kind: KindSystemError, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 when err is not a PrintError.
func KindOf(err error) ErrorKind {
	var pe *PrintError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
