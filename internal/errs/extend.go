package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

type IExtend interface {
	Extend(message string) error
}

// Extend prefixes err with message, keeping the concrete error type when it knows how to extend itself.
func Extend(err error, message string) error {
	if ex, ok := err.(IExtend); ok {
		return ex.Extend(message)
	}
	return errors.Wrap(err, message)
}

func fmtExtend(self error, message string) string {
	return fmt.Sprintf("%s: %s", message, self)
}

type locator interface {
	locate(line int) error
}

// AtLine attaches a source line to a compile error that does not carry one yet.
// Errors of other types are returned unchanged.
func AtLine(err error, line int) error {
	if l, ok := err.(locator); ok {
		return l.locate(line)
	}
	return err
}

// IsCompileError reports whether err (or anything it wraps) belongs to the compiler error taxonomy.
func IsCompileError(err error) bool {
	return errors.Is(err, LexError{}) ||
		errors.Is(err, SyntaxError{}) ||
		errors.Is(err, UndefinedSymbolError{}) ||
		errors.Is(err, RedefinitionError{})
}
