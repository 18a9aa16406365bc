package errs

import "fmt"

func linePrefix(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf("line %d: ", line)
}

// LexError is raised for input the tokenizer cannot split into tokens.
type LexError struct {
	Line    int
	message string
	// context names where the error happened, outermost first.
	context string
}

func NewLexError(line int, message string) *LexError {
	return &LexError{Line: line, message: message}
}

func (a LexError) Error() string {
	if a.context != "" {
		return a.context + ": " + linePrefix(a.Line) + a.message
	}
	return linePrefix(a.Line) + a.message
}

func (a LexError) Extend(message string) error {
	if a.context != "" {
		message = fmtExtend(errorString(a.context), message)
	}
	return &LexError{Line: a.Line, message: a.message, context: message}
}

func (a LexError) Is(target error) bool {
	switch target.(type) {
	case LexError, *LexError:
		return true
	}
	return false
}

// SyntaxError means the current token is not the terminal or construct the grammar requires.
type SyntaxError struct {
	Line     int
	Expected string
	Got      string
}

func NewSyntaxError(line int, expected, got string) *SyntaxError {
	return &SyntaxError{Line: line, Expected: expected, Got: got}
}

func (a SyntaxError) Error() string {
	return fmt.Sprintf("%sexpected %s, got %q", linePrefix(a.Line), a.Expected, a.Got)
}

func (a SyntaxError) Is(target error) bool {
	switch target.(type) {
	case SyntaxError, *SyntaxError:
		return true
	}
	return false
}

// UndefinedSymbolError is returned when an identifier is neither in procedure nor in class scope.
type UndefinedSymbolError struct {
	Line int
	Name string
}

func NewUndefinedSymbolError(name string) *UndefinedSymbolError {
	return &UndefinedSymbolError{Name: name}
}

func (a UndefinedSymbolError) Error() string {
	return fmt.Sprintf("%sundefined identifier %q", linePrefix(a.Line), a.Name)
}

func (a UndefinedSymbolError) Is(target error) bool {
	switch target.(type) {
	case UndefinedSymbolError, *UndefinedSymbolError:
		return true
	}
	return false
}

func (a UndefinedSymbolError) locate(line int) error {
	if a.Line == 0 {
		a.Line = line
	}
	return &a
}

// RedefinitionError is returned when a name is declared twice in the same scope.
type RedefinitionError struct {
	Line  int
	Name  string
	Scope string
}

func NewRedefinitionError(name, scope string) *RedefinitionError {
	return &RedefinitionError{Name: name, Scope: scope}
}

func (a RedefinitionError) Error() string {
	return fmt.Sprintf("%s%q is already defined in %s scope", linePrefix(a.Line), a.Name, a.Scope)
}

func (a RedefinitionError) Is(target error) bool {
	switch target.(type) {
	case RedefinitionError, *RedefinitionError:
		return true
	}
	return false
}

func (a RedefinitionError) locate(line int) error {
	if a.Line == 0 {
		a.Line = line
	}
	return &a
}

type errorString string

func (e errorString) Error() string {
	return string(e)
}
