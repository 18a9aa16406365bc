package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexError(t *testing.T) {
	require.EqualError(t, NewLexError(3, "unterminated string constant"), "line 3: unterminated string constant")
	require.EqualError(t, Extend(NewLexError(3, "a"), "b"), "b: line 3: a")
	require.EqualError(t, Extend(Extend(NewLexError(3, "a"), "b"), "c"), "c: b: line 3: a")
	require.EqualError(t, NewLexError(0, "a"), "a")
}

func TestSyntaxError(t *testing.T) {
	require.EqualError(t, NewSyntaxError(7, `";"`, "}"), `line 7: expected ";", got "}"`)
}

func TestAtLine(t *testing.T) {
	err := AtLine(NewUndefinedSymbolError("x"), 12)
	require.EqualError(t, err, `line 12: undefined identifier "x"`)

	// A known line is never overwritten.
	err = AtLine(err, 40)
	require.EqualError(t, err, `line 12: undefined identifier "x"`)

	err = AtLine(NewRedefinitionError("y", "class"), 2)
	require.EqualError(t, err, `line 2: "y" is already defined in class scope`)

	plain := errors.New("plain")
	assert.Equal(t, plain, AtLine(plain, 5))
}

func TestIs(t *testing.T) {
	wrapped := errors.Wrap(NewUndefinedSymbolError("x"), "compile Main.jack")
	assert.True(t, errors.Is(wrapped, UndefinedSymbolError{}))
	assert.False(t, errors.Is(wrapped, SyntaxError{}))
	assert.True(t, IsCompileError(wrapped))

	assert.True(t, errors.Is(Extend(NewLexError(1, "a"), "b"), LexError{}))
	assert.True(t, errors.Is(NewRedefinitionError("a", "procedure"), RedefinitionError{}))
	assert.False(t, IsCompileError(errors.New("disk full")))
}
