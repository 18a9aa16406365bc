package token

import (
	"fmt"
	"strconv"
)

// MachineWord is the width of the target machine: integer constants must fit its positive range.
type MachineWord int16

const MaxIntegerConstant = 32767

type TokenType string

const (
	InvalidToken    TokenType = ""
	Keyword         TokenType = "keyword"
	Symbol          TokenType = "symbol"
	IntegerConstant TokenType = "integerConstant"
	StringConstant  TokenType = "stringConstant"
	Identifier      TokenType = "identifier"
)

type Token struct {
	Type     TokenType
	Terminal string
	Line     int
}

func (t Token) String() string {
	if t.Type == InvalidToken {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Terminal)
}

// Is reports whether t is the keyword or symbol terminal.
func (t Token) Is(terminal string) bool {
	return (t.Type == Keyword || t.Type == Symbol) && t.Terminal == terminal
}

func (t Token) AsInt() (MachineWord, error) {
	word, err := strconv.Atoi(t.Terminal)
	// < 0 as - is an operator
	if err != nil || word > MaxIntegerConstant || word < 0 {
		return 0, fmt.Errorf("cannot parse %q as 16 bit int", t.Terminal)
	}
	return MachineWord(word), nil
}
