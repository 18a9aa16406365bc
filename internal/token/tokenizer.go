package token

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
)

var (
	keywordRegex         = longest(`^(class|constructor|function|method|field|static|var|int|char|boolean|void|true|false|null|this|let|do|if|else|while|return)`)
	symbolRegex          = longest(`^[\{\}\[\]\(\)\.\,\;\+\-\*\/\&\|\<\>\=\~]`)
	integerConstantRegex = longest(`^\d+`)
	identifierRegex      = longest(`^[a-zA-Z_]\w*`)

	// Tried in priority order; on equal match length the earlier entry wins.
	regexes = []struct {
		regex     *regexp.Regexp
		tokenType TokenType
	}{
		{keywordRegex, Keyword},
		{symbolRegex, Symbol},
		{integerConstantRegex, IntegerConstant},
		{identifierRegex, Identifier},
	}
)

func longest(expr string) *regexp.Regexp {
	regex := regexp.MustCompile(expr)
	regex.Longest()
	return regex
}

// Tokenizer splits Jack source into tokens. It is consumed front to back;
// to start over, build a new Tokenizer over the same source.
type Tokenizer struct {
	scanner   *bufio.Scanner
	nextToken Token
	line      int

	splitType TokenType
	splitLine int
	splitText string
}

func NewTokenizer(r io.Reader) *Tokenizer {
	t := &Tokenizer{line: 1}
	t.scanner = bufio.NewScanner(NewFilteredReader(r))
	t.scanner.Split(t.splitToken)
	return t
}

// matchToken returns the end offset and type of the token at the start of data.
func matchToken(data []byte) (int, TokenType) {
	matchEnd, matchType := 0, InvalidToken
	for _, candidate := range regexes {
		if match := candidate.regex.FindIndex(data); match != nil && match[1] > matchEnd {
			matchEnd, matchType = match[1], candidate.tokenType
		}
	}
	return matchEnd, matchType
}

// checkStringConstant rejects strings whose length or characters do not fit a
// constant of the target machine.
func checkStringConstant(text string) error {
	length := 0
	for _, char := range text {
		if char > MaxIntegerConstant {
			return errors.Errorf("character %q in string constant out of range 0..%d", char, MaxIntegerConstant)
		}
		length++
	}
	if length > MaxIntegerConstant {
		return errors.Errorf("string constant of %d characters longer than %d", length, MaxIntegerConstant)
	}
	return nil
}

func (t *Tokenizer) splitToken(data []byte, atEOF bool) (advance int, token []byte, err error) {
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	skipped := len(data) - len(trimmed)
	if len(trimmed) == 0 {
		t.line += bytes.Count(data, []byte{'\n'})
		return len(data), nil, nil
	}
	line := t.line + bytes.Count(data[:skipped], []byte{'\n'})

	if trimmed[0] == '"' {
		end := bytes.IndexAny(trimmed[1:], "\"\n")
		switch {
		case end < 0 && !atEOF:
			return 0, nil, nil
		case end < 0 || trimmed[1+end] == '\n':
			return 0, nil, errs.NewLexError(line, "unterminated string constant")
		}
		text := string(trimmed[1 : 1+end])
		if err := checkStringConstant(text); err != nil {
			return 0, nil, errs.NewLexError(line, err.Error())
		}
		t.line = line
		t.splitType, t.splitLine, t.splitText = StringConstant, line, text
		return skipped + end + 2, trimmed[:end+2], nil
	}

	matchEnd, matchType := matchToken(trimmed)
	if matchType == InvalidToken {
		char, _ := utf8.DecodeRune(trimmed)
		return 0, nil, errs.NewLexError(line, "unexpected character "+string(char))
	}
	// The token may continue in data the scanner has not read yet.
	if matchEnd == len(trimmed) && !atEOF {
		return 0, nil, nil
	}

	text := string(trimmed[:matchEnd])
	if matchType == IntegerConstant {
		if _, err := (Token{Terminal: text}).AsInt(); err != nil {
			return 0, nil, errs.NewLexError(line, "integer constant "+text+" out of range 0..32767")
		}
	}

	t.line = line
	t.splitType, t.splitLine, t.splitText = matchType, line, text
	return skipped + matchEnd, trimmed[:matchEnd], nil
}

func (t *Tokenizer) Err() error {
	err := t.scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return errs.NewLexError(t.line, fmt.Sprintf("token longer than %d bytes", bufio.MaxScanTokenSize))
	}
	return err
}

// Scan advances to the next token. It returns false at the end of input or on a lex error;
// Err tells the two apart.
func (t *Tokenizer) Scan() bool {
	if !t.scanner.Scan() {
		t.nextToken = Token{Line: t.line}
		return false
	}
	t.nextToken = Token{Type: t.splitType, Terminal: t.splitText, Line: t.splitLine}
	return true
}

func (t *Tokenizer) Token() Token {
	return t.nextToken
}

// All drains the tokenizer.
func All(r io.Reader) ([]Token, error) {
	t := NewTokenizer(r)
	var tokens []Token
	for t.Scan() {
		tokens = append(tokens, t.Token())
	}
	return tokens, t.Err()
}
