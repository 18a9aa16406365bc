package token

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
)

// FilteredReader strips // and /* */ comments from the underlying reader.
// Every comment is replaced with a single space followed by the newlines it spanned,
// so tokens on either side stay apart and line numbers stay stable.
// Comment markers inside string constants are passed through untouched.
type FilteredReader struct {
	reader   *bufio.Reader
	pending  []byte
	inString bool
	line     int
	err      error
}

func NewFilteredReader(r io.Reader) *FilteredReader {
	return &FilteredReader{reader: bufio.NewReader(r), line: 1}
}

func (r *FilteredReader) Read(b []byte) (int, error) {
	for len(r.pending) < len(b) && r.err == nil {
		r.err = r.step()
	}
	if len(r.pending) == 0 && r.err != nil {
		return 0, r.err
	}
	n := copy(b, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *FilteredReader) emit(char rune) {
	r.pending = utf8.AppendRune(r.pending, char)
}

func (r *FilteredReader) readRune() (rune, error) {
	char, _, err := r.reader.ReadRune()
	if err == nil && char == '\n' {
		r.line++
	}
	return char, err
}

func (r *FilteredReader) step() error {
	char, err := r.readRune()
	if err != nil {
		return err
	}

	if r.inString {
		r.emit(char)
		// A newline inside a string is left to the tokenizer to report.
		if char == '"' || char == '\n' {
			r.inString = false
		}
		return nil
	}

	switch char {
	case '"':
		r.inString = true
		r.emit(char)
		return nil
	case '/':
	default:
		r.emit(char)
		return nil
	}

	nextChar, _, err := r.reader.ReadRune()
	switch {
	case errors.Is(err, io.EOF):
		r.emit(char)
		return nil
	case err != nil:
		return err
	case nextChar == '/':
		return r.skipLineComment()
	case nextChar == '*':
		return r.skipBlockComment()
	}

	if err := r.reader.UnreadRune(); err != nil {
		return err
	}
	r.emit(char)
	return nil
}

func (r *FilteredReader) skipLineComment() error {
	r.emit(' ')
	for {
		char, err := r.readRune()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if char == '\n' {
			r.emit('\n')
			return nil
		}
	}
}

func (r *FilteredReader) skipBlockComment() error {
	startLine := r.line
	r.emit(' ')
	star := false
	for {
		char, err := r.readRune()
		if errors.Is(err, io.EOF) {
			return errs.NewLexError(startLine, "unterminated block comment")
		}
		if err != nil {
			return err
		}
		switch {
		case star && char == '/':
			return nil
		case char == '\n':
			r.emit('\n')
		}
		star = char == '*'
	}
}
