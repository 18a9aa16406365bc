package compiler

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
	"github.com/libklein/nand2tetris/jackcompiler/internal/symbols"
	"github.com/libklein/nand2tetris/jackcompiler/internal/token"
	"github.com/libklein/nand2tetris/jackcompiler/internal/vm"
)

// osClasses are the classes of the Jack operating system. Calls qualified with
// one of them are always accepted.
var osClasses = []string{"Math", "String", "Array", "Output", "Screen", "Keyboard", "Memory", "Sys"}

// TokenScanner yields one token of lookahead: Token is the next unconsumed token
// and Scan drops it in favour of the one after.
type TokenScanner interface {
	Token() token.Token
	Err() error
	Scan() bool
}

type subroutineKind string

const (
	constructorKind subroutineKind = "constructor"
	functionKind    subroutineKind = "function"
	methodKind      subroutineKind = "method"
)

// subroutineContext is the state of the subroutine being compiled. It is replaced,
// never patched, when the next subroutine starts.
type subroutineContext struct {
	name         string
	kind         subroutineKind
	ifCounter    int
	whileCounter int
}

// Engine compiles one class in a single pass, writing VM code while it parses.
type Engine struct {
	tokens       TokenScanner
	writer       *vm.Writer
	symbolTable  *symbols.SymbolTable
	logger       *zap.Logger
	knownClasses map[string]struct{}

	className   string
	subroutine  subroutineContext
	subroutines int
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithKnownClasses adds classes that may be used as call qualifiers, next to
// the OS classes and the class being compiled.
func WithKnownClasses(classes ...string) Option {
	return func(e *Engine) {
		for _, class := range classes {
			e.knownClasses[class] = struct{}{}
		}
	}
}

func NewEngine(tokens TokenScanner, writer *vm.Writer, opts ...Option) *Engine {
	e := &Engine{
		tokens:       tokens,
		writer:       writer,
		logger:       zap.NewNop(),
		knownClasses: make(map[string]struct{}),
	}
	for _, class := range osClasses {
		e.knownClasses[class] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	e.symbolTable = symbols.NewSymbolTable(e.logger)
	return e
}

// Result summarises a compiled class.
type Result struct {
	ClassName    string
	Subroutines  int
	Instructions int
}

// Compile reads one class from r and writes its VM code to w. On error the
// output written so far is incomplete and must be discarded.
func Compile(r io.Reader, w io.Writer, opts ...Option) (Result, error) {
	writer := vm.NewWriter(w)
	engine := NewEngine(token.NewTokenizer(r), writer, opts...)
	if err := engine.CompileClass(); err != nil {
		return Result{ClassName: engine.className}, err
	}
	return Result{
		ClassName:    engine.className,
		Subroutines:  engine.subroutines,
		Instructions: writer.Count(),
	}, nil
}

// CompileClass compiles the whole token stream, which must hold exactly one class.
func (e *Engine) CompileClass() error {
	if !e.tokens.Scan() && e.tokens.Err() != nil {
		return e.tokens.Err()
	}
	e.symbolTable.ResetClass()
	e.subroutines = 0

	if err := e.compileClass(); err != nil {
		return err
	}
	if next := e.peek(); next.Type != token.InvalidToken {
		return e.syntaxError("end of input after class "+e.className, next)
	}
	if err := e.writer.Err(); err != nil {
		return errors.Wrap(err, "failed to write VM code")
	}
	return nil
}

func (e *Engine) peek() token.Token {
	return e.tokens.Token()
}

// next consumes the lookahead token.
func (e *Engine) next() (token.Token, error) {
	current := e.tokens.Token()
	if !e.tokens.Scan() && e.tokens.Err() != nil {
		return current, e.tokens.Err()
	}
	return current, nil
}

func (e *Engine) syntaxError(expected string, got token.Token) error {
	terminal := got.Terminal
	if got.Type == token.InvalidToken {
		terminal = "EOF"
	}
	return errs.NewSyntaxError(got.Line, expected, terminal)
}

func (e *Engine) compileTerminal(expectation string) (token.Token, error) {
	if current := e.peek(); !current.Is(expectation) {
		return current, e.syntaxError(`"`+expectation+`"`, current)
	}
	return e.next()
}

func (e *Engine) compileIdentifier(what string) (token.Token, error) {
	if current := e.peek(); current.Type != token.Identifier {
		return current, e.syntaxError(what, current)
	}
	return e.next()
}

func (e *Engine) resolve(name token.Token) (symbols.Symbol, error) {
	symbol, err := e.symbolTable.Resolve(name.Terminal)
	return symbol, errs.AtLine(err, name.Line)
}

func (e *Engine) define(name token.Token, variableType string, kind symbols.Kind) error {
	_, err := e.symbolTable.Define(name.Terminal, variableType, kind)
	return errs.AtLine(err, name.Line)
}

func (e *Engine) isKnownClass(name string) bool {
	_, ok := e.knownClasses[name]
	return ok
}
