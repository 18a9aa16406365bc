package compiler

import (
	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
	"github.com/libklein/nand2tetris/jackcompiler/internal/symbols"
	"github.com/libklein/nand2tetris/jackcompiler/internal/token"
	"github.com/libklein/nand2tetris/jackcompiler/internal/vm"
)

type callKind int

const (
	// name(...): method of the current class on the current object.
	selfMethodCall callKind = iota
	// variable.name(...): method of the variable's class, the variable is the receiver.
	boundMethodCall
	// Class.name(...): function or constructor, no receiver.
	qualifiedFunctionCall
)

type callSite struct {
	kind     callKind
	target   string
	receiver symbols.Symbol
}

// argumentCount is the number of arguments the call passes, receiver included.
func (c callSite) argumentCount(explicit int) int {
	if c.kind == qualifiedFunctionCall {
		return explicit
	}
	return explicit + 1
}

// resolveCall classifies the call starting with first and consumes the
// optional '.' subroutineName. A qualifier that is neither a variable nor a
// known class cannot be classified and is rejected.
func (e *Engine) resolveCall(first token.Token) (callSite, error) {
	if !e.peek().Is(".") {
		return callSite{kind: selfMethodCall, target: e.className + "." + first.Terminal}, nil
	}
	if _, err := e.next(); err != nil {
		return callSite{}, err
	}
	name, err := e.compileIdentifier("subroutine name")
	if err != nil {
		return callSite{}, err
	}

	if variable, err := e.symbolTable.Resolve(first.Terminal); err == nil {
		return callSite{
			kind:     boundMethodCall,
			target:   variable.VariableType + "." + name.Terminal,
			receiver: variable,
		}, nil
	}
	if e.isKnownClass(first.Terminal) {
		return callSite{kind: qualifiedFunctionCall, target: first.Terminal + "." + name.Terminal}, nil
	}
	return callSite{}, errs.AtLine(errs.NewUndefinedSymbolError(first.Terminal), first.Line)
}

// subroutineName '(' expressionList ')' | (className|varName) '.' subroutineName '(' expressionList ')'
// with the leading name already consumed.
func (e *Engine) compileSubroutineCall(first token.Token) error {
	site, err := e.resolveCall(first)
	if err != nil {
		return err
	}

	switch site.kind {
	case selfMethodCall:
		e.writer.WritePush(vm.PointerSegment, 0)
	case boundMethodCall:
		e.writer.WritePush(site.receiver.Kind.Segment(), site.receiver.Index)
	}

	if _, err := e.compileTerminal("("); err != nil {
		return err
	}
	explicit, err := e.compileExpressionList()
	if err != nil {
		return err
	}
	if _, err := e.compileTerminal(")"); err != nil {
		return err
	}
	e.writer.WriteCall(site.target, site.argumentCount(explicit))
	return nil
}
