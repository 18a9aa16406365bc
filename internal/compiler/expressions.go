package compiler

import (
	"github.com/libklein/nand2tetris/jackcompiler/internal/symbols"
	"github.com/libklein/nand2tetris/jackcompiler/internal/token"
	"github.com/libklein/nand2tetris/jackcompiler/internal/vm"
)

var (
	binaryOperations = map[string]vm.Operation{
		"+": vm.AddOperation,
		"-": vm.SubOperation,
		"&": vm.AndOperation,
		"|": vm.OrOperation,
		"<": vm.LtOperation,
		">": vm.GtOperation,
		"=": vm.EqOperation,
	}
	// The VM has no multiply or divide; the OS provides them.
	runtimeOperations = map[string]string{
		"*": "Math.multiply",
		"/": "Math.divide",
	}
	unaryOperations = map[string]vm.Operation{
		"-": vm.NegOperation,
		"~": vm.NotOperation,
	}
)

func isBinaryOperator(t token.Token) bool {
	if t.Type != token.Symbol {
		return false
	}
	_, native := binaryOperations[t.Terminal]
	_, runtime := runtimeOperations[t.Terminal]
	return native || runtime
}

// term (op term)*, evaluated strictly left to right.
func (e *Engine) compileExpression() error {
	if err := e.compileTerm(); err != nil {
		return err
	}
	for isBinaryOperator(e.peek()) {
		operator, err := e.next()
		if err != nil {
			return err
		}
		if err := e.compileTerm(); err != nil {
			return err
		}
		if operation, ok := binaryOperations[operator.Terminal]; ok {
			e.writer.WriteArithmetic(operation)
		} else {
			e.writer.WriteCall(runtimeOperations[operator.Terminal], 2)
		}
	}
	return nil
}

// (expression (',' expression)*)? and returns the number of expressions.
func (e *Engine) compileExpressionList() (int, error) {
	if e.peek().Is(")") {
		return 0, nil
	}
	count := 0
	for {
		if err := e.compileExpression(); err != nil {
			return count, err
		}
		count++
		if !e.peek().Is(",") {
			return count, nil
		}
		if _, err := e.next(); err != nil {
			return count, err
		}
	}
}

func (e *Engine) compileTerm() error {
	current := e.peek()
	switch current.Type {
	case token.IntegerConstant:
		return e.compileIntegerConstant()
	case token.StringConstant:
		return e.compileStringConstant()
	case token.Keyword:
		return e.compileKeywordConstant()
	case token.Identifier:
		return e.compileVarNameSubterm()
	case token.Symbol:
		if current.Is("(") {
			return e.compileParenthesized()
		}
		if operation, ok := unaryOperations[current.Terminal]; ok {
			if _, err := e.next(); err != nil {
				return err
			}
			if err := e.compileTerm(); err != nil {
				return err
			}
			e.writer.WriteArithmetic(operation)
			return nil
		}
	}
	return e.syntaxError("term", current)
}

func (e *Engine) compileIntegerConstant() error {
	constant, err := e.next()
	if err != nil {
		return err
	}
	value, err := constant.AsInt()
	if err != nil {
		return e.syntaxError("integer constant", constant)
	}
	e.writer.WritePush(vm.ConstSegment, int(value))
	return nil
}

// Strings are built at run time, one appendChar call per character.
func (e *Engine) compileStringConstant() error {
	constant, err := e.next()
	if err != nil {
		return err
	}
	chars := []rune(constant.Terminal)
	e.writer.WritePush(vm.ConstSegment, len(chars))
	e.writer.WriteCall("String.new", 1)
	for _, c := range chars {
		e.writer.WritePush(vm.ConstSegment, int(c))
		e.writer.WriteCall("String.appendChar", 2)
	}
	return nil
}

// 'true' | 'false' | 'null' | 'this'
func (e *Engine) compileKeywordConstant() error {
	current := e.peek()
	switch current.Terminal {
	case "true":
		e.writer.WritePush(vm.ConstSegment, 0)
		e.writer.WriteArithmetic(vm.NotOperation)
	case "false", "null":
		e.writer.WritePush(vm.ConstSegment, 0)
	case "this":
		e.writer.WritePush(vm.PointerSegment, 0)
	default:
		return e.syntaxError("term", current)
	}
	_, err := e.next()
	return err
}

// varName | varName '[' expression ']' | subroutineCall
func (e *Engine) compileVarNameSubterm() error {
	name, err := e.next()
	if err != nil {
		return err
	}

	switch current := e.peek(); {
	case current.Is("("), current.Is("."):
		return e.compileSubroutineCall(name)
	case current.Is("["):
		variable, err := e.resolve(name)
		if err != nil {
			return err
		}
		if err := e.compileArrayAddress(variable); err != nil {
			return err
		}
		e.writer.WritePop(vm.PointerSegment, 1)
		e.writer.WritePush(vm.ThatSegment, 0)
		return nil
	default:
		variable, err := e.resolve(name)
		if err != nil {
			return err
		}
		e.writer.WritePush(variable.Kind.Segment(), variable.Index)
		return nil
	}
}

// '[' expression ']' leaving base+index on the stack.
func (e *Engine) compileArrayAddress(array symbols.Symbol) error {
	if _, err := e.compileTerminal("["); err != nil {
		return err
	}
	if err := e.compileExpression(); err != nil {
		return err
	}
	if _, err := e.compileTerminal("]"); err != nil {
		return err
	}
	e.writer.WritePush(array.Kind.Segment(), array.Index)
	e.writer.WriteArithmetic(vm.AddOperation)
	return nil
}
