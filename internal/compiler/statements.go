package compiler

import (
	"strconv"

	"github.com/libklein/nand2tetris/jackcompiler/internal/vm"
)

func (e *Engine) compileStatements() error {
	for {
		var err error
		switch current := e.peek(); {
		case current.Is("let"):
			err = e.compileLetStatement()
		case current.Is("if"):
			err = e.compileIfStatement()
		case current.Is("while"):
			err = e.compileWhileStatement()
		case current.Is("do"):
			err = e.compileDoStatement()
		case current.Is("return"):
			err = e.compileReturnStatement()
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// 'let' varName ('[' expression ']')? '=' expression ';'
func (e *Engine) compileLetStatement() error {
	if _, err := e.compileTerminal("let"); err != nil {
		return err
	}
	name, err := e.compileIdentifier("variable name")
	if err != nil {
		return err
	}
	target, err := e.resolve(name)
	if err != nil {
		return err
	}

	isArray := e.peek().Is("[")
	if isArray {
		if err := e.compileArrayAddress(target); err != nil {
			return err
		}
	}
	if _, err := e.compileTerminal("="); err != nil {
		return err
	}
	if err := e.compileExpression(); err != nil {
		return err
	}
	if _, err := e.compileTerminal(";"); err != nil {
		return err
	}

	if isArray {
		// The value sits on top of the address: park it while pointer 1 is rebased.
		e.writer.WritePop(vm.TempSegment, 0)
		e.writer.WritePop(vm.PointerSegment, 1)
		e.writer.WritePush(vm.TempSegment, 0)
		e.writer.WritePop(vm.ThatSegment, 0)
	} else {
		e.writer.WritePop(target.Kind.Segment(), target.Index)
	}
	return nil
}

// 'if' '(' expression ')' '{' statements '}' ('else' '{' statements '}')?
func (e *Engine) compileIfStatement() error {
	if _, err := e.compileTerminal("if"); err != nil {
		return err
	}
	if err := e.compileParenthesized(); err != nil {
		return err
	}

	index := strconv.Itoa(e.subroutine.ifCounter)
	e.subroutine.ifCounter++
	trueLabel, falseLabel, endLabel := "IF_TRUE"+index, "IF_FALSE"+index, "IF_END"+index

	e.writer.WriteIf(trueLabel)
	e.writer.WriteGoto(falseLabel)
	e.writer.WriteLabel(trueLabel)
	if err := e.compileBlock(); err != nil {
		return err
	}

	if !e.peek().Is("else") {
		e.writer.WriteLabel(falseLabel)
		return nil
	}
	if _, err := e.next(); err != nil {
		return err
	}
	e.writer.WriteGoto(endLabel)
	e.writer.WriteLabel(falseLabel)
	if err := e.compileBlock(); err != nil {
		return err
	}
	e.writer.WriteLabel(endLabel)
	return nil
}

// 'while' '(' expression ')' '{' statements '}'
func (e *Engine) compileWhileStatement() error {
	if _, err := e.compileTerminal("while"); err != nil {
		return err
	}

	index := strconv.Itoa(e.subroutine.whileCounter)
	e.subroutine.whileCounter++
	expLabel, endLabel := "WHILE_EXP"+index, "WHILE_END"+index

	e.writer.WriteLabel(expLabel)
	if err := e.compileParenthesized(); err != nil {
		return err
	}
	e.writer.WriteArithmetic(vm.NotOperation)
	e.writer.WriteIf(endLabel)
	if err := e.compileBlock(); err != nil {
		return err
	}
	e.writer.WriteGoto(expLabel)
	e.writer.WriteLabel(endLabel)
	return nil
}

// 'do' subroutineCall ';'
func (e *Engine) compileDoStatement() error {
	if _, err := e.compileTerminal("do"); err != nil {
		return err
	}
	name, err := e.compileIdentifier("subroutine call")
	if err != nil {
		return err
	}
	if !e.peek().Is("(") && !e.peek().Is(".") {
		return e.syntaxError(`"(" or "."`, e.peek())
	}
	if err := e.compileSubroutineCall(name); err != nil {
		return err
	}
	if _, err := e.compileTerminal(";"); err != nil {
		return err
	}
	// Drop the return value.
	e.writer.WritePop(vm.TempSegment, 0)
	return nil
}

// 'return' expression? ';'
func (e *Engine) compileReturnStatement() error {
	if _, err := e.compileTerminal("return"); err != nil {
		return err
	}
	if e.peek().Is(";") {
		e.writer.WritePush(vm.ConstSegment, 0)
	} else if err := e.compileExpression(); err != nil {
		return err
	}
	if _, err := e.compileTerminal(";"); err != nil {
		return err
	}
	e.writer.WriteReturn()
	return nil
}

// '(' expression ')'
func (e *Engine) compileParenthesized() error {
	if _, err := e.compileTerminal("("); err != nil {
		return err
	}
	if err := e.compileExpression(); err != nil {
		return err
	}
	_, err := e.compileTerminal(")")
	return err
}

// '{' statements '}'
func (e *Engine) compileBlock() error {
	if _, err := e.compileTerminal("{"); err != nil {
		return err
	}
	if err := e.compileStatements(); err != nil {
		return err
	}
	_, err := e.compileTerminal("}")
	return err
}
