package compiler

import (
	"go.uber.org/zap"

	"github.com/libklein/nand2tetris/jackcompiler/internal/symbols"
	"github.com/libklein/nand2tetris/jackcompiler/internal/token"
	"github.com/libklein/nand2tetris/jackcompiler/internal/vm"
)

// 'class' className '{' classVarDec* subroutineDec* '}'
func (e *Engine) compileClass() error {
	if _, err := e.compileTerminal("class"); err != nil {
		return err
	}
	name, err := e.compileIdentifier("class name")
	if err != nil {
		return err
	}
	e.className = name.Terminal
	e.knownClasses[e.className] = struct{}{}
	e.logger.Debug("Compiling class", zap.String("class", e.className))

	if _, err := e.compileTerminal("{"); err != nil {
		return err
	}
	for e.peek().Is("static") || e.peek().Is("field") {
		if err := e.compileClassVarDec(); err != nil {
			return err
		}
	}
	for e.peek().Is("constructor") || e.peek().Is("function") || e.peek().Is("method") {
		if err := e.compileSubroutineDec(); err != nil {
			return err
		}
	}
	_, err = e.compileTerminal("}")
	return err
}

// ('static'|'field') type varName (',' varName)* ';'
func (e *Engine) compileClassVarDec() error {
	kindToken, err := e.next()
	if err != nil {
		return err
	}
	kind := symbols.Field
	if kindToken.Terminal == "static" {
		kind = symbols.Static
	}
	return e.compileVarNames(kind)
}

// 'var' type varName (',' varName)* ';'
func (e *Engine) compileVarDec() error {
	if _, err := e.compileTerminal("var"); err != nil {
		return err
	}
	return e.compileVarNames(symbols.Local)
}

func (e *Engine) compileVarNames(kind symbols.Kind) error {
	variableType, err := e.compileType()
	if err != nil {
		return err
	}
	for {
		name, err := e.compileIdentifier("variable name")
		if err != nil {
			return err
		}
		if err := e.define(name, variableType, kind); err != nil {
			return err
		}
		if !e.peek().Is(",") {
			break
		}
		if _, err := e.next(); err != nil {
			return err
		}
	}
	_, err = e.compileTerminal(";")
	return err
}

// 'int' | 'char' | 'boolean' | className
func (e *Engine) compileType() (string, error) {
	current := e.peek()
	if current.Type != token.Identifier && !current.Is("int") && !current.Is("char") && !current.Is("boolean") {
		return "", e.syntaxError("type", current)
	}
	if _, err := e.next(); err != nil {
		return "", err
	}
	return current.Terminal, nil
}

// ('constructor'|'function'|'method') ('void'|type) subroutineName '(' parameterList ')' subroutineBody
func (e *Engine) compileSubroutineDec() error {
	kindToken, err := e.next()
	if err != nil {
		return err
	}
	if e.peek().Is("void") {
		_, err = e.next()
	} else {
		_, err = e.compileType()
	}
	if err != nil {
		return err
	}
	name, err := e.compileIdentifier("subroutine name")
	if err != nil {
		return err
	}

	e.symbolTable.ResetProcedure()
	e.subroutine = subroutineContext{
		name: e.className + "." + name.Terminal,
		kind: subroutineKind(kindToken.Terminal),
	}
	e.subroutines++

	// The receiver is argument 0 of every method.
	if e.subroutine.kind == methodKind {
		receiver := token.Token{Type: token.Keyword, Terminal: "this", Line: kindToken.Line}
		if err := e.define(receiver, e.className, symbols.Argument); err != nil {
			return err
		}
	}

	if _, err := e.compileTerminal("("); err != nil {
		return err
	}
	if err := e.compileParameterList(); err != nil {
		return err
	}
	if _, err := e.compileTerminal(")"); err != nil {
		return err
	}
	return e.compileSubroutineBody()
}

// ((type varName) (',' type varName)*)?
func (e *Engine) compileParameterList() error {
	if e.peek().Is(")") {
		return nil
	}
	for {
		variableType, err := e.compileType()
		if err != nil {
			return err
		}
		name, err := e.compileIdentifier("parameter name")
		if err != nil {
			return err
		}
		if err := e.define(name, variableType, symbols.Argument); err != nil {
			return err
		}
		if !e.peek().Is(",") {
			return nil
		}
		if _, err := e.next(); err != nil {
			return err
		}
	}
}

// '{' varDec* statements '}'
func (e *Engine) compileSubroutineBody() error {
	if _, err := e.compileTerminal("{"); err != nil {
		return err
	}
	for e.peek().Is("var") {
		if err := e.compileVarDec(); err != nil {
			return err
		}
	}

	locals := e.symbolTable.Count(symbols.Local)
	e.logger.Debug("Compiling subroutine",
		zap.String("name", e.subroutine.name),
		zap.String("kind", string(e.subroutine.kind)),
		zap.Int("locals", locals))
	e.writer.WriteFunction(e.subroutine.name, locals)
	e.compilePrologue()

	if err := e.compileStatements(); err != nil {
		return err
	}
	_, err := e.compileTerminal("}")
	return err
}

// compilePrologue binds the this segment: constructors allocate the object,
// methods take it from the receiver argument.
func (e *Engine) compilePrologue() {
	switch e.subroutine.kind {
	case constructorKind:
		e.writer.WritePush(vm.ConstSegment, e.symbolTable.Count(symbols.Field))
		e.writer.WriteCall("Memory.alloc", 1)
		e.writer.WritePop(vm.PointerSegment, 0)
	case methodKind:
		e.writer.WritePush(vm.ArgumentSegment, 0)
		e.writer.WritePop(vm.PointerSegment, 0)
	}
}
