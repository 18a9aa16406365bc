package symbols

import "github.com/libklein/nand2tetris/jackcompiler/internal/vm"

// Kind is the storage kind of a variable. It decides the scope, the segment and the index counter.
type Kind string

const (
	InvalidKind Kind = ""
	Static      Kind = "static"
	Field       Kind = "field"
	Argument    Kind = "argument"
	Local       Kind = "local"
)

type Scope string

const (
	ProcedureScope Scope = "procedure"
	ClassScope     Scope = "class"
)

// Scope returns the scope symbols of this kind are declared in.
func (k Kind) Scope() Scope {
	switch k {
	case Static, Field:
		return ClassScope
	default:
		return ProcedureScope
	}
}

// Segment maps the storage kind to the VM segment holding its values.
func (k Kind) Segment() vm.Segment {
	switch k {
	case Static:
		return vm.StaticSegment
	case Field:
		return vm.ThisSegment
	case Argument:
		return vm.ArgumentSegment
	case Local:
		return vm.LocalSegment
	default:
		return vm.InvalidSegment
	}
}

type Symbol struct {
	Name         string
	Kind         Kind
	VariableType string
	Index        int
}
