package vm

import (
	"io"
	"strconv"
)

type Segment string

const (
	InvalidSegment  Segment = ""
	ConstSegment    Segment = "constant"
	ArgumentSegment Segment = "argument"
	LocalSegment    Segment = "local"
	StaticSegment   Segment = "static"
	ThisSegment     Segment = "this"
	ThatSegment     Segment = "that"
	PointerSegment  Segment = "pointer"
	TempSegment     Segment = "temp"
)

type Operation string

const (
	InvalidOperation Operation = ""
	AddOperation     Operation = "add"
	SubOperation     Operation = "sub"
	NegOperation     Operation = "neg"
	EqOperation      Operation = "eq"
	GtOperation      Operation = "gt"
	LtOperation      Operation = "lt"
	AndOperation     Operation = "and"
	OrOperation      Operation = "or"
	NotOperation     Operation = "not"
)

// Writer appends VM instructions to the output, one per line, in call order.
// It does not check what it writes. The first write error sticks: later
// instructions are dropped and Err reports it.
type Writer struct {
	output io.Writer
	count  int
	err    error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{output: w}
}

func (w *Writer) WriteCommand(command string) {
	if w.err != nil {
		return
	}
	if _, err := io.WriteString(w.output, command+"\n"); err != nil {
		w.err = err
		return
	}
	w.count++
}

func (w *Writer) WritePush(segment Segment, index int) {
	w.WriteCommand("push " + string(segment) + " " + strconv.Itoa(index))
}

func (w *Writer) WritePop(segment Segment, index int) {
	w.WriteCommand("pop " + string(segment) + " " + strconv.Itoa(index))
}

func (w *Writer) WriteArithmetic(operation Operation) {
	w.WriteCommand(string(operation))
}

func (w *Writer) WriteLabel(label string) {
	w.WriteCommand("label " + label)
}

func (w *Writer) WriteGoto(label string) {
	w.WriteCommand("goto " + label)
}

func (w *Writer) WriteIf(label string) {
	w.WriteCommand("if-goto " + label)
}

func (w *Writer) WriteCall(name string, nargs int) {
	w.WriteCommand("call " + name + " " + strconv.Itoa(nargs))
}

func (w *Writer) WriteFunction(name string, nlocals int) {
	w.WriteCommand("function " + name + " " + strconv.Itoa(nlocals))
}

func (w *Writer) WriteReturn() {
	w.WriteCommand("return")
}

// Count is the number of instructions written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Err() error {
	return w.err
}
