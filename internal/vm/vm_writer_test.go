package vm

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFormats(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	w.WriteFunction("Main.main", 2)
	w.WritePush(ConstSegment, 7)
	w.WritePop(LocalSegment, 1)
	w.WriteArithmetic(NegOperation)
	w.WriteLabel("WHILE_EXP0")
	w.WriteIf("WHILE_END0")
	w.WriteGoto("WHILE_EXP0")
	w.WriteCall("Math.multiply", 2)
	w.WriteReturn()

	require.NoError(t, w.Err())
	assert.Equal(t, 9, w.Count())
	assert.Equal(t, "function Main.main 2\n"+
		"push constant 7\n"+
		"pop local 1\n"+
		"neg\n"+
		"label WHILE_EXP0\n"+
		"if-goto WHILE_END0\n"+
		"goto WHILE_EXP0\n"+
		"call Math.multiply 2\n"+
		"return\n", out.String())
}

type failingWriter struct {
	left int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.left == 0 {
		return 0, io.ErrShortWrite
	}
	f.left--
	return len(p), nil
}

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(&failingWriter{left: 1})
	w.WriteReturn()
	w.WriteReturn()
	w.WriteReturn()

	require.ErrorIs(t, w.Err(), io.ErrShortWrite)
	assert.Equal(t, 1, w.Count())
}
