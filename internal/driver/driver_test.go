package driver

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
)

const (
	mainSource = `class Main {
    function void main() {
        var Square square;
        let square = Square.new(10);
        do square.draw();
        return;
    }
}`
	squareSource = `class Square {
    field int size;
    constructor Square new(int asize) { let size = asize; return this; }
    method void draw() { do Screen.drawRectangle(0, 0, size, size); return; }
}`
	brokenSource = `class Broken { function void f() { let x = 1; return; } }`
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
	}
	return fs
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	return string(b)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/src/Main.vm", OutputPath("/src/Main.jack", ""))
	assert.Equal(t, "/out/Main.vm", OutputPath("/src/Main.jack", "/out"))
	assert.Equal(t, "Main", ClassName("/src/Main.jack"))
}

func TestCollectFiles(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/p/Square10.jack":      "",
		"/p/Square2.jack":       "",
		"/p/Main.jack":          "",
		"/p/notes.txt":          "",
		"/p/lib/Util.jack":      "",
		"/p/lib/deep/Deep.jack": "",
	})

	files, err := CollectFiles(fs, "/p")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/Main.jack", "/p/Square2.jack", "/p/Square10.jack"}, files)

	files, err = CollectFiles(fs, "/p/lib/Util.jack")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/lib/Util.jack"}, files)

	files, err = CollectFiles(fs, "/p/**/*.jack")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/p/Main.jack",
		"/p/Square2.jack",
		"/p/Square10.jack",
		"/p/lib/Util.jack",
		"/p/lib/deep/Deep.jack",
	}, files)

	files, err = CollectFiles(fs, "/p/lib/*.jack")
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/lib/Util.jack"}, files)

	files, err = CollectFiles(fs, "/missing/**/*.jack")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = CollectFiles(fs, "/p/notes.txt")
	require.Error(t, err)
	_, err = CollectFiles(fs, "/nope")
	require.Error(t, err)
}

func TestRunDirectory(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/p/Main.jack":   mainSource,
		"/p/Square.jack": squareSource,
	})
	units, err := New(fs, Config{Inputs: []string{"/p"}}, zaptest.NewLogger(t)).Run()
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "/p/Main.vm", units[0].Output)
	assert.Equal(t, "Square", units[1].Result.ClassName)

	assert.Equal(t, "function Main.main 1\n"+
		"push constant 10\n"+
		"call Square.new 1\n"+
		"pop local 0\n"+
		"push local 0\n"+
		"call Square.draw 1\n"+
		"pop temp 0\n"+
		"push constant 0\n"+
		"return\n", readFile(t, fs, "/p/Main.vm"))
	assert.Contains(t, readFile(t, fs, "/p/Square.vm"), "function Square.draw 0\npush argument 0\npop pointer 0\n")
}

func TestRunSingleFileSeesSiblings(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/p/Main.jack":   mainSource,
		"/p/Square.jack": squareSource,
	})
	units, err := New(fs, Config{Inputs: []string{"/p/Main.jack"}, OutDir: "/out"}, nil).Run()
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "/out/Main.vm", units[0].Output)
	assert.Contains(t, readFile(t, fs, "/out/Main.vm"), "call Square.new 1")

	exists, err := afero.Exists(fs, "/out/Square.vm")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunUnknownClassNeedsConfig(t *testing.T) {
	fs := newFs(t, map[string]string{"/p/Main.jack": mainSource})

	_, err := New(fs, Config{Inputs: []string{"/p"}}, nil).Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.UndefinedSymbolError{}))

	_, err = New(fs, Config{Inputs: []string{"/p"}, Classes: []string{"Square"}}, nil).Run()
	require.NoError(t, err)
}

func TestRunFailureKeepsGoing(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/p/Broken.jack": brokenSource,
		"/p/Main.jack":   mainSource,
		"/p/Square.jack": squareSource,
		"/p/Broken.vm":   "stale",
	})
	units, err := New(fs, Config{Inputs: []string{"/p"}}, zaptest.NewLogger(t)).Run()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.True(t, errors.Is(err, errs.UndefinedSymbolError{}))
	assert.Contains(t, err.Error(), "/p/Broken.jack")
	assert.Len(t, units, 2)

	// The stale output of the failed unit is gone, the others are written.
	exists, err := afero.Exists(fs, "/p/Broken.vm")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotEmpty(t, readFile(t, fs, "/p/Main.vm"))
}

func TestRunStdout(t *testing.T) {
	fs := newFs(t, map[string]string{"/p/Square.jack": squareSource})
	var out bytes.Buffer
	units, err := New(fs, Config{Inputs: []string{"/p/Square.jack"}, Stdout: &out}, nil).Run()
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Empty(t, units[0].Output)
	assert.Contains(t, out.String(), "function Square.new 0\npush constant 1\ncall Memory.alloc 1\npop pointer 0\n")

	exists, err := afero.Exists(fs, "/p/Square.vm")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunNothingToCompile(t *testing.T) {
	fs := newFs(t, map[string]string{"/p/readme.txt": ""})
	_, err := New(fs, Config{Inputs: []string{"/p"}}, nil).Run()
	require.Error(t, err)
}

func TestRunDeduplicatesInputs(t *testing.T) {
	fs := newFs(t, map[string]string{"/p/Square.jack": squareSource})
	units, err := New(fs, Config{Inputs: []string{"/p", "/p/Square.jack", "/p/*.jack"}}, nil).Run()
	require.NoError(t, err)
	assert.Len(t, units, 1)

	units, err = New(fs, Config{Inputs: []string{"/p/./Square.jack", "/p//Square.jack", "/p/../p/", "/p/Square.jack"}}, nil).Run()
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "/p/Square.jack", units[0].Source)
}

func TestRunLexErrorNamesFileFirst(t *testing.T) {
	fs := newFs(t, map[string]string{"/p/Bad.jack": "class Bad {\n  static int s#;\n}"})
	_, err := New(fs, Config{Inputs: []string{"/p"}}, nil).Run()
	require.Error(t, err)
	assert.True(t, errs.IsCompileError(err))
	assert.EqualError(t, err, `failed to compile "/p/Bad.jack": line 2: unexpected character #`)
}
