package driver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/libklein/nand2tetris/jackcompiler/internal/compiler"
	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
)

type Config struct {
	// Inputs are source files, directories or doublestar patterns.
	Inputs []string
	// OutDir collects all .vm files; empty means next to each source.
	OutDir string
	// Classes are accepted as call qualifiers in addition to the OS classes
	// and the classes found next to each source file.
	Classes []string
	// Stdout, when set, receives the VM code instead of .vm files.
	Stdout io.Writer
}

// Unit is one compiled source file.
type Unit struct {
	Source string
	Output string
	Result compiler.Result
}

// Driver compiles batches of source files one after another.
type Driver struct {
	fs     afero.Fs
	config Config
	logger *zap.Logger
}

func New(fs afero.Fs, config Config, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{fs: fs, config: config, logger: logger}
}

// Run compiles every collected file. A failing file does not stop the batch:
// its error is collected and its output is not written.
func (d *Driver) Run() ([]Unit, error) {
	files, err := d.collect()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no %s files found in %v", SourceExtension, d.config.Inputs)
	}
	if d.config.OutDir != "" && d.config.Stdout == nil {
		if err := d.fs.MkdirAll(d.config.OutDir, 0755); err != nil {
			return nil, errors.Wrapf(err, "could not create output directory %q", d.config.OutDir)
		}
	}

	classes, err := d.knownClasses(files)
	if err != nil {
		return nil, err
	}

	var (
		units  []Unit
		runErr error
	)
	for _, file := range files {
		unit, err := d.compileFile(file, classes)
		if err != nil {
			d.logger.Error("Failed to compile", zap.String("file", file), zap.Error(err))
			runErr = multierr.Append(runErr, err)
			continue
		}
		units = append(units, unit)
	}
	return units, runErr
}

func (d *Driver) collect() ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, input := range d.config.Inputs {
		collected, err := CollectFiles(d.fs, input)
		if err != nil {
			return nil, err
		}
		for _, file := range collected {
			file = filepath.Clean(file)
			if _, ok := seen[file]; ok {
				continue
			}
			seen[file] = struct{}{}
			files = append(files, file)
		}
	}
	return files, nil
}

// knownClasses is every class of the batch and of the directories the batch comes from.
func (d *Driver) knownClasses(files []string) ([]string, error) {
	classes := append([]string{}, d.config.Classes...)
	dirs := make(map[string]struct{})
	for _, file := range files {
		classes = append(classes, ClassName(file))
		dir := filepath.Dir(file)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		siblings, err := sourcesIn(d.fs, dir)
		if err != nil {
			return nil, err
		}
		for _, sibling := range siblings {
			classes = append(classes, ClassName(sibling))
		}
	}
	return classes, nil
}

func (d *Driver) compileFile(path string, classes []string) (Unit, error) {
	unit := Unit{Source: path}
	if d.config.Stdout == nil {
		unit.Output = OutputPath(path, d.config.OutDir)
		// A stale .vm file must not survive a failed compilation.
		if err := d.fs.Remove(unit.Output); err != nil && !errors.Is(err, os.ErrNotExist) {
			return unit, errors.Wrapf(err, "could not remove old output %q", unit.Output)
		}
	}

	d.logger.Info("Compiling file", zap.String("file", path))
	handle, err := d.fs.Open(path)
	if err != nil {
		return unit, errors.Wrapf(err, "could not open file %q for reading", path)
	}
	defer handle.Close()

	var code bytes.Buffer
	unit.Result, err = compiler.Compile(handle, &code,
		compiler.WithLogger(d.logger.With(zap.String("file", path))),
		compiler.WithKnownClasses(classes...),
	)
	if err != nil {
		return unit, errs.Extend(err, fmt.Sprintf("failed to compile %q", path))
	}
	if expected := ClassName(path); unit.Result.ClassName != expected {
		d.logger.Warn("Class name does not match file name",
			zap.String("file", path),
			zap.String("class", unit.Result.ClassName),
			zap.String("expected", expected))
	}

	if d.config.Stdout != nil {
		if _, err := io.Copy(d.config.Stdout, &code); err != nil {
			return unit, errors.Wrap(err, "failed to write VM code")
		}
		return unit, nil
	}
	if err := afero.WriteFile(d.fs, unit.Output, code.Bytes(), 0644); err != nil {
		return unit, errors.Wrapf(err, "could not write output file %q", unit.Output)
	}
	d.logger.Info("Saved",
		zap.String("output", unit.Output),
		zap.String("class", unit.Result.ClassName),
		zap.Int("subroutines", unit.Result.Subroutines),
		zap.Int("instructions", unit.Result.Instructions))
	return unit, nil
}
