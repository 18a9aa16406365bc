package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/libklein/nand2tetris/jackcompiler/internal/driver"
	"github.com/libklein/nand2tetris/jackcompiler/internal/errs"
)

var version = "v0.0.0"

func main() {
	var (
		showHelp    bool
		showVersion bool
		verbose     bool
		silent      bool
		toStdout    bool
		inputs      []string
		classes     []string
		outDir      string
	)

	flag.StringSliceVarP(&inputs, "input", "d", nil, ".jack file, directory containing .jack files or a pattern like \"src/**/*.jack\"; may be repeated")
	flag.StringVarP(&outDir, "out-dir", "o", "", "Directory for the .vm files; by default each one is written next to its source")
	flag.StringSliceVar(&classes, "class", nil, "Additional class names that may qualify calls, for classes compiled separately")
	flag.BoolVar(&toStdout, "stdout", false, "Print the VM code to stdout instead of writing .vm files")
	flag.BoolVarP(&showHelp, "help", "h", false, "Print usage information (this message) and quit")
	flag.BoolVarP(&showVersion, "version", "v", false, "Print version information and quit")
	flag.BoolVar(&verbose, "verbose", false, "Logs additional information; incompatible with \"silent\"")
	flag.BoolVar(&silent, "silent", false, "Produce no output except errors; incompatible with \"verbose\"")
	flag.Usage = showUsage
	flag.Parse()

	if showHelp {
		showUsage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("jackc %s\n", version)
		os.Exit(0)
	}
	inputs = append(inputs, flag.Args()...)
	if len(inputs) == 0 || (silent && verbose) {
		showUsage()
		os.Exit(2)
	}

	al := zap.NewAtomicLevel()
	ec := zap.NewDevelopmentEncoderConfig()
	if verbose {
		al.SetLevel(zap.DebugLevel)
	}
	if silent {
		al.SetLevel(zap.ErrorLevel)
	}
	// Logs go to stderr so that --stdout output stays clean.
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), al))
	defer logger.Sync()

	config := driver.Config{
		Inputs:  inputs,
		OutDir:  outDir,
		Classes: classes,
	}
	if toStdout {
		config.Stdout = os.Stdout
	}

	units, err := driver.New(afero.NewOsFs(), config, logger).Run()
	if err != nil {
		failed := multierr.Errors(err)
		logger.Error("Compilation failed",
			zap.Int("compiled", len(units)),
			zap.Int("failed", len(failed)))
		for _, e := range failed {
			if errs.IsCompileError(e) {
				fmt.Fprintln(os.Stderr, e)
				continue
			}
			logger.Error("I/O failure", zap.Error(e))
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Debug("Done", zap.Int("compiled", len(units)))
}

func showUsage() {
	fmt.Fprintf(os.Stderr, "\nUsage of jackc %s\n", version)
	fmt.Fprintf(os.Stderr, "  jackc [flags] <file.jack | dir | pattern>...\n\n")
	flag.PrintDefaults()
}
