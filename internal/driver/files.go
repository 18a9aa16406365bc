package driver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	SourceExtension = ".jack"
	OutputExtension = ".vm"
)

func removeExtension(filePath string) string {
	extension := filepath.Ext(filePath)
	return filePath[:len(filePath)-len(extension)]
}

// ClassName is the class a source file is expected to declare.
func ClassName(filePath string) string {
	return removeExtension(filepath.Base(filePath))
}

// OutputPath is where the VM code of filePath goes: next to the source, or
// into outDir when one is given.
func OutputPath(filePath, outDir string) string {
	if outDir != "" {
		return filepath.Join(outDir, ClassName(filePath)+OutputExtension)
	}
	return removeExtension(filePath) + OutputExtension
}

func isSource(filePath string) bool {
	return filepath.Ext(filePath) == SourceExtension
}

func isPattern(input string) bool {
	return strings.ContainsAny(input, "*?[{")
}

// CollectFiles expands a source file, a directory (its .jack files, not
// recursive) or a doublestar pattern such as src/**/*.jack into source files.
func CollectFiles(fs afero.Fs, fileOrDir string) ([]string, error) {
	if isPattern(fileOrDir) {
		return globFiles(fs, fileOrDir)
	}
	fileOrDir = filepath.Clean(fileOrDir)

	fileOrDirStat, err := fs.Stat(fileOrDir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat file/dir %q", fileOrDir)
	}
	if !fileOrDirStat.IsDir() {
		if !isSource(fileOrDir) {
			return nil, errors.Errorf("%q is not a %s file", fileOrDir, SourceExtension)
		}
		return []string{fileOrDir}, nil
	}
	return sourcesIn(fs, fileOrDir)
}

func sourcesIn(fs afero.Fs, dir string) ([]string, error) {
	dirEntries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open directory %q", dir)
	}
	var files []string
	for _, entry := range dirEntries {
		if !entry.IsDir() && isSource(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sortFiles(files)
	return files, nil
}

func globFiles(fs afero.Fs, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q", pattern)
	}
	base, relPattern := doublestar.SplitPattern(pattern)

	var files []string
	err := afero.Walk(fs, filepath.FromSlash(base), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSource(path) {
			return nil
		}
		rel, err := filepath.Rel(filepath.FromSlash(base), path)
		if err != nil {
			return err
		}
		matched, err := doublestar.Match(relPattern, filepath.ToSlash(rel))
		if matched {
			files = append(files, path)
		}
		return err
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to expand %q", pattern)
	}
	sortFiles(files)
	return files, nil
}

// sortFiles orders paths naturally, so Square2.jack comes before Square10.jack.
func sortFiles(files []string) {
	sort.Slice(files, func(i, j int) bool {
		return natural.Less(files[i], files[j])
	})
}
