package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	SourceExt string
	OutputExt string
	// Parallelism bounds how many files compile at once.
	Parallelism int
	Logger      *log.Logger
}

func DefaultConfig() Config {
	return Config{
		SourceExt:   ".jack",
		OutputExt:   ".vm",
		Parallelism: runtime.NumCPU(),
		Logger:      log.New(io.Discard, "", 0),
	}
}

// Result is the outcome of compiling one source file.
type Result struct {
	Source string
	Output string
	Class  *ClassAst
	Err    error
}

// Compile compiles the file at path, or every source file directly inside the
// directory at path. Files are independent: a failing file doesn't stop the
// others. The returned error joins the errors of all failed files.
func Compile(path string, cfg Config) ([]Result, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	files, err := collectFiles(path, cfg.SourceExt)
	if err != nil {
		return nil, err
	}
	types := NewTypeRegistry()
	results := make([]Result, len(files))
	group := new(errgroup.Group)
	group.SetLimit(cfg.Parallelism)
	for i, file := range files {
		i, file := i, file
		// Failures go to results[i], so one file never cancels the others.
		group.Go(func() error {
			results[i] = compileFile(file, getOutputPath(file, cfg.OutputExt), types, cfg.Logger)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	cfg.Logger.Printf("compiled %d of %d files, types: %s", len(files)-len(errs), len(files),
		strings.Join(types.Names(), " "))
	return results, errors.Join(errs...)
}

func compileFile(source, output string, types *TypeRegistry, logger *log.Logger) Result {
	result := Result{Source: source, Output: output}
	logger.Printf("compiling %s", source)
	f, err := os.Open(source)
	if err != nil {
		result.Err = err
		return result
	}
	defer f.Close()
	buf := &bytes.Buffer{}
	result.Class, result.Err = CompileReader(f, buf, source, types)
	if result.Err != nil {
		// Never leave a stale or partial output next to a failed source.
		if removeErr := os.Remove(output); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Printf("cannot remove %s: %v", output, removeErr)
		}
		// The error itself is reported once, by the caller.
		logger.Printf("failed %s", source)
		return result
	}
	result.Err = os.WriteFile(output, buf.Bytes(), 0644)
	if result.Err == nil {
		logger.Printf("saved %s", output)
	}
	return result
}

// CompileReader compiles one class from rd and writes its vm code to w. name
// is only used in error messages.
func CompileReader(rd io.Reader, w io.Writer, name string, types *TypeRegistry) (*ClassAst, error) {
	tokenizer, err := NewTokenizer(rd)
	if err != nil {
		return nil, err
	}
	writer := NewVMWriter(w)
	classAst, err := NewParser(tokenizer, writer, types).ParseClassDeclaration()
	if err != nil {
		var compileErr *CompileError
		if errors.As(err, &compileErr) && compileErr.File == "" {
			compileErr.File = name
		}
		return nil, err
	}
	return classAst, writer.Flush()
}

// CompileSource compiles source held in memory and returns the vm code.
func CompileSource(name, source string, types *TypeRegistry) (string, error) {
	out := &strings.Builder{}
	_, err := CompileReader(strings.NewReader(source), out, name, types)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func isJackFile(fileName, ext string) bool {
	return filepath.Ext(fileName) == ext
}

func getOutputPath(filePath, ext string) string {
	return strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ext
}

// collectFiles returns path itself when it is a file, or the source files
// directly inside it, sorted by name.
func collectFiles(path, ext string) (files []string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		// Ignore sub directories and other files.
		if entry.IsDir() || !isJackFile(entry.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", ext, path)
	}
	return files, nil
}
