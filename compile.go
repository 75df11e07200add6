package gmlpp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SourceExt is the extension of gmlpp source files.
	SourceExt = ".gmlpp"
	// OutputExt is the extension of generated GML files.
	OutputExt = ".gml"
)

// Compile parses gmlpp source and renders it in the target dialect.
func Compile(data []byte, opt *CompileOptions) ([]byte, error) {
	copt := opt.normalize()
	code, err := Parse(data, copt.Parse)
	if err != nil {
		return nil, err
	}

	return Format(code, copt.Format)
}

// OutputPath returns the sibling output path of a gmlpp source file.
func OutputPath(path string) (string, error) {
	ext := filepath.Ext(path)
	if ext != SourceExt {
		return "", fmt.Errorf("%w: %s", ErrNotSource, path)
	}

	return strings.TrimSuffix(path, ext) + OutputExt, nil
}

// CompileFile compiles a gmlpp source file to its sibling output and returns
// the output path. Nothing is written when compilation fails.
func CompileFile(path string, opt *CompileOptions) (string, error) {
	out, err := OutputPath(path)
	if err != nil {
		return "", err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	b, err := Compile(src, opt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(out, b, 0o600); err != nil {
		return "", err
	}

	return out, nil
}
