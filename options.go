package gmlpp

import (
	"log/slog"
	"runtime"
)

// Target selects the dialect the writer emits.
type Target int

const (
	// TargetGML lowers gmlpp-only syntax to plain GML.
	TargetGML Target = iota
	// TargetGMLPP re-emits canonical gmlpp, suitable for round-trips.
	TargetGMLPP
)

// ParseOptions controls parsing behavior.
type ParseOptions struct {
	// Logger receives debug records for statements that fail to match.
	// Nil discards them.
	Logger *slog.Logger
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is four spaces).
	Indent string
	// Target is the output dialect (default is TargetGML).
	Target Target
}

// CompileOptions controls a parse and format pass over one file.
type CompileOptions struct {
	Parse  *ParseOptions
	Format *FormatOptions
}

// BatchOptions controls CompileFiles.
type BatchOptions struct {
	// Compile is applied to every file.
	Compile *CompileOptions
	// Logger receives one record per file. Nil discards them.
	Logger *slog.Logger
	// Workers bounds concurrent compilations (default is GOMAXPROCS).
	Workers int
}

// ValidateOptions controls structural checks.
type ValidateOptions struct {
	// DisableUnreachableCheck disables warnings for statements after return, exit,
	// break or continue.
	DisableUnreachableCheck bool
	// DisableEmptyLoopCheck disables warnings for loops whose body is a lone ";".
	DisableEmptyLoopCheck bool
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{Logger: discardLogger()}
	}

	out := *o
	if out.Logger == nil {
		out.Logger = discardLogger()
	}

	return out
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "    "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "    "
	}

	return out
}

// normalize normalizes the CompileOptions.
func (o *CompileOptions) normalize() CompileOptions {
	if o == nil {
		return CompileOptions{}
	}

	return *o
}

// normalize normalizes the BatchOptions.
func (o *BatchOptions) normalize() BatchOptions {
	var out BatchOptions
	if o != nil {
		out = *o
	}
	if out.Logger == nil {
		out.Logger = discardLogger()
	}
	if out.Workers <= 0 {
		out.Workers = runtime.GOMAXPROCS(0)
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
