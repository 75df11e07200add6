package gmlpp

import (
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	data, err := os.ReadFile(filepath.Join("testdata", "move.gmlpp"))
	if err != nil {
		b.Fatalf("read: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(data, nil); err != nil {
			b.Fatalf("parse: %v", err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	code, err := DecodeFile(filepath.Join("testdata", "move.gmlpp"), nil)
	if err != nil {
		b.Fatalf("parse: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Format(code, nil); err != nil {
			b.Fatalf("format: %v", err)
		}
	}
}

func BenchmarkCompile(b *testing.B) {
	data, err := os.ReadFile(filepath.Join("testdata", "pipes.gmlpp"))
	if err != nil {
		b.Fatalf("read: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(data, nil); err != nil {
			b.Fatalf("compile: %v", err)
		}
	}
}
