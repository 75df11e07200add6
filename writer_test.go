package gmlpp

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func render(t *testing.T, src string, opt *FormatOptions) string {
	t.Helper()
	code, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	b, err := Format(code, opt)
	if err != nil {
		t.Fatalf("format %q: %v", src, err)
	}
	return string(b)
}

func TestFormatTargets(t *testing.T) {
	src := "argument a\nargument b = 2\nif (a > b) {\nreturn a\n} else return b"

	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{
			name:   "gmlpp",
			target: TargetGMLPP,
			want:   "argument a\nargument b = 2\nif (a > b) {\n    return a;\n} else\n    return b;\n",
		},
		{
			name:   "gml",
			target: TargetGML,
			want: "var a = argument[0];\n" +
				"var b;\n" +
				"if (argument_count > 1) b = argument[1];\n" +
				"else b = 2;\n" +
				"if (a > b) {\n    return a;\n} else\n    return b;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, src, &FormatOptions{Target: tt.target})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatLowering(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"y = x |> f(1) ** 2", "y = power(f(x, 1), 2);\n"},
		{"z **= 3", "z = power(z, 3);\n"},
		{"c = 'q'", "c = \"q\";\n"},
		{"v = a |> f() |> g(b)", "v = g(f(a), b);\n"},
		{"v = 2 ** 3 * 4", "v = power(2, 3) * 4;\n"},
		{"v = a + b |> f()", "v = f(a + b);\n"},
		{"argument x?", "var x;\nif (argument_count > 0) x = argument[0];\nelse x = undefined;\n"},
		{
			"argument a\nargument ...rest",
			"var a = argument[0];\n" +
				"var rest = array_create(max(0, argument_count - 1));\n" +
				"for (var _rest_i = 1; _rest_i < argument_count; _rest_i++) rest[_rest_i - 1] = argument[_rest_i];\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := render(t, tt.src, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"while (a);", "while (a);\n"},
		{"until (a) b++", "until (a)\n    b++;\n"},
		{"do; until (b)", "do; until (b);\n"},
		{"do {\nx--\n} while (x > 0)", "do {\n    x--;\n} while (x > 0);\n"},
		{"do x--; while (x)", "do\n    x--;\nwhile (x);\n"},
		{"repeat (3) {\n}", "repeat (3) {\n}\n"},
		{"with (other) hp = 0", "with (other)\n    hp = 0;\n"},
		{"for (i = 0; i < 3; i += 1) f(i)", "for (i = 0; i < 3; i += 1)\n    f(i);\n"},
		{"for (;;) break", "for (;;)\n    break;\n"},
		{"for (var i = 0; ; ) {\n}", "for (var i = 0;;) {\n}\n"},
		{"if (a) if (b) c()", "if (a)\n    if (b)\n        c();\n"},
		{"if (a) x = 1\nelse if (b) x = 2\nelse x = 3", "if (a)\n    x = 1;\nelse if (b)\n    x = 2;\nelse\n    x = 3;\n"},
		{"if (a) {\n} else {\n}", "if (a) {\n} else {\n}\n"},
		{"{\nvar a = 1;\n{\nglobalvar g\n}\n}", "{\n    var a = 1;\n    {\n        globalvar g;\n    }\n}\n"},
		{"return", "return;\n"},
		{"continue;\nexit", "continue;\nexit;\n"},
		{"a;\n;\nb", "a;\nb;\n"},
		{"x = 1\n/// note\n///\ny = 2", "x = 1;\n/// note\n///\ny = 2;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := render(t, tt.src, &FormatOptions{Target: TargetGMLPP})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatParentheses(t *testing.T) {
	one, two, three := Number(1), Number(2), Number(3)
	tests := []struct {
		name   string
		x      Expression
		target Target
		want   string
	}{
		{"left_looser", &BinaryExpr{Op: OpTimes, Left: &BinaryExpr{Op: OpPlus, Left: one, Right: two}, Right: three}, TargetGMLPP, "(1 + 2) * 3"},
		{"right_same", &BinaryExpr{Op: OpMinus, Left: one, Right: &BinaryExpr{Op: OpMinus, Left: two, Right: three}}, TargetGMLPP, "1 - (2 - 3)"},
		{"left_same", &BinaryExpr{Op: OpMinus, Left: &BinaryExpr{Op: OpMinus, Left: one, Right: two}, Right: three}, TargetGMLPP, "1 - 2 - 3"},
		{"double_negate", &UnaryExpr{Op: UnaryNeg, Operand: &UnaryExpr{Op: UnaryNeg, Operand: Identifier("x")}}, TargetGMLPP, "- -x"},
		{"negative_literal", &UnaryExpr{Op: UnaryNeg, Operand: Number(-1)}, TargetGMLPP, "-(-1)"},
		{"not_negative_literal", &UnaryExpr{Op: UnaryNot, Operand: Number(-2)}, TargetGMLPP, "!(-2)"},
		{"negative_right", &BinaryExpr{Op: OpMinus, Left: Identifier("a"), Right: Number(-1)}, TargetGMLPP, "a - (-1)"},
		{"negative_left", &BinaryExpr{Op: OpTimes, Left: Number(-1), Right: two}, TargetGMLPP, "(-1) * 2"},
		{"pipe_on_right_spine", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: &BinaryExpr{Op: OpTimes, Left: &PipeExpr{Input: Identifier("x"), Call: &Call{Name: "f"}}, Right: two}}, TargetGMLPP, "a + (x |> f() * 2)"},
		{"pipe_on_right_spine_gml", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: &BinaryExpr{Op: OpTimes, Left: &PipeExpr{Input: Identifier("x"), Call: &Call{Name: "f"}}, Right: two}}, TargetGML, "a + f(x) * 2"},
		{"pipe_on_left_spine", &BinaryExpr{Op: OpPlus, Left: &BinaryExpr{Op: OpTimes, Left: &PipeExpr{Input: Identifier("x"), Call: &Call{Name: "f"}}, Right: two}, Right: three}, TargetGMLPP, "x |> f() * 2 + 3"},
		{"pipe_right", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: &PipeExpr{Input: Identifier("b"), Call: &Call{Name: "f"}}}, TargetGMLPP, "a + (b |> f())"},
		{"pipe_right_gml", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: &PipeExpr{Input: Identifier("b"), Call: &Call{Name: "f"}}}, TargetGML, "a + f(b)"},
		{"ternary_left", &BinaryExpr{Op: OpPlus, Left: &TernaryExpr{Cond: Identifier("c"), Then: one, Else: two}, Right: three}, TargetGMLPP, "(c ? 1 : 2) + 3"},
		{"ternary_cond", &TernaryExpr{Cond: &TernaryExpr{Cond: Identifier("a"), Then: one, Else: two}, Then: Identifier("b"), Else: three}, TargetGMLPP, "(a ? 1 : 2) ? b : 3"},
		{"exp_gml", &BinaryExpr{Op: OpTimes, Left: &BinaryExpr{Op: OpExp, Left: two, Right: three}, Right: one}, TargetGML, "power(2, 3) * 1"},
		{"paren", &ParenExpr{X: &BinaryExpr{Op: OpOr, Left: Bool(true), Right: Bool(false)}}, TargetGMLPP, "(true || false)"},
		{"unary_not_call", &UnaryExpr{Op: UnaryNot, Operand: &Call{Name: "f", Args: []Expression{one, Undefined()}}}, TargetGMLPP, "!f(1, undefined)"},
		{"invert", &UnaryExpr{Op: UnaryInv, Operand: Identifier("m")}, TargetGMLPP, "~m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &writer{target: tt.target}
			if got := w.expr(tt.x); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// stripParens removes grouping so trees can be compared by shape.
func stripParens(x Expression) Expression {
	switch t := x.(type) {
	case *ParenExpr:
		return stripParens(t.X)
	case *BinaryExpr:
		return &BinaryExpr{Op: t.Op, Left: stripParens(t.Left), Right: stripParens(t.Right)}
	case *TernaryExpr:
		return &TernaryExpr{Cond: stripParens(t.Cond), Then: stripParens(t.Then), Else: stripParens(t.Else)}
	case *PipeExpr:
		return &PipeExpr{Input: stripParens(t.Input), Call: t.Call}
	default:
		return x
	}
}

func TestFormatParenthesesReparse(t *testing.T) {
	x, f := Identifier("x"), &Call{Name: "f"}
	pipe := &PipeExpr{Input: x, Call: f}
	tests := []struct {
		name string
		x    Expression
	}{
		{"pipe_right", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: pipe}},
		{"pipe_right_spine", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: &BinaryExpr{Op: OpTimes, Left: pipe, Right: Number(2)}}},
		{"pipe_deep_spine", &BinaryExpr{Op: OpMinus, Left: Identifier("a"), Right: &BinaryExpr{Op: OpTimes, Left: &BinaryExpr{Op: OpPlus, Left: pipe, Right: Number(1)}, Right: Number(2)}}},
		{"pipe_under_exp", &BinaryExpr{Op: OpOr, Left: Identifier("a"), Right: &BinaryExpr{Op: OpExp, Left: &BinaryExpr{Op: OpExp, Left: pipe, Right: Number(2)}, Right: Number(3)}}},
		{"pipe_left_spine", &BinaryExpr{Op: OpPlus, Left: &BinaryExpr{Op: OpTimes, Left: pipe, Right: Number(2)}, Right: Number(3)}},
		{"ternary_right_spine", &BinaryExpr{Op: OpPlus, Left: Identifier("a"), Right: &BinaryExpr{Op: OpTimes, Left: &TernaryExpr{Cond: x, Then: Number(1), Else: Number(2)}, Right: Number(3)}}},
		{"pipe_input", &PipeExpr{Input: &BinaryExpr{Op: OpPlus, Left: x, Right: Number(1)}, Call: f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &writer{target: TargetGMLPP}
			src := w.expr(tt.x)
			got, err := parseExpr(t, src)
			if err != nil {
				t.Fatalf("reparse %q: %v", src, err)
			}
			if diff := cmp.Diff(stripParens(tt.x), stripParens(got)); diff != "" {
				t.Fatalf("reparse of %q changed shape (-want +got):\n%s", src, diff)
			}
		})
	}
}

func TestFormatLiterals(t *testing.T) {
	tests := []struct {
		name   string
		lit    *Literal
		target Target
		want   string
	}{
		{"integer", Number(42), TargetGML, "42"},
		{"fraction", Number(0.1), TargetGML, "0.1"},
		{"negative", Number(-3), TargetGML, "-3"},
		{"large", Number(1e21), TargetGML, "1000000000000000000000"},
		{"nan", Number(math.NaN()), TargetGML, "NaN"},
		{"inf", Number(math.Inf(1)), TargetGML, "infinity"},
		{"neg_inf", Number(math.Inf(-1)), TargetGML, "-infinity"},
		{"string_escapes", String("a\"b\n\t\\"), TargetGML, `"a\"b\n\t\\"`},
		{"string_quote", String("it's"), TargetGMLPP, `"it's"`},
		{"string_nul", String("a\x00"), TargetGMLPP, `"a\0"`},
		{"char", Char('x'), TargetGMLPP, `'x'`},
		{"char_quote", Char('\''), TargetGMLPP, `'\''`},
		{"char_gml", Char('\''), TargetGML, `"'"`},
		{"char_dquote_gml", Char('"'), TargetGML, `"\""`},
		{"char_newline_gml", Char('\n'), TargetGML, `"\n"`},
		{"bool", Bool(false), TargetGMLPP, "false"},
		{"undefined", Undefined(), TargetGMLPP, "undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &writer{target: tt.target}
			if got := w.literal(tt.lit); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatStringEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`s = "a\q\u00e9"`, `s = "a\q\u00e9";` + "\n"},
		{`s = "café \q"`, `s = "café \q";` + "\n"},
		{`s = "\x41\a\v\f"`, `s = "\x41\a\v\f";` + "\n"},
		{`s = "tab\t quote\" slash\\"`, `s = "tab\t quote\" slash\\";` + "\n"},
		{"argument sep = \"\\u0020\"", "var sep;\nif (argument_count > 0) sep = argument[0];\nelse sep = \"\\u0020\";\n"},
	}

	// The gmlpp target keeps string bodies as written too.
	if got := render(t, `s = "a\q\u00e9"`, &FormatOptions{Target: TargetGMLPP}); got != `s = "a\q\u00e9";`+"\n" {
		t.Fatalf("gmlpp target: got %q", got)
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := render(t, tt.src, nil); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type unknownStmt struct{}

func (*unknownStmt) stmt() {}

func TestFormatUnknownStatement(t *testing.T) {
	tests := []struct {
		name string
		code *Code
	}{
		{"top_level", &Code{Body: []Statement{nil}}},
		{"in_block", &Code{Body: []Statement{&BlockStmt{Body: []Statement{nil}}}}},
		{"if_body", &Code{Body: []Statement{&IfStmt{Cond: Identifier("a"), Body: &ExprStmt{X: Identifier("b")}, Else: &unknownStmt{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Format(tt.code, nil); !errors.Is(err, ErrUnknownStatement) {
				t.Fatalf("expected ErrUnknownStatement, got %v", err)
			}
		})
	}
}

func TestFormatIndent(t *testing.T) {
	got := render(t, "if (a) {\nwhile (b) {\nx = 1\n}\n}", &FormatOptions{Indent: "\t", Target: TargetGMLPP})
	want := "if (a) {\n\twhile (b) {\n\t\tx = 1;\n\t}\n}\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatNil(t *testing.T) {
	b, err := Format(nil, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("expected empty output, got %q", b)
	}
}

func TestFormatGolden(t *testing.T) {
	code, err := DecodeFile(filepath.Join("testdata", "move.gmlpp"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", "move.gml"))
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}

	got, err := Format(code, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	files := []string{
		"move.gmlpp",
		"loops.gmlpp",
		"pipes.gmlpp",
	}
	opt := &FormatOptions{Target: TargetGMLPP}
	for _, f := range files {
		t.Run(f, func(t *testing.T) {
			code, err := DecodeFile(filepath.Join("testdata", f), nil)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			b, err := Format(code, opt)
			if err != nil {
				t.Fatalf("format: %v", err)
			}
			code2, err := Parse(b, nil)
			if err != nil {
				t.Fatalf("reparse: %v\n%s", err, b)
			}
			if diff := cmp.Diff(code, code2); diff != "" {
				t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
			}

			b2, err := Format(code2, opt)
			if err != nil {
				t.Fatalf("format again: %v", err)
			}
			if !bytes.Equal(b, b2) {
				t.Fatalf("format is not idempotent:\n%s\n---\n%s", b, b2)
			}
		})
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeWriteError(t *testing.T) {
	code, err := Parse([]byte(`show_debug_message("` + string(bytes.Repeat([]byte("x"), 8192)) + `")`), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Encode(failWriter{}, code, nil); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestEncodeFile(t *testing.T) {
	code, err := Parse([]byte("x = 1"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.gml")
	if err := EncodeFile(path, code, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "x = 1;\n" {
		t.Fatalf("unexpected file content %q", b)
	}
}
