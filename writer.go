package gmlpp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Encode writes Code to writer.
func Encode(w io.Writer, code *Code, opt *FormatOptions) error {
	fopt := opt.normalize()
	// Buffered writer reduces syscall overhead and short writes.
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent, target: fopt.Target}
	if err := wr.writeCode(code); err != nil {
		return err
	}

	return bw.Flush()
}

// EncodeFile writes Code to a file.
func EncodeFile(path string, code *Code, opt *FormatOptions) error {
	b, err := Format(code, opt)
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o600)
}

// Format renders Code to bytes.
func Format(code *Code, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, code, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writer writes Code to a writer. The nesting level is passed to every
// statement method, so one tree renders at any depth.
type writer struct {
	w      io.Writer // Writer to write to
	indent string    // Indentation string
	cache  []string  // Cache of indentation strings
	target Target    // Output dialect
}

// writeCode writes a whole file.
func (w *writer) writeCode(c *Code) error {
	if c == nil {
		return nil
	}

	if err := w.writeDoc(c.Doc, 0); err != nil {
		return err
	}

	if w.target == TargetGMLPP {
		if err := w.writeArgumentList(c.Args); err != nil {
			return err
		}
	} else {
		if err := w.writePrologue(c.Args); err != nil {
			return err
		}
	}

	return w.writeStatements(c.Body, 0)
}

// writeDoc writes doc comment lines.
func (w *writer) writeDoc(doc DocComment, level int) error {
	for _, line := range doc {
		text := "///"
		if line != "" {
			text += " " + line
		}
		if err := w.writeLine(level, text); err != nil {
			return err
		}
	}

	return nil
}

// writeArgumentList writes gmlpp argument declarations.
func (w *writer) writeArgumentList(args ArgumentList) error {
	for _, a := range args {
		var line string
		switch a.Kind {
		case ArgDefault:
			line = "argument " + string(a.Name) + " = " + w.expr(a.Default)
		case ArgOptional:
			line = "argument " + string(a.Name) + "?"
		case ArgVariadic:
			line = "argument ..." + string(a.Name)
		default:
			line = "argument " + string(a.Name)
		}
		if err := w.writeLine(0, line); err != nil {
			return err
		}
	}

	return nil
}

// writePrologue lowers the argument list to reads of argument[i].
func (w *writer) writePrologue(args ArgumentList) error {
	for i, a := range args {
		name := string(a.Name)
		idx := strconv.Itoa(i)

		var lines []string
		switch a.Kind {
		case ArgRequired:
			lines = []string{"var " + name + " = argument[" + idx + "];"}

		case ArgDefault, ArgOptional:
			def := "undefined"
			if a.Kind == ArgDefault && a.Default != nil {
				def = w.expr(a.Default)
			}
			lines = []string{
				"var " + name + ";",
				"if (argument_count > " + idx + ") " + name + " = argument[" + idx + "];",
				"else " + name + " = " + def + ";",
			}

		case ArgVariadic:
			it := "_" + name + "_i"
			lines = []string{
				"var " + name + " = array_create(max(0, argument_count - " + idx + "));",
				"for (var " + it + " = " + idx + "; " + it + " < argument_count; " + it + "++) " +
					name + "[" + it + " - " + idx + "] = argument[" + it + "];",
			}
		}

		for _, line := range lines {
			if err := w.writeLine(0, line); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeStatements writes a statement list. No-ops are dropped.
func (w *writer) writeStatements(list []Statement, level int) error {
	for _, s := range list {
		if _, ok := s.(*NoopStmt); ok {
			continue
		}
		if err := w.writeStatement(s, level); err != nil {
			return err
		}
	}

	return nil
}

// writeStatement writes one statement on its own line(s).
func (w *writer) writeStatement(s Statement, level int) error {
	switch t := s.(type) {
	case *NoopStmt:
		return w.writeLine(level, ";")

	case *AssignStmt:
		return w.writeLine(level, w.assignment(t.Assignment)+";")

	case *ExprStmt:
		return w.writeLine(level, w.expr(t.X)+";")

	case *VarDecl:
		return w.writeLine(level, w.varDecl(t)+";")

	case *IfStmt:
		if err := w.writeIndent(level); err != nil {
			return err
		}
		return w.writeIf(t, level)

	case *LoopStmt:
		return w.writeLoop(t, level)

	case *RepeatStmt:
		return w.writeHeaded(level, "repeat ("+w.expr(t.Count)+")", t.Body)

	case *WithStmt:
		return w.writeHeaded(level, "with ("+w.expr(t.Target)+")", t.Body)

	case *ForStmt:
		return w.writeHeaded(level, w.forHeader(t), t.Body)

	case *BlockStmt:
		if err := w.writeIndent(level); err != nil {
			return err
		}
		if err := w.writeBlock(t, level); err != nil {
			return err
		}
		return w.writeString("\n")

	case *ReturnStmt:
		if t.Value == nil {
			return w.writeLine(level, "return;")
		}
		return w.writeLine(level, "return "+w.expr(t.Value)+";")

	case *BreakStmt:
		return w.writeLine(level, "break;")

	case *ContinueStmt:
		return w.writeLine(level, "continue;")

	case *ExitStmt:
		return w.writeLine(level, "exit;")

	case *DocStmt:
		return w.writeDoc(t.Lines, level)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownStatement, s)
	}
}

// writeHeaded writes "head body" for single-body statements.
func (w *writer) writeHeaded(level int, head string, body Statement) error {
	if err := w.writeIndent(level); err != nil {
		return err
	}
	if err := w.writeString(head); err != nil {
		return err
	}

	open, err := w.writeBody(body, level)
	if err != nil {
		return err
	}
	if open {
		return w.writeString("\n")
	}

	return nil
}

// writeBody writes a body after its header. Block and no-op bodies stay on the
// header line, leaving it open; other bodies go one level deeper.
func (w *writer) writeBody(s Statement, level int) (open bool, err error) {
	switch t := s.(type) {
	case *BlockStmt:
		if err := w.writeString(" "); err != nil {
			return false, err
		}
		return true, w.writeBlock(t, level)
	case *NoopStmt, nil:
		return true, w.writeString(";")
	default:
		if err := w.writeString("\n"); err != nil {
			return false, err
		}
		return false, w.writeStatement(s, level+1)
	}
}

// writeBlock writes "{ ... }" without the trailing newline.
func (w *writer) writeBlock(b *BlockStmt, level int) error {
	if err := w.writeString("{\n"); err != nil {
		return err
	}
	if err := w.writeStatements(b.Body, level+1); err != nil {
		return err
	}
	if err := w.writeIndent(level); err != nil {
		return err
	}

	return w.writeString("}")
}

// writeIf writes an if statement after its indentation; else-if chains stay flat.
func (w *writer) writeIf(s *IfStmt, level int) error {
	if err := w.writeString("if (" + w.expr(s.Cond) + ")"); err != nil {
		return err
	}
	open, err := w.writeBody(s.Body, level)
	if err != nil {
		return err
	}

	if s.Else == nil {
		if open {
			return w.writeString("\n")
		}
		return nil
	}

	if open {
		err = w.writeString(" else")
	} else {
		err = w.writeLinePrefix(level, "else")
	}
	if err != nil {
		return err
	}

	if elif, ok := s.Else.(*IfStmt); ok {
		if err := w.writeString(" "); err != nil {
			return err
		}
		return w.writeIf(elif, level)
	}

	open, err = w.writeBody(s.Else, level)
	if err != nil {
		return err
	}
	if open {
		return w.writeString("\n")
	}

	return nil
}

// writeLoop writes while, until and do loops.
func (w *writer) writeLoop(s *LoopStmt, level int) error {
	cond := "(" + w.expr(s.Cond) + ")"
	switch s.Kind {
	case LoopWhile:
		return w.writeHeaded(level, "while "+cond, s.Body)
	case LoopUntil:
		return w.writeHeaded(level, "until "+cond, s.Body)
	}

	kw := "while "
	if s.Kind == LoopDoUntil {
		kw = "until "
	}

	if err := w.writeLinePrefix(level, "do"); err != nil {
		return err
	}
	open, err := w.writeBody(s.Body, level)
	if err != nil {
		return err
	}
	if open {
		return w.writeString(" " + kw + cond + ";\n")
	}

	return w.writeLine(level, kw+cond+";")
}

// forHeader renders "for (init; cond; update)".
func (w *writer) forHeader(s *ForStmt) string {
	var b strings.Builder
	b.WriteString("for (")
	b.WriteString(w.clause(s.Init))
	b.WriteString(";")
	if s.Cond != nil {
		b.WriteString(" ")
		b.WriteString(w.expr(s.Cond))
	}
	b.WriteString(";")
	if u := w.clause(s.Update); u != "" {
		b.WriteString(" ")
		b.WriteString(u)
	}
	b.WriteString(")")

	return b.String()
}

// clause renders a for header clause without its terminator.
func (w *writer) clause(s Statement) string {
	switch t := s.(type) {
	case *AssignStmt:
		return w.assignment(t.Assignment)
	case *ExprStmt:
		return w.expr(t.X)
	case *VarDecl:
		return w.varDecl(t)
	default:
		return ""
	}
}

// varDecl renders a declaration without its terminator.
func (w *writer) varDecl(d *VarDecl) string {
	kw := "var "
	if d.Global {
		kw = "globalvar "
	}
	if d.Value == nil {
		return kw + string(d.Name)
	}

	return kw + string(d.Name) + " = " + w.expr(d.Value)
}

// assignOpText maps assignment operators to their source text.
var assignOpText = map[AssignOp]string{
	AssignEq:  "=",
	AssignAdd: "+=",
	AssignSub: "-=",
	AssignMul: "*=",
	AssignDiv: "/=",
	AssignMod: "%=",
	AssignExp: "**=",
	AssignAnd: "&=",
	AssignOr:  "|=",
	AssignXor: "^=",
	AssignShl: "<<=",
	AssignShr: ">>=",
	AssignInc: "++",
	AssignDec: "--",
}

// assignment renders an assignment without its terminator.
func (w *writer) assignment(a Assignment) string {
	target := string(a.Target)
	switch {
	case a.Op == AssignInc || a.Op == AssignDec:
		return target + assignOpText[a.Op]
	case a.Op == AssignExp && w.target == TargetGML:
		return target + " = power(" + target + ", " + w.expr(a.Value) + ")"
	}

	return target + " " + assignOpText[a.Op] + " " + w.expr(a.Value)
}

// binaryOpText maps binary operators to their source text.
var binaryOpText = map[BinaryOp]string{
	OpOr:        "||",
	OpAnd:       "&&",
	OpEqual:     "==",
	OpNotEqual:  "!=",
	OpLess:      "<",
	OpLessEqual: "<=",
	OpMore:      ">",
	OpMoreEqual: ">=",
	OpBitOr:     "|",
	OpBitXor:    "^",
	OpBitAnd:    "&",
	OpShl:       "<<",
	OpShr:       ">>",
	OpIntDiv:    "div",
	OpIntMod:    "mod",
	OpPlus:      "+",
	OpMinus:     "-",
	OpTimes:     "*",
	OpDivide:    "/",
	OpPercent:   "%",
	OpExp:       "**",
}

// precValue is the precedence of a leaf.
const precValue = precExp + 1

// precOf returns the binding strength of an expression as it will be printed.
func (w *writer) precOf(x Expression) int {
	switch t := x.(type) {
	case *BinaryExpr:
		if t.Op == OpExp && w.target == TargetGML {
			return precValue
		}
		return binaryPrecedence[t.Op]
	case *TernaryExpr:
		return precTernary
	case *PipeExpr:
		if w.target == TargetGML {
			return precValue
		}
		return precPipe
	default:
		return precValue
	}
}

// operand renders x, parenthesized when it binds looser than min or when it is
// a negative number.
func (w *writer) operand(x Expression, min int) string {
	s := w.expr(x)
	if w.precOf(x) < min || isNegative(x) {
		return "(" + s + ")"
	}

	return s
}

// rightOperand renders a right-hand operand. A bare pipe on its left spine
// would take the preceding operator as its input, so it is parenthesized too.
func (w *writer) rightOperand(x Expression, min int) string {
	if w.pipeOnLeft(x) {
		return "(" + w.expr(x) + ")"
	}

	return w.operand(x, min)
}

// pipeOnLeft reports whether a pipe prints bare at the left edge of x.
// Ternaries on the spine are already parenthesized by leftOperand.
func (w *writer) pipeOnLeft(x Expression) bool {
	if w.target == TargetGML {
		return false
	}
	for {
		switch t := x.(type) {
		case *PipeExpr:
			return true
		case *BinaryExpr:
			if _, ok := t.Left.(*PipeExpr); !ok && w.precOf(t.Left) < binaryPrecedence[t.Op] {
				return false
			}
			x = t.Left
		default:
			return false
		}
	}
}

// isNegative reports whether x is a number literal that prints with a sign.
func isNegative(x Expression) bool {
	l, ok := x.(*Literal)
	return ok && l.Kind == LitNumber && !math.IsNaN(l.Num) && math.Signbit(l.Num)
}

// leftOperand renders a left-hand operand. A pipe stays bare because the
// climbing loop folds any following operator onto it; a ternary would absorb
// the rest of the expression into its else branch.
func (w *writer) leftOperand(x Expression, min int) string {
	switch x.(type) {
	case *PipeExpr:
		return w.expr(x)
	case *TernaryExpr:
		return "(" + w.expr(x) + ")"
	}

	return w.operand(x, min)
}

// expr renders an expression.
func (w *writer) expr(x Expression) string {
	switch t := x.(type) {
	case *BinaryExpr:
		prec := binaryPrecedence[t.Op]
		if t.Op == OpExp && w.target == TargetGML {
			return "power(" + w.expr(t.Left) + ", " + w.expr(t.Right) + ")"
		}
		return w.leftOperand(t.Left, prec) + " " + binaryOpText[t.Op] + " " + w.rightOperand(t.Right, prec+1)

	case *TernaryExpr:
		return w.leftOperand(t.Cond, precTernary+1) + " ? " + w.expr(t.Then) + " : " + w.expr(t.Else)

	case *PipeExpr:
		if w.target == TargetGML {
			args := append([]Expression{t.Input}, t.Call.Args...)
			return w.call(&Call{Name: t.Call.Name, Args: args})
		}
		return w.leftOperand(t.Input, precPipe) + " |> " + w.call(t.Call)

	case Identifier:
		return string(t)

	case *Literal:
		return w.literal(t)

	case *ParenExpr:
		return "(" + w.expr(t.X) + ")"

	case *Call:
		return w.call(t)

	case *UnaryExpr:
		operand := w.expr(t.Operand)
		if isNegative(t.Operand) {
			operand = "(" + operand + ")"
		}
		switch t.Op {
		case UnaryNot:
			return "!" + operand
		case UnaryInv:
			return "~" + operand
		default:
			if strings.HasPrefix(operand, "-") {
				return "- " + operand
			}
			return "-" + operand
		}

	default:
		return ""
	}
}

// call renders "name(args...)".
func (w *writer) call(c *Call) string {
	var b strings.Builder
	b.WriteString(string(c.Name))
	b.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(w.expr(a))
	}
	b.WriteString(")")

	return b.String()
}

// literal renders a literal.
func (w *writer) literal(l *Literal) string {
	switch l.Kind {
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitString:
		return `"` + l.Str + `"`
	case LitChar:
		if w.target == TargetGML {
			return quote(string(l.Char), '"')
		}
		return quote(string(l.Char), '\'')
	case LitUndefined:
		return "undefined"
	default:
		return formatNumber(l.Num)
	}
}

// formatNumber renders a number in shortest plain decimal form.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "infinity"
	case math.IsInf(v, -1):
		return "-infinity"
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quote escapes s and wraps it in q.
func quote(s string, q rune) string {
	return string(q) + escape(s, q) + string(q)
}

// escape encodes s with the escape table for a literal delimited by q.
func escape(s string, q rune) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case '\\':
			b.WriteString(`\\`)
		case q:
			b.WriteRune('\\')
			b.WriteRune(q)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// writeLine writes an indented line.
func (w *writer) writeLine(level int, s string) error {
	if err := w.writeLinePrefix(level, s); err != nil {
		return err
	}

	return w.writeString("\n")
}

// writeLinePrefix writes indentation and s without ending the line.
func (w *writer) writeLinePrefix(level int, s string) error {
	if err := w.writeIndent(level); err != nil {
		return err
	}

	return w.writeString(s)
}

// writeIndent writes the indentation for a nesting level.
func (w *writer) writeIndent(level int) error {
	if level <= 0 {
		return nil
	}

	// Cache repeated indentation strings per nesting level.
	return w.writeString(w.indentFor(level))
}

// writeString writes a string to the writer.
func (w *writer) writeString(s string) error {
	_, err := io.WriteString(w.w, s)
	return err
}

// indentFor returns the indentation string for a nesting level.
func (w *writer) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		// Cache computed indentation for this level.
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}
