package gmlpp

// Code is a parsed gmlpp file.
type Code struct {
	Doc  DocComment   // Leading doc comment lines
	Args ArgumentList // Formal arguments
	Body []Statement  // Statements in source order
}

// DocComment holds doc comment lines without their /// marker.
type DocComment []string

// ArgKind represents the kind of a formal argument.
type ArgKind int

const (
	// ArgRequired is "argument x".
	ArgRequired ArgKind = iota
	// ArgDefault is "argument x = expr".
	ArgDefault
	// ArgOptional is "argument x?".
	ArgOptional
	// ArgVariadic is "argument ...x"; it is always the last argument.
	ArgVariadic
)

// Argument is a formal argument.
type Argument struct {
	Default Expression // Value for ArgDefault
	Name    Identifier // Argument name
	Kind    ArgKind    // Argument kind
}

// ArgumentList is the ordered list of formal arguments.
type ArgumentList []Argument

// Statement is a parsed statement.
type Statement interface {
	stmt()
}

// Expression is a parsed expression.
type Expression interface {
	expr()
}

// Value is a leaf of an expression tree.
type Value interface {
	Expression
	value()
}

// NoopStmt is a lone ";".
type NoopStmt struct{}

// AssignStmt is an assignment statement.
type AssignStmt struct {
	Assignment
}

// ExprStmt is a bare expression statement.
type ExprStmt struct {
	X Expression
}

// VarDecl is a var or globalvar declaration.
type VarDecl struct {
	Value  Expression // Initializer, nil when absent
	Name   Identifier
	Global bool // globalvar instead of var
}

// IfStmt is an if statement.
type IfStmt struct {
	Cond Expression
	Body Statement
	Else Statement // nil when absent
}

// LoopKind represents the kind of a conditional loop.
type LoopKind int

const (
	// LoopWhile is "while (cond) body".
	LoopWhile LoopKind = iota
	// LoopUntil is "until (cond) body".
	LoopUntil
	// LoopDoWhile is "do body while (cond)".
	LoopDoWhile
	// LoopDoUntil is "do body until (cond)".
	LoopDoUntil
)

// LoopStmt is a pre- or post-condition loop.
type LoopStmt struct {
	Cond Expression
	Body Statement
	Kind LoopKind
}

// RepeatStmt is "repeat (count) body".
type RepeatStmt struct {
	Count Expression
	Body  Statement
}

// ForStmt is "for (init; cond; update) body".
type ForStmt struct {
	Init   Statement  // NoopStmt when empty
	Cond   Expression // nil when empty
	Update Statement  // NoopStmt when empty
	Body   Statement
}

// WithStmt is "with (target) body".
type WithStmt struct {
	Target Expression
	Body   Statement
}

// BlockStmt is "{ statements }".
type BlockStmt struct {
	Body []Statement
}

// ReturnStmt is "return [value]".
type ReturnStmt struct {
	Value Expression // nil when absent
}

// BreakStmt is "break".
type BreakStmt struct{}

// ContinueStmt is "continue".
type ContinueStmt struct{}

// ExitStmt is "exit".
type ExitStmt struct{}

// DocStmt is a doc comment between top-level statements.
type DocStmt struct {
	Lines DocComment
}

func (*NoopStmt) stmt()     {}
func (*AssignStmt) stmt()   {}
func (*ExprStmt) stmt()     {}
func (*VarDecl) stmt()      {}
func (*IfStmt) stmt()       {}
func (*LoopStmt) stmt()     {}
func (*RepeatStmt) stmt()   {}
func (*ForStmt) stmt()      {}
func (*WithStmt) stmt()     {}
func (*BlockStmt) stmt()    {}
func (*ReturnStmt) stmt()   {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}
func (*ExitStmt) stmt()     {}
func (*DocStmt) stmt()      {}

// AssignOp represents an assignment operator.
type AssignOp int

// assignment operators.
const (
	AssignEq     AssignOp = iota // =
	AssignAdd                    // +=
	AssignSub                    // -=
	AssignMul                    // *=
	AssignDiv                    // /=
	AssignMod                    // %=
	AssignExp                    // **=
	AssignAnd                    // &=
	AssignOr                     // |=
	AssignXor                    // ^=
	AssignShl                    // <<=
	AssignShr                    // >>=
	AssignInc                    // ++, no value
	AssignDec                    // --, no value
)

// LValue is the target of an assignment.
type LValue = Identifier

// Assignment is "target op value".
type Assignment struct {
	Value  Expression // nil for AssignInc and AssignDec
	Target LValue
	Op     AssignOp
}

// BinaryOp represents a binary operator.
type BinaryOp int

// binary operators.
const (
	OpOr         BinaryOp = iota // ||
	OpAnd                        // &&
	OpEqual                      // ==
	OpNotEqual                   // !=
	OpLess                       // <
	OpLessEqual                  // <=
	OpMore                       // >
	OpMoreEqual                  // >=
	OpBitOr                      // |
	OpBitXor                     // ^
	OpBitAnd                     // &
	OpShl                        // <<
	OpShr                        // >>
	OpIntDiv                     // div
	OpIntMod                     // mod
	OpPlus                       // +
	OpMinus                      // -
	OpTimes                      // *
	OpDivide                     // /
	OpPercent                    // %
	OpExp                        // **
)

// BinaryExpr is "left op right".
type BinaryExpr struct {
	Left  Expression
	Right Expression
	Op    BinaryOp
}

// TernaryExpr is "cond ? then : else".
type TernaryExpr struct {
	Cond Expression
	Then Expression
	Else Expression
}

// PipeExpr is "input |> call", feeding input to the call.
type PipeExpr struct {
	Input Expression
	Call  *Call
}

// Identifier is a name reference.
type Identifier string

// LiteralKind represents the kind of a literal.
type LiteralKind int

const (
	// LitNumber is a numeric literal of any radix.
	LitNumber LiteralKind = iota
	// LitBool is true or false.
	LitBool
	// LitString is a double-quoted string.
	LitString
	// LitChar is a single-quoted character.
	LitChar
	// LitUndefined is undefined.
	LitUndefined
)

// Literal is a constant value.
type Literal struct {
	Str  string      // String body as written, escapes included
	Num  float64     // Number value
	Kind LiteralKind // Literal kind
	Char rune        // Char value
	Bool bool        // Bool value
}

// ParenExpr is "(expr)".
type ParenExpr struct {
	X Expression
}

// Call is "name(args...)".
type Call struct {
	Name Identifier
	Args []Expression
}

// UnaryOp represents a prefix operator.
type UnaryOp int

const (
	// UnaryNeg is "-".
	UnaryNeg UnaryOp = iota
	// UnaryNot is "!".
	UnaryNot
	// UnaryInv is "~".
	UnaryInv
)

// UnaryExpr is "op operand".
type UnaryExpr struct {
	Operand Value
	Op      UnaryOp
}

func (*BinaryExpr) expr()  {}
func (*TernaryExpr) expr() {}
func (*PipeExpr) expr()    {}
func (Identifier) expr()   {}
func (*Literal) expr()     {}
func (*ParenExpr) expr()   {}
func (*Call) expr()        {}
func (*UnaryExpr) expr()   {}

func (Identifier) value() {}
func (*Literal) value()   {}
func (*ParenExpr) value() {}
func (*Call) value()      {}
func (*UnaryExpr) value() {}

// Number returns a numeric literal.
func Number(v float64) *Literal {
	return &Literal{Kind: LitNumber, Num: v}
}

// String returns a string literal holding the value s.
func String(s string) *Literal {
	return &Literal{Kind: LitString, Str: escape(s, '"')}
}

// Text returns the value of a string literal with known escapes decoded.
// Unknown escapes are kept as written.
func (l *Literal) Text() string {
	return unescapeString(l.Str)
}

// Bool returns a boolean literal.
func Bool(b bool) *Literal {
	return &Literal{Kind: LitBool, Bool: b}
}

// Char returns a character literal.
func Char(r rune) *Literal {
	return &Literal{Kind: LitChar, Char: r}
}

// Undefined returns the undefined literal.
func Undefined() *Literal {
	return &Literal{Kind: LitUndefined}
}
