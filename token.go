package gmlpp

import "fmt"

// tokenKind represents a type of a token.
type tokenKind int

// token kinds.
const (
	tokBOF tokenKind = iota // Begin of file
	tokEOF                  // End of file
	tokEOL                  // End of line

	// values
	tokIdent     // Identifier
	tokDec       // Decimal literal
	tokHex       // Hexadecimal literal, without 0x
	tokBin       // Binary literal, without 0b
	tokString    // String literal, without quotes
	tokChar      // Character literal, without quotes
	tokBool      // true or false
	tokUndefined // undefined

	// comments
	tokComment      // Line comment
	tokDocComment   // Doc comment, text after ///
	tokBlockComment // Block comment

	// bitwise operators
	tokAnd           // &
	tokOr            // |
	tokXor           // ^
	tokInv           // ~
	tokLShift        // <<
	tokRShift        // >>
	tokAndAssign     // &=
	tokOrAssign      // |=
	tokXorAssign     // ^=
	tokLShiftAssign  // <<=
	tokRShiftAssign  // >>=
	tokBAnd          // &&
	tokBOr           // ||
	tokBang          // !
	tokPlus          // +
	tokMinus         // -
	tokStar          // *
	tokSlash         // /
	tokPct           // %
	tokExp           // **
	tokPlusAssign    // +=
	tokMinusAssign   // -=
	tokStarAssign    // *=
	tokSlashAssign   // /=
	tokPctAssign     // %=
	tokExpAssign     // **=
	tokPlusPlus      // ++
	tokMinusMinus    // --
	tokEqual         // ==
	tokNotEqual      // !=
	tokLess          // <
	tokLessEqual     // <=
	tokMore          // >
	tokMoreEqual     // >=
	tokAssign        // =
	tokHash          // #
	tokAt            // @
	tokQuestion      // ?
	tokColon         // :
	tokPipe          // |>
	tokUnderscore    // _
	tokLBrack        // [
	tokRBrack        // ]
	tokLParen        // (
	tokRParen        // )
	tokLBrace        // {
	tokRBrace        // }
	tokComma         // ,
	tokDot           // .
	tokEllipsis      // ...
	tokSemi          // ;

	// keywords
	tokFor
	tokDo
	tokWhile
	tokUntil
	tokRepeat
	tokWith
	tokIf
	tokElse
	tokSwitch
	tokCase
	tokDefault
	tokBreak
	tokContinue
	tokReturn
	tokExit
	tokVar
	tokGlobalvar
	tokEnum
	tokGlobal
	tokDiv
	tokMod
	tokArgument
	tokMacro  // #macro
	tokPragma // #pragma

	tokReserved // Reserved word, text kept
)

// token represents a token in a gmlpp source file.
type token struct {
	Lit  string    // Literal value of the token
	Kind tokenKind // Kind of the token
	Line int       // Line number of the token
	Col  int       // Column number of the token
}

// String returns the token as it would be quoted in an error message.
func (t token) String() string {
	switch t.Kind {
	case tokIdent, tokDec, tokBool, tokReserved:
		return t.Lit
	case tokHex:
		return "0x" + t.Lit
	case tokBin:
		return "0b" + t.Lit
	case tokString:
		return `"` + t.Lit + `"`
	case tokChar:
		return "'" + t.Lit + "'"
	case tokDocComment:
		return "///" + t.Lit
	default:
		return t.Kind.String()
	}
}

// keywords maps identifier text to its keyword kind.
var keywords = map[string]tokenKind{
	"for":       tokFor,
	"do":        tokDo,
	"while":     tokWhile,
	"until":     tokUntil,
	"repeat":    tokRepeat,
	"with":      tokWith,
	"if":        tokIf,
	"else":      tokElse,
	"switch":    tokSwitch,
	"case":      tokCase,
	"default":   tokDefault,
	"break":     tokBreak,
	"continue":  tokContinue,
	"return":    tokReturn,
	"exit":      tokExit,
	"var":       tokVar,
	"globalvar": tokGlobalvar,
	"enum":      tokEnum,
	"global":    tokGlobal,
	"div":       tokDiv,
	"mod":       tokMod,
	"argument":  tokArgument,
	"true":      tokBool,
	"false":     tokBool,
	"undefined": tokUndefined,
}

// reserved words cannot be used as identifiers.
var reserved = map[string]struct{}{
	"public": {}, "protected": {}, "private": {}, "let": {}, "const": {},
	"property": {}, "method": {}, "function": {}, "local": {}, "struct": {},
	"class": {}, "trait": {}, "interface": {}, "protocol": {}, "extension": {},
	"implementation": {}, "type": {}, "data": {}, "in": {}, "is": {}, "of": {},
	"typeof": {}, "instanceof": {}, "match": {}, "otherwise": {}, "throw": {},
	"catch": {}, "try": {}, "unreachable": {}, "null": {},
	"bool": {}, "number": {}, "string": {}, "char": {}, "array": {}, "symbol": {},
	"void": {}, "never": {}, "map": {}, "list": {}, "grid": {}, "object": {},
	"room": {}, "sprite": {}, "script": {}, "path": {}, "tileset": {}, "sound": {},
	"font": {}, "timeline": {},
}

// identKind classifies identifier text.
func identKind(lit string) tokenKind {
	if k, ok := keywords[lit]; ok {
		return k
	}
	if _, ok := reserved[lit]; ok {
		return tokReserved
	}
	return tokIdent
}

var tokenNames = map[tokenKind]string{
	tokBOF:          "BOF",
	tokEOF:          "EOF",
	tokEOL:          "end of line",
	tokIdent:        "identifier",
	tokDec:          "number",
	tokHex:          "hex number",
	tokBin:          "binary number",
	tokString:       "string",
	tokChar:         "char",
	tokBool:         "boolean",
	tokUndefined:    "undefined",
	tokComment:      "comment",
	tokDocComment:   "doc comment",
	tokBlockComment: "block comment",
	tokAnd:          "&",
	tokOr:           "|",
	tokXor:          "^",
	tokInv:          "~",
	tokLShift:       "<<",
	tokRShift:       ">>",
	tokAndAssign:    "&=",
	tokOrAssign:     "|=",
	tokXorAssign:    "^=",
	tokLShiftAssign: "<<=",
	tokRShiftAssign: ">>=",
	tokBAnd:         "&&",
	tokBOr:          "||",
	tokBang:         "!",
	tokPlus:         "+",
	tokMinus:        "-",
	tokStar:         "*",
	tokSlash:        "/",
	tokPct:          "%",
	tokExp:          "**",
	tokPlusAssign:   "+=",
	tokMinusAssign:  "-=",
	tokStarAssign:   "*=",
	tokSlashAssign:  "/=",
	tokPctAssign:    "%=",
	tokExpAssign:    "**=",
	tokPlusPlus:     "++",
	tokMinusMinus:   "--",
	tokEqual:        "==",
	tokNotEqual:     "!=",
	tokLess:         "<",
	tokLessEqual:    "<=",
	tokMore:         ">",
	tokMoreEqual:    ">=",
	tokAssign:       "=",
	tokHash:         "#",
	tokAt:           "@",
	tokQuestion:     "?",
	tokColon:        ":",
	tokPipe:         "|>",
	tokUnderscore:   "_",
	tokLBrack:       "[",
	tokRBrack:       "]",
	tokLParen:       "(",
	tokRParen:       ")",
	tokLBrace:       "{",
	tokRBrace:       "}",
	tokComma:        ",",
	tokDot:          ".",
	tokEllipsis:     "...",
	tokSemi:         ";",
	tokFor:          "for",
	tokDo:           "do",
	tokWhile:        "while",
	tokUntil:        "until",
	tokRepeat:       "repeat",
	tokWith:         "with",
	tokIf:           "if",
	tokElse:         "else",
	tokSwitch:       "switch",
	tokCase:         "case",
	tokDefault:      "default",
	tokBreak:        "break",
	tokContinue:     "continue",
	tokReturn:       "return",
	tokExit:         "exit",
	tokVar:          "var",
	tokGlobalvar:    "globalvar",
	tokEnum:         "enum",
	tokGlobal:       "global",
	tokDiv:          "div",
	tokMod:          "mod",
	tokArgument:     "argument",
	tokMacro:        "#macro",
	tokPragma:       "#pragma",
	tokReserved:     "reserved word",
}

// String returns the name of a token kind.
func (k tokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}
