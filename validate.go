package gmlpp

import "strconv"

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue codes.
const (
	CodeDuplicateArgument = "duplicate_argument"
	CodeArgumentOrder     = "argument_order"
	CodeUnreachable       = "unreachable"
	CodeEmptyLoop         = "empty_loop"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level"`          // Severity level
	Code    string     `json:"code,omitempty"` // Machine-readable code
	Message string     `json:"message"`        // Issue message
	Path    string     `json:"path,omitempty"` // Location in the tree, e.g. body[2].body[0]
}

// Validate runs structural checks over parsed code and returns issues.
func Validate(code *Code, opt *ValidateOptions) []Issue {
	if code == nil {
		return nil
	}

	vopt := opt.normalize()
	out := validateArguments(code.Args)

	v := &validator{opt: vopt}
	v.statements("body", code.Body)

	return append(out, v.out...)
}

// validateArguments checks argument names and ordering.
func validateArguments(args ArgumentList) []Issue {
	var out []Issue
	seen := make(map[Identifier]struct{}, len(args))
	trailing := false
	for i, a := range args {
		path := "args[" + strconv.Itoa(i) + "]"
		if _, ok := seen[a.Name]; ok {
			out = append(out, Issue{Level: IssueError, Code: CodeDuplicateArgument, Message: "duplicate argument " + string(a.Name), Path: path})
		}
		seen[a.Name] = struct{}{}

		switch a.Kind {
		case ArgDefault, ArgOptional:
			trailing = true
		case ArgRequired:
			if trailing {
				out = append(out, Issue{Level: IssueWarning, Code: CodeArgumentOrder, Message: "required argument " + string(a.Name) + " after optional argument", Path: path})
			}
		}
	}

	return out
}

// validator walks statements and collects issues.
type validator struct {
	out []Issue
	opt ValidateOptions
}

// statements checks a statement list and recurses into each statement.
func (v *validator) statements(path string, list []Statement) {
	dead, reported := false, false
	for i, s := range list {
		p := path + "[" + strconv.Itoa(i) + "]"
		if dead && !reported && !v.opt.DisableUnreachableCheck {
			switch s.(type) {
			case *DocStmt, *NoopStmt:
			default:
				v.out = append(v.out, Issue{Level: IssueWarning, Code: CodeUnreachable, Message: "unreachable statement", Path: p})
				reported = true
			}
		}
		if jumps(s) {
			dead = true
		}
		v.statement(p, s)
	}
}

// statement recurses into statement bodies.
func (v *validator) statement(path string, s Statement) {
	switch t := s.(type) {
	case *BlockStmt:
		v.statements(path+".body", t.Body)
	case *IfStmt:
		v.body(path+".body", t.Body)
		if t.Else != nil {
			v.body(path+".else", t.Else)
		}
	case *LoopStmt:
		v.loopBody(path, t.Body)
	case *RepeatStmt:
		v.loopBody(path, t.Body)
	case *ForStmt:
		v.loopBody(path, t.Body)
	case *WithStmt:
		v.body(path+".body", t.Body)
	}
}

// loopBody checks a loop body for emptiness before recursing.
func (v *validator) loopBody(path string, body Statement) {
	if _, ok := body.(*NoopStmt); ok && !v.opt.DisableEmptyLoopCheck {
		v.out = append(v.out, Issue{Level: IssueWarning, Code: CodeEmptyLoop, Message: "loop body is empty", Path: path})
	}
	v.body(path+".body", body)
}

// body recurses into a single-statement body.
func (v *validator) body(path string, s Statement) {
	if s == nil {
		return
	}
	v.statement(path, s)
}

// jumps reports whether s always transfers control away.
func jumps(s Statement) bool {
	switch s.(type) {
	case *ReturnStmt, *ExitStmt, *BreakStmt, *ContinueStmt:
		return true
	default:
		return false
	}
}
