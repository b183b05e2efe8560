package compiler

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Structured errors surfaced by the lexer and parser
// ---------------------------------------------------------------------------

// Lexical error codes.
const (
	CodeInvalidChar    = "LEX001" // unrecognized character
	CodeUnterminated   = "LEX002" // unterminated string
	CodeInvalidNumber  = "LEX003" // invalid numeric literal
	CodeInvalidIdent   = "LEX004" // invalid identifier
	CodeInvalidOp      = "LEX005" // invalid operator
	CodeUnbalancedExpr = "LEX006" // unbalanced f-string braces
	CodeBadIndent      = "LEX007" // indentation mismatch
	CodeBadEscape      = "LEX008" // invalid unicode escape
)

// LexError is a lexical error with a machine-readable code and a short
// excerpt of the surrounding source with a caret marking the offending
// position.
type LexError struct {
	Code    string
	Msg     string
	Pos     Position
	Context string
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("line %d, column %d: [%s] %s", e.Pos.Line, e.Pos.Column, e.Code, e.Msg)
	if e.Context != "" {
		msg += "\n" + e.Context
	}
	return msg
}

// SyntaxError is a parse error. The first one aborts parsing; there is no
// recovery.
type SyntaxError struct {
	Msg string
	Pos Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// errorContext builds a one-line excerpt around offset with a caret under the
// offending character.
func errorContext(input string, offset int) string {
	if input == "" {
		return ""
	}
	if offset > len(input) {
		offset = len(input)
	}
	start := offset
	for start > 0 && input[start-1] != '\n' && offset-start < 30 {
		start--
	}
	end := offset
	for end < len(input) && input[end] != '\n' && end-offset < 30 {
		end++
	}
	excerpt := input[start:end]
	marker := strings.Repeat(" ", len([]rune(input[start:offset]))) + "^"
	return excerpt + "\n" + marker
}
