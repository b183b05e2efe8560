package interp

import (
	"fmt"

	"github.com/xuan-lang/xuan/compiler"
)

// ---------------------------------------------------------------------------
// Runtime errors
// ---------------------------------------------------------------------------

// Error kind names. 捕获 clauses match against these; the base kind 错误
// matches everything.
const (
	ErrBase      = "错误"
	ErrType      = "类型错误"
	ErrValue     = "值错误"
	ErrIndex     = "索引错误"
	ErrKey       = "键错误"
	ErrName      = "名称错误"
	ErrAttribute = "属性错误"
	ErrZeroDiv   = "零除错误"
	ErrAssert    = "断言错误"
	ErrFile      = "文件错误"
	ErrRuntime   = "运行时错误"
)

// errorKinds is the set of recognized kind names.
var errorKinds = map[string]bool{
	ErrBase:      true,
	ErrType:      true,
	ErrValue:     true,
	ErrIndex:     true,
	ErrKey:       true,
	ErrName:      true,
	ErrAttribute: true,
	ErrZeroDiv:   true,
	ErrAssert:    true,
	ErrFile:      true,
	ErrRuntime:   true,
}

// RuntimeError is an error raised during evaluation, either by the
// interpreter itself or by a 提升 statement.
type RuntimeError struct {
	ErrKind string
	Msg     string
	Pos     compiler.Position
}

func (e *RuntimeError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Pos.Line, e.ErrKind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Msg)
}

// Matches reports whether the error is caught by a handler naming kind.
func (e *RuntimeError) Matches(kind string) bool {
	return kind == ErrBase || kind == e.ErrKind
}

// Value returns the error as a runtime value, for binding with 作为.
func (e *RuntimeError) Value() *ErrorValue {
	return &ErrorValue{ErrKind: e.ErrKind, Msg: e.Msg}
}

func newError(kind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{ErrKind: kind, Msg: fmt.Sprintf(format, args...)}
}
