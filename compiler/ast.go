package compiler

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for xuan
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Position
	node() // marker method
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

func (n *Program) Pos() Position {
	if len(n.Stmts) > 0 {
		return n.Stmts[0].Pos()
	}
	return Position{Line: 1, Column: 1}
}
func (n *Program) node() {}

// Param is a function parameter, with an optional default value.
type Param struct {
	Name    string
	Default Expr
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// IntLiteral represents an integer literal.
type IntLiteral struct {
	PosVal Position
	Value  int64
}

func (n *IntLiteral) Pos() Position { return n.PosVal }
func (n *IntLiteral) node()         {}
func (n *IntLiteral) expr()         {}

// FloatLiteral represents a floating-point literal.
type FloatLiteral struct {
	PosVal Position
	Value  float64
}

func (n *FloatLiteral) Pos() Position { return n.PosVal }
func (n *FloatLiteral) node()         {}
func (n *FloatLiteral) expr()         {}

// StringLiteral represents a string literal.
type StringLiteral struct {
	PosVal Position
	Value  string
}

func (n *StringLiteral) Pos() Position { return n.PosVal }
func (n *StringLiteral) node()         {}
func (n *StringLiteral) expr()         {}

// BoolLiteral represents 真 or 假.
type BoolLiteral struct {
	PosVal Position
	Value  bool
}

func (n *BoolLiteral) Pos() Position { return n.PosVal }
func (n *BoolLiteral) node()         {}
func (n *BoolLiteral) expr()         {}

// NoneLiteral represents 空.
type NoneLiteral struct {
	PosVal Position
}

func (n *NoneLiteral) Pos() Position { return n.PosVal }
func (n *NoneLiteral) node()         {}
func (n *NoneLiteral) expr()         {}

// FStringSeg is one segment of an interpolated string: either literal text
// or an embedded expression.
type FStringSeg struct {
	Text string
	Expr Expr // nil for text segments
}

// FString represents an interpolated string literal.
type FString struct {
	PosVal Position
	Segs   []FStringSeg
}

func (n *FString) Pos() Position { return n.PosVal }
func (n *FString) node()         {}
func (n *FString) expr()         {}

// Identifier represents a name reference.
type Identifier struct {
	PosVal Position
	Name   string
}

func (n *Identifier) Pos() Position { return n.PosVal }
func (n *Identifier) node()         {}
func (n *Identifier) expr()         {}

// ListLiteral represents a list literal [a, b, c].
type ListLiteral struct {
	PosVal   Position
	Elements []Expr
}

func (n *ListLiteral) Pos() Position { return n.PosVal }
func (n *ListLiteral) node()         {}
func (n *ListLiteral) expr()         {}

// DictLiteral represents a dictionary literal {k: v}. Keys and Values are
// parallel slices preserving source order.
type DictLiteral struct {
	PosVal Position
	Keys   []Expr
	Values []Expr
}

func (n *DictLiteral) Pos() Position { return n.PosVal }
func (n *DictLiteral) node()         {}
func (n *DictLiteral) expr()         {}

// BinaryOp represents a binary operation. Comparison operators are stored
// in their symbolic spelling; word arithmetic operators (加, 减, ...) keep
// their source spelling.
type BinaryOp struct {
	PosVal Position
	Op     string
	Left   Expr
	Right  Expr
}

func (n *BinaryOp) Pos() Position { return n.PosVal }
func (n *BinaryOp) node()         {}
func (n *BinaryOp) expr()         {}

// UnaryOp represents a prefix operation: - or 非.
type UnaryOp struct {
	PosVal  Position
	Op      string
	Operand Expr
}

func (n *UnaryOp) Pos() Position { return n.PosVal }
func (n *UnaryOp) node()         {}
func (n *UnaryOp) expr()         {}

// Call represents a function or method call.
type Call struct {
	PosVal Position
	Func   Expr
	Args   []Expr
}

func (n *Call) Pos() Position { return n.PosVal }
func (n *Call) node()         {}
func (n *Call) expr()         {}

// GetAttr represents attribute access (obj.name).
type GetAttr struct {
	PosVal Position
	Object Expr
	Name   string
}

func (n *GetAttr) Pos() Position { return n.PosVal }
func (n *GetAttr) node()         {}
func (n *GetAttr) expr()         {}

// GetIndex represents subscript access (obj[index]).
type GetIndex struct {
	PosVal Position
	Object Expr
	Index  Expr
}

func (n *GetIndex) Pos() Position { return n.PosVal }
func (n *GetIndex) node()         {}
func (n *GetIndex) expr()         {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	PosVal Position
	Expr   Expr
}

func (n *ExprStmt) Pos() Position { return n.PosVal }
func (n *ExprStmt) node()         {}
func (n *ExprStmt) stmt()         {}

// VarDecl represents a bare assignment (name = value), which declares or
// rebinds the name in the current scope.
type VarDecl struct {
	PosVal Position
	Name   string
	Value  Expr
}

func (n *VarDecl) Pos() Position { return n.PosVal }
func (n *VarDecl) node()         {}
func (n *VarDecl) stmt()         {}

// SetAttr represents attribute assignment (obj.name = value).
type SetAttr struct {
	PosVal Position
	Object Expr
	Name   string
	Value  Expr
}

func (n *SetAttr) Pos() Position { return n.PosVal }
func (n *SetAttr) node()         {}
func (n *SetAttr) stmt()         {}

// SetIndex represents subscript assignment (obj[index] = value).
type SetIndex struct {
	PosVal Position
	Object Expr
	Index  Expr
	Value  Expr
}

func (n *SetIndex) Pos() Position { return n.PosVal }
func (n *SetIndex) node()         {}
func (n *SetIndex) stmt()         {}

// FuncDef represents a named function definition (定义).
type FuncDef struct {
	PosVal     Position
	Name       string
	Params     []Param
	Body       []Stmt
	Decorators []Expr
}

func (n *FuncDef) Pos() Position { return n.PosVal }
func (n *FuncDef) node()         {}
func (n *FuncDef) stmt()         {}

// ClassDef represents a class definition (类).
type ClassDef struct {
	PosVal     Position
	Name       string
	Bases      []Expr
	Body       []Stmt
	Decorators []Expr
}

func (n *ClassDef) Pos() Position { return n.PosVal }
func (n *ClassDef) node()         {}
func (n *ClassDef) stmt()         {}

// Return represents 返回. Value is nil for a bare return.
type Return struct {
	PosVal Position
	Value  Expr
}

func (n *Return) Pos() Position { return n.PosVal }
func (n *Return) node()         {}
func (n *Return) stmt()         {}

// If represents a conditional. Chained 否则如果 branches are desugared into
// nested If statements in the Else slice.
type If struct {
	PosVal Position
	Cond   Expr
	Then   []Stmt
	Else   []Stmt
}

func (n *If) Pos() Position { return n.PosVal }
func (n *If) node()         {}
func (n *If) stmt()         {}

// While represents a 当 loop.
type While struct {
	PosVal Position
	Cond   Expr
	Body   []Stmt
}

func (n *While) Pos() Position { return n.PosVal }
func (n *While) node()         {}
func (n *While) stmt()         {}

// For represents a 对于 ... 在 ... loop.
type For struct {
	PosVal Position
	Var    string
	Iter   Expr
	Body   []Stmt
}

func (n *For) Pos() Position { return n.PosVal }
func (n *For) node()         {}
func (n *For) stmt()         {}

// Break represents 中断.
type Break struct {
	PosVal Position
}

func (n *Break) Pos() Position { return n.PosVal }
func (n *Break) node()         {}
func (n *Break) stmt()         {}

// Continue represents 继续.
type Continue struct {
	PosVal Position
}

func (n *Continue) Pos() Position { return n.PosVal }
func (n *Continue) node()         {}
func (n *Continue) stmt()         {}

// Pass represents 传递, a statement with no effect.
type Pass struct {
	PosVal Position
}

func (n *Pass) Pos() Position { return n.PosVal }
func (n *Pass) node()         {}
func (n *Pass) stmt()         {}

// ExceptClause is one 捕获 handler. Type is nil for a bare handler that
// catches everything; Name is empty when no binding variable was given.
type ExceptClause struct {
	PosVal Position
	Type   Expr
	Name   string
	Body   []Stmt
}

// Try represents 尝试/捕获/最后.
type Try struct {
	PosVal   Position
	Body     []Stmt
	Handlers []ExceptClause
	Finally  []Stmt
}

func (n *Try) Pos() Position { return n.PosVal }
func (n *Try) node()         {}
func (n *Try) stmt()         {}

// Raise represents 提升. Value is nil for a bare re-raise.
type Raise struct {
	PosVal Position
	Value  Expr
}

func (n *Raise) Pos() Position { return n.PosVal }
func (n *Raise) node()         {}
func (n *Raise) stmt()         {}

// With represents a 使用 statement. Multiple context expressions are
// desugared into nested With statements.
type With struct {
	PosVal Position
	Expr   Expr
	Name   string // empty when no 作为 binding
	Body   []Stmt
}

func (n *With) Pos() Position { return n.PosVal }
func (n *With) node()         {}
func (n *With) stmt()         {}

// Import represents 导入. Module resolution is not performed; the statement
// is recorded and has no runtime effect.
type Import struct {
	PosVal Position
	Module string
	Alias  string
}

func (n *Import) Pos() Position { return n.PosVal }
func (n *Import) node()         {}
func (n *Import) stmt()         {}

// Assert represents 断言. Msg is nil when no failure message was given.
type Assert struct {
	PosVal Position
	Cond   Expr
	Msg    Expr
}

func (n *Assert) Pos() Position { return n.PosVal }
func (n *Assert) node()         {}
func (n *Assert) stmt()         {}

// Delete represents 删除. Each target is an identifier, attribute access,
// or subscript access.
type Delete struct {
	PosVal  Position
	Targets []Expr
}

func (n *Delete) Pos() Position { return n.PosVal }
func (n *Delete) node()         {}
func (n *Delete) stmt()         {}

// Global represents 全局.
type Global struct {
	PosVal Position
	Names  []string
}

func (n *Global) Pos() Position { return n.PosVal }
func (n *Global) node()         {}
func (n *Global) stmt()         {}

// Nonlocal represents 非局部.
type Nonlocal struct {
	PosVal Position
	Names  []string
}

func (n *Nonlocal) Pos() Position { return n.PosVal }
func (n *Nonlocal) node()         {}
func (n *Nonlocal) stmt()         {}

// The remaining expression kinds are part of the node set but have no
// surface syntax yet: the parser never produces them and the evaluator
// rejects them as unevaluable.

// Lambda is an anonymous function expression.
type Lambda struct {
	PosVal Position
	Params []Param
	Body   Expr
}

func (n *Lambda) Pos() Position { return n.PosVal }
func (n *Lambda) node()         {}
func (n *Lambda) expr()         {}

// TupleLiteral is an immutable sequence literal.
type TupleLiteral struct {
	PosVal Position
	Items  []Expr
}

func (n *TupleLiteral) Pos() Position { return n.PosVal }
func (n *TupleLiteral) node()         {}
func (n *TupleLiteral) expr()         {}

// SetLiteral is an unordered collection literal.
type SetLiteral struct {
	PosVal Position
	Items  []Expr
}

func (n *SetLiteral) Pos() Position { return n.PosVal }
func (n *SetLiteral) node()         {}
func (n *SetLiteral) expr()         {}

// Comprehension covers list and dict comprehensions. Value and Key follow
// ListLiteral/DictLiteral conventions; Key is nil for list comprehensions.
type Comprehension struct {
	PosVal Position
	Key    Expr
	Value  Expr
	Var    string
	Iter   Expr
	Cond   Expr
}

func (n *Comprehension) Pos() Position { return n.PosVal }
func (n *Comprehension) node()         {}
func (n *Comprehension) expr()         {}
