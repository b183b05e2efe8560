package compiler

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, input string) *Program {
	t.Helper()
	prog, err := ParseSource(input)
	if err != nil {
		t.Fatalf("ParseSource(%q): %v", input, err)
	}
	return prog
}

func firstExpr(t *testing.T, input string) Expr {
	t.Helper()
	prog := mustParse(t, input)
	if len(prog.Stmts) == 0 {
		t.Fatalf("ParseSource(%q): empty program", input)
	}
	es, ok := prog.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("ParseSource(%q): statement is %T, want *ExprStmt", input, prog.Stmts[0])
	}
	return es.Expr
}

func TestParserLiterals(t *testing.T) {
	tests := []struct {
		input string
		check func(Expr) bool
		desc  string
	}{
		{"42", func(e Expr) bool { return e.(*IntLiteral).Value == 42 }, "integer"},
		{"3.14", func(e Expr) bool { return e.(*FloatLiteral).Value == 3.14 }, "float"},
		{`"你好"`, func(e Expr) bool { return e.(*StringLiteral).Value == "你好" }, "string"},
		{"真", func(e Expr) bool { return bool(e.(*BoolLiteral).Value) }, "true"},
		{"假", func(e Expr) bool { return !e.(*BoolLiteral).Value }, "false"},
		{"空", func(e Expr) bool { _, ok := e.(*NoneLiteral); return ok }, "none"},
		{"名字", func(e Expr) bool { return e.(*Identifier).Name == "名字" }, "identifier"},
	}
	for _, tc := range tests {
		expr := firstExpr(t, tc.input)
		if !tc.check(expr) {
			t.Errorf("%s: check failed for %q (got %T)", tc.desc, tc.input, expr)
		}
	}
}

func TestParserPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	expr := firstExpr(t, "1 + 2 * 3")
	add, ok := expr.(*BinaryOp)
	if !ok || add.Op != "+" {
		t.Fatalf("top = %#v, want +", expr)
	}
	mul, ok := add.Right.(*BinaryOp)
	if !ok || mul.Op != "*" {
		t.Fatalf("right = %#v, want *", add.Right)
	}

	// 1 + 2 < 4 parses as (1 + 2) < 4
	expr = firstExpr(t, "1 + 2 < 4")
	lt, ok := expr.(*BinaryOp)
	if !ok || lt.Op != "<" {
		t.Fatalf("top = %#v, want <", expr)
	}
	if inner, ok := lt.Left.(*BinaryOp); !ok || inner.Op != "+" {
		t.Fatalf("left = %#v, want +", lt.Left)
	}

	// x 小于 5 且 y 大于 2 parses as (x < 5) 且 (y > 2)
	expr = firstExpr(t, "x 小于 5 且 y 大于 2")
	and, ok := expr.(*BinaryOp)
	if !ok || and.Op != "且" {
		t.Fatalf("top = %#v, want 且", expr)
	}
}

func TestParserChineseOperators(t *testing.T) {
	// Word arithmetic keeps its spelling; comparisons normalize to symbols.
	expr := firstExpr(t, "a 加 b")
	if op := expr.(*BinaryOp).Op; op != "加" {
		t.Errorf("op = %q, want 加", op)
	}
	expr = firstExpr(t, "a 大于等于 b")
	if op := expr.(*BinaryOp).Op; op != ">=" {
		t.Errorf("op = %q, want >=", op)
	}
	expr = firstExpr(t, "a 在 b")
	if op := expr.(*BinaryOp).Op; op != "in" {
		t.Errorf("op = %q, want in", op)
	}
}

func TestParserAssignmentTargets(t *testing.T) {
	prog := mustParse(t, "x = 1\no.属性 = 2\nl[0] = 3\n")
	if len(prog.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Stmts))
	}
	if vd, ok := prog.Stmts[0].(*VarDecl); !ok || vd.Name != "x" {
		t.Errorf("stmt[0] = %#v, want VarDecl x", prog.Stmts[0])
	}
	if sa, ok := prog.Stmts[1].(*SetAttr); !ok || sa.Name != "属性" {
		t.Errorf("stmt[1] = %#v, want SetAttr", prog.Stmts[1])
	}
	if _, ok := prog.Stmts[2].(*SetIndex); !ok {
		t.Errorf("stmt[2] = %#v, want SetIndex", prog.Stmts[2])
	}
}

func TestParserInvalidAssignmentTarget(t *testing.T) {
	_, err := ParseSource("1 + 2 = 3\n")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
}

func TestParserAugmentedAssignment(t *testing.T) {
	prog := mustParse(t, "x += 5\n")
	vd, ok := prog.Stmts[0].(*VarDecl)
	if !ok {
		t.Fatalf("stmt = %#v, want VarDecl", prog.Stmts[0])
	}
	bin, ok := vd.Value.(*BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("value = %#v, want x + 5", vd.Value)
	}
	if id, ok := bin.Left.(*Identifier); !ok || id.Name != "x" {
		t.Errorf("left = %#v, want x", bin.Left)
	}
}

func TestParserFunctionDef(t *testing.T) {
	prog := mustParse(t, "定义 问候(名字, 次数=1):\n    返回 名字\n")
	fd, ok := prog.Stmts[0].(*FuncDef)
	if !ok {
		t.Fatalf("stmt = %#v, want FuncDef", prog.Stmts[0])
	}
	if fd.Name != "问候" {
		t.Errorf("name = %q", fd.Name)
	}
	if len(fd.Params) != 2 || fd.Params[0].Name != "名字" || fd.Params[1].Name != "次数" {
		t.Fatalf("params = %#v", fd.Params)
	}
	if fd.Params[0].Default != nil || fd.Params[1].Default == nil {
		t.Errorf("defaults wrong: %#v", fd.Params)
	}
	if len(fd.Body) != 1 {
		t.Fatalf("body has %d statements, want 1", len(fd.Body))
	}
	if _, ok := fd.Body[0].(*Return); !ok {
		t.Errorf("body[0] = %#v, want Return", fd.Body[0])
	}
}

func TestParserClassDef(t *testing.T) {
	input := "类 狗(动物):\n    定义 初始化(名字):\n        自身.名字 = 名字\n    定义 叫():\n        返回 \"汪\"\n"
	prog := mustParse(t, input)
	cd, ok := prog.Stmts[0].(*ClassDef)
	if !ok {
		t.Fatalf("stmt = %#v, want ClassDef", prog.Stmts[0])
	}
	if cd.Name != "狗" {
		t.Errorf("name = %q", cd.Name)
	}
	if len(cd.Bases) != 1 {
		t.Fatalf("bases = %#v", cd.Bases)
	}
	if len(cd.Body) != 2 {
		t.Fatalf("body has %d statements, want 2", len(cd.Body))
	}
}

func TestParserElifDesugar(t *testing.T) {
	input := "如果 a:\n    x = 1\n否则如果 b:\n    x = 2\n否则:\n    x = 3\n"
	prog := mustParse(t, input)
	outer, ok := prog.Stmts[0].(*If)
	if !ok {
		t.Fatalf("stmt = %#v, want If", prog.Stmts[0])
	}
	if len(outer.Else) != 1 {
		t.Fatalf("outer else has %d statements, want 1 nested If", len(outer.Else))
	}
	inner, ok := outer.Else[0].(*If)
	if !ok {
		t.Fatalf("else[0] = %#v, want nested If", outer.Else[0])
	}
	if len(inner.Else) != 1 {
		t.Errorf("inner else has %d statements, want 1", len(inner.Else))
	}
}

func TestParserLoops(t *testing.T) {
	prog := mustParse(t, "当 x 小于 10:\n    x += 1\n")
	if _, ok := prog.Stmts[0].(*While); !ok {
		t.Errorf("stmt = %#v, want While", prog.Stmts[0])
	}

	prog = mustParse(t, "对于 项 在 列表值:\n    输出(项)\n")
	f, ok := prog.Stmts[0].(*For)
	if !ok {
		t.Fatalf("stmt = %#v, want For", prog.Stmts[0])
	}
	if f.Var != "项" {
		t.Errorf("loop var = %q", f.Var)
	}
}

func TestParserTry(t *testing.T) {
	input := "尝试:\n    x = 1\n捕获 值错误 作为 e:\n    x = 2\n捕获:\n    x = 3\n最后:\n    x = 4\n"
	prog := mustParse(t, input)
	tr, ok := prog.Stmts[0].(*Try)
	if !ok {
		t.Fatalf("stmt = %#v, want Try", prog.Stmts[0])
	}
	if len(tr.Handlers) != 2 {
		t.Fatalf("got %d handlers, want 2", len(tr.Handlers))
	}
	if tr.Handlers[0].Type == nil || tr.Handlers[0].Name != "e" {
		t.Errorf("handler[0] = %#v", tr.Handlers[0])
	}
	if tr.Handlers[1].Type != nil {
		t.Errorf("handler[1] should be bare, got %#v", tr.Handlers[1])
	}
	if len(tr.Finally) != 1 {
		t.Errorf("finally has %d statements, want 1", len(tr.Finally))
	}
}

func TestParserWithDesugar(t *testing.T) {
	input := "使用 a 作为 x, b 作为 y:\n    输出(x)\n"
	prog := mustParse(t, input)
	outer, ok := prog.Stmts[0].(*With)
	if !ok {
		t.Fatalf("stmt = %#v, want With", prog.Stmts[0])
	}
	if outer.Name != "x" {
		t.Errorf("outer binds %q, want x", outer.Name)
	}
	inner, ok := outer.Body[0].(*With)
	if !ok {
		t.Fatalf("outer body = %#v, want nested With", outer.Body[0])
	}
	if inner.Name != "y" {
		t.Errorf("inner binds %q, want y", inner.Name)
	}
}

func TestParserDecorators(t *testing.T) {
	input := "@注册\n定义 f():\n    返回 1\n"
	prog := mustParse(t, input)
	fd, ok := prog.Stmts[0].(*FuncDef)
	if !ok {
		t.Fatalf("stmt = %#v, want FuncDef", prog.Stmts[0])
	}
	if len(fd.Decorators) != 1 {
		t.Errorf("got %d decorators, want 1", len(fd.Decorators))
	}
}

func TestParserFStringSubExpressions(t *testing.T) {
	expr := firstExpr(t, `f"共{n + 1}个"`)
	fs, ok := expr.(*FString)
	if !ok {
		t.Fatalf("expr = %#v, want FString", expr)
	}
	if len(fs.Segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(fs.Segs))
	}
	if fs.Segs[0].Text != "共" || fs.Segs[2].Text != "个" {
		t.Errorf("text segments = %q, %q", fs.Segs[0].Text, fs.Segs[2].Text)
	}
	if _, ok := fs.Segs[1].Expr.(*BinaryOp); !ok {
		t.Errorf("middle segment = %#v, want BinaryOp", fs.Segs[1].Expr)
	}
}

func TestParserPostfixChain(t *testing.T) {
	expr := firstExpr(t, "对象.方法(1)[2].字段")
	ga, ok := expr.(*GetAttr)
	if !ok || ga.Name != "字段" {
		t.Fatalf("top = %#v, want GetAttr 字段", expr)
	}
	gi, ok := ga.Object.(*GetIndex)
	if !ok {
		t.Fatalf("next = %#v, want GetIndex", ga.Object)
	}
	if _, ok := gi.Object.(*Call); !ok {
		t.Fatalf("next = %#v, want Call", gi.Object)
	}
}

func TestParserCollections(t *testing.T) {
	expr := firstExpr(t, "[1, 2, 3]")
	list, ok := expr.(*ListLiteral)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expr = %#v, want 3-element list", expr)
	}

	expr = firstExpr(t, `{"a": 1, "b": 2}`)
	dict, ok := expr.(*DictLiteral)
	if !ok || len(dict.Keys) != 2 {
		t.Fatalf("expr = %#v, want 2-entry dict", expr)
	}
}

func TestParserUnaryNotBindsComparison(t *testing.T) {
	// 非 x 大于 5 negates the whole comparison.
	expr := firstExpr(t, "非 x 大于 5")
	un, ok := expr.(*UnaryOp)
	if !ok || un.Op != "非" {
		t.Fatalf("top = %#v, want 非", expr)
	}
	if cmp, ok := un.Operand.(*BinaryOp); !ok || cmp.Op != ">" {
		t.Fatalf("operand = %#v, want >", un.Operand)
	}
}

func TestParserSyntaxErrors(t *testing.T) {
	tests := []string{
		"定义 (x):\n    返回 x\n", // missing function name
		"如果 真\n    x = 1\n",   // missing colon
		"对于 x 列表:\n    传递\n",  // missing 在
		"尝试:\n    x = 1\n",    // no handler or finally
		"(1 + 2\n",            // unclosed paren
	}
	for _, input := range tests {
		_, err := ParseSource(input)
		if err == nil {
			t.Errorf("ParseSource(%q): expected error", input)
			continue
		}
		var synErr *SyntaxError
		if !errors.As(err, &synErr) {
			t.Errorf("ParseSource(%q): error type %T, want *SyntaxError", input, err)
		}
	}
}

func TestParserTopLevelReturn(t *testing.T) {
	prog := mustParse(t, "如果 真: 返回 1\n否则: 返回 2\n")
	iff, ok := prog.Stmts[0].(*If)
	if !ok {
		t.Fatalf("stmt = %#v, want If", prog.Stmts[0])
	}
	if len(iff.Then) != 1 || len(iff.Else) != 1 {
		t.Fatalf("then/else = %d/%d statements", len(iff.Then), len(iff.Else))
	}
}
