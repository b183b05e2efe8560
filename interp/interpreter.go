package interp

import (
	"bufio"
	"errors"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/xuan-lang/xuan/compiler"
)

// ---------------------------------------------------------------------------
// Interpreter: tree-walking evaluator
// ---------------------------------------------------------------------------

// maxCallDepth bounds recursion so runaway programs raise a language error
// instead of exhausting the Go stack.
const maxCallDepth = 1000

// Interp evaluates xuan programs. Program-level names live in Globals, so
// repeated Interpret calls (a REPL session) share state.
type Interp struct {
	Globals *Env
	Stdout  io.Writer
	Stdin   *bufio.Reader
	Rand    *rand.Rand

	env       *Env
	activeErr *RuntimeError // error being handled by the innermost 捕获
	callDepth int
}

// New creates an interpreter with an empty global scope.
func New() *Interp {
	globals := NewEnv(nil)
	return &Interp{
		Globals: globals,
		Stdout:  os.Stdout,
		Stdin:   bufio.NewReader(os.Stdin),
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		env:     globals,
	}
}

// Define binds a name in the global scope. Builtin registration goes
// through here.
func (ip *Interp) Define(name string, v Value) {
	ip.Globals.Define(name, v)
}

// Run tokenizes, parses and interprets a source text.
func (ip *Interp) Run(source string) (Value, error) {
	prog, err := compiler.ParseSource(source)
	if err != nil {
		return nil, err
	}
	return ip.Interpret(prog)
}

// Interpret executes a program. A top-level 返回 ends execution and its
// value becomes the result; otherwise the result is 空.
func (ip *Interp) Interpret(prog *compiler.Program) (Value, error) {
	for _, stmt := range prog.Stmts {
		f, err := ip.exec(stmt)
		if err != nil {
			return nil, err
		}
		switch f.kind {
		case flowReturn:
			return f.value, nil
		case flowBreak:
			return nil, newError(ErrRuntime, "中断只能在循环中使用")
		case flowContinue:
			return nil, newError(ErrRuntime, "继续只能在循环中使用")
		}
	}
	return TheNone, nil
}

// EvalLine executes one REPL input and returns the value of its last
// expression statement, or 空 when there is none.
func (ip *Interp) EvalLine(source string) (Value, error) {
	prog, err := compiler.ParseSource(source)
	if err != nil {
		return nil, err
	}
	last := Value(TheNone)
	for _, stmt := range prog.Stmts {
		if es, ok := stmt.(*compiler.ExprStmt); ok {
			v, err := ip.eval(es.Expr)
			if err != nil {
				return nil, err
			}
			last = v
			continue
		}
		f, err := ip.exec(stmt)
		if err != nil {
			return nil, err
		}
		switch f.kind {
		case flowReturn:
			return f.value, nil
		case flowBreak:
			return nil, newError(ErrRuntime, "中断只能在循环中使用")
		case flowContinue:
			return nil, newError(ErrRuntime, "继续只能在循环中使用")
		}
		last = TheNone
	}
	return last, nil
}

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
	flowContinue
)

// flow is the outcome of executing a statement. Return carries a value;
// break and continue propagate until a loop absorbs them.
type flow struct {
	kind  flowKind
	value Value
}

var normal = flow{}

// ---------------------------------------------------------------------------
// Statement execution
// ---------------------------------------------------------------------------

// execBlock runs statements in the given scope, restoring the previous
// scope afterwards. Only calls introduce a new scope; statement blocks run
// in the enclosing one, so assignments inside 如果/当/对于 bodies reach the
// surrounding variables.
func (ip *Interp) execBlock(stmts []compiler.Stmt, env *Env) (flow, error) {
	saved := ip.env
	ip.env = env
	defer func() { ip.env = saved }()
	return ip.execStmts(stmts)
}

func (ip *Interp) execStmts(stmts []compiler.Stmt) (flow, error) {
	for _, stmt := range stmts {
		f, err := ip.exec(stmt)
		if err != nil || f.kind != flowNormal {
			return f, err
		}
	}
	return normal, nil
}

func (ip *Interp) exec(stmt compiler.Stmt) (flow, error) {
	switch s := stmt.(type) {
	case *compiler.ExprStmt:
		_, err := ip.eval(s.Expr)
		return normal, ip.at(err, s.PosVal)

	case *compiler.VarDecl:
		v, err := ip.eval(s.Value)
		if err != nil {
			return normal, ip.at(err, s.PosVal)
		}
		ip.env.Define(s.Name, v)
		return normal, nil

	case *compiler.SetAttr:
		return normal, ip.at(ip.execSetAttr(s), s.PosVal)

	case *compiler.SetIndex:
		return normal, ip.at(ip.execSetIndex(s), s.PosVal)

	case *compiler.FuncDef:
		fn := &Function{Name: s.Name, Params: s.Params, Body: s.Body, Env: ip.env}
		ip.env.Define(s.Name, fn)
		return normal, nil

	case *compiler.ClassDef:
		return normal, ip.at(ip.execClassDef(s), s.PosVal)

	case *compiler.Return:
		value := Value(TheNone)
		if s.Value != nil {
			v, err := ip.eval(s.Value)
			if err != nil {
				return normal, ip.at(err, s.PosVal)
			}
			value = v
		}
		return flow{kind: flowReturn, value: value}, nil

	case *compiler.If:
		cond, err := ip.eval(s.Cond)
		if err != nil {
			return normal, ip.at(err, s.PosVal)
		}
		if Truthy(cond) {
			return ip.execStmts(s.Then)
		}
		return ip.execStmts(s.Else)

	case *compiler.While:
		for {
			cond, err := ip.eval(s.Cond)
			if err != nil {
				return normal, ip.at(err, s.PosVal)
			}
			if !Truthy(cond) {
				return normal, nil
			}
			f, err := ip.execStmts(s.Body)
			if err != nil {
				return normal, err
			}
			switch f.kind {
			case flowBreak:
				return normal, nil
			case flowReturn:
				return f, nil
			}
		}

	case *compiler.For:
		iter, err := ip.eval(s.Iter)
		if err != nil {
			return normal, ip.at(err, s.PosVal)
		}
		items, err := iterate(iter)
		if err != nil {
			return normal, ip.at(err, s.PosVal)
		}
		for _, item := range items {
			ip.env.Define(s.Var, item)
			f, err := ip.execStmts(s.Body)
			if err != nil {
				return normal, err
			}
			switch f.kind {
			case flowBreak:
				return normal, nil
			case flowReturn:
				return f, nil
			}
		}
		return normal, nil

	case *compiler.Break:
		return flow{kind: flowBreak}, nil

	case *compiler.Continue:
		return flow{kind: flowContinue}, nil

	case *compiler.Pass:
		return normal, nil

	case *compiler.Try:
		return ip.execTry(s)

	case *compiler.Raise:
		return normal, ip.at(ip.execRaise(s), s.PosVal)

	case *compiler.Assert:
		cond, err := ip.eval(s.Cond)
		if err != nil {
			return normal, ip.at(err, s.PosVal)
		}
		if Truthy(cond) {
			return normal, nil
		}
		msg := "断言失败"
		if s.Msg != nil {
			mv, err := ip.eval(s.Msg)
			if err != nil {
				return normal, ip.at(err, s.PosVal)
			}
			msg = mv.String()
		}
		return normal, ip.at(newError(ErrAssert, "%s", msg), s.PosVal)

	case *compiler.With:
		v, err := ip.eval(s.Expr)
		if err != nil {
			return normal, ip.at(err, s.PosVal)
		}
		if s.Name != "" {
			ip.env.Define(s.Name, v)
		}
		return ip.execStmts(s.Body)

	case *compiler.Delete:
		for _, target := range s.Targets {
			if err := ip.execDelete(target); err != nil {
				return normal, ip.at(err, s.PosVal)
			}
		}
		return normal, nil

	case *compiler.Import, *compiler.Global, *compiler.Nonlocal:
		// Module loading and scope declarations are accepted without effect.
		return normal, nil
	}
	return normal, newError(ErrRuntime, "无法执行的语句: %T", stmt)
}

// at fills in a statement position on errors that lack one.
func (ip *Interp) at(err error, pos compiler.Position) error {
	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Pos.Line == 0 {
		rerr.Pos = pos
	}
	return err
}

func (ip *Interp) execSetAttr(s *compiler.SetAttr) error {
	obj, err := ip.eval(s.Object)
	if err != nil {
		return err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return newError(ErrType, "只能在实例上设置属性")
	}
	v, err := ip.eval(s.Value)
	if err != nil {
		return err
	}
	inst.Fields[s.Name] = v
	return nil
}

func (ip *Interp) execSetIndex(s *compiler.SetIndex) error {
	obj, err := ip.eval(s.Object)
	if err != nil {
		return err
	}
	index, err := ip.eval(s.Index)
	if err != nil {
		return err
	}
	value, err := ip.eval(s.Value)
	if err != nil {
		return err
	}

	switch obj := obj.(type) {
	case *List:
		i, err := listIndex(obj, index)
		if err != nil {
			return err
		}
		obj.Items[i] = value
		return nil
	case *Dict:
		return obj.Set(index, value)
	}
	return newError(ErrType, "类型 %s 不支持索引赋值", obj.Kind())
}

func (ip *Interp) execClassDef(s *compiler.ClassDef) error {
	var super *Class
	if len(s.Bases) > 0 {
		base, err := ip.eval(s.Bases[0])
		if err != nil {
			return err
		}
		sc, ok := base.(*Class)
		if !ok {
			return newError(ErrType, "父类必须是一个类")
		}
		super = sc
	}

	// Methods close over an environment where 父类 names the superclass,
	// so class bodies can reference it directly.
	methodEnv := ip.env
	if super != nil {
		methodEnv = NewEnv(ip.env)
		methodEnv.Define("父类", super)
	}

	methods := make(map[string]*Function)
	for _, stmt := range s.Body {
		fd, ok := stmt.(*compiler.FuncDef)
		if !ok {
			continue
		}
		methods[fd.Name] = &Function{
			Name:   fd.Name,
			Params: fd.Params,
			Body:   fd.Body,
			Env:    methodEnv,
			IsInit: fd.Name == "初始化",
		}
	}

	ip.env.Define(s.Name, &Class{Name: s.Name, Super: super, Methods: methods})
	return nil
}

func (ip *Interp) execRaise(s *compiler.Raise) error {
	if s.Value == nil {
		if ip.activeErr != nil {
			return ip.activeErr
		}
		return newError(ErrRuntime, "没有活动的异常可以重新提升")
	}
	v, err := ip.eval(s.Value)
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case *ErrorValue:
		return &RuntimeError{ErrKind: v.ErrKind, Msg: v.Msg}
	case String:
		return newError(ErrRuntime, "%s", string(v))
	}
	return newError(ErrRuntime, "%s", v.String())
}

func (ip *Interp) execTry(s *compiler.Try) (flow, error) {
	f, err := ip.execStmts(s.Body)

	var rerr *RuntimeError
	if err != nil && errors.As(err, &rerr) {
		for _, h := range s.Handlers {
			if !ip.handlerMatches(h, rerr) {
				continue
			}
			if h.Name != "" {
				ip.env.Define(h.Name, rerr.Value())
			}
			saved := ip.activeErr
			ip.activeErr = rerr
			f, err = ip.execStmts(h.Body)
			ip.activeErr = saved
			break
		}
	}

	if len(s.Finally) > 0 {
		ff, ferr := ip.execStmts(s.Finally)
		if ferr != nil {
			return normal, ferr
		}
		// Control flow out of 最后 overrides the pending outcome.
		if ff.kind != flowNormal {
			return ff, nil
		}
	}
	return f, err
}

// handlerMatches reports whether a 捕获 clause catches the error. A bare
// clause catches everything; a typed clause matches by error kind name.
func (ip *Interp) handlerMatches(h compiler.ExceptClause, rerr *RuntimeError) bool {
	if h.Type == nil {
		return true
	}
	id, ok := h.Type.(*compiler.Identifier)
	if !ok {
		return false
	}
	if !errorKinds[id.Name] {
		return false
	}
	return rerr.Matches(id.Name)
}

func (ip *Interp) execDelete(target compiler.Expr) error {
	switch t := target.(type) {
	case *compiler.Identifier:
		if !ip.env.Remove(t.Name) {
			return newError(ErrName, "未定义的变量: %s", t.Name)
		}
		return nil

	case *compiler.GetAttr:
		obj, err := ip.eval(t.Object)
		if err != nil {
			return err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return newError(ErrType, "只能删除实例的属性")
		}
		if _, ok := inst.Fields[t.Name]; !ok {
			return newError(ErrAttribute, "%s没有属性'%s'", inst, t.Name)
		}
		delete(inst.Fields, t.Name)
		return nil

	case *compiler.GetIndex:
		obj, err := ip.eval(t.Object)
		if err != nil {
			return err
		}
		index, err := ip.eval(t.Index)
		if err != nil {
			return err
		}
		switch obj := obj.(type) {
		case *List:
			i, err := listIndex(obj, index)
			if err != nil {
				return err
			}
			obj.Items = append(obj.Items[:i], obj.Items[i+1:]...)
			return nil
		case *Dict:
			found, err := obj.Delete(index)
			if err != nil {
				return err
			}
			if !found {
				return newError(ErrKey, "键错误: %s", Repr(index))
			}
			return nil
		}
		return newError(ErrType, "类型 %s 不支持删除元素", obj.Kind())
	}
	return newError(ErrType, "无效的删除目标")
}

// ---------------------------------------------------------------------------
// Expression evaluation
// ---------------------------------------------------------------------------

func (ip *Interp) eval(expr compiler.Expr) (Value, error) {
	switch e := expr.(type) {
	case *compiler.IntLiteral:
		return Int(e.Value), nil
	case *compiler.FloatLiteral:
		return Float(e.Value), nil
	case *compiler.StringLiteral:
		return String(e.Value), nil
	case *compiler.BoolLiteral:
		return Bool(e.Value), nil
	case *compiler.NoneLiteral:
		return TheNone, nil

	case *compiler.Identifier:
		v, ok := ip.env.Get(e.Name)
		if !ok {
			return nil, ip.at(newError(ErrName, "未定义的变量: %s", e.Name), e.PosVal)
		}
		return v, nil

	case *compiler.FString:
		var sb strings.Builder
		for _, seg := range e.Segs {
			if seg.Expr == nil {
				sb.WriteString(seg.Text)
				continue
			}
			v, err := ip.eval(seg.Expr)
			if err != nil {
				return nil, err
			}
			sb.WriteString(v.String())
		}
		return String(sb.String()), nil

	case *compiler.ListLiteral:
		items := make([]Value, 0, len(e.Elements))
		for _, el := range e.Elements {
			v, err := ip.eval(el)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return &List{Items: items}, nil

	case *compiler.DictLiteral:
		d := NewDict()
		for i := range e.Keys {
			k, err := ip.eval(e.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := ip.eval(e.Values[i])
			if err != nil {
				return nil, err
			}
			if err := d.Set(k, v); err != nil {
				return nil, ip.at(err, e.PosVal)
			}
		}
		return d, nil

	case *compiler.BinaryOp:
		v, err := ip.evalBinary(e)
		return v, ip.at(err, e.PosVal)

	case *compiler.UnaryOp:
		v, err := ip.evalUnary(e)
		return v, ip.at(err, e.PosVal)

	case *compiler.Call:
		v, err := ip.evalCall(e)
		return v, ip.at(err, e.PosVal)

	case *compiler.GetAttr:
		v, err := ip.evalGetAttr(e)
		return v, ip.at(err, e.PosVal)

	case *compiler.GetIndex:
		v, err := ip.evalGetIndex(e)
		return v, ip.at(err, e.PosVal)
	}
	return nil, newError(ErrRuntime, "无法求值的表达式: %T", expr)
}

// 且 and 或 short-circuit and always yield booleans.
func (ip *Interp) evalBinary(e *compiler.BinaryOp) (Value, error) {
	switch e.Op {
	case "且":
		left, err := ip.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if !Truthy(left) {
			return Bool(false), nil
		}
		right, err := ip.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return Bool(Truthy(right)), nil

	case "或":
		left, err := ip.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if Truthy(left) {
			return Bool(true), nil
		}
		right, err := ip.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return Bool(Truthy(right)), nil
	}

	left, err := ip.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ip.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "==":
		return Bool(Equal(left, right)), nil
	case "!=":
		return Bool(!Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		c, err := Compare(left, right)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "<":
			return Bool(c < 0), nil
		case "<=":
			return Bool(c <= 0), nil
		case ">":
			return Bool(c > 0), nil
		default:
			return Bool(c >= 0), nil
		}
	case "in":
		return contains(left, right)
	}
	return arith(e.Op, left, right)
}

func (ip *Interp) evalUnary(e *compiler.UnaryOp) (Value, error) {
	operand, err := ip.eval(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		switch v := operand.(type) {
		case Int:
			return -v, nil
		case Float:
			return -v, nil
		}
		return nil, newError(ErrType, "类型 %s 不支持取负", operand.Kind())
	case "非":
		return Bool(!Truthy(operand)), nil
	}
	return nil, newError(ErrRuntime, "未知的一元运算符: %s", e.Op)
}

func (ip *Interp) evalCall(e *compiler.Call) (Value, error) {
	callee, err := ip.eval(e.Func)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ip.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return ip.Call(callee, args)
}

// Call invokes a callable value: a function, builtin, class (construction)
// or a 父类 proxy (superclass constructor).
func (ip *Interp) Call(callee Value, args []Value) (Value, error) {
	switch c := callee.(type) {
	case *Function:
		return ip.callFunction(c, args)

	case *Builtin:
		return c.Fn(ip, args)

	case *Class:
		inst := &Instance{Class: c, Fields: make(map[string]Value)}
		if init, owner := c.FindMethod("初始化"); init != nil {
			if _, err := ip.callFunction(init.Bind(inst, owner), args); err != nil {
				return nil, err
			}
		}
		return inst, nil

	case *Super:
		init, owner := c.Class.FindMethod("初始化")
		if init == nil {
			return TheNone, nil
		}
		return ip.callFunction(init.Bind(c.Instance, owner), args)
	}
	return nil, newError(ErrType, "%s 不是可调用的", callee)
}

func (ip *Interp) callFunction(fn *Function, args []Value) (Value, error) {
	if ip.callDepth >= maxCallDepth {
		return nil, newError(ErrRuntime, "超过最大递归深度")
	}
	ip.callDepth++
	defer func() { ip.callDepth-- }()

	env := NewEnv(fn.Env)
	for i, p := range fn.Params {
		var v Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			dv, err := ip.evalIn(p.Default, env)
			if err != nil {
				return nil, err
			}
			v = dv
		default:
			v = TheNone
		}
		env.Define(p.Name, v)
	}
	// Extra arguments are ignored.

	f, err := ip.execBlock(fn.Body, env)
	if err != nil {
		return nil, err
	}
	if fn.IsInit {
		if self, ok := env.Get("自身"); ok {
			return self, nil
		}
		// 初始化 fetched off the class and called without an instance.
		return TheNone, nil
	}
	if f.kind == flowReturn {
		return f.value, nil
	}
	return TheNone, nil
}

// evalIn evaluates an expression with a temporary current scope.
func (ip *Interp) evalIn(expr compiler.Expr, env *Env) (Value, error) {
	saved := ip.env
	ip.env = env
	defer func() { ip.env = saved }()
	return ip.eval(expr)
}

func (ip *Interp) evalGetAttr(e *compiler.GetAttr) (Value, error) {
	obj, err := ip.eval(e.Object)
	if err != nil {
		return nil, err
	}

	switch obj := obj.(type) {
	case *Instance:
		if v, ok := obj.Fields[e.Name]; ok {
			return v, nil
		}
		if m, owner := obj.Class.FindMethod(e.Name); m != nil {
			return m.Bind(obj, owner), nil
		}
		return nil, newError(ErrAttribute, "%s没有属性'%s'", obj, e.Name)

	case *Super:
		if m, owner := obj.Class.FindMethod(e.Name); m != nil {
			return m.Bind(obj.Instance, owner), nil
		}
		return nil, newError(ErrAttribute, "父类没有方法'%s'", e.Name)

	case *Class:
		if m, _ := obj.FindMethod(e.Name); m != nil {
			return m, nil
		}
		return nil, newError(ErrAttribute, "类%s没有方法'%s'", obj.Name, e.Name)
	}
	return nil, newError(ErrType, "只能从实例获取属性")
}

func (ip *Interp) evalGetIndex(e *compiler.GetIndex) (Value, error) {
	obj, err := ip.eval(e.Object)
	if err != nil {
		return nil, err
	}
	index, err := ip.eval(e.Index)
	if err != nil {
		return nil, err
	}

	switch obj := obj.(type) {
	case *List:
		i, err := listIndex(obj, index)
		if err != nil {
			return nil, err
		}
		return obj.Items[i], nil

	case String:
		i, ok := index.(Int)
		if !ok {
			return nil, newError(ErrType, "字符串索引必须是整数")
		}
		runes := []rune(string(obj))
		n := int(i)
		if n < 0 {
			n += len(runes)
		}
		if n < 0 || n >= len(runes) {
			return nil, newError(ErrIndex, "索引错误: %d", int(i))
		}
		return String(runes[n]), nil

	case *Dict:
		v, found, err := obj.Get(index)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, newError(ErrKey, "键错误: %s", Repr(index))
		}
		return v, nil
	}
	return nil, newError(ErrType, "类型 %s 不支持索引", obj.Kind())
}

// listIndex validates an index against a list, resolving negative indexes
// from the end.
func listIndex(l *List, index Value) (int, error) {
	i, ok := index.(Int)
	if !ok {
		return 0, newError(ErrType, "列表索引必须是整数")
	}
	n := int(i)
	if n < 0 {
		n += len(l.Items)
	}
	if n < 0 || n >= len(l.Items) {
		return 0, newError(ErrIndex, "索引错误: %d", int(i))
	}
	return n, nil
}

// iterate returns the elements a 对于 loop visits: list items, string
// characters, or dictionary keys.
func iterate(v Value) ([]Value, error) {
	switch v := v.(type) {
	case *List:
		items := make([]Value, len(v.Items))
		copy(items, v.Items)
		return items, nil
	case String:
		runes := []rune(string(v))
		items := make([]Value, len(runes))
		for i, r := range runes {
			items[i] = String(r)
		}
		return items, nil
	case *Dict:
		return v.Keys(), nil
	}
	return nil, newError(ErrType, "类型 %s 不可迭代", v.Kind())
}

// contains implements the 在 operator.
func contains(item, container Value) (Value, error) {
	switch c := container.(type) {
	case *List:
		for _, v := range c.Items {
			if Equal(item, v) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case String:
		s, ok := item.(String)
		if !ok {
			return nil, newError(ErrType, "只能在字符串中查找字符串")
		}
		return Bool(strings.Contains(string(c), string(s))), nil
	case *Dict:
		_, found, err := c.Get(item)
		if err != nil {
			return nil, err
		}
		return Bool(found), nil
	}
	return nil, newError(ErrType, "类型 %s 不支持成员检查", container.Kind())
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

// Word operators reduce to their symbolic form here, so both spellings share
// one implementation.
var arithOps = map[string]string{
	"加": "+", "减": "-", "乘": "*", "除": "/",
	"余": "%", "幂": "**", "整除": "//",
	"+": "+", "-": "-", "*": "*", "/": "/",
	"%": "%", "**": "**", "//": "//",
}

func arith(op string, left, right Value) (Value, error) {
	sym, ok := arithOps[op]
	if !ok {
		return nil, newError(ErrRuntime, "未知的运算符: %s", op)
	}

	switch sym {
	case "+":
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		if ll, ok := left.(*List); ok {
			if rl, ok := right.(*List); ok {
				items := make([]Value, 0, len(ll.Items)+len(rl.Items))
				items = append(items, ll.Items...)
				items = append(items, rl.Items...)
				return &List{Items: items}, nil
			}
		}
	case "*":
		if v, ok := repeatValue(left, right); ok {
			return v, nil
		}
	}

	li, lInt := left.(Int)
	ri, rInt := right.(Int)
	lf, lok := asNumber(left)
	rf, rok := asNumber(right)
	if !lok || !rok {
		return nil, newError(ErrType, "不支持的操作数类型: %s %s %s", left.Kind(), sym, right.Kind())
	}

	switch sym {
	case "+":
		if lInt && rInt {
			return li + ri, nil
		}
		return Float(lf + rf), nil
	case "-":
		if lInt && rInt {
			return li - ri, nil
		}
		return Float(lf - rf), nil
	case "*":
		if lInt && rInt {
			return li * ri, nil
		}
		return Float(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, newError(ErrZeroDiv, "除数不能为零")
		}
		return Float(lf / rf), nil
	case "%":
		if rf == 0 {
			return nil, newError(ErrZeroDiv, "除数不能为零")
		}
		if lInt && rInt {
			return Int(floorMod(int64(li), int64(ri))), nil
		}
		m := math.Mod(lf, rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}
		return Float(m), nil
	case "**":
		if lInt && rInt && ri >= 0 {
			if v, ok := intPow(li, ri); ok {
				return v, nil
			}
		}
		return Float(math.Pow(lf, rf)), nil
	case "//":
		if rf == 0 {
			return nil, newError(ErrZeroDiv, "除数不能为零")
		}
		if lInt && rInt {
			return Int(floorDiv(int64(li), int64(ri))), nil
		}
		return Float(math.Floor(lf / rf)), nil
	}
	return nil, newError(ErrRuntime, "未知的运算符: %s", sym)
}

// repeatValue handles string and list repetition by an integer count.
func repeatValue(left, right Value) (Value, bool) {
	count, seq := right, left
	if _, ok := left.(Int); ok {
		count, seq = left, right
	}
	n, ok := count.(Int)
	if !ok {
		return nil, false
	}
	times := int(n)
	if times < 0 {
		times = 0
	}

	switch seq := seq.(type) {
	case String:
		return String(strings.Repeat(string(seq), times)), true
	case *List:
		items := make([]Value, 0, len(seq.Items)*times)
		for i := 0; i < times; i++ {
			items = append(items, seq.Items...)
		}
		return &List{Items: items}, true
	}
	return nil, false
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod gives a remainder with the sign of the divisor.
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// intPow reports ok=false when the result does not fit in an Int, in
// which case the caller falls back to floating point.
func intPow(base, exp Int) (Int, bool) {
	result := Int(1)
	for ; exp > 0; exp-- {
		next := result * base
		if base != 0 && next/base != result {
			return 0, false
		}
		result = next
	}
	return result, true
}
