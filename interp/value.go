package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuan-lang/xuan/compiler"
)

// ---------------------------------------------------------------------------
// Runtime values
// ---------------------------------------------------------------------------

// Kind identifies the runtime type of a value.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindDict
	KindFunction
	KindBuiltin
	KindClass
	KindInstance
	KindSuper
	KindError
)

// Chinese type names, as reported by the 类型 builtin.
var kindNames = map[Kind]string{
	KindNone:     "空",
	KindBool:     "布尔",
	KindInt:      "整数",
	KindFloat:    "浮点数",
	KindString:   "字符串",
	KindList:     "列表",
	KindDict:     "字典",
	KindFunction: "函数",
	KindBuiltin:  "内置函数",
	KindClass:    "类",
	KindInstance: "实例",
	KindSuper:    "父类",
	KindError:    "错误",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is the interface implemented by all runtime values. String returns
// the display form used by 输出 and string conversion.
type Value interface {
	Kind() Kind
	String() string
}

// None is the 空 value.
type None struct{}

func (None) Kind() Kind     { return KindNone }
func (None) String() string { return "空" }

// TheNone is the canonical 空 value.
var TheNone = None{}

// Bool is a 真/假 value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "真"
	}
	return "假"
}

// Int is an integer value.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating-point value.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	// Keep whole floats visibly fractional.
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

// String is a string value.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }

// List is a mutable ordered sequence.
type List struct {
	Items []Value
}

func (*List) Kind() Kind { return KindList }
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(item))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Dict is a mutable mapping preserving insertion order. Keys must be
// hashable: 空, booleans, numbers and strings.
type Dict struct {
	order   []string
	entries map[string]dictEntry
}

type dictEntry struct {
	key   Value
	value Value
}

// NewDict creates an empty dictionary.
func NewDict() *Dict {
	return &Dict{entries: make(map[string]dictEntry)}
}

func (*Dict) Kind() Kind { return KindDict }

func (d *Dict) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	d.Each(func(k, v Value) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(Repr(k))
		sb.WriteString(": ")
		sb.WriteString(Repr(v))
	})
	sb.WriteByte('}')
	return sb.String()
}

// Get returns the value for key, if present.
func (d *Dict) Get(key Value) (Value, bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return nil, false, err
	}
	e, ok := d.entries[hk]
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a key/value pair, keeping first-insertion order.
func (d *Dict) Set(key, value Value) error {
	hk, err := hashKey(key)
	if err != nil {
		return err
	}
	if _, ok := d.entries[hk]; !ok {
		d.order = append(d.order, hk)
	}
	d.entries[hk] = dictEntry{key: key, value: value}
	return nil
}

// Delete removes a key. It reports whether the key was present.
func (d *Dict) Delete(key Value) (bool, error) {
	hk, err := hashKey(key)
	if err != nil {
		return false, err
	}
	if _, ok := d.entries[hk]; !ok {
		return false, nil
	}
	delete(d.entries, hk)
	for i, k := range d.order {
		if k == hk {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.entries) }

// Each calls fn for every entry in insertion order.
func (d *Dict) Each(fn func(key, value Value)) {
	for _, hk := range d.order {
		e := d.entries[hk]
		fn(e.key, e.value)
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	keys := make([]Value, 0, len(d.order))
	d.Each(func(k, _ Value) { keys = append(keys, k) })
	return keys
}

// hashKey maps a hashable value to a map key. Equal numbers share a key, so
// 1 and 1.0 address the same entry.
func hashKey(v Value) (string, error) {
	switch v := v.(type) {
	case None:
		return "n:", nil
	case Bool:
		if v {
			return "b:1", nil
		}
		return "b:0", nil
	case Int:
		return "f:" + strconv.FormatInt(int64(v), 10), nil
	case Float:
		if f := float64(v); f == float64(int64(f)) {
			return "f:" + strconv.FormatInt(int64(f), 10), nil
		}
		return "f:" + strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case String:
		return "s:" + string(v), nil
	}
	return "", newError(ErrType, "不可哈希的类型: %s", v.Kind())
}

// Function is a user-defined function or method.
type Function struct {
	Name   string
	Params []compiler.Param
	Body   []compiler.Stmt
	Env    *Env // defining environment

	IsInit bool // true for 初始化 methods
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) String() string {
	if f.Name == "" {
		return "<函数>"
	}
	return fmt.Sprintf("<函数 %s>", f.Name)
}

// Bind returns a copy of the method whose environment defines 自身 as the
// instance. owner is the class the method was found on; when it has a
// superclass, 父类 is bound to a super proxy one level above owner, so a
// chain of 父类.方法(...) calls walks upward instead of looping.
func (f *Function) Bind(inst *Instance, owner *Class) *Function {
	env := NewEnv(f.Env)
	env.Define("自身", inst)
	if owner != nil && owner.Super != nil {
		env.Define("父类", &Super{Instance: inst, Class: owner.Super})
	}
	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Env: env, IsInit: f.IsInit}
}

// BuiltinFn is the implementation signature of a builtin function.
type BuiltinFn func(ip *Interp, args []Value) (Value, error)

// Builtin is a function implemented in Go.
type Builtin struct {
	Name string
	Fn   BuiltinFn
}

func (*Builtin) Kind() Kind       { return KindBuiltin }
func (b *Builtin) String() string { return fmt.Sprintf("<内置函数 %s>", b.Name) }

// Class is a user-defined class. Only single inheritance is supported;
// Super is nil for a base class.
type Class struct {
	Name    string
	Super   *Class
	Methods map[string]*Function
}

func (*Class) Kind() Kind       { return KindClass }
func (c *Class) String() string { return c.Name }

// FindMethod looks a method up on the class and its superclass chain,
// returning the method and the class that defines it.
func (c *Class) FindMethod(name string) (*Function, *Class) {
	for k := c; k != nil; k = k.Super {
		if m, ok := k.Methods[name]; ok {
			return m, k
		}
	}
	return nil, nil
}

// Instance is an object created from a class.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Kind() Kind       { return KindInstance }
func (i *Instance) String() string { return fmt.Sprintf("%s 实例", i.Class.Name) }

// Super is the value of 父类 inside a method body: attribute lookups resolve
// on the superclass chain but bind to the current instance.
type Super struct {
	Instance *Instance
	Class    *Class
}

func (*Super) Kind() Kind       { return KindSuper }
func (s *Super) String() string { return fmt.Sprintf("<父类 %s>", s.Class.Name) }

// ErrorValue is a raised or caught language-level error.
type ErrorValue struct {
	ErrKind string // Chinese error kind name, e.g. 类型错误
	Msg     string
}

func (*ErrorValue) Kind() Kind { return KindError }
func (e *ErrorValue) String() string {
	if e.Msg == "" {
		return e.ErrKind
	}
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Msg)
}

// ---------------------------------------------------------------------------
// Value operations
// ---------------------------------------------------------------------------

// Repr returns the display form used inside containers: strings are quoted,
// everything else uses its plain form.
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return "'" + string(s) + "'"
	}
	return v.String()
}

// Truthy reports the truth value: 空 is false, zero numbers are false,
// empty strings and containers are false, everything else is true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case None:
		return false
	case Bool:
		return bool(v)
	case Int:
		return v != 0
	case Float:
		return v != 0
	case String:
		return len(v) > 0
	case *List:
		return len(v.Items) > 0
	case *Dict:
		return v.Len() > 0
	}
	return true
}

// Equal reports deep equality. Ints and floats compare numerically.
func Equal(a, b Value) bool {
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return an == bn
		}
		return false
	}
	switch a := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case String:
		bs, ok := b.(String)
		return ok && a == bs
	case *List:
		bl, ok := b.(*List)
		if !ok || len(a.Items) != len(bl.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], bl.Items[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bd, ok := b.(*Dict)
		if !ok || a.Len() != bd.Len() {
			return false
		}
		equal := true
		a.Each(func(k, v Value) {
			bv, found, err := bd.Get(k)
			if err != nil || !found || !Equal(v, bv) {
				equal = false
			}
		})
		return equal
	}
	return a == b
}

// asNumber converts ints and floats to a common numeric form.
func asNumber(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

// Compare orders two values: -1, 0 or 1. Numbers compare numerically,
// strings lexicographically. A string compared against a number is parsed
// as a number when possible.
func Compare(a, b Value) (int, error) {
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return cmpFloat(an, bn), nil
		}
		if bs, ok := b.(String); ok {
			if bn, err := strconv.ParseFloat(strings.TrimSpace(string(bs)), 64); err == nil {
				return cmpFloat(an, bn), nil
			}
		}
		return 0, newError(ErrType, "无法比较 %s 和 %s", a.Kind(), b.Kind())
	}
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			return strings.Compare(string(as), string(bs)), nil
		}
		if bn, bok := asNumber(b); bok {
			if an, err := strconv.ParseFloat(strings.TrimSpace(string(as)), 64); err == nil {
				return cmpFloat(an, bn), nil
			}
		}
	}
	return 0, newError(ErrType, "无法比较 %s 和 %s", a.Kind(), b.Kind())
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortValues sorts a slice in place using Compare. The first comparison
// error aborts the sort.
func SortValues(items []Value) error {
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := Compare(items[i], items[j])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	return sortErr
}
