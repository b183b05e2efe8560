// Package stdlib provides the builtin functions and constants available to
// every program.
package stdlib

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/xuan-lang/xuan/interp"
)

// ExitError is returned by the 退出 builtin. The command layer turns it
// into a process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("退出(%d)", e.Code)
}

// Register binds every builtin into the interpreter's global scope.
func Register(ip *interp.Interp) {
	registerIO(ip)
	registerConversions(ip)
	registerErrors(ip)
	registerMath(ip)
	registerStrings(ip)
	registerSequences(ip)
	registerFiles(ip)

	builtin(ip, "当前时间", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Float(float64(time.Now().UnixNano()) / 1e9), nil
	})
	builtin(ip, "当前日期时间", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.String(time.Now().Format("2006-01-02 15:04:05")), nil
	})
	builtin(ip, "睡眠", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("睡眠", args, 1); err != nil {
			return nil, err
		}
		secs, err := toFloat("睡眠", args[0])
		if err != nil {
			return nil, err
		}
		time.Sleep(time.Duration(secs * float64(time.Second)))
		return interp.TheNone, nil
	})

	builtin(ip, "类型", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("类型", args, 1); err != nil {
			return nil, err
		}
		return interp.String(args[0].Kind().String()), nil
	})
	builtin(ip, "是实例", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("是实例", args, 2); err != nil {
			return nil, err
		}
		inst, ok := args[0].(*interp.Instance)
		if !ok {
			return interp.Bool(false), nil
		}
		class, ok := args[1].(*interp.Class)
		if !ok {
			return nil, typeError("是实例的第二个参数必须是类")
		}
		for c := inst.Class; c != nil; c = c.Super {
			if c == class {
				return interp.Bool(true), nil
			}
		}
		return interp.Bool(false), nil
	})
	builtin(ip, "哈希值", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("哈希值", args, 1); err != nil {
			return nil, err
		}
		switch args[0].Kind() {
		case interp.KindNone, interp.KindBool, interp.KindInt, interp.KindFloat, interp.KindString:
		default:
			return nil, typeError("不可哈希的类型: %s", args[0].Kind())
		}
		h := fnv.New64a()
		h.Write([]byte(interp.Repr(args[0])))
		return interp.Int(int64(h.Sum64())), nil
	})
	builtin(ip, "退出", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		code := 0
		if len(args) > 0 {
			if n, ok := args[0].(interp.Int); ok {
				code = int(n)
			}
		}
		return nil, &ExitError{Code: code}
	})
}

// builtin wraps registration so every entry carries its name.
func builtin(ip *interp.Interp, name string, fn interp.BuiltinFn) {
	ip.Define(name, &interp.Builtin{Name: name, Fn: fn})
}

func typeError(format string, args ...interface{}) error {
	return &interp.RuntimeError{ErrKind: interp.ErrType, Msg: fmt.Sprintf(format, args...)}
}

func valueError(format string, args ...interface{}) error {
	return &interp.RuntimeError{ErrKind: interp.ErrValue, Msg: fmt.Sprintf(format, args...)}
}

func wantArgs(name string, args []interp.Value, min int) error {
	if len(args) < min {
		return typeError("%s需要至少%d个参数", name, min)
	}
	return nil
}

func toFloat(name string, v interp.Value) (float64, error) {
	switch v := v.(type) {
	case interp.Int:
		return float64(v), nil
	case interp.Float:
		return float64(v), nil
	}
	return 0, typeError("%s需要一个数字参数", name)
}

// ---------------------------------------------------------------------------
// Input and output
// ---------------------------------------------------------------------------

func registerIO(ip *interp.Interp) {
	builtin(ip, "输出", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(ip.Stdout, strings.Join(parts, " "))
		return interp.TheNone, nil
	})

	builtin(ip, "输入", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) > 0 {
			fmt.Fprint(ip.Stdout, args[0].String())
		}
		line, err := ip.Stdin.ReadString('\n')
		if err != nil && line == "" {
			return interp.String(""), nil
		}
		return interp.String(strings.TrimRight(line, "\r\n")), nil
	})
}

// ---------------------------------------------------------------------------
// Type conversions
// ---------------------------------------------------------------------------

func registerConversions(ip *interp.Interp) {
	builtin(ip, "整数", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Int(0), nil
		}
		switch v := args[0].(type) {
		case interp.Int:
			return v, nil
		case interp.Float:
			return interp.Int(int64(v)), nil
		case interp.Bool:
			if v {
				return interp.Int(1), nil
			}
			return interp.Int(0), nil
		case interp.String:
			n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
			if err != nil {
				return nil, valueError("无法将'%s'转换为整数", string(v))
			}
			return interp.Int(n), nil
		}
		return nil, typeError("无法将%s转换为整数", args[0].Kind())
	})

	builtin(ip, "浮点数", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Float(0), nil
		}
		switch v := args[0].(type) {
		case interp.Int:
			return interp.Float(float64(v)), nil
		case interp.Float:
			return v, nil
		case interp.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
			if err != nil {
				return nil, valueError("无法将'%s'转换为浮点数", string(v))
			}
			return interp.Float(f), nil
		}
		return nil, typeError("无法将%s转换为浮点数", args[0].Kind())
	})

	builtin(ip, "字符串", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.String(""), nil
		}
		return interp.String(args[0].String()), nil
	})

	builtin(ip, "布尔", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Bool(false), nil
		}
		return interp.Bool(interp.Truthy(args[0])), nil
	})

	builtin(ip, "列表", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return &interp.List{}, nil
		}
		switch v := args[0].(type) {
		case *interp.List:
			items := make([]interp.Value, len(v.Items))
			copy(items, v.Items)
			return &interp.List{Items: items}, nil
		case interp.String:
			var items []interp.Value
			for _, r := range string(v) {
				items = append(items, interp.String(r))
			}
			return &interp.List{Items: items}, nil
		case *interp.Dict:
			return &interp.List{Items: v.Keys()}, nil
		}
		return nil, typeError("无法将%s转换为列表", args[0].Kind())
	})

	builtin(ip, "字典", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.NewDict(), nil
		}
		src, ok := args[0].(*interp.Dict)
		if !ok {
			return nil, typeError("无法将%s转换为字典", args[0].Kind())
		}
		d := interp.NewDict()
		var copyErr error
		src.Each(func(k, v interp.Value) {
			if err := d.Set(k, v); err != nil && copyErr == nil {
				copyErr = err
			}
		})
		return d, copyErr
	})
}

// ---------------------------------------------------------------------------
// Error constructors
// ---------------------------------------------------------------------------

// Each error kind is a callable that builds a raisable error value, so
// 提升 值错误("说明") works like the builtin errors.
func registerErrors(ip *interp.Interp) {
	kinds := []string{
		interp.ErrBase,
		interp.ErrType,
		interp.ErrValue,
		interp.ErrIndex,
		interp.ErrKey,
		interp.ErrName,
		interp.ErrAttribute,
		interp.ErrZeroDiv,
		interp.ErrAssert,
		interp.ErrFile,
		interp.ErrRuntime,
	}
	for _, kind := range kinds {
		kind := kind
		builtin(ip, kind, func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
			msg := ""
			if len(args) > 0 {
				msg = args[0].String()
			}
			return &interp.ErrorValue{ErrKind: kind, Msg: msg}, nil
		})
	}
}
