package stdlib

import (
	"strings"

	"github.com/xuan-lang/xuan/interp"
)

// ---------------------------------------------------------------------------
// String operations
// ---------------------------------------------------------------------------

func registerStrings(ip *interp.Interp) {
	str := func(name string, v interp.Value) (string, error) {
		s, ok := v.(interp.String)
		if !ok {
			return "", typeError("%s需要一个字符串参数", name)
		}
		return string(s), nil
	}

	builtin(ip, "分割", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("分割", args, 1); err != nil {
			return nil, err
		}
		s, err := str("分割", args[0])
		if err != nil {
			return nil, err
		}
		var parts []string
		if len(args) > 1 {
			sep, err := str("分割", args[1])
			if err != nil {
				return nil, err
			}
			parts = strings.Split(s, sep)
		} else {
			parts = strings.Fields(s)
		}
		items := make([]interp.Value, len(parts))
		for i, p := range parts {
			items[i] = interp.String(p)
		}
		return &interp.List{Items: items}, nil
	})

	builtin(ip, "连接", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("连接", args, 2); err != nil {
			return nil, err
		}
		sep, err := str("连接", args[0])
		if err != nil {
			return nil, err
		}
		list, ok := args[1].(*interp.List)
		if !ok {
			return nil, typeError("连接的第二个参数必须是列表")
		}
		parts := make([]string, len(list.Items))
		for i, item := range list.Items {
			parts[i] = item.String()
		}
		return interp.String(strings.Join(parts, sep)), nil
	})

	builtin(ip, "替换", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("替换", args, 3); err != nil {
			return nil, err
		}
		s, err := str("替换", args[0])
		if err != nil {
			return nil, err
		}
		old, err := str("替换", args[1])
		if err != nil {
			return nil, err
		}
		new_, err := str("替换", args[2])
		if err != nil {
			return nil, err
		}
		return interp.String(strings.ReplaceAll(s, old, new_)), nil
	})

	builtin(ip, "查找", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("查找", args, 2); err != nil {
			return nil, err
		}
		s, err := str("查找", args[0])
		if err != nil {
			return nil, err
		}
		sub, err := str("查找", args[1])
		if err != nil {
			return nil, err
		}
		byteIdx := strings.Index(s, sub)
		if byteIdx < 0 {
			return interp.Int(-1), nil
		}
		// Report the index in characters, matching string indexing.
		return interp.Int(int64(len([]rune(s[:byteIdx])))), nil
	})

	simple := func(name string, fn func(string) string) {
		builtin(ip, name, func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
			if err := wantArgs(name, args, 1); err != nil {
				return nil, err
			}
			s, err := str(name, args[0])
			if err != nil {
				return nil, err
			}
			return interp.String(fn(s)), nil
		})
	}
	simple("大写", strings.ToUpper)
	simple("小写", strings.ToLower)
	simple("去空格", strings.TrimSpace)
	simple("首字母大写", func(s string) string {
		if s == "" {
			return s
		}
		runes := []rune(strings.ToLower(s))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		return string(runes)
	})
}
