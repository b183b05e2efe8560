package stdlib

import (
	"github.com/xuan-lang/xuan/interp"
)

// ---------------------------------------------------------------------------
// Sequence operations
// ---------------------------------------------------------------------------

func registerSequences(ip *interp.Interp) {
	builtin(ip, "长度", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("长度", args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case interp.String:
			return interp.Int(int64(len([]rune(string(v))))), nil
		case *interp.List:
			return interp.Int(int64(len(v.Items))), nil
		case *interp.Dict:
			return interp.Int(int64(v.Len())), nil
		}
		return nil, typeError("类型 %s 没有长度", args[0].Kind())
	})

	builtin(ip, "范围", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("范围", args, 1); err != nil {
			return nil, err
		}
		bounds := make([]int64, 0, 3)
		for _, a := range args[:minInt(len(args), 3)] {
			n, ok := a.(interp.Int)
			if !ok {
				return nil, typeError("范围需要整数参数")
			}
			bounds = append(bounds, int64(n))
		}

		start, stop, step := int64(0), int64(0), int64(1)
		switch len(bounds) {
		case 1:
			stop = bounds[0]
		case 2:
			start, stop = bounds[0], bounds[1]
		case 3:
			start, stop, step = bounds[0], bounds[1], bounds[2]
		}
		if step == 0 {
			return nil, valueError("范围的步长不能为零")
		}

		var items []interp.Value
		if step > 0 {
			for i := start; i < stop; i += step {
				items = append(items, interp.Int(i))
			}
		} else {
			for i := start; i > stop; i += step {
				items = append(items, interp.Int(i))
			}
		}
		return &interp.List{Items: items}, nil
	})

	builtin(ip, "枚举", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("枚举", args, 1); err != nil {
			return nil, err
		}
		list, ok := args[0].(*interp.List)
		if !ok {
			return nil, typeError("枚举需要一个列表参数")
		}
		items := make([]interp.Value, len(list.Items))
		for i, item := range list.Items {
			items[i] = &interp.List{Items: []interp.Value{interp.Int(int64(i)), item}}
		}
		return &interp.List{Items: items}, nil
	})

	builtin(ip, "排序", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("排序", args, 1); err != nil {
			return nil, err
		}
		list, ok := args[0].(*interp.List)
		if !ok {
			return nil, typeError("排序需要一个列表参数")
		}
		items := make([]interp.Value, len(list.Items))
		copy(items, list.Items)
		if err := interp.SortValues(items); err != nil {
			return nil, err
		}
		return &interp.List{Items: items}, nil
	})

	builtin(ip, "反转", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("反转", args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case *interp.List:
			items := make([]interp.Value, len(v.Items))
			for i, item := range v.Items {
				items[len(items)-1-i] = item
			}
			return &interp.List{Items: items}, nil
		case interp.String:
			runes := []rune(string(v))
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return interp.String(runes), nil
		}
		return nil, typeError("反转需要一个列表或字符串参数")
	})

	builtin(ip, "映射", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("映射", args, 2); err != nil {
			return nil, err
		}
		list, ok := args[1].(*interp.List)
		if !ok {
			return nil, typeError("映射的第二个参数必须是列表")
		}
		items := make([]interp.Value, 0, len(list.Items))
		for _, item := range list.Items {
			v, err := ip.Call(args[0], []interp.Value{item})
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return &interp.List{Items: items}, nil
	})

	builtin(ip, "过滤", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("过滤", args, 2); err != nil {
			return nil, err
		}
		list, ok := args[1].(*interp.List)
		if !ok {
			return nil, typeError("过滤的第二个参数必须是列表")
		}
		var items []interp.Value
		for _, item := range list.Items {
			keep, err := ip.Call(args[0], []interp.Value{item})
			if err != nil {
				return nil, err
			}
			if interp.Truthy(keep) {
				items = append(items, item)
			}
		}
		return &interp.List{Items: items}, nil
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
