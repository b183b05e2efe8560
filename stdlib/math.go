package stdlib

import (
	"math"

	"github.com/xuan-lang/xuan/interp"
)

// ---------------------------------------------------------------------------
// Math and randomness
// ---------------------------------------------------------------------------

func registerMath(ip *interp.Interp) {
	ip.Define("常数_圆周率", interp.Float(math.Pi))
	ip.Define("常数_自然底数", interp.Float(math.E))

	builtin(ip, "绝对值", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("绝对值", args, 1); err != nil {
			return nil, err
		}
		switch v := args[0].(type) {
		case interp.Int:
			if v < 0 {
				return -v, nil
			}
			return v, nil
		case interp.Float:
			return interp.Float(math.Abs(float64(v))), nil
		}
		return nil, typeError("绝对值需要一个数字参数")
	})

	builtin(ip, "最大值", extremum("最大值", 1))
	builtin(ip, "最小值", extremum("最小值", -1))

	builtin(ip, "总和", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("总和", args, 1); err != nil {
			return nil, err
		}
		list, ok := args[0].(*interp.List)
		if !ok {
			return nil, typeError("总和需要一个列表参数")
		}
		sum := interp.Value(interp.Int(0))
		allInt := true
		total := 0.0
		var intTotal int64
		for _, item := range list.Items {
			switch v := item.(type) {
			case interp.Int:
				intTotal += int64(v)
				total += float64(v)
			case interp.Float:
				allInt = false
				total += float64(v)
			default:
				return nil, typeError("总和只能用于数字列表")
			}
		}
		if allInt {
			sum = interp.Int(intTotal)
		} else {
			sum = interp.Float(total)
		}
		return sum, nil
	})

	builtin(ip, "四舍五入", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("四舍五入", args, 1); err != nil {
			return nil, err
		}
		f, err := toFloat("四舍五入", args[0])
		if err != nil {
			return nil, err
		}
		if len(args) > 1 {
			nd, ok := args[1].(interp.Int)
			if !ok {
				return nil, typeError("四舍五入的第二个参数必须是整数")
			}
			scale := math.Pow(10, float64(nd))
			return interp.Float(math.Round(f*scale) / scale), nil
		}
		return interp.Int(int64(math.Round(f))), nil
	})

	builtin(ip, "向上取整", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("向上取整", args, 1); err != nil {
			return nil, err
		}
		f, err := toFloat("向上取整", args[0])
		if err != nil {
			return nil, err
		}
		return interp.Int(int64(math.Ceil(f))), nil
	})

	builtin(ip, "向下取整", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("向下取整", args, 1); err != nil {
			return nil, err
		}
		f, err := toFloat("向下取整", args[0])
		if err != nil {
			return nil, err
		}
		return interp.Int(int64(math.Floor(f))), nil
	})

	builtin(ip, "平方根", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("平方根", args, 1); err != nil {
			return nil, err
		}
		f, err := toFloat("平方根", args[0])
		if err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, valueError("不能对负数开平方根")
		}
		return interp.Float(math.Sqrt(f)), nil
	})

	unary := func(name string, fn func(float64) float64) {
		builtin(ip, name, func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
			if err := wantArgs(name, args, 1); err != nil {
				return nil, err
			}
			f, err := toFloat(name, args[0])
			if err != nil {
				return nil, err
			}
			return interp.Float(fn(f)), nil
		})
	}
	unary("正弦", math.Sin)
	unary("余弦", math.Cos)
	unary("正切", math.Tan)

	logFn := func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("对数", args, 1); err != nil {
			return nil, err
		}
		f, err := toFloat("对数", args[0])
		if err != nil {
			return nil, err
		}
		if f <= 0 {
			return nil, valueError("对数的参数必须是正数")
		}
		if len(args) > 1 {
			base, err := toFloat("对数", args[1])
			if err != nil {
				return nil, err
			}
			return interp.Float(math.Log(f) / math.Log(base)), nil
		}
		return interp.Float(math.Log(f)), nil
	}
	builtin(ip, "对数", logFn)
	builtin(ip, "自然对数", logFn)

	builtin(ip, "随机数", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Float(ip.Rand.Float64()), nil
	})

	builtin(ip, "随机整数", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("随机整数", args, 2); err != nil {
			return nil, err
		}
		lo, lok := args[0].(interp.Int)
		hi, hok := args[1].(interp.Int)
		if !lok || !hok {
			return nil, typeError("随机整数需要两个整数参数")
		}
		if hi < lo {
			return nil, valueError("随机整数的上界不能小于下界")
		}
		return lo + interp.Int(ip.Rand.Int63n(int64(hi-lo)+1)), nil
	})

	builtin(ip, "随机选择", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("随机选择", args, 1); err != nil {
			return nil, err
		}
		list, ok := args[0].(*interp.List)
		if !ok {
			return nil, typeError("随机选择需要一个列表参数")
		}
		if len(list.Items) == 0 {
			return nil, valueError("不能从空列表中选择")
		}
		return list.Items[ip.Rand.Intn(len(list.Items))], nil
	})

	builtin(ip, "随机打乱", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		if err := wantArgs("随机打乱", args, 1); err != nil {
			return nil, err
		}
		list, ok := args[0].(*interp.List)
		if !ok {
			return nil, typeError("随机打乱需要一个列表参数")
		}
		ip.Rand.Shuffle(len(list.Items), func(i, j int) {
			list.Items[i], list.Items[j] = list.Items[j], list.Items[i]
		})
		return interp.TheNone, nil
	})
}

// extremum builds 最大值/最小值: either varargs or a single list argument.
func extremum(name string, sign int) interp.BuiltinFn {
	return func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		items := args
		if len(args) == 1 {
			if list, ok := args[0].(*interp.List); ok {
				items = list.Items
			}
		}
		if len(items) == 0 {
			return nil, valueError("%s需要至少一个值", name)
		}
		best := items[0]
		for _, item := range items[1:] {
			c, err := interp.Compare(item, best)
			if err != nil {
				return nil, err
			}
			if c*sign > 0 {
				best = item
			}
		}
		return best, nil
	}
}
