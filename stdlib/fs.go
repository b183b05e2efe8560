package stdlib

import (
	"fmt"
	"os"

	"github.com/xuan-lang/xuan/interp"
)

// ---------------------------------------------------------------------------
// File and directory operations
// ---------------------------------------------------------------------------

func fileError(format string, args ...interface{}) error {
	return &interp.RuntimeError{ErrKind: interp.ErrFile, Msg: fmt.Sprintf(format, args...)}
}

func registerFiles(ip *interp.Interp) {
	path := func(name string, args []interp.Value) (string, error) {
		if err := wantArgs(name, args, 1); err != nil {
			return "", err
		}
		p, ok := args[0].(interp.String)
		if !ok {
			return "", typeError("%s需要一个字符串路径", name)
		}
		return string(p), nil
	}

	builtin(ip, "读取文件", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p, err := path("读取文件", args)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fileError("无法读取文件'%s': %v", p, err)
		}
		return interp.String(data), nil
	})

	writeFn := func(name string, flags int) interp.BuiltinFn {
		return func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
			if err := wantArgs(name, args, 2); err != nil {
				return nil, err
			}
			p, err := path(name, args)
			if err != nil {
				return nil, err
			}
			content, ok := args[1].(interp.String)
			if !ok {
				return nil, typeError("%s的第二个参数必须是字符串", name)
			}
			f, err := os.OpenFile(p, flags, 0o644)
			if err != nil {
				return nil, fileError("无法打开文件'%s': %v", p, err)
			}
			defer f.Close()
			if _, err := f.WriteString(string(content)); err != nil {
				return nil, fileError("无法写入文件'%s': %v", p, err)
			}
			return interp.TheNone, nil
		}
	}
	builtin(ip, "写入文件", writeFn("写入文件", os.O_WRONLY|os.O_CREATE|os.O_TRUNC))
	builtin(ip, "追加文件", writeFn("追加文件", os.O_WRONLY|os.O_CREATE|os.O_APPEND))

	builtin(ip, "路径存在", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p, err := path("路径存在", args)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(p)
		return interp.Bool(statErr == nil), nil
	})

	builtin(ip, "是文件", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p, err := path("是文件", args)
		if err != nil {
			return nil, err
		}
		info, statErr := os.Stat(p)
		return interp.Bool(statErr == nil && info.Mode().IsRegular()), nil
	})

	builtin(ip, "是目录", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p, err := path("是目录", args)
		if err != nil {
			return nil, err
		}
		info, statErr := os.Stat(p)
		return interp.Bool(statErr == nil && info.IsDir()), nil
	})

	builtin(ip, "列出目录", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p := "."
		if len(args) > 0 {
			var err error
			p, err = path("列出目录", args)
			if err != nil {
				return nil, err
			}
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fileError("无法列出目录'%s': %v", p, err)
		}
		items := make([]interp.Value, len(entries))
		for i, e := range entries {
			items[i] = interp.String(e.Name())
		}
		return &interp.List{Items: items}, nil
	})

	builtin(ip, "创建目录", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p, err := path("创建目录", args)
		if err != nil {
			return nil, err
		}
		if err := os.Mkdir(p, 0o755); err != nil {
			return nil, fileError("无法创建目录'%s': %v", p, err)
		}
		return interp.TheNone, nil
	})

	builtin(ip, "删除文件", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		p, err := path("删除文件", args)
		if err != nil {
			return nil, err
		}
		if err := os.Remove(p); err != nil {
			return nil, fileError("无法删除文件'%s': %v", p, err)
		}
		return interp.TheNone, nil
	})

	builtin(ip, "当前目录", func(ip *interp.Interp, args []interp.Value) (interp.Value, error) {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fileError("无法获取当前目录: %v", err)
		}
		return interp.String(dir), nil
	})
}
