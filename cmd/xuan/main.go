// Command xuan runs 玄码 programs and provides an interactive interpreter.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"github.com/xuan-lang/xuan/interp"
	"github.com/xuan-lang/xuan/manifest"
	"github.com/xuan-lang/xuan/stdlib"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("xuan")

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	showVersion := flag.Bool("version", false, "print the version and exit")
	interactive := flag.Bool("i", false, "start the interactive interpreter after running the file")
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Usage = usage
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	if *showVersion {
		fmt.Printf("玄码 v%s\n", version)
		return
	}

	m := loadManifest()

	file := flag.Arg(0)
	if file == "" {
		file = m.EntryPath()
	}

	ip := interp.New()
	stdlib.Register(ip)

	if file != "" {
		code := runFile(ip, file)
		if code != 0 {
			os.Exit(code)
		}
		if !*interactive {
			return
		}
	}

	os.Exit(runRepl(ip, m))
}

func usage() {
	fmt.Fprintf(os.Stderr, `玄码 v%s

Usage:
  xuan [flags] [file]

Runs the given source file, the entry script from xuan.toml, or starts the
interactive interpreter when neither is present.

Flags:
  -i          start the interactive interpreter after running the file
  -v N        log verbosity
  -version    print the version and exit
`, version)
}

func loadManifest() *manifest.Manifest {
	wd, err := os.Getwd()
	if err != nil {
		return manifest.Default()
	}
	m, err := manifest.FindAndLoad(wd)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
	if m == nil {
		return manifest.Default()
	}
	log.Infof("loaded manifest from %s", m.Dir)
	return m
}

func runFile(ip *interp.Interp, file string) int {
	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: 找不到文件 '%s'\n", file)
		return 1
	}
	log.Debugf("running %s (%d bytes)", file, len(source))

	_, err = ip.Run(string(source))
	if err != nil {
		var exit *stdlib.ExitError
		if errors.As(err, &exit) {
			return exit.Code
		}
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// ---------------------------------------------------------------------------
// Interactive interpreter
// ---------------------------------------------------------------------------

func runRepl(ip *interp.Interp, m *manifest.Manifest) int {
	fmt.Printf("玄码解释器 v%s\n", version)
	fmt.Println("输入 '退出()' 或按 Ctrl+D 退出")

	histPath := m.HistoryPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		code, ok := readInput(ln, m.Repl.Prompt)
		if !ok {
			fmt.Println("\n再见!")
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		value, err := ip.EvalLine(code)
		if err != nil {
			var exit *stdlib.ExitError
			if errors.As(err, &exit) {
				return exit.Code
			}
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if value.Kind() != interp.KindNone {
			fmt.Println(interp.Repr(value))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readInput reads one REPL entry. A line ending in ':' opens a block that
// is read until a blank line, mirroring the indentation-based syntax.
func readInput(ln *liner.State, prompt string) (string, bool) {
	line, err := ln.Prompt(prompt)
	if errors.Is(err, io.EOF) {
		return "", false
	}
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", true
	}
	if err != nil {
		return "", false
	}

	if !strings.HasSuffix(strings.TrimSpace(line), ":") {
		return line, true
	}

	var b strings.Builder
	b.WriteString(line)
	for {
		more, err := ln.Prompt("... ")
		if err != nil || strings.TrimSpace(more) == "" {
			return b.String(), true
		}
		b.WriteByte('\n')
		b.WriteString(more)
	}
}
