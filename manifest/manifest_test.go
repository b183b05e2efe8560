package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "xuan.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "演示"
version = "1.0.0"

[source]
entry = "主.xuan"

[repl]
prompt = ">> "
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Project.Name != "演示" || m.Project.Version != "1.0.0" {
		t.Errorf("project = %+v", m.Project)
	}
	if m.Repl.Prompt != ">> " {
		t.Errorf("prompt = %q", m.Repl.Prompt)
	}
	if want := filepath.Join(m.Dir, "主.xuan"); m.EntryPath() != want {
		t.Errorf("EntryPath() = %q, want %q", m.EntryPath(), want)
	}
	if !filepath.IsAbs(m.Dir) {
		t.Errorf("Dir = %q, want absolute", m.Dir)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[project]\nname = \"x\"\n")

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Repl.Prompt != "玄码> " {
		t.Errorf("prompt = %q", m.Repl.Prompt)
	}
	if m.Repl.History != ".xuan_history" {
		t.Errorf("history = %q", m.Repl.History)
	}
	if len(m.Source.Dirs) != 1 || m.Source.Dirs[0] != "." {
		t.Errorf("dirs = %v", m.Source.Dirs)
	}
	if m.EntryPath() != "" {
		t.Errorf("EntryPath() = %q, want empty", m.EntryPath())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected an error for a missing xuan.toml")
	}
}

func TestLoadBadToml(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[project\nname =")
	if _, err := Load(dir); err == nil {
		t.Error("expected a parse error")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"上层\"\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("manifest not found from nested directory")
	}
	if m.Project.Name != "上层" {
		t.Errorf("name = %q", m.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Errorf("manifest = %+v, want nil", m)
	}
}

func TestHistoryPath(t *testing.T) {
	m := Default()
	m.Dir = "/项目"
	if got := m.HistoryPath(); got != filepath.Join("/项目", ".xuan_history") {
		t.Errorf("HistoryPath() = %q", got)
	}

	m.Repl.History = "/tmp/hist"
	if got := m.HistoryPath(); got != "/tmp/hist" {
		t.Errorf("HistoryPath() = %q", got)
	}
}
