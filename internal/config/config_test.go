package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()

	session := cfg.Session()
	if session.Prompt != DefaultPrompt {
		t.Errorf("Prompt = %q, want %q", session.Prompt, DefaultPrompt)
	}
	if session.HistoryFile != "" {
		t.Errorf("HistoryFile = %q, want empty", session.HistoryFile)
	}

	logging := cfg.Logging()
	if logging.Level != "info" || logging.MaxSize != 10 || logging.MaxBackups != 3 {
		t.Errorf("Logging = %+v", logging)
	}
	if !cfg.WatchEnabled() {
		t.Error("watch should default to enabled")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
[session]
prompt = "toml> "
historyFile = "/tmp/hist"

[logging]
level = "debug"
maxBackups = 7
`)

	cfg := New(WithFile(path))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	session := cfg.Session()
	if session.Prompt != "toml> " {
		t.Errorf("Prompt = %q", session.Prompt)
	}
	if session.HistoryFile != "/tmp/hist" {
		t.Errorf("HistoryFile = %q", session.HistoryFile)
	}

	logging := cfg.Logging()
	if logging.Level != "debug" || logging.MaxBackups != 7 || logging.MaxSize != 10 {
		t.Errorf("Logging = %+v", logging)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "session:\n  prompt: \"yaml> \"\n")

	cfg := New(WithFile(path))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Session().Prompt; got != "yaml> " {
		t.Errorf("Prompt = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := New(WithFile(filepath.Join(t.TempDir(), "absent.toml")))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Session().Prompt; got != DefaultPrompt {
		t.Errorf("Prompt = %q", got)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[session\n")

	cfg := New(WithFile(path))
	if err := cfg.Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := New().Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load = %v, want context.Canceled", err)
	}
}

func TestLayerPrecedence(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[session]
prompt = "file> "
historyFile = "/from/file"

[logging]
level = "warn"
`)
	t.Setenv("KEYLINE_PROMPT", "env> ")
	t.Setenv("KEYLINE_LOG_MAX_SIZE", "25")

	cfg := New(WithFile(path))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Session().Prompt; got != "env> " {
		t.Errorf("env should override file: Prompt = %q", got)
	}
	if got := cfg.Session().HistoryFile; got != "/from/file" {
		t.Errorf("file should override defaults: HistoryFile = %q", got)
	}
	if got := cfg.Logging().MaxSize; got != 25 {
		t.Errorf("MaxSize = %d, want 25 parsed from env", got)
	}

	if err := cfg.Set("session.prompt", "flag> "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := cfg.Session().Prompt; got != "flag> " {
		t.Errorf("override should win: Prompt = %q", got)
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[session]\nprompt = \"one> \"\n")

	cfg := New(WithFile(path))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	writeFile(t, dir, "config.toml", "[session]\nprompt = \"two> \"\n")
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := cfg.Session().Prompt; got != "two> " {
		t.Errorf("Prompt = %q, want 'two> '", got)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload after remove: %v", err)
	}
	if got := cfg.Session().Prompt; got != DefaultPrompt {
		t.Errorf("Prompt = %q, want default after file removal", got)
	}
}

func TestReloadWithoutFile(t *testing.T) {
	if err := New().Reload(); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("Reload = %v, want ErrNoConfigFile", err)
	}
}

func TestGetTypes(t *testing.T) {
	cfg := New()
	_ = cfg.Set("a.str", "x")
	_ = cfg.Set("a.num", "12")
	_ = cfg.Set("a.flag", "true")
	_ = cfg.Set("a.bad", "nope")

	if _, err := cfg.GetString("a.missing"); err != ErrSettingNotFound {
		t.Errorf("GetString missing = %v", err)
	}
	if n, err := cfg.GetInt("a.num"); err != nil || n != 12 {
		t.Errorf("GetInt = %d, %v", n, err)
	}
	if b, err := cfg.GetBool("a.flag"); err != nil || !b {
		t.Errorf("GetBool = %v, %v", b, err)
	}
	if _, err := cfg.GetInt("a.bad"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt bad = %v, want type mismatch", err)
	}

	var typeErr *TypeError
	if _, err := cfg.GetString("a"); !errors.As(err, &typeErr) || typeErr.Actual != "map" {
		t.Errorf("GetString on section = %v", err)
	}
}

func TestSetInvalidPath(t *testing.T) {
	cfg := New()
	if err := cfg.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set empty = %v", err)
	}
	_ = cfg.Set("a.b", 1)
	if err := cfg.Set("a.b.c", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set through scalar = %v", err)
	}
}

func TestConfigErrors(t *testing.T) {
	cfg := New()
	_ = cfg.Set("session.prompt", 42)

	if got := cfg.Session().Prompt; got != DefaultPrompt {
		t.Errorf("Prompt = %q, want default on type error", got)
	}
	errs := cfg.ConfigErrors()
	if _, ok := errs["session.prompt"]; !ok {
		t.Errorf("ConfigErrors = %v, want session.prompt recorded", errs)
	}
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[session]\nhistoryFile = 42\n[logging]\nmaxSize = \"big\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := New(WithFile(path), WithEnvPrefix("KEYLINE_TEST_VALIDATE_"))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	errs := cfg.Validate()
	for _, want := range []string{"session.historyFile", "logging.maxSize"} {
		if !errors.Is(errs[want], ErrTypeMismatch) {
			t.Errorf("Validate()[%s] = %v, want type mismatch", want, errs[want])
		}
	}
	if len(errs) != 2 {
		t.Errorf("Validate() = %v, want 2 errors", errs)
	}

	if err := os.WriteFile(path, []byte("[session]\nhistoryFile = \"h\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if errs := cfg.Validate(); errs != nil {
		t.Errorf("Validate() after fix = %v, want nil", errs)
	}
}

func TestMergedIsCopy(t *testing.T) {
	cfg := New()
	merged := cfg.Merged()
	merged["session"].(map[string]any)["prompt"] = "changed"

	if got := cfg.Session().Prompt; got != DefaultPrompt {
		t.Errorf("Merged should return a copy, Prompt = %q", got)
	}
}

func TestHomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := New()
	_ = cfg.Set("session.historyFile", "~/.keyline_history")

	want := filepath.Join(home, ".keyline_history")
	if got := cfg.Session().HistoryFile; got != want {
		t.Errorf("HistoryFile = %q, want %q", got, want)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got := DefaultPath(); got != "" {
		t.Errorf("DefaultPath = %q, want empty", got)
	}

	if err := os.MkdirAll(filepath.Join(dir, "keyline"), 0o700); err != nil {
		t.Fatal(err)
	}
	want := writeFile(t, filepath.Join(dir, "keyline"), "config.yaml", "")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}
