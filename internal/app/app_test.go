package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keyline/internal/config"
	"github.com/dshills/keyline/internal/config/watcher"
	"github.com/dshills/keyline/internal/engine"
)

const (
	ctrlC = "\x03"
	enter = "\r"
	up    = "\x1b[A"
)

func newConfig(t *testing.T, settings map[string]any) *config.Config {
	t.Helper()
	cfg := config.New()
	for path, v := range settings {
		if err := cfg.Set(path, v); err != nil {
			t.Fatalf("Set(%s): %v", path, err)
		}
	}
	return cfg
}

type session struct {
	app    *Application
	out    *bytes.Buffer
	render *bytes.Buffer
}

func newSession(t *testing.T, cfg *config.Config, input string) session {
	t.Helper()
	s := session{out: &bytes.Buffer{}, render: &bytes.Buffer{}}
	app, err := New(cfg, Options{
		In:     strings.NewReader(input),
		Out:    s.out,
		Render: s.render,
		Logger: NullLogger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	s.app = app
	return s
}

func TestRunPrintsLines(t *testing.T) {
	s := newSession(t, newConfig(t, nil), "ls"+enter+"pwd"+enter)

	if err := s.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.out.String(); got != "ls\npwd\n" {
		t.Errorf("out = %q, want %q", got, "ls\npwd\n")
	}
	if s.app.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.app.Count())
	}
}

func TestRunInterrupt(t *testing.T) {
	s := newSession(t, newConfig(t, nil), "one"+enter+"partial"+ctrlC+"never"+enter)

	if err := s.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.out.String(); got != "one\n" {
		t.Errorf("out = %q, want only the submitted line", got)
	}
	if !strings.HasSuffix(s.render.String(), "\r\n") {
		t.Errorf("render should end with CRLF after interrupt: %q", s.render.String())
	}
}

func TestRunTruncatedEscape(t *testing.T) {
	s := newSession(t, newConfig(t, nil), "x\x1b[")

	err := s.app.Run()
	if !errors.Is(err, engine.ErrRead) {
		t.Fatalf("Run = %v, want read error", err)
	}
}

func TestRunEndOfInputWithUnsubmittedLine(t *testing.T) {
	s := newSession(t, newConfig(t, nil), "done"+enter+"typed but not submitted")

	err := s.app.Run()
	if !errors.Is(err, engine.ErrRead) || !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want read error at end of input", err)
	}
	if !strings.Contains(err.Error(), "typed but not submitted") {
		t.Errorf("error should name the dropped line: %v", err)
	}
	if got := s.out.String(); got != "done\n" {
		t.Errorf("out = %q, want only the submitted line", got)
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	s := newSession(t, newConfig(t, nil), "")
	s.app.running.Store(true)
	defer s.app.running.Store(false)

	if err := s.app.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run = %v, want ErrAlreadyRunning", err)
	}
}

func TestPromptFromConfig(t *testing.T) {
	s := newSession(t, newConfig(t, map[string]any{"session.prompt": "cfg> "}), "a"+enter)

	if err := s.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(s.render.String(), "\rcfg> ") {
		t.Errorf("render = %q, want prompt from config", s.render.String())
	}
}

func TestHistoryAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	cfg := newConfig(t, map[string]any{"session.historyFile": path})

	first := newSession(t, cfg, "echo hi"+enter)
	if err := first.app.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := first.app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := newSession(t, cfg, up+enter)
	if err := second.app.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := second.out.String(); got != "echo hi\n" {
		t.Errorf("recalled line = %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "echo hi\necho hi\n" {
		t.Errorf("history file = %q", data)
	}
}

func TestHistoryOpenFailure(t *testing.T) {
	cfg := newConfig(t, map[string]any{"session.historyFile": t.TempDir()})

	_, err := New(cfg, Options{In: strings.NewReader(""), Out: &bytes.Buffer{}, Render: &bytes.Buffer{}, Logger: NullLogger})
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "open" {
		t.Fatalf("New = %v, want open OperationError", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestPromptScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "prompt.lua")
	writeFile(t, script, `
function prompt(count, last)
    return string.format("%d:%s> ", count, last)
end
`)
	cfg := newConfig(t, map[string]any{"session.promptScript": script})
	s := newSession(t, cfg, "")

	if got := s.app.Engine().Prompt(); got != "0:> " {
		t.Errorf("initial prompt = %q", got)
	}

	s2 := newSession(t, cfg, "ls"+enter+"pwd"+enter)
	if err := s2.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s2.app.Engine().Prompt(); got != "2:pwd> " {
		t.Errorf("prompt after two lines = %q", got)
	}
	if !strings.Contains(s2.render.String(), "1:ls> ") {
		t.Errorf("render should show the prompt for the second line: %q", s2.render.String())
	}
}

func TestPromptScriptErrorKeepsPrompt(t *testing.T) {
	script := filepath.Join(t.TempDir(), "prompt.lua")
	writeFile(t, script, `
function prompt(count)
    if count > 0 then error("broken") end
    return "ok> "
end
`)
	s := newSession(t, newConfig(t, map[string]any{"session.promptScript": script}), "x"+enter)

	if err := s.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := s.app.Engine().Prompt(); got != "ok> " {
		t.Errorf("prompt = %q, want previous prompt kept", got)
	}
}

func TestPromptScriptLoadFailure(t *testing.T) {
	script := filepath.Join(t.TempDir(), "prompt.lua")
	writeFile(t, script, `x = 1`)
	cfg := newConfig(t, map[string]any{"session.promptScript": script})

	_, err := New(cfg, Options{In: strings.NewReader(""), Out: &bytes.Buffer{}, Render: &bytes.Buffer{}, Logger: NullLogger})
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "load" {
		t.Fatalf("New = %v, want load OperationError", err)
	}
}

func loadedConfig(t *testing.T, path string) *config.Config {
	t.Helper()
	cfg := config.New(config.WithFile(path))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func eventFor(path string) watcher.Event {
	return watcher.Event{Path: path, Op: watcher.OpWrite, Time: time.Now()}
}

func TestConfigTypeErrorOnFileSetting(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{"history file", "[session]\nhistoryFile = 42\n", "session.historyFile"},
		{"prompt script", "[session]\npromptScript = true\n", "session.promptScript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content+"[config]\nwatch = false\n")

			_, err := New(loadedConfig(t, path), Options{In: strings.NewReader(""), Out: &bytes.Buffer{}, Render: &bytes.Buffer{}, Logger: NullLogger})
			var opErr *OperationError
			if !errors.As(err, &opErr) || opErr.Op != "validate" || opErr.Target != tt.path {
				t.Fatalf("New = %v, want validate error for %s", err, tt.path)
			}
			if !errors.Is(err, config.ErrTypeMismatch) {
				t.Errorf("New = %v, want type mismatch", err)
			}
		})
	}
}

func TestConfigTypeErrorIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[logging]\nlevel = 5\n[config]\nwatch = false\n")

	var logs bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &logs})
	app, err := New(loadedConfig(t, path), Options{In: strings.NewReader(""), Out: &bytes.Buffer{}, Render: &bytes.Buffer{}, Logger: logger})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = app.Close() }()

	if !strings.Contains(logs.String(), "[WARN]") || !strings.Contains(logs.String(), "logging.level") {
		t.Errorf("log = %q, want a warning naming logging.level", logs.String())
	}
}

func TestConfigChangeSetsPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[session]\nprompt = \"old> \"\n[config]\nwatch = false\n")

	s := newSession(t, loadedConfig(t, path), "")
	if got := s.app.Engine().Prompt(); got != "old> " {
		t.Fatalf("prompt = %q", got)
	}

	writeFile(t, path, "[session]\nprompt = \"new> \"\n")
	s.app.handleConfigChange(eventFor(path))

	if got := s.app.Engine().Prompt(); got != "new> " {
		t.Errorf("prompt = %q, want reloaded prompt", got)
	}

	writeFile(t, path, "[session\n")
	s.app.handleConfigChange(eventFor(path))
	if got := s.app.Engine().Prompt(); got != "new> " {
		t.Errorf("prompt = %q, want unchanged after bad reload", got)
	}

	writeFile(t, path, "[session]\nprompt = 7\n")
	s.app.handleConfigChange(eventFor(path))
	if got := s.app.Engine().Prompt(); got != "new> " {
		t.Errorf("prompt = %q, want unchanged after mistyped prompt", got)
	}
}

func TestConfigWatcherLiveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[session]\nprompt = \"a> \"\n")

	s := newSession(t, loadedConfig(t, path), "")
	if s.app.watcher == nil {
		t.Skip("config watcher unavailable")
	}

	writeFile(t, path, "[session]\nprompt = \"b> \"\n")

	deadline := time.Now().Add(5 * time.Second)
	for s.app.Engine().Prompt() != "b> " {
		if time.Now().After(deadline) {
			t.Fatalf("prompt = %q, want live-reloaded 'b> '", s.app.Engine().Prompt())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestSessionLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "keyline.log")
	cfg := newConfig(t, map[string]any{"logging.file": logPath, "logging.level": "debug"})

	app, err := New(cfg, Options{In: strings.NewReader("hi" + enter), Out: &bytes.Buffer{}, Render: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	log := string(data)
	if !strings.Contains(log, "session="+app.SessionID()) {
		t.Errorf("log lines should carry the session id: %q", log)
	}
	for _, want := range []string{"session started", "line 1 submitted", "end of input", "session closed"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := newSession(t, newConfig(t, nil), "")
	if err := s.app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.app.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := s.app.Run(); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("Run after Close = %v, want engine.ErrClosed", err)
	}
}
