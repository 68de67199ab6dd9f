// Package app wires the line editing session together: configuration,
// logging, terminal raw mode, the engine, the prompt script and live
// config reload.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/keyline/internal/config"
	"github.com/dshills/keyline/internal/config/watcher"
	"github.com/dshills/keyline/internal/engine"
	"github.com/dshills/keyline/internal/engine/history"
	"github.com/dshills/keyline/internal/integration/terminal"
	"github.com/dshills/keyline/internal/plugin/lua"
)

// Application runs one interactive session.
type Application struct {
	mu sync.Mutex

	config     *config.Config
	logger     *Logger
	ownsLogger bool
	log        *Logger
	session    string

	engine  *engine.Engine
	script  *lua.PromptScript
	watcher *watcher.Watcher
	term    *terminal.State

	in     io.Reader
	out    io.Writer
	render io.Writer

	// count and last feed the prompt script.
	count int
	last  string

	running atomic.Bool
	closed  bool
}

// Options configures the application.
type Options struct {
	// In is the key byte source. Defaults to os.Stdin.
	In io.Reader

	// Out receives each submitted line. Defaults to os.Stdout.
	Out io.Writer

	// Render is the terminal surface the editor draws on. Defaults to os.Stderr.
	Render io.Writer

	// RawMode puts In into raw mode when it is a terminal.
	RawMode bool

	// Logger overrides the logger built from the logging config.
	// The caller keeps ownership of it.
	Logger *Logger
}

// New builds a session from a loaded configuration.
//
// On failure every resource acquired so far is released.
func New(cfg *config.Config, opts Options) (app *Application, err error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Render == nil {
		opts.Render = os.Stderr
	}

	app = &Application{
		config:  cfg,
		session: uuid.NewString(),
		in:      opts.In,
		out:     opts.Out,
		render:  opts.Render,
	}
	defer func() {
		if err != nil {
			_ = app.Close()
			app = nil
		}
	}()

	app.logger = opts.Logger
	if app.logger == nil {
		app.logger = newLogger(cfg.Logging())
		app.ownsLogger = true
	}
	app.log = app.logger.WithField("session", app.session)

	if err := app.checkConfig(); err != nil {
		return app, err
	}
	if err := app.initTerminal(opts.RawMode); err != nil {
		return app, err
	}
	if err := app.initEngine(); err != nil {
		return app, err
	}
	if err := app.initScript(); err != nil {
		return app, err
	}
	app.initWatcher()

	app.log.Info("session started")
	return app, nil
}

func newLogger(cfg config.LoggingConfig) *Logger {
	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(cfg.Level)
	lc.File = cfg.File
	if cfg.MaxSize > 0 {
		lc.MaxSize = cfg.MaxSize
	}
	if cfg.MaxBackups > 0 {
		lc.MaxBackups = cfg.MaxBackups
	}
	return NewLogger(lc)
}

// fileSettings name where the session reads or writes files. A bad value
// for one of them would silently fall back to no file at all.
var fileSettings = map[string]bool{
	"session.historyFile":  true,
	"session.promptScript": true,
}

// checkConfig fails on a mistyped file setting and logs every other
// mistyped setting, which falls back to its default.
func (app *Application) checkConfig() error {
	errs := app.config.Validate()
	for _, path := range sortedKeys(errs) {
		if fileSettings[path] {
			return NewOperationError("validate", path, errs[path]).In("config")
		}
	}
	app.warnConfig(errs)
	return nil
}

func (app *Application) warnConfig(errs map[string]error) {
	log := app.log.WithComponent("config")
	for _, path := range sortedKeys(errs) {
		log.Warn("%v, using default", errs[path])
	}
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (app *Application) initTerminal(raw bool) error {
	if !raw {
		return nil
	}
	f, ok := app.in.(*os.File)
	if !ok {
		return nil
	}
	fd := int(f.Fd())
	if !terminal.IsTerminal(fd) {
		app.log.Debug("input is not a terminal, raw mode skipped")
		return nil
	}

	state, err := terminal.EnableRawMode(fd)
	if err != nil {
		return NewOperationError("enable", "raw mode", err).In("terminal")
	}
	app.term = state
	return nil
}

func (app *Application) initEngine() error {
	session := app.config.Session()

	var opts []engine.Option
	opts = append(opts, engine.WithLogger(app.log.WithComponent("engine")))
	if session.HistoryFile != "" {
		opts = append(opts, engine.WithHistoryFile(session.HistoryFile))
	}

	eng, err := engine.New(app.in, app.render, session.Prompt, opts...)
	if err != nil {
		return NewOperationError("open", session.HistoryFile, err).In("history")
	}
	app.engine = eng
	return nil
}

func (app *Application) initScript() error {
	path := app.config.Session().PromptScript
	if path == "" {
		return nil
	}

	script, err := lua.LoadPromptScript(path)
	if err != nil {
		return NewOperationError("load", path, err).In("prompt script")
	}
	app.script = script
	app.updatePrompt()
	return nil
}

// initWatcher starts live reload of the config file. Failures only
// disable reloading.
func (app *Application) initWatcher() {
	path := app.config.Path()
	if path == "" || !app.config.WatchEnabled() {
		return
	}

	log := app.log.WithComponent("watcher")
	w, err := watcher.New()
	if err != nil {
		log.Warn("config watcher unavailable: %v", err)
		return
	}
	if err := w.Watch(path); err != nil {
		log.Warn("watch %s: %v", path, err)
		_ = w.Close()
		return
	}
	w.OnChange(app.handleConfigChange)
	w.OnError(func(err error) {
		log.Warn("watcher error: %v", err)
	})
	app.watcher = w
}

// handleConfigChange runs on the watcher goroutine, typically while Run
// is blocked reading input.
func (app *Application) handleConfigChange(event watcher.Event) {
	log := app.log.WithComponent("config")
	if err := app.config.Reload(); err != nil {
		log.Warn("reload after %s of %s: %v", event.Op, event.Path, err)
		return
	}
	errs := app.config.Validate()
	app.warnConfig(errs)

	if app.ownsLogger {
		app.logger.SetLevel(ParseLogLevel(app.config.Logging().Level))
	}

	app.mu.Lock()
	scripted := app.script != nil
	app.mu.Unlock()
	if scripted {
		log.Debug("config reloaded, prompt owned by script")
		return
	}

	if _, bad := errs["session.prompt"]; bad {
		log.Debug("config reloaded, prompt kept")
		return
	}
	prompt := app.config.Session().Prompt
	app.engine.SetPrompt(prompt)
	log.Info("config reloaded, prompt %q", prompt)
}

// updatePrompt asks the prompt script for the next prompt. A script
// error keeps the current prompt.
func (app *Application) updatePrompt() {
	app.mu.Lock()
	script, count, last := app.script, app.count, app.last
	app.mu.Unlock()
	if script == nil {
		return
	}

	prompt, err := script.Prompt(count, last)
	if err != nil {
		app.log.WithComponent("script").Warn("%v", err)
		return
	}
	app.engine.SetPrompt(prompt)
}

// Engine returns the session's engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// SessionID returns the unique id attached to every log line of the session.
func (app *Application) SessionID() string {
	return app.session
}

// Count returns the number of lines submitted so far.
func (app *Application) Count() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.count
}

// Run reads lines until Ctrl-C or end of input, writing each submitted line
// to the output followed by a newline.
//
// Ctrl-C and end of input between lines return nil. Input ending with an
// unsubmitted line is a read failure. A history persistence failure is
// logged and the session continues. Read and render failures are returned.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	for {
		ev, err := app.engine.Run()

		if ev.IsLine() {
			if _, werr := fmt.Fprintln(app.out, ev.Line); werr != nil {
				return NewOperationError("write", "line", werr)
			}
			app.mu.Lock()
			app.count++
			app.last = ev.Line
			app.mu.Unlock()
			app.log.Debug("line %d submitted (%d bytes)", app.Count(), len(ev.Line))
		}

		if err != nil {
			var perr *history.PersistError
			var rerr *engine.ReadError
			switch {
			case errors.As(err, &perr) && !errors.Is(err, engine.ErrWrite):
				app.log.Warn("history: %v", err)
			case errors.As(err, &rerr) && errors.Is(err, io.EOF) && rerr.Pending == "":
				app.log.Info("end of input")
				return nil
			default:
				app.log.Error("session ended: %v", err)
				return err
			}
		}

		if ev.IsInterrupt() {
			app.log.Info("interrupted after %d lines", app.Count())
			_, _ = io.WriteString(app.render, "\r\n")
			return nil
		}

		if ev.IsLine() {
			app.updatePrompt()
		}
	}
}

// Close releases every session resource: engine, prompt script, watcher,
// terminal mode and log file. Close is idempotent.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	errs := NewErrorList()
	if app.watcher != nil {
		errs.Add(wrapClose("watcher", app.watcher.Close()))
	}
	if app.engine != nil {
		errs.Add(wrapClose("engine", app.engine.Close()))
	}
	if app.script != nil {
		errs.Add(wrapClose("script", app.script.Close()))
	}
	if app.term != nil {
		errs.Add(wrapClose("terminal", app.term.Restore()))
	}
	if app.log != nil {
		app.log.Info("session closed")
	}
	if app.ownsLogger {
		errs.Add(wrapClose("logger", app.logger.Close()))
	}
	return errs.AsError()
}

func wrapClose(resource string, err error) error {
	if err == nil {
		return nil
	}
	return &CloseError{Resource: resource, Err: err}
}
