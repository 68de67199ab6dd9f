package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/keyline/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "KEYLINE_"

// Config provides unified access to the keyline configuration.
// Values are resolved from four layers: defaults, file, environment and
// overrides (command line flags), later layers winning.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	path      string
	envPrefix string

	defaults  map[string]any
	file      map[string]any
	env       map[string]any
	overrides map[string]any

	// merged is rebuilt whenever a layer changes.
	merged map[string]any

	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the configuration file path. An empty path disables
// the file layer.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = loader.ExpandHome(path)
	}
}

// WithFileSystem sets the file system used to read the config file.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// New creates a new Config instance holding only the defaults.
// Call Load to read the file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
		defaults:  defaultConfig(),
		overrides: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rebuild()
	return c
}

// Load reads the file and environment layers.
// A missing config file is not an error.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadFile(); err != nil {
		return err
	}

	envData, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	c.env = envData

	c.rebuild()
	return nil
}

// Reload re-reads the config file layer only. The environment and
// override layers are left untouched. If the file has been removed the
// file layer is cleared.
func (c *Config) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return ErrNoConfigFile
	}
	if err := c.loadFile(); err != nil {
		return err
	}
	c.rebuild()
	return nil
}

// loadFile must be called with c.mu held.
func (c *Config) loadFile() error {
	if c.path == "" {
		c.file = nil
		return nil
	}

	data, err := loader.ForPath(c.fs, c.path).Load()
	if err != nil {
		return err
	}
	c.file = data
	return nil
}

// Path returns the configuration file path, or "" when there is none.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
// String values, as set by environment variables, are parsed.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "string"}
		}
		return n, nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
// String values, as set by environment variables, are parsed.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, &TypeError{Path: path, Expected: "bool", Actual: "string"}
		}
		return b, nil
	default:
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
}

// Set sets a value at the given path in the override layer.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setPath(c.overrides, path, value); err != nil {
		return err
	}
	c.rebuild()
	return nil
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// rebuild must be called with c.mu held. Recorded type errors describe
// the previous values and are dropped.
func (c *Config) rebuild() {
	c.configErrors = nil
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.env, c.overrides} {
		merged = loader.DeepMerge(merged, loader.Clone(layer))
	}
	c.merged = merged
}

// DefaultPath returns the first existing config file in the user config
// directory, or "" if there is none.
func DefaultPath() string {
	dir := defaultUserConfigDir()
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		} else if !errors.Is(err, os.ErrNotExist) {
			return ""
		}
	}
	return ""
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keyline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keyline")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"session": map[string]any{
			"prompt":       DefaultPrompt,
			"historyFile":  "",
			"promptScript": "",
		},
		"logging": map[string]any{
			"level":      "info",
			"file":       "",
			"maxSize":    10,
			"maxBackups": 3,
		},
		"config": map[string]any{
			"watch": true,
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into parts, skipping empty ones.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' })
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
