package config

import "github.com/dshills/keyline/internal/config/loader"

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// DefaultPrompt is the prompt used when none is configured.
const DefaultPrompt = "> "

// SessionConfig provides type-safe access to line editing session settings.
type SessionConfig struct {
	// Prompt is printed before the editable line.
	Prompt string

	// HistoryFile is the persistent history log. Empty keeps history in memory.
	HistoryFile string

	// PromptScript is a Lua file whose prompt function recomputes the prompt.
	PromptScript string
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string

	// File is the log file path. Empty disables logging.
	File string

	// MaxSize is the size in megabytes at which the log file is rotated.
	MaxSize int

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// Session returns type-safe access to session settings.
// Paths have a leading "~" expanded.
func (c *Config) Session() SessionConfig {
	return SessionConfig{
		Prompt:       c.getStringOr("session.prompt", DefaultPrompt),
		HistoryFile:  loader.ExpandHome(c.getStringOr("session.historyFile", "")),
		PromptScript: loader.ExpandHome(c.getStringOr("session.promptScript", "")),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:      c.getStringOr("logging.level", "info"),
		File:       loader.ExpandHome(c.getStringOr("logging.file", "")),
		MaxSize:    c.getIntOr("logging.maxSize", 10),
		MaxBackups: c.getIntOr("logging.maxBackups", 3),
	}
}

// WatchEnabled reports whether the config file should be watched for changes.
func (c *Config) WatchEnabled() bool {
	return c.getBoolOr("config.watch", true)
}

// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and return the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

// recordConfigError keeps the first error seen for each path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// Validate reads every section and returns the type errors found, keyed
// by setting path. It returns nil when every setting has a usable type.
func (c *Config) Validate() map[string]error {
	_ = c.Session()
	_ = c.Logging()
	_ = c.WatchEnabled()
	return c.ConfigErrors()
}

// ConfigErrors returns the type errors recorded by section accessors since
// the configuration last changed.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}
