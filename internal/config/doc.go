// Package config provides layered configuration for keyline.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYLINE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/keyline/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	session := cfg.Session()
//	fmt.Println(session.Prompt)
//
// # Configuration Files
//
// The file format is chosen by extension: ".yaml" and ".yml" are YAML,
// anything else is TOML.
//
//	# ~/.config/keyline/config.toml
//	[session]
//	prompt = "keyline> "
//	historyFile = "~/.keyline_history"
//
//	[logging]
//	level = "debug"
//	file = "~/.cache/keyline/keyline.log"
//
// # Thread Safety
//
// All Config methods are safe for concurrent use.
package config
