package config

import "time"

// Default configuration values.
const (
	DefaultOutDir        = "dist"
	DefaultStateFile     = ".pixi-animate/state.db"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// ApplyDefaults fills unset fields of c.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStateFile
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = DefaultWatchDebounce
	}
}
