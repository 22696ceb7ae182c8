package core

import "time"

// ProjectConfig holds project-level publish configuration.
type ProjectConfig struct {
	// Documents are the document files published when none are given explicitly
	Documents []string `koanf:"documents"`
	// OutDir is where generated code and shape caches are written
	OutDir string `koanf:"out_dir"`
	// TemplatesDir optionally overrides the embedded code templates
	TemplatesDir string `koanf:"templates_dir"`
	// StatePath is the SQLite state database
	StatePath string `koanf:"state_path"`
	// Compress selects short runtime method names and minified output
	Compress bool `koanf:"compress"`
	// Concurrency bounds how many documents are published at once
	Concurrency int `koanf:"concurrency"`
	// WatchDebounce coalesces bursts of file events in watch mode
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}
