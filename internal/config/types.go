// Package config provides the project configuration shared by the CLI and
// the watch loop. It is decoupled from flag handling.
package config

import "github.com/jiborobot/pixi-animate-extension/pkg/core"

// ProjectConfig is the contents of pixi-animate.yaml.
type ProjectConfig = core.ProjectConfig
