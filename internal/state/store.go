// Package state records publish runs and input content hashes in SQLite.
package state

import "github.com/jiborobot/pixi-animate-extension/pkg/core"

var _ core.Store = (*SQLiteStore)(nil)
