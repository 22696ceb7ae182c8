// Package core defines the shared language of the publisher.
//
// This package contains:
//   - Timeline entities (Frame, Command, Transform)
//   - Library entities (Asset, Path, Document)
//   - Persistence types and the Store interface (Run, RunStatus)
//   - Project configuration (ProjectConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
