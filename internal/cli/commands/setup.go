package commands

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/config"
	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
	"github.com/jiborobot/pixi-animate-extension/internal/publish"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Publisher *publish.Publisher
	Renderer  *output.Renderer
}

// NewCommandContext creates a CommandContext with publisher and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command, force bool) (*CommandContext, func(), error) {
	cctx := NewCommandContextWithoutPublisher(cmd)

	p, err := publish.New(publish.Config{
		OutDir:       cctx.Cfg.OutDir,
		TemplatesDir: cctx.Cfg.TemplatesDir,
		StatePath:    cctx.Cfg.StatePath,
		Compress:     cctx.Cfg.Compress,
		Concurrency:  cctx.Cfg.Concurrency,
		Force:        force,
		Logger:       cctx.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	cctx.Publisher = p

	cleanup := func() {
		if err := p.Close(); err != nil {
			cctx.Logger.Warn("failed to close state store", "error", err)
		}
	}
	return cctx, cleanup, nil
}

// NewCommandContextWithoutPublisher creates a CommandContext without a publisher.
// Useful for commands that don't touch the state store.
func NewCommandContextWithoutPublisher(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	concurrency, _ := strconv.Atoi(os.Getenv(config.EnvPrefix + "CONCURRENCY"))
	return &config.Config{
		OutDir:        getEnvOrDefault(config.EnvPrefix+"OUT_DIR", config.DefaultOutDir),
		TemplatesDir:  os.Getenv(config.EnvPrefix + "TEMPLATES_DIR"),
		StatePath:     getEnvOrDefault(config.EnvPrefix+"STATE_PATH", config.DefaultStateFile),
		Compress:      os.Getenv(config.EnvPrefix+"COMPRESS") == "true",
		Concurrency:   concurrency,
		WatchDebounce: config.DefaultWatchDebounce,
		Verbose:       os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		OutputFormat:  os.Getenv(config.EnvPrefix + "OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// errNoDocuments is returned when neither arguments nor config name a document.
var errNoDocuments = errors.New("no documents given\nHint: pass document paths or list them under 'documents' in pixi-animate.yaml")

// documentArgs returns args, or the configured documents when args is empty.
func documentArgs(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Documents) > 0 {
		return cfg.Documents, nil
	}
	return nil, errNoDocuments
}
