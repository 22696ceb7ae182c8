package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display pixi-animate version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info.GoVersion = runtime.Version()

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}

			r.Printf("pixi-animate v%s\n", info.Version)
			r.Println("Animation timeline publisher for PixiJS")
			if info.Commit != "" && info.Commit != "unknown" {
				r.Muted("commit " + info.Commit + ", built " + info.BuildDate)
			}
			return nil
		},
	}
}
