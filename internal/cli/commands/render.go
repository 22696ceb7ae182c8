package commands

import (
	"github.com/spf13/cobra"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <document> <symbol>",
		Short: "Print the generated code of one symbol",
		Long: `Render a single symbol of a document and print its declaration. Nothing is
written to the output directory and no run is recorded.`,
		Example: `  # Render the stage symbol
  pixi-animate render scenes/intro.yaml Stage

  # Render with short method names
  pixi-animate render scenes/intro.yaml Stage --compress`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			code, err := cmdCtx.Publisher.RenderSymbol(args[0], args[1])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(map[string]string{"document": args[0], "symbol": args[1], "code": code})
			case output.ModeMarkdown:
				r.Println(output.FormatCodeBlock("js", code))
			default:
				r.Println(code)
			}
			return nil
		},
	}
}
