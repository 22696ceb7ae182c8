package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
	"github.com/jiborobot/pixi-animate-extension/internal/publish"
)

// PublishOptions holds options for the publish command.
type PublishOptions struct {
	Force bool
}

// NewPublishCommand creates the publish command.
func NewPublishCommand() *cobra.Command {
	opts := &PublishOptions{}

	cmd := &cobra.Command{
		Use:   "publish [documents...]",
		Short: "Publish animation documents to JavaScript",
		Long: `Compile animation documents into PixiJS libraries.

Each document produces <name>.js and <name>.shapes.json in the output directory.
Documents whose content is unchanged since the last publish are skipped unless
--force is given. Without arguments the documents listed in pixi-animate.yaml
are published.`,
		Example: `  # Publish the documents listed in pixi-animate.yaml
  pixi-animate publish

  # Publish specific documents into build/
  pixi-animate publish scenes/intro.yaml scenes/outro.yaml --out-dir build

  # Republish everything with minified output
  pixi-animate publish --force --compress`,
		Aliases: []string{"build"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Republish documents even when unchanged")

	return cmd
}

func runPublish(cmd *cobra.Command, args []string, opts *PublishOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, opts.Force)
	if err != nil {
		return err
	}
	defer cleanup()

	docs, err := documentArgs(cmdCtx.Cfg, args)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := cmdCtx.Publisher.PublishAll(cmd.Context(), docs)
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if jerr := r.JSON(publishedOnly(results)); jerr != nil {
			return jerr
		}
	case output.ModeMarkdown:
		publishMarkdown(r, results)
	default:
		publishText(r, results, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}

// publishedOnly drops the slots of documents that never finished.
func publishedOnly(results []*publish.Result) []*publish.Result {
	out := make([]*publish.Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	return out
}

func publishText(r *output.Renderer, results []*publish.Result, elapsed time.Duration) {
	published, skipped := 0, 0
	for _, res := range publishedOnly(results) {
		if res.Skipped {
			skipped++
			r.StatusLine(res.Document, "skipped", "unchanged")
			continue
		}
		published++
		r.StatusLine(res.Document, "success",
			fmt.Sprintf("%s (%d symbols, %d bytes)", res.JSPath, len(res.Symbols), res.Bytes))
	}
	r.Println("")
	r.Muted(fmt.Sprintf("%d published, %d skipped in %s", published, skipped, elapsed.Round(time.Millisecond)))
}

func publishMarkdown(r *output.Renderer, results []*publish.Result) {
	r.Println(output.FormatHeader(1, "Publish Results"))
	r.Println("")
	for _, res := range publishedOnly(results) {
		r.Println(output.FormatHeader(2, res.Document))
		if res.Skipped {
			r.Println(output.FormatKeyValue("Status", "skipped"))
			r.Println("")
			continue
		}
		r.Println(output.FormatKeyValue("Status", "published"))
		r.Println(output.FormatKeyValue("Output", res.JSPath))
		r.Println(output.FormatKeyValue("Shapes", res.ShapesPath))
		r.Println(output.FormatKeyValue("Symbols", fmt.Sprintf("%d", len(res.Symbols))))
		r.Println(output.FormatKeyValue("Run", res.RunID))
		r.Println("")
	}
}
