package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
	"github.com/jiborobot/pixi-animate-extension/internal/publish"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document>",
		Short: "Show how a document's timelines reduce to scene graphs",
		Long: `Build every symbol of a document without writing output and report its
declared children, their masks and the mask intervals found on the timeline.`,
		Example: `  # Inspect a document
  pixi-animate inspect scenes/intro.yaml

  # Inspect as JSON
  pixi-animate inspect scenes/intro.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := cmdCtx.Publisher.Inspect(args[0])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(report)
			case output.ModeMarkdown:
				inspectMarkdown(r, report)
			default:
				inspectText(r, report)
			}
			return nil
		},
	}
}

func inspectText(r *output.Renderer, report *publish.Report) {
	r.Header(1, fmt.Sprintf("%s (%d symbols, %d shapes)", report.Name, len(report.Symbols), report.Shapes))
	for _, s := range report.Symbols {
		r.Println("")
		inspectSymbol(r, s)
	}
}

func inspectMarkdown(r *output.Renderer, report *publish.Report) {
	r.Println(output.FormatHeader(1, report.Name))
	r.Println("")
	r.Println(output.FormatKeyValue("Document", report.Document))
	r.Println(output.FormatKeyValue("Symbols", strconv.Itoa(len(report.Symbols))))
	r.Println(output.FormatKeyValue("Shapes", strconv.Itoa(report.Shapes)))
	r.Println(output.FormatKeyValue("Sounds", strconv.Itoa(len(report.Sounds))))
	for _, s := range report.Symbols {
		r.Println("")
		inspectSymbol(r, s)
	}
}

func inspectSymbol(r *output.Renderer, s publish.SymbolReport) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, s.Name))
		r.Println("")
	} else {
		r.Header(2, s.Name)
	}
	if len(s.DependsOn) > 0 {
		r.Muted("depends on " + strings.Join(s.DependsOn, ", "))
	}

	rows := make([][]any, 0, len(s.Children))
	for _, c := range s.Children {
		rows = append(rows, []any{c.Local, c.Instance, c.Asset, c.Kind, c.Mask})
	}
	if len(rows) == 0 {
		r.Muted("(no children)")
	} else {
		r.Table([]string{"Local", "Instance", "Asset", "Kind", "Mask"}, rows)
	}

	if len(s.Masks) == 0 {
		return
	}
	r.Println("")
	masks := make([][]any, 0, len(s.Masks))
	for _, m := range s.Masks {
		duration := "open"
		if m.Duration != nil {
			duration = strconv.Itoa(*m.Duration)
		}
		masks = append(masks, []any{m.Mask, m.Target, m.Frame, duration})
	}
	r.Table([]string{"Mask", "Target", "Frame", "Duration"}, masks)
}
