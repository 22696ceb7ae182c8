package commands

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jiborobot/pixi-animate-extension/internal/cli/output"
	intconfig "github.com/jiborobot/pixi-animate-extension/internal/config"
	"github.com/jiborobot/pixi-animate-extension/internal/render"
)

//go:embed scaffold/*.yaml
var scaffoldFS embed.FS

// scaffoldDocument is where init writes the sample document.
const scaffoldDocument = "scenes/intro.yaml"

// scaffoldTemplatesDir receives the embedded code templates with --templates.
const scaffoldTemplatesDir = "templates"

// InitOptions holds options for the init command.
type InitOptions struct {
	Force     bool
	Templates bool
}

// initConfig is the pixi-animate.yaml written by init.
type initConfig struct {
	Documents     []string `yaml:"documents"`
	OutDir        string   `yaml:"out_dir"`
	StatePath     string   `yaml:"state_path"`
	TemplatesDir  string   `yaml:"templates_dir,omitempty"`
	Compress      bool     `yaml:"compress"`
	WatchDebounce string   `yaml:"watch_debounce"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new pixi-animate project",
		Long: `Initialize a new pixi-animate project with a configuration file and a sample
document.

This creates:
  - pixi-animate.yaml configuration file
  - scenes/intro.yaml sample animation document
  - templates/*.tmpl editable code templates (with --templates)`,
		Example: `  # Initialize in current directory
  pixi-animate init

  # Initialize in a new directory
  pixi-animate init my-animation

  # Copy the code templates for customization
  pixi-animate init --templates

  # Force overwrite existing files
  pixi-animate init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, *opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&opts.Templates, "templates", false, "Copy the built-in code templates into templates/")

	return cmd
}

func runInit(r *output.Renderer, dir string, opts InitOptions) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !opts.Force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", existing)
	}

	project := initConfig{
		Documents:     []string{scaffoldDocument},
		OutDir:        intconfig.DefaultOutDir,
		StatePath:     intconfig.DefaultStateFile,
		WatchDebounce: intconfig.DefaultWatchDebounce.String(),
	}
	if opts.Templates {
		project.TemplatesDir = scaffoldTemplatesDir
	}
	cfg, err := yaml.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := writeScaffoldFile(filepath.Join(dir, intconfig.ConfigFileName), cfg, true); err != nil {
		return err
	}
	r.StatusLine(intconfig.ConfigFileName, "success", "")

	sample, err := scaffoldFS.ReadFile("scaffold/intro.yaml")
	if err != nil {
		return err
	}
	docPath := filepath.Join(dir, filepath.FromSlash(scaffoldDocument))
	if err := writeScaffoldFile(docPath, sample, opts.Force); err != nil {
		return err
	}
	r.StatusLine(scaffoldDocument, "success", "")

	if opts.Templates {
		if err := ejectTemplates(r, filepath.Join(dir, scaffoldTemplatesDir), opts.Force); err != nil {
			return err
		}
	}

	r.Println("")
	r.Success("pixi-animate project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit or add documents under scenes/")
	r.Println("  2. Run 'pixi-animate publish' to generate JavaScript")
	r.Println("  3. Run 'pixi-animate watch' to republish on save")

	return nil
}

// ejectTemplates writes every embedded code template into dir.
func ejectTemplates(r *output.Renderer, dir string, force bool) error {
	for _, name := range render.Names() {
		src, err := render.Default(name)
		if err != nil {
			return err
		}
		file := name + render.TemplateExt
		if err := writeScaffoldFile(filepath.Join(dir, file), []byte(src), force); err != nil {
			return err
		}
		r.StatusLine(scaffoldTemplatesDir+"/"+file, "success", "")
	}
	return nil
}

// writeScaffoldFile writes content to path. Existing files are kept unless
// overwrite is set.
func writeScaffoldFile(path string, content []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
