package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/pipeline"
	"github.com/matzehuels/fieldviz/pkg/scene"
)

// renderFlags holds the output options shared by render and chain.
type renderFlags struct {
	formats  string
	output   string
	axis     bool
	title    bool
	scale    float64
	detailed bool
	noCache  bool
	refresh  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags sceneFlags
		rf    renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene to SVG, PNG, JSON or a chain diagram",
		Long: fmt.Sprintf(`Materialize a scene and write one file per requested format.

Formats: %s. Files are named <output><ext>; the output base defaults to the
scene name.`, strings.Join(pipeline.Formats, ", ")),
		Example: `  fieldviz render
  fieldviz render examples/scenes/anchored.toml -f svg,png --axis --scale 2
  fieldviz render wave.toml --t 1.5 -o frames/wave-015`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := flags.loadScene(cmd, args)
			if err != nil {
				return err
			}
			base := rf.output
			if base == "" {
				base = sc.Name()
			}
			return c.runRender(cmd, sc, base, rf)
		},
	}

	flags.register(cmd)
	rf.register(cmd, pipeline.FormatSVG)
	cmd.Flags().BoolVar(&rf.axis, "axis", false, "draw the marker axis and origin line")
	cmd.Flags().BoolVar(&rf.title, "title", false, "embed the scene name as the SVG title")
	cmd.Flags().Float64Var(&rf.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	return cmd
}

func (rf *renderFlags) register(cmd *cobra.Command, defaultFormat string) {
	fl := cmd.Flags()
	fl.StringVarP(&rf.formats, "format", "f", defaultFormat, "comma-separated output formats")
	fl.StringVarP(&rf.output, "output", "o", "", "output path without extension")
	fl.BoolVar(&rf.detailed, "detailed", false, "label chain stages with arity and anchors")
	fl.BoolVar(&rf.noCache, "no-cache", false, "disable the artifact cache")
	fl.BoolVar(&rf.refresh, "refresh", false, "ignore cached artifacts and re-render")
}

// runRender executes the pipeline and writes every artifact next to base.
func (c *CLI) runRender(cmd *cobra.Command, sc *scene.Scene, base string, rf renderFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := pipeline.Options{
		Formats:  parseFormats(rf.formats),
		Axis:     rf.axis,
		Title:    rf.title,
		Scale:    rf.scale,
		Detailed: rf.detailed,
		Refresh:  rf.refresh,
		Logger:   logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if rf.refresh && rf.noCache {
		printWarning("--refresh has no effect with --no-cache")
	}

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+strings.Join(opts.Formats, ", "))
	spin.Start()
	result, err := runner.Execute(ctx, sc, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(base, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(paths)))

	printSuccess("Rendered %s", StyleHighlight.Render(sc.Name()))
	printStats(result.Stats.Points, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes artifacts in format order and returns the paths.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if err := fverrors.ValidateOutputPath(base); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok || slices.Contains(paths, base+pipeline.Extension(format)) {
			continue
		}
		path := base + pipeline.Extension(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
