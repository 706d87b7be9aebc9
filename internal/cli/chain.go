package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fieldviz/pkg/pipeline"
	"github.com/matzehuels/fieldviz/pkg/render/chain"
)

func (c *CLI) chainCommand() *cobra.Command {
	var (
		flags sceneFlags
		rf    renderFlags
		dot   bool
	)

	cmd := &cobra.Command{
		Use:   "chain [scene.toml]",
		Short: "Draw the transform chains of a scene's field",
		Long: `Draw every dimension's transform chain as a Graphviz diagram, one row
per dimension with stages in the order they are applied. The sampled
dimension is drawn in bold.`,
		Example: `  fieldviz chain --dot | dot -Tpdf > chains.pdf
  fieldviz chain examples/scenes/anchored.toml --detailed -o anchored`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := flags.loadScene(cmd, args)
			if err != nil {
				return err
			}

			if dot {
				cfg := sc.Config()
				_, err := fmt.Fprint(cmd.OutOrStdout(), chain.ToDOT(sc.Field(), chain.Options{
					Vars:      cfg.Vars,
					Detailed:  rf.detailed,
					Highlight: cfg.Sample.Dimension,
				}))
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
	rf.register(cmd, pipeline.FormatChain)
	cmd.Flags().BoolVar(&dot, "dot", false, "print DOT source to stdout instead of writing files")
	return cmd
}
