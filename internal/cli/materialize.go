package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fieldviz/pkg/field"
	"github.com/matzehuels/fieldviz/pkg/pipeline"
)

func (c *CLI) materializeCommand() *cobra.Command {
	var (
		flags   sceneFlags
		noCache bool
		plain   bool
	)

	cmd := &cobra.Command{
		Use:   "materialize [scene.toml]",
		Short: "Print the sampled coordinates of a scene",
		Long: `Sample one dimension of a scene's field and print the resulting
coordinates with their canvas positions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc, err := flags.loadScene(cmd, args)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			frame, hit, err := runner.Frame(ctx, sc, pipeline.Options{})
			if err != nil {
				return err
			}

			sample := sc.Config().Sample
			inputs, err := field.Linspace(sample.From, sample.To, sample.Points)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if plain {
				for _, v := range frame.Values {
					fmt.Fprintln(out, strconv.FormatFloat(v, 'g', -1, 64))
				}
				return nil
			}

			rows := make([][]string, len(frame.Values))
			for i, v := range frame.Values {
				rows[i] = []string{
					strconv.Itoa(i),
					formatNumber(inputs[i]),
					formatNumber(v),
					formatNumber(frame.Markers[i].X),
				}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(StyleDim).
				Headers("#", "input", "value", "x").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return StyleTitle.Padding(0, 1)
					}
					if col == 2 {
						return StyleNumber.Padding(0, 1)
					}
					return StyleValue.Padding(0, 1)
				})

			printKeyValue("scene", sc.Name())
			printKeyValue("dimension", strconv.Itoa(sample.Dimension))
			printKeyValue("t", formatNumber(sc.T()))
			fmt.Fprintln(out, t.Render())
			printStats(len(frame.Values), hit)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one value per line")
	return cmd
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
