package cli

import (
	"github.com/spf13/cobra"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/scene"
)

// sceneFlags override the sample range and clock of a loaded scene.
type sceneFlags struct {
	points int
	from   float64
	to     float64
	dim    int
	t      float64
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.points, "points", 0, "number of sample points (min 2)")
	fl.Float64Var(&f.from, "from", 0, "start of the sample range")
	fl.Float64Var(&f.to, "to", 0, "end of the sample range")
	fl.IntVar(&f.dim, "dim", 0, "dimension to sample")
	fl.Float64Var(&f.t, "t", 0, "scene clock value")
}

// loadScene reads the scene named by args[0], or the default scene, and
// applies the flags the user set explicitly.
func (f *sceneFlags) loadScene(cmd *cobra.Command, args []string) (*scene.Scene, error) {
	cfg := scene.Default()
	if len(args) > 0 {
		if err := fverrors.ValidateSceneFilename(args[0]); err != nil {
			return nil, err
		}
		var err error
		if cfg, err = scene.Load(args[0]); err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("points") {
		cfg.Sample.Points = f.points
	}
	if fl.Changed("from") {
		cfg.Sample.From = f.from
	}
	if fl.Changed("to") {
		cfg.Sample.To = f.to
	}
	if fl.Changed("dim") {
		cfg.Sample.Dimension = f.dim
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}
	if fl.Changed("t") {
		sc.SetT(f.t)
	}
	return sc, nil
}
