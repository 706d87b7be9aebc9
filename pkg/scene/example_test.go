package scene_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/fieldviz/pkg/scene"
)

func ExampleDecode() {
	cfg, err := scene.Decode(strings.NewReader(`
[[dimension]]
transforms = ["x*x", "x/2"]

[sample]
from = -2
to = 2
points = 5
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	frame, err := sc.Frame()
	if err != nil {
		fmt.Println(err)
		return
	}
	for i, v := range frame.Values {
		fmt.Printf("%.1f at x=%.1f\n", v, frame.Markers[i].X)
	}
	// Output:
	// 2.0 at x=302.0
	// 0.5 at x=300.5
	// 0.0 at x=300.0
	// 0.5 at x=300.5
	// 2.0 at x=302.0
}
