package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fieldviz/pkg/render"
	"github.com/matzehuels/fieldviz/pkg/render/term"
	"github.com/matzehuels/fieldviz/pkg/scene"
)

// Spring settings for marker easing in the view.
const (
	viewSpringFrequency = 6.0
	viewSpringDamping   = 0.7
)

// chromeRows is the number of terminal rows the view uses around the canvas.
const chromeRows = 4

func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags sceneFlags
		axis  bool
		once  bool
		cols  int
		rows  int
	)

	cmd := &cobra.Command{
		Use:   "view [scene.toml]",
		Short: "Animate a scene in the terminal",
		Long: `Draw a scene with braille dots. Looping scenes advance their clock at
the configured frame rate; other scenes draw a single frame.

Keys: space pause, +/- change the point count, a toggle the axis,
r rewind the clock, q quit.`,
		Example: `  fieldviz view examples/scenes/breathing.toml
  fieldviz view --once --cols 60 --rows 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := flags.loadScene(cmd, args)
			if err != nil {
				return err
			}

			if once {
				frame, err := sc.Frame()
				if err != nil {
					return err
				}
				canvas := term.NewCanvas(cols, rows)
				canvas.Plot(frame, axis)
				_, err = fmt.Fprintln(cmd.OutOrStdout(), canvas.String())
				return err
			}

			m := newViewModel(sc, axis)
			if m.err != nil {
				return m.err
			}
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("view: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&axis, "axis", false, "draw the marker axis")
	cmd.Flags().BoolVar(&once, "once", false, "print one frame and exit")
	cmd.Flags().IntVar(&cols, "cols", 80, "canvas width in cells with --once")
	cmd.Flags().IntVar(&rows, "rows", 20, "canvas height in cells with --once")
	return cmd
}

type viewTickMsg time.Time

// viewModel is the bubbletea model behind the view command. It owns the
// scene and redraws it on every tick.
type viewModel struct {
	sc     *scene.Scene
	canvas *term.Canvas
	smooth *term.Smoother

	target render.Frame
	drawn  render.Frame
	err    error

	axis     bool
	paused   bool
	quitting bool
}

func newViewModel(sc *scene.Scene, axis bool) viewModel {
	m := viewModel{
		sc:     sc,
		canvas: term.NewCanvas(80, 24-chromeRows),
		smooth: term.NewSmoother(sc.Config().Timing.FrameRate, viewSpringFrequency, viewSpringDamping),
		axis:   axis,
	}
	m.refresh()
	m.drawn = m.target
	return m
}

func (m viewModel) tick() tea.Cmd {
	return tea.Tick(m.sc.FrameInterval(), func(t time.Time) tea.Msg {
		return viewTickMsg(t)
	})
}

func (m viewModel) Init() tea.Cmd {
	if !m.sc.Looping() {
		return nil
	}
	return m.tick()
}

// refresh materializes the scene at its current clock value. On error the
// last good frame stays on screen.
func (m *viewModel) refresh() {
	frame, err := m.sc.Frame()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.target = frame
}

func (m *viewModel) changePoints(delta int) {
	sample := m.sc.Config().Sample
	sample.Points = max(sample.Points+delta, 2)
	if err := m.sc.SetSample(sample); err != nil {
		m.err = err
		return
	}
	m.refresh()
	if !m.sc.Looping() {
		m.drawn = m.target
	}
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.changePoints(1)
		case "-":
			m.changePoints(-1)
		case "a":
			m.axis = !m.axis
		case "r":
			m.sc.Reset()
			m.smooth.Reset()
			m.refresh()
			m.drawn = m.target
		}
		return m, nil

	case viewTickMsg:
		if !m.paused {
			m.sc.Advance()
			m.refresh()
		}
		m.drawn = m.smooth.Step(m.target)
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.canvas = term.NewCanvas(msg.Width, msg.Height-chromeRows)
		return m, nil
	}

	return m, nil
}

func (m viewModel) View() string {
	if m.quitting {
		return ""
	}

	m.canvas.Plot(m.drawn, m.axis)

	cfg := m.sc.Config()
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.sc.Name()))
	if m.paused {
		b.WriteString(" " + StyleWarning.Render("paused"))
	}
	b.WriteString("\n")
	b.WriteString(StyleValue.Render(m.canvas.String()))
	b.WriteString("\n")

	status := fmt.Sprintf("t %s  points %d  dim %d", formatNumber(m.sc.T()), cfg.Sample.Points, cfg.Sample.Dimension)
	b.WriteString(StyleDim.Render(status))
	if m.err != nil {
		b.WriteString("  " + StyleWarning.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause  +/- points  a axis  r rewind  q quit"))
	return b.String()
}
