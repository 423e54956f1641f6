package cli

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackchart/pkg/canvas"
	"github.com/matzehuels/stackchart/pkg/chart"
	"github.com/matzehuels/stackchart/pkg/config"
	"github.com/matzehuels/stackchart/pkg/frame"
	"github.com/matzehuels/stackchart/pkg/series"
	"github.com/matzehuels/stackchart/pkg/visual"
)

// frameInterval is the terminal refresh period (about 30 fps).
const frameInterval = 33 * time.Millisecond

var (
	animTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	animHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	animStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	animErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// animateCommand creates the animate command for the terminal preview.
func (c *CLI) animateCommand() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "animate [chart.toml]",
		Short: "Animate chart updates in the terminal",
		Long: `Animate chart updates in the terminal.

Every key press edits the series and runs an update, so the transitions of
entering, moving and exiting columns play out live.

Keys:
  r  randomize all values
  n  set a random point to null
  a  append a point to every series
  d  drop the last point of every series
  q  quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			ch, err := cfg.Build(c.Logger)
			if err != nil {
				return err
			}
			m, err := newAnimateModel(cmd.Context(), ch, args[0], seed)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for edits (0 picks one)")
	return cmd
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// animateModel is the bubbletea model of the animate command.
type animateModel struct {
	ctx    context.Context
	chart  *chart.Chart
	name   string
	rnd    *rand.Rand
	cols   int
	rows   int
	frame  *frame.Frame
	status string
	err    error
}

func newAnimateModel(ctx context.Context, ch *chart.Chart, name string, seed uint64) (animateModel, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	m := animateModel{
		ctx:    ctx,
		chart:  ch,
		name:   name,
		rnd:    rand.New(rand.NewPCG(seed, seed>>1)),
		cols:   80,
		rows:   20,
		status: "ready",
	}
	if err := ch.Update(ctx); err != nil {
		return m, err
	}
	m.frame = ch.Snapshot()
	return m, nil
}

func (m animateModel) Init() tea.Cmd {
	return tick()
}

func (m animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.chart.Advance(time.Time(msg))
		m.frame = m.chart.Snapshot()
		return m, tick()
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 10)
		m.rows = max(msg.Height-4, 5)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m = m.edit("randomized values", m.randomize)
		case "n":
			m = m.nullRandomPoint()
		case "a":
			m = m.edit("appended a point", func(s *series.StackedColumn) {
				s.Values = append(s.Values, m.value())
			})
		case "d":
			m = m.edit("dropped the last point", func(s *series.StackedColumn) {
				if len(s.Values) > 0 {
					s.Values = s.Values[:len(s.Values)-1]
				}
			})
		}
	}
	return m, nil
}

// edit applies fn to every series and runs an update pass.
func (m animateModel) edit(status string, fn func(*series.StackedColumn)) animateModel {
	for _, s := range m.chart.Series() {
		if err := m.chart.Edit(s.Name, fn); err != nil {
			m.err = err
			return m
		}
	}
	return m.update(status)
}

func (m animateModel) nullRandomPoint() animateModel {
	var candidates []struct {
		name  string
		index int
	}
	for _, s := range m.chart.Series() {
		for i, v := range s.Values {
			if !math.IsNaN(v) {
				candidates = append(candidates, struct {
					name  string
					index int
				}{s.Name, i})
			}
		}
	}
	if len(candidates) == 0 {
		m.status = "no point left to null"
		return m
	}
	pick := candidates[m.rnd.IntN(len(candidates))]
	err := m.chart.Edit(pick.name, func(s *series.StackedColumn) {
		s.Values[pick.index] = series.Null()
	})
	if err != nil {
		m.err = err
		return m
	}
	return m.update(fmt.Sprintf("nulled %s[%d]", pick.name, pick.index))
}

func (m animateModel) update(status string) animateModel {
	if err := m.chart.Update(m.ctx); err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.status = status
	return m
}

func (m animateModel) randomize(s *series.StackedColumn) {
	for i := range s.Values {
		s.Values[i] = m.value()
	}
}

// value draws a value in [-2, 10) rounded to one decimal.
func (m animateModel) value() float64 {
	return math.Round((m.rnd.Float64()*12-2)*10) / 10
}

func (m animateModel) View() string {
	var b strings.Builder
	b.WriteString(animTitleStyle.Render(m.name))
	b.WriteString("\n")
	b.WriteString(animHelpStyle.Render("r randomize  n null  a append  d drop  q quit"))
	b.WriteString("\n")
	b.WriteString(renderCells(m.frame, m.cols, m.rows))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(animErrorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(animStatusStyle.Render(m.status))
	}
	return b.String()
}

// renderCells rasterizes the fill layers of f onto a cols×rows character
// grid. Later layers paint over earlier ones.
func renderCells(f *frame.Frame, cols, rows int) string {
	if f == nil || cols <= 0 || rows <= 0 || f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	colors := make([][]string, rows)
	for i := range colors {
		colors[i] = make([]string, cols)
	}
	sx, sy := float64(cols)/f.Width, float64(rows)/f.Height

	for _, l := range f.Layers {
		if l.Kind != string(canvas.TaskFill) || l.Color == "" {
			continue
		}
		for _, e := range l.Elements {
			if e.Kind != string(visual.KindShape) || e.Width <= 0 || e.Height <= 0 {
				continue
			}
			x0, x1 := cellSpan(e.X, e.Width, sx, cols)
			y0, y1 := cellSpan(e.Y, e.Height, sy, rows)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					colors[y][x] = l.Color
				}
			}
		}
	}

	var b strings.Builder
	for y, row := range colors {
		if y > 0 {
			b.WriteByte('\n')
		}
		// Emit runs of equal color as one styled segment.
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && row[end] == row[x] {
				end++
			}
			if row[x] == "" {
				b.WriteString(strings.Repeat(" ", end-x))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[x])).Render(strings.Repeat("█", end-x)))
			}
			x = end
		}
	}
	return b.String()
}

// cellSpan maps the pixel span [pos, pos+size) to a half-open cell range.
// Spans thinner than a cell still cover one cell.
func cellSpan(pos, size, scale float64, n int) (int, int) {
	lo := int(math.Floor(pos * scale))
	hi := int(math.Ceil((pos + size) * scale))
	if hi <= lo {
		hi = lo + 1
	}
	return min(max(lo, 0), n), min(max(hi, 0), n)
}
