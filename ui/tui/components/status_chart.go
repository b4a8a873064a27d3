package components

import (
	"math"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"minerdash/internal/output"
	"minerdash/internal/projector"
)

// Component is the interface that all UI components must implement.
// It is similar to tea.Model but tailored for widgets.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
}

// settle is how close a bar must be to its target, in devices, to stop animating.
const settle = 0.01

// StatusChart draws the status histogram as a bar chart whose bars spring up to their counts.
type StatusChart struct {
	Histogram projector.Histogram
	Heights   []float64
	Cursor    int
	Width     int
	Height    int

	velocities []float64
	spring     harmonica.Spring
}

var _ Component = (*StatusChart)(nil)

func NewStatusChart(width, height int) *StatusChart {
	return &StatusChart{
		Width:  width,
		Height: height,
		spring: harmonica.NewSpring(harmonica.FPS(60), 7.0, 0.8),
	}
}

// SetHistogram sets the bar targets. Current heights are kept so a change animates from where the bars are.
func (c *StatusChart) SetHistogram(h projector.Histogram) {
	c.Histogram = h
	if len(c.Heights) != len(h) {
		c.Heights = make([]float64, len(h))
		c.velocities = make([]float64, len(h))
	}
	c.clampCursor()
}

// Reset drops every bar to zero.
func (c *StatusChart) Reset() {
	for i := range c.Heights {
		c.Heights[i] = 0
		c.velocities[i] = 0
	}
}

// Step advances the animation one frame and reports whether any bar is still moving.
func (c *StatusChart) Step() bool {
	moving := false
	for i, b := range c.Histogram {
		target := float64(b.Count)
		c.Heights[i], c.velocities[i] = c.spring.Update(c.Heights[i], c.velocities[i], target)
		if math.Abs(c.Heights[i]-target) < settle && math.Abs(c.velocities[i]) < settle {
			c.Heights[i], c.velocities[i] = target, 0
			continue
		}
		moving = true
	}
	return moving
}

// MoveCursor shifts the tooltip by delta bars, stopping at either end.
func (c *StatusChart) MoveCursor(delta int) {
	c.Cursor += delta
	c.clampCursor()
}

// SetCursor points the tooltip at bar i.
func (c *StatusChart) SetCursor(i int) {
	c.Cursor = i
	c.clampCursor()
}

func (c *StatusChart) clampCursor() {
	if c.Cursor >= len(c.Histogram) {
		c.Cursor = len(c.Histogram) - 1
	}
	if c.Cursor < 0 {
		c.Cursor = 0
	}
}

// Selected returns the bucket under the tooltip.
func (c *StatusChart) Selected() (projector.Bucket, bool) {
	if len(c.Histogram) == 0 {
		return projector.Bucket{}, false
	}
	return c.Histogram[c.Cursor], true
}

// Tooltip is the hover text for the bar under the cursor, using the real count.
func (c *StatusChart) Tooltip() string {
	b, ok := c.Selected()
	if !ok {
		return ""
	}
	return output.TooltipText(b)
}

func (c *StatusChart) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the app drives animation through Step.
func (c *StatusChart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

func (c *StatusChart) Resize(w, h int) {
	c.Width = w
	c.Height = h
}

func (c *StatusChart) View() string {
	maxValue := 1.0
	for _, b := range c.Histogram {
		// Headroom for the spring overshoot.
		if v := float64(b.Count) * 1.25; v > maxValue {
			maxValue = v
		}
	}

	barWidth := 4
	if n := len(c.Histogram); n > 0 {
		if w := (c.Width - 4) / n; w-1 < barWidth && w > 1 {
			barWidth = w - 1
		}
	}

	chart := barchart.New(c.Width, c.Height,
		barchart.WithMaxValue(maxValue),
		barchart.WithBarWidth(barWidth),
		barchart.WithBarGap(1),
	)

	data := make([]barchart.BarData, 0, len(c.Histogram))
	for i, b := range c.Histogram {
		h := c.Heights[i]
		if h < 0 {
			h = 0
		}
		data = append(data, barchart.BarData{
			Label: strconv.Itoa(b.Category.Code),
			Values: []barchart.BarValue{{
				Name:  b.Category.Label,
				Value: h,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(b.Category.Color)),
			}},
		})
	}
	chart.PushAll(data)
	chart.Draw()

	return chart.View()
}
