// Package seatmap projects a venue map onto a character canvas. Projection
// is pure: the same map, selection and canvas size always give the same
// layout.
package seatmap

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"concertcloud-cli/model"
)

const (
	stageLabel    = "▀▀▀ STAGE ▀▀▀"
	cheapestLabel = "★ cheapest"
	bestLabel     = "♥ best"

	// Cells are roughly twice as tall as wide.
	hitRadiusCols = 4
	hitRadiusRows = 2
)

type Kind int

const (
	KindCheapest Kind = iota
	KindBest
)

// Placement is a section placed on the canvas. X, Y is the label centre.
type Placement struct {
	Section  model.Section
	X        int
	Y        int
	Selected bool
}

// Label returns the text drawn for the section.
func (p Placement) Label() string {
	if p.Selected {
		return "[" + p.Section.Name + "]"
	}
	return "(" + p.Section.Name + ")"
}

// Bounds returns the first and last column the label occupies on a canvas
// of the given width.
func (p Placement) Bounds(width int) (int, int) {
	return labelSpan(p.X, len([]rune(p.Label())), width)
}

// labelSpan centres n cells on x, shifted inward so they stay on the canvas.
func labelSpan(x, n, width int) (int, int) {
	start := clamp(x-n/2, 0, max(0, width-n))
	return start, start + n - 1
}

type Annotation struct {
	Kind      Kind
	Label     string
	SectionID model.SectionID
	X         int
	Y         int
}

type Layout struct {
	Width       int
	Height      int
	StageX      int
	StageY      int
	Sections    []Placement
	Annotations []Annotation
}

// Project scales m onto a width×height canvas.
func Project(m model.VenueMap, selected *model.SectionID, width, height int) Layout {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	venueW, venueH := m.Venue.Size()
	scaleX := func(v float64) int { return scale(v, venueW, width) }
	scaleY := func(v float64) int { return scale(v, venueH, height) }

	layout := Layout{
		Width:  width,
		Height: height,
		StageX: scaleX(m.Venue.StageX),
		StageY: scaleY(m.Venue.StageY),
	}

	for _, section := range m.Sections {
		layout.Sections = append(layout.Sections, Placement{
			Section:  section,
			X:        scaleX(section.Cx),
			Y:        scaleY(section.Cy),
			Selected: selected != nil && *selected == section.Id,
		})
	}

	layout.annotate(KindCheapest, cheapestLabel, m.Cheapest)
	layout.annotate(KindBest, bestLabel, m.Best)
	return layout
}

func scale(v float64, extent float64, cells int) int {
	if extent <= 0 || cells <= 1 {
		return 0
	}
	pos := int(math.Round(v / extent * float64(cells-1)))
	return clamp(pos, 0, cells-1)
}

// annotate places a recommendation above its section, or below when another
// annotation already sits there. Missing sections are skipped.
func (l *Layout) annotate(kind Kind, label string, rec model.Recommendation) {
	if rec.Marker == nil {
		return
	}
	placement, ok := l.placement(rec.Marker.SectionId)
	if !ok {
		return
	}
	y := placement.Y - 1
	for _, existing := range l.Annotations {
		if existing.SectionID == placement.Section.Id {
			y = placement.Y + 1
		}
	}
	if y < 0 {
		y = placement.Y + 1
	}
	if y >= l.Height {
		y = placement.Y - 1
	}
	l.Annotations = append(l.Annotations, Annotation{
		Kind:      kind,
		Label:     label,
		SectionID: placement.Section.Id,
		X:         placement.X,
		Y:         clamp(y, 0, l.Height-1),
	})
}

func (l Layout) placement(id model.SectionID) (Placement, bool) {
	for _, p := range l.Sections {
		if p.Section.Id == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Annotation returns the annotation of the given kind, if placed.
func (l Layout) Annotation(kind Kind) (Annotation, bool) {
	for _, a := range l.Annotations {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// HitTest returns the section under canvas cell (x, y): a label hit wins,
// otherwise the nearest centre within a small radius.
func (l Layout) HitTest(x, y int) (model.SectionID, bool) {
	for _, p := range l.Sections {
		left, right := p.Bounds(l.Width)
		if y == p.Y && x >= left && x <= right {
			return p.Section.Id, true
		}
	}

	best := -1
	bestDist := math.MaxFloat64
	for i, p := range l.Sections {
		dx := float64(x - p.X)
		dy := float64(y - p.Y)
		if math.Abs(dx) > hitRadiusCols || math.Abs(dy) > hitRadiusRows {
			continue
		}
		dist := dx*dx + 4*dy*dy
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return "", false
	}
	return l.Sections[best].Section.Id, true
}

// Next steps delta sections away from current in map order, wrapping. With
// no current section it starts from the first (or last, for delta < 0).
func (l Layout) Next(current *model.SectionID, delta int) (model.SectionID, bool) {
	n := len(l.Sections)
	if n == 0 {
		return "", false
	}
	idx := -1
	if current != nil {
		for i, p := range l.Sections {
			if p.Section.Id == *current {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		if delta < 0 {
			return l.Sections[n-1].Section.Id, true
		}
		return l.Sections[0].Section.Id, true
	}
	next := ((idx+delta)%n + n) % n
	return l.Sections[next].Section.Id, true
}

// Styles controls how Render colours each element.
type Styles struct {
	Canvas   lipgloss.Style
	Stage    lipgloss.Style
	Section  lipgloss.Style
	Selected lipgloss.Style
	Focused  lipgloss.Style
	Cheapest lipgloss.Style
	Best     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Canvas:   lipgloss.NewStyle(),
		Stage:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5a2c82")).Bold(true),
		Section:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f0b8ff")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#2a1436")).Background(lipgloss.Color("#e6a8ff")).Bold(true),
		Focused:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e6a8ff")).Underline(true),
		Cheapest: lipgloss.NewStyle().Foreground(lipgloss.Color("#00bb66")).Bold(true),
		Best:     lipgloss.NewStyle().Foreground(lipgloss.Color("#a020f0")).Bold(true),
	}
}

type cellStyle int

const (
	styleBlank cellStyle = iota
	styleStage
	styleSection
	styleSelected
	styleFocused
	styleCheapest
	styleBest
)

type cell struct {
	r     rune
	style cellStyle
}

// Render draws the layout. focus, when set, marks the section under the
// keyboard cursor.
func Render(l Layout, st Styles, focus *model.SectionID) string {
	grid := make([][]cell, l.Height)
	for y := range grid {
		grid[y] = make([]cell, l.Width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	write := func(x, y int, text string, style cellStyle) {
		if y < 0 || y >= l.Height {
			return
		}
		runes := []rune(text)
		start, _ := labelSpan(x, len(runes), l.Width)
		for i, r := range runes {
			col := start + i
			if col < 0 || col >= l.Width {
				continue
			}
			grid[y][col] = cell{r: r, style: style}
		}
	}

	write(l.StageX, l.StageY, stageLabel, styleStage)
	for _, p := range l.Sections {
		style := styleSection
		switch {
		case p.Selected:
			style = styleSelected
		case focus != nil && *focus == p.Section.Id:
			style = styleFocused
		}
		write(p.X, p.Y, p.Label(), style)
	}
	for _, a := range l.Annotations {
		style := styleCheapest
		if a.Kind == KindBest {
			style = styleBest
		}
		write(a.X, a.Y, a.Label, style)
	}

	lines := make([]string, 0, l.Height)
	for _, row := range grid {
		lines = append(lines, renderRow(row, st))
	}
	return st.Canvas.Render(strings.Join(lines, "\n"))
}

func renderRow(row []cell, st Styles) string {
	var b strings.Builder
	var run strings.Builder
	current := styleBlank
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(st.apply(current, run.String()))
		run.Reset()
	}
	for _, c := range row {
		if c.style != current {
			flush()
			current = c.style
		}
		run.WriteRune(c.r)
	}
	flush()
	return b.String()
}

func (st Styles) apply(style cellStyle, text string) string {
	switch style {
	case styleStage:
		return st.Stage.Render(text)
	case styleSection:
		return st.Section.Render(text)
	case styleSelected:
		return st.Selected.Render(text)
	case styleFocused:
		return st.Focused.Render(text)
	case styleCheapest:
		return st.Cheapest.Render(text)
	case styleBest:
		return st.Best.Render(text)
	default:
		return text
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
