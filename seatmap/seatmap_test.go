package seatmap

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertcloud-cli/model"
)

func plainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Canvas: s, Stage: s, Section: s, Selected: s, Focused: s, Cheapest: s, Best: s}
}

func sid(id string) *model.SectionID {
	s := model.SectionID(id)
	return &s
}

func venue() model.VenueMap {
	return model.VenueMap{
		Venue: model.Venue{Name: "Hall", Width: 1000, Height: 700, StageX: 500, StageY: 80},
		Sections: []model.Section{
			{Id: "A1", Name: "A1", Cx: 200, Cy: 350},
			{Id: "B2", Name: "B2", Cx: 500, Cy: 350},
			{Id: "C3", Name: "C3", Cx: 800, Cy: 600},
		},
	}
}

func TestProject_ScalesCoordinates(t *testing.T) {
	layout := Project(venue(), nil, 101, 71)

	require.Len(t, layout.Sections, 3)
	assert.Equal(t, 20, layout.Sections[0].X)
	assert.Equal(t, 35, layout.Sections[0].Y)
	assert.Equal(t, 50, layout.StageX)
	assert.Equal(t, 8, layout.StageY)
}

func TestProject_MarksSelectedSection(t *testing.T) {
	layout := Project(venue(), sid("B2"), 60, 20)

	for _, p := range layout.Sections {
		assert.Equal(t, p.Section.Id == "B2", p.Selected, string(p.Section.Id))
	}
	assert.Equal(t, "[B2]", layout.Sections[1].Label())
	assert.Equal(t, "(A1)", layout.Sections[0].Label())
}

func TestProject_AnnotationsForKnownSections(t *testing.T) {
	m := venue()
	m.Cheapest = model.Recommendation{Marker: &model.Marker{SectionId: "A1", Price: 40}}
	m.Best = model.Recommendation{Marker: &model.Marker{SectionId: "C3", Price: 140}}

	layout := Project(m, nil, 60, 20)

	cheapest, ok := layout.Annotation(KindCheapest)
	require.True(t, ok)
	assert.Equal(t, model.SectionID("A1"), cheapest.SectionID)
	assert.Equal(t, layout.Sections[0].Y-1, cheapest.Y)
	assert.Equal(t, layout.Sections[0].X, cheapest.X)

	best, ok := layout.Annotation(KindBest)
	require.True(t, ok)
	assert.Equal(t, model.SectionID("C3"), best.SectionID)
}

func TestProject_MissingSectionOmitsAnnotation(t *testing.T) {
	m := venue()
	m.Sections = m.Sections[1:]
	m.Cheapest = model.Recommendation{Marker: &model.Marker{SectionId: "A1"}}

	layout := Project(m, nil, 60, 20)

	_, ok := layout.Annotation(KindCheapest)
	assert.False(t, ok)
	assert.Empty(t, layout.Annotations)
	assert.NotContains(t, Render(layout, plainStyles(), nil), "cheapest")
}

func TestProject_SharedSectionStacksAnnotations(t *testing.T) {
	m := venue()
	m.Cheapest = model.Recommendation{Marker: &model.Marker{SectionId: "B2"}}
	m.Best = model.Recommendation{Marker: &model.Marker{SectionId: "B2"}}

	layout := Project(m, nil, 60, 20)

	cheapest, _ := layout.Annotation(KindCheapest)
	best, _ := layout.Annotation(KindBest)
	assert.NotEqual(t, cheapest.Y, best.Y)
}

func TestProject_EmptyVenueUsesDefaults(t *testing.T) {
	layout := Project(model.VenueMap{}, nil, 0, 0)
	assert.Equal(t, 1, layout.Width)
	assert.Equal(t, 1, layout.Height)
	assert.Empty(t, layout.Sections)
}

func TestHitTest(t *testing.T) {
	layout := Project(venue(), nil, 101, 71)
	a1 := layout.Sections[0]

	id, ok := layout.HitTest(a1.X, a1.Y)
	require.True(t, ok)
	assert.Equal(t, model.SectionID("A1"), id)

	left, right := a1.Bounds(layout.Width)
	id, ok = layout.HitTest(right, a1.Y)
	require.True(t, ok)
	assert.Equal(t, model.SectionID("A1"), id)
	_, ok = layout.HitTest(left, a1.Y)
	assert.True(t, ok)

	id, ok = layout.HitTest(a1.X+1, a1.Y+1)
	require.True(t, ok)
	assert.Equal(t, model.SectionID("A1"), id)

	_, ok = layout.HitTest(0, 0)
	assert.False(t, ok)
}

func TestHitTest_LabelsShiftedAtCanvasEdges(t *testing.T) {
	m := model.VenueMap{
		Venue: model.Venue{Width: 1000, Height: 700, StageX: 500, StageY: 80},
		Sections: []model.Section{
			{Id: "L", Name: "Floor Left Wing", Cx: 0, Cy: 350},
			{Id: "R", Name: "Floor Right Wing", Cx: 1000, Cy: 350},
		},
	}
	layout := Project(m, nil, 60, 10)
	lines := strings.Split(Render(layout, plainStyles(), nil), "\n")
	require.Len(t, lines, layout.Height)

	for _, p := range layout.Sections {
		left, right := p.Bounds(layout.Width)
		assert.GreaterOrEqual(t, left, 0)
		assert.Less(t, right, layout.Width)

		row := []rune(lines[p.Y])
		label := []rune(p.Label())
		assert.Equal(t, string(label), string(row[left:right+1]))

		for x := left; x <= right; x++ {
			id, ok := layout.HitTest(x, p.Y)
			require.True(t, ok, "cell %d of %s", x, p.Label())
			assert.Equal(t, p.Section.Id, id)
		}
	}
}

func TestNext_WrapsInMapOrder(t *testing.T) {
	layout := Project(venue(), nil, 60, 20)

	id, ok := layout.Next(nil, 1)
	require.True(t, ok)
	assert.Equal(t, model.SectionID("A1"), id)

	id, _ = layout.Next(nil, -1)
	assert.Equal(t, model.SectionID("C3"), id)

	id, _ = layout.Next(sid("C3"), 1)
	assert.Equal(t, model.SectionID("A1"), id)

	id, _ = layout.Next(sid("A1"), -1)
	assert.Equal(t, model.SectionID("C3"), id)

	_, ok = Project(model.VenueMap{}, nil, 10, 10).Next(nil, 1)
	assert.False(t, ok)
}

func TestRender_DrawsStageSectionsAndAnnotations(t *testing.T) {
	m := venue()
	m.Best = model.Recommendation{Marker: &model.Marker{SectionId: "B2"}}
	layout := Project(m, sid("A1"), 60, 20)

	out := Render(layout, plainStyles(), nil)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 20)
	assert.Contains(t, out, "STAGE")
	assert.Contains(t, out, "[A1]")
	assert.Contains(t, out, "(B2)")
	assert.Contains(t, out, "(C3)")
	assert.Contains(t, lines[layout.Sections[1].Y-1], bestLabel)
}
