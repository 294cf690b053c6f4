package tui

import (
	"fmt"
	"strconv"
	"strings"

	"concertcloud-cli/filter"
	"concertcloud-cli/seatmap"
)

const (
	sectionTip      = "Tip: select a section to filter listings; select it again to clear."
	clearSectionTip = "c clear section filter"
)

func (m appModel) View() string {
	if m.state == stateSelectRecent {
		return m.headerView() + "\n\n" + m.recentList.View() + "\n" + hint("enter open • / filter • esc back")
	}
	return m.aboveMapView() + "\n" + m.mapView()
}

// aboveMapView renders everything drawn above the seat map. Its height is
// the row offset used to translate mouse clicks into canvas cells.
func (m appModel) aboveMapView() string {
	parts := []string{m.headerView()}
	if m.sess.Err != "" {
		parts = append(parts, errorStyle.Render(m.sess.Err))
	}
	parts = append(parts, m.listingsView(), sectionTitleStyle.Render(m.mapTitle()))
	return strings.Join(parts, "\n")
}

func (m appModel) mapTop() int {
	return strings.Count(m.aboveMapView(), "\n") + 1
}

func (m appModel) headerView() string {
	title := titleStyle.Render("ConcertCloud • Tickets")
	meta := fmt.Sprintf("Event %d", m.sess.Filters.EventID)
	if m.sess.Map != nil && m.sess.Map.Venue.Name != "" {
		meta += " • " + m.sess.Map.Venue.Name
	}
	if id := m.sess.Filters.SectionID; id != nil {
		name := id.String()
		if m.sess.Map != nil {
			if section, ok := m.sess.Map.Section(*id); ok && section.Name != "" {
				name = section.Name
			}
		}
		meta += " • Section " + name
	}
	if m.sess.Loading() {
		meta += " " + m.spinner.View()
	}
	return strings.Join([]string{title + "  " + hint(meta), m.filterBarView(), hint(m.hintText())}, "\n")
}

func (m appModel) filterBarView() string {
	cells := make([]string, 0, fieldCount)
	for f := filterField(0); f < fieldCount; f++ {
		value := m.fieldText(f)
		if m.state == stateEditField && m.field == f {
			value = m.input.View()
		}
		text := fmt.Sprintf("%s [%s]", fieldLabel(f), value)
		style := fieldStyle
		if m.focus == focusFilters && m.field == f {
			style = focusedFieldStyle
		}
		cells = append(cells, style.Render(text))
	}
	return strings.Join(cells, "  ")
}

func fieldLabel(f filterField) string {
	switch f {
	case fieldEvent:
		return "Event"
	case fieldQty:
		return "Qty"
	case fieldMaxPrice:
		return "Max $"
	case fieldVerified:
		return "Verified"
	case fieldTogether:
		return "Together"
	case fieldSort:
		return "Sort"
	}
	return ""
}

// fieldText is the editable text of f.
func (m appModel) fieldText(f filterField) string {
	filters := m.sess.Filters
	switch f {
	case fieldEvent:
		return strconv.Itoa(filters.EventID)
	case fieldQty:
		return strconv.Itoa(filters.Quantity)
	case fieldMaxPrice:
		if filters.MaxPrice == nil {
			return ""
		}
		return filter.FormatPrice(*filters.MaxPrice)
	case fieldVerified:
		return checkbox(filters.VerifiedOnly)
	case fieldTogether:
		return checkbox(filters.Together)
	case fieldSort:
		return string(filters.Sort)
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "x"
	}
	return " "
}

func (m appModel) hintText() string {
	if m.state == stateEditField {
		return "enter save • esc cancel"
	}
	var keys string
	switch m.focus {
	case focusFilters:
		keys = "←/→ field • enter edit/toggle • ↑/↓ adjust"
	case focusTable:
		keys = "↑/↓ scroll listings"
	case focusMap:
		keys = "←/→ section • enter toggle section • click to select"
	}
	return keys + " • tab focus • a apply • m map • r recent • q quit"
}

func (m appModel) listingsView() string {
	title := sectionTitleStyle.Render(fmt.Sprintf("Listings (%d)", len(m.sess.Listings)))
	if m.focus == focusTable {
		title += " " + hint("focused")
	}
	switch {
	case m.sess.LoadingListings:
		return title + "\n" + m.spinner.View() + " Loading listings…"
	case len(m.sess.Listings) == 0:
		return title + "\n" + hint("No listings match your filters.")
	}
	body := m.table.View()
	if len(m.sess.Listings) > maxTableRows {
		body += "\n" + hint(fmt.Sprintf("showing first %d of %d", maxTableRows, len(m.sess.Listings)))
	}
	return title + "\n" + body
}

func (m appModel) mapTitle() string {
	title := "Seat Map"
	if m.focus == focusMap {
		title += " (focused)"
	}
	return title
}

func (m appModel) mapView() string {
	if m.sess.Map == nil {
		if m.sess.LoadingMap {
			return m.spinner.View() + " Loading map…"
		}
		return hint("Press m to load the venue layout.")
	}
	var focus = m.cursor
	if m.focus != focusMap {
		focus = nil
	}
	tip := sectionTip
	if m.sess.Filters.SectionID != nil {
		tip += " • " + clearSectionTip
	}
	return seatmap.Render(m.layout(), m.styles, focus) + "\n" + hint(tip)
}

// layout projects the loaded map onto the space left below the listings.
// Callers must check that a map is loaded.
func (m appModel) layout() seatmap.Layout {
	width, height := m.mapSize()
	return seatmap.Project(*m.sess.Map, m.sess.Filters.SectionID, width, height)
}

func (m appModel) mapSize() (int, int) {
	width := max(m.viewWidth(), minMapWidth)
	if m.height <= 0 {
		return width, 16
	}
	// One row for the tip line.
	height := m.height - m.mapTop() - 1
	return width, max(height, minMapHeight)
}
