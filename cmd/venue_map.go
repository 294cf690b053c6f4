package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"concertcloud-cli/logger"
	"concertcloud-cli/model"
	"concertcloud-cli/session"
)

func newMapCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Print the venue map of an event",
		Long:  `Fetch the venue map of an event once and print its sections and recommendations.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			defer logger.Sync()

			state := global.filters(cmd.Flags(), cfg)
			res := session.Execute(cmd.Context(), newClient(cfg), session.Request{
				Resource: session.Map,
				EventID:  state.EventID,
			})
			if res.Err != nil {
				return errors.New(session.ErrorMessage(session.Map, res.Err))
			}
			renderVenueMap(cmd.OutOrStdout(), res.Map)
			return nil
		},
	}
}

func renderVenueMap(w io.Writer, m model.VenueMap) {
	width, height := m.Venue.Size()
	name := m.Venue.Name
	if name == "" {
		name = "Venue"
	}
	fmt.Fprintf(w, "%s (%gx%g, stage at %g,%g)\n", name, width, height, m.Venue.StageX, m.Venue.StageY)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "X", "Y", "Closeness", "Marks"})
	for _, s := range m.Sections {
		t.AppendRow(table.Row{s.Id.String(), s.Name, s.Cx, s.Cy, s.BaseCloseness, sectionMarks(m, s.Id)})
	}
	t.Render()

	for _, rec := range []struct {
		label string
		r     model.Recommendation
	}{{"cheapest", m.Cheapest}, {"best", m.Best}} {
		if rec.r.Marker == nil {
			continue
		}
		marker := rec.r.Marker
		where := "section " + marker.SectionId.String()
		if !m.HasSection(marker.SectionId) {
			where += " (not on map)"
		}
		fmt.Fprintf(w, "%s: listing %d at $%.2f in %s\n", rec.label, marker.ListingId, marker.Price, where)
	}
}

func sectionMarks(m model.VenueMap, id model.SectionID) string {
	var marks []string
	if c := m.Cheapest.Marker; c != nil && c.SectionId == id {
		marks = append(marks, "★ cheapest")
	}
	if b := m.Best.Marker; b != nil && b.SectionId == id {
		marks = append(marks, "♥ best")
	}
	return strings.Join(marks, ", ")
}
