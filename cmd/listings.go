package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"concertcloud-cli/filter"
	"concertcloud-cli/logger"
	"concertcloud-cli/model"
	"concertcloud-cli/session"
)

func newListingsCmd(global *globalFlags) *cobra.Command {
	var flags filterFlags
	var queryOnly bool

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Print the listings of an event",
		Long:  `Fetch the listings of an event once, filtered like the interactive filter bar, and print them as a table.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			defer logger.Sync()

			state := flags.apply(cmd.Flags(), global.filters(cmd.Flags(), cfg))
			query := filter.ToQuery(state)
			if queryOnly {
				fmt.Fprintln(cmd.OutOrStdout(), query.Encode())
				return nil
			}

			res := session.Execute(cmd.Context(), newClient(cfg), session.Request{
				Resource: session.Listings,
				EventID:  state.EventID,
				Query:    query,
			})
			if res.Err != nil {
				return errors.New(session.ErrorMessage(session.Listings, res.Err))
			}
			renderListings(cmd.OutOrStdout(), res.Listings)
			return nil
		},
	}
	flags.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&queryOnly, "query", false, "print the encoded query string and exit")
	return cmd
}

func renderListings(w io.Writer, listings []model.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings match your filters.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Section", "Row", "Seat", "Price", "Verified"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 24},
		{Number: 5, Align: text.AlignRight},
	})
	for _, l := range listings {
		t.AppendRow(table.Row{l.Id, l.SectionLabel(), l.RowLabel(), l.SeatLabel(), fmt.Sprintf("$%.2f", l.Price), yesNo(l.IsVerified)})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(listings), ""})
	t.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
