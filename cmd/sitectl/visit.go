package main

import (
	"github.com/dustin/go-humanize"
	"github.com/maxviazov/campaign-site/pkg/tracker"
	"github.com/spf13/cobra"
)

func newVisitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "visit",
		Short: "Load the site once: count this device if it is new, then show the total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := tracker.NewFileStore(a.v.GetString("state-file"))
			t := tracker.New(store, a.client.Visitor(), a.log)
			st := t.Mount(cmd.Context())
			renderVisit(cmd, st)
			return nil
		},
	}
}

// renderVisit never fails the command: a missing count is shown as unavailable.
func renderVisit(cmd *cobra.Command, st tracker.State) {
	if st.HasCount {
		printf(cmd, "%s visitors\n", humanize.Comma(st.Count))
	} else {
		printf(cmd, "visitor count unavailable\n")
	}
	if st.LastError != "" {
		printf(cmd, "note: %s\n", st.LastError)
	}
}
