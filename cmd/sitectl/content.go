package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/spf13/cobra"
)

// row is the common rendering of any content item.
type row struct {
	ID        string
	Title     string
	Category  string
	Published bool
	CreatedAt time.Time
	Link      string
}

func photoRow(p model.Photo) row {
	return row{p.ID, p.Title, p.Category, p.Published, p.CreatedAt, p.ImageURL}
}

func videoRow(v model.Video) row {
	return row{v.ID, v.Title, v.Category, v.Published, v.CreatedAt, v.YouTubeURL}
}

func pressRow(a model.PressArticle) row {
	return row{a.ID, a.Title, a.Category, a.Published, a.CreatedAt, a.Outlet + " " + a.ArticleURL}
}

func mapRows[T any](items []T, f func(T) row) []row {
	out := make([]row, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}

func parseKind(s string) (model.Kind, error) {
	for _, k := range model.Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q (want photos, videos or press)", s)
}

func queryFlags(cmd *cobra.Command, q *model.ListQuery) {
	f := cmd.Flags()
	f.IntVar(&q.Page, "page", 0, "page number (server default 1)")
	f.IntVar(&q.Limit, "limit", 0, "items per page (server default 12)")
	f.StringVar(&q.Category, "category", "", "only items in this category")
	f.StringVar(&q.Search, "search", "", "title or description contains")
	f.StringVar((*string)(&q.SortBy), "sort-by", "", "createdAt, updatedAt or title")
	f.StringVar((*string)(&q.SortOrder), "sort-order", "", "asc or desc")
}

func newListCmd(a *app) *cobra.Command {
	var q model.ListQuery
	var admin bool
	cmd := &cobra.Command{
		Use:       "list <photos|videos|press>",
		Short:     "List one page of a resource",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"photos", "videos", "press"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var rows []row
			var pg model.Pagination
			switch kind {
			case model.KindPhotos:
				res, err := listFn(a.client.Photos().List, a.client.Photos().AdminList, admin)(ctx, q)
				if err != nil {
					return err
				}
				rows, pg = mapRows(res.Items, photoRow), res.Pagination
			case model.KindVideos:
				res, err := listFn(a.client.Videos().List, a.client.Videos().AdminList, admin)(ctx, q)
				if err != nil {
					return err
				}
				rows, pg = mapRows(res.Items, videoRow), res.Pagination
			case model.KindPress:
				res, err := listFn(a.client.Press().List, a.client.Press().AdminList, admin)(ctx, q)
				if err != nil {
					return err
				}
				rows, pg = mapRows(res.Items, pressRow), res.Pagination
			}
			renderRows(cmd, rows, admin)
			printf(cmd, "page %d of %d, %s items total\n", pg.CurrentPage, pg.TotalPages, humanize.Comma(int64(pg.TotalCount)))
			return nil
		},
	}
	queryFlags(cmd, &q)
	cmd.Flags().BoolVar(&admin, "all", false, "include drafts (needs an admin token)")
	return cmd
}

func listFn[F any](public, admin F, useAdmin bool) F {
	if useAdmin {
		return admin
	}
	return public
}

func renderRows(cmd *cobra.Command, rows []row, showDrafts bool) {
	if len(rows) == 0 {
		printf(cmd, "nothing here yet\n")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tADDED\tLINK")
	for _, r := range rows {
		title := r.Title
		if showDrafts && !r.Published {
			title += " (draft)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, title, r.Category, humanize.Time(r.CreatedAt), r.Link)
	}
	_ = w.Flush()
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <photos|videos|press> <id>",
		Short: "Show one published item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var r row
			var desc string
			switch kind {
			case model.KindPhotos:
				p, err := a.client.Photos().Get(ctx, args[1])
				if err != nil {
					return err
				}
				r, desc = photoRow(p), p.Description
			case model.KindVideos:
				v, err := a.client.Videos().Get(ctx, args[1])
				if err != nil {
					return err
				}
				r, desc = videoRow(v), v.Description
			case model.KindPress:
				p, err := a.client.Press().Get(ctx, args[1])
				if err != nil {
					return err
				}
				r, desc = pressRow(p), p.Description
			}
			printf(cmd, "%s\n%s\n", r.Title, r.Link)
			if desc != "" {
				printf(cmd, "\n%s\n", desc)
			}
			printf(cmd, "\nadded %s\n", humanize.Time(r.CreatedAt))
			return nil
		},
	}
}

func newLandingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "landing",
		Short: "Summarize the landing page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.client.Landing(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd, "photos: %s\n", humanize.Comma(int64(l.Photos.Pagination.TotalCount)))
			printf(cmd, "videos: %s\n", humanize.Comma(int64(l.Videos.Pagination.TotalCount)))
			printf(cmd, "press:  %s\n", humanize.Comma(int64(l.Press.Pagination.TotalCount)))
			if len(l.Press.Items) > 0 {
				printf(cmd, "latest coverage: %s (%s)\n", l.Press.Items[0].Title, l.Press.Items[0].Outlet)
			}
			return nil
		},
	}
}
