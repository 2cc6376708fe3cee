package model_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestListQuery_Encode(t *testing.T) {
	cases := []struct {
		name string
		in   model.ListQuery
		want string
	}{
		{"empty", model.ListQuery{}, ""},
		{"page and limit", model.ListQuery{Page: 2, Limit: 6}, "page=2&limit=6"},
		{"category paging", model.ListQuery{Category: "healthcare", Page: 2, Limit: 6}, "page=2&limit=6&category=healthcare"},
		{"all fields", model.ListQuery{
			Page: 3, Limit: 10, Category: "events", Search: "town hall",
			SortBy: model.SortByTitle, SortOrder: model.SortAsc,
		}, "page=3&limit=10&category=events&search=town+hall&sortBy=title&sortOrder=asc"},
		{"zero page skipped", model.ListQuery{Page: 0, Search: "a&b"}, "search=a%26b"},
		{"negative limit skipped", model.ListQuery{Limit: -1, SortOrder: model.SortDesc}, "sortOrder=desc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Encode())
		})
	}
}

func TestListQuery_Encode_NeverSendsEmptyParams(t *testing.T) {
	qs := []model.ListQuery{
		{},
		{Category: ""},
		{Search: "", SortBy: ""},
		{Page: 1, Category: "", Search: "x"},
		{Limit: 5, SortOrder: ""},
	}
	for _, q := range qs {
		enc := q.Encode()
		if enc == "" {
			continue
		}
		vals, err := url.ParseQuery(enc)
		assert.NoError(t, err)
		for k, v := range vals {
			assert.Len(t, v, 1, "param %s repeated", k)
			assert.NotEmpty(t, v[0], "param %s sent empty in %q", k, enc)
		}
		assert.False(t, strings.HasPrefix(enc, "&") || strings.HasSuffix(enc, "&"))
	}
}

func TestListQuery_Normalized(t *testing.T) {
	got := model.ListQuery{}.Normalized()
	assert.Equal(t, model.ListQuery{Page: 1, Limit: 12, SortBy: model.SortByCreatedAt, SortOrder: model.SortDesc}, got)

	got = model.ListQuery{Page: 4, Limit: 500}.Normalized()
	assert.Equal(t, 100, got.Limit)
	assert.Equal(t, 300, model.ListQuery{Page: 4, Limit: 500}.Offset())
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit, total int
		want               model.Pagination
	}{
		{1, 12, 0, model.Pagination{CurrentPage: 1, TotalPages: 0, TotalCount: 0}},
		{1, 12, 12, model.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 12}},
		{1, 6, 13, model.Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 13, HasNext: true}},
		{2, 6, 13, model.Pagination{CurrentPage: 2, TotalPages: 3, TotalCount: 13, HasNext: true, HasPrev: true}},
		{3, 6, 13, model.Pagination{CurrentPage: 3, TotalPages: 3, TotalCount: 13, HasPrev: true}},
		{9, 6, 13, model.Pagination{CurrentPage: 9, TotalPages: 3, TotalCount: 13, HasPrev: true}},
	}
	for _, tc := range cases {
		got := model.NewPagination(tc.page, tc.limit, tc.total)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, got.CurrentPage < got.TotalPages, got.HasNext)
		assert.Equal(t, got.CurrentPage > 1, got.HasPrev)
	}
}
