package model

import (
	"net/url"
	"strconv"
)

// SortField is the fixed set of orderings the list endpoints accept.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
)

// SortOrder is the direction of a list ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// List defaults applied when a query leaves paging or ordering unset.
const (
	DefaultPage      = 1
	DefaultLimit     = 12
	MaxLimit         = 100
	DefaultSortBy    = SortByCreatedAt
	DefaultSortOrder = SortDesc
)

// ListQuery selects one page of a resource list. Zero values mean "unset":
// they are never sent over the wire and the server applies its defaults.
type ListQuery struct {
	Page      int       `json:"page,omitempty" form:"page" validate:"omitempty,min=1"`
	Limit     int       `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=100"`
	Category  string    `json:"category,omitempty" form:"category" validate:"omitempty,max=50"`
	Search    string    `json:"search,omitempty" form:"search" validate:"omitempty,max=100"`
	SortBy    SortField `json:"sortBy,omitempty" form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt title"`
	SortOrder SortOrder `json:"sortOrder,omitempty" form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Encode serializes the query in canonical parameter order
// (page, limit, category, search, sortBy, sortOrder), skipping unset fields.
// An empty query encodes to "".
func (q ListQuery) Encode() string {
	var buf []byte
	add := func(k, v string) {
		if v == "" {
			return
		}
		if len(buf) > 0 {
			buf = append(buf, '&')
		}
		buf = append(buf, url.QueryEscape(k)...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(v)...)
	}
	if q.Page > 0 {
		add("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		add("limit", strconv.Itoa(q.Limit))
	}
	add("category", q.Category)
	add("search", q.Search)
	add("sortBy", string(q.SortBy))
	add("sortOrder", string(q.SortOrder))
	return string(buf)
}

// Normalized returns the query with server defaults filled in and limit clamped.
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder == "" {
		q.SortOrder = DefaultSortOrder
	}
	return q
}

// Offset is the zero-based row offset of the normalized page.
func (q ListQuery) Offset() int {
	n := q.Normalized()
	return (n.Page - 1) * n.Limit
}

// Pagination is the server-provided paging metadata of a list page.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination derives paging metadata from a page number, a page size and a total.
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// ListResponse is one page of items plus paging metadata.
type ListResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListFilter is the repository-level view of a list request.
type ListFilter struct {
	Query ListQuery
	// IncludeUnpublished is set for admin listings only.
	IncludeUnpublished bool
}
