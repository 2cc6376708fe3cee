package repository

// Page is the limit/offset window of the admin contact inbox.
type Page struct {
	Limit  int
	Offset int
}

// PageResult is one window of items plus the total matching the filter.
type PageResult[T any] struct {
	Items []T
	Total int
}

const defaultPageLimit = 50

// Sanitize clamps a page window to sane values.
func (p Page) Sanitize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
