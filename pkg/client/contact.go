package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/maxviazov/campaign-site/internal/model"
)

const tagContact = "contact"

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// ContactReceipt confirms a stored message.
type ContactReceipt struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactPage is one page of the admin inbox.
type ContactPage struct {
	Items []model.ContactMessage `json:"items"`
	Total int                    `json:"total"`
}

type ContactAPI struct{ c *Client }

func (a *ContactAPI) Send(ctx context.Context, req ContactRequest) (ContactReceipt, error) {
	var out ContactReceipt
	if err := a.c.do(ctx, http.MethodPost, "/contact", req, &out); err != nil {
		return ContactReceipt{}, err
	}
	a.c.cache.invalidate(tagContact)
	return out, nil
}

// List reads the admin inbox; pages are cached under the contact tag.
func (a *ContactAPI) List(ctx context.Context, limit, offset int, unreadOnly bool) (ContactPage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if unreadOnly {
		q.Set("unread", "true")
	}
	path := "/admin/contact"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	v, _, err := a.c.cache.load(ctx, path, []string{tagContact}, func(ctx context.Context) (any, []string, error) {
		var page ContactPage
		if err := a.c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, nil, err
		}
		return page, nil, nil
	})
	if err != nil {
		return ContactPage{}, err
	}
	return v.(ContactPage), nil
}

func (a *ContactAPI) MarkRead(ctx context.Context, id string, read bool) (model.ContactMessage, error) {
	var out model.ContactMessage
	path := fmt.Sprintf("/admin/contact/%s", url.PathEscape(id))
	if err := a.c.do(ctx, http.MethodPatch, path, map[string]bool{"read": read}, &out); err != nil {
		return out, err
	}
	a.c.cache.invalidate(tagContact)
	return out, nil
}

func (a *ContactAPI) Delete(ctx context.Context, id string) error {
	if err := a.c.do(ctx, http.MethodDelete, "/admin/contact/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	a.c.cache.invalidate(tagContact)
	return nil
}
