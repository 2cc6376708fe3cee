// Package model holds the content, contact and visitor shapes shared by the
// backend, the client and the CLI.
package model

import "time"

// Kind names a content resource kind exposed by the API.
type Kind string

const (
	KindPhotos Kind = "photos"
	KindVideos Kind = "videos"
	KindPress  Kind = "press"
)

// Kinds lists every content resource kind in routing order.
var Kinds = []Kind{KindPhotos, KindVideos, KindPress}

// Content is the core shared by every resource kind.
type Content struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,min=2,max=200"`
	Description string    `json:"description,omitempty" validate:"max=2000"`
	Category    string    `json:"category,omitempty" validate:"omitempty,max=50"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Core returns the shared content fields; it lets generic code reach them.
func (c *Content) Core() *Content { return c }

// Photo is a gallery image.
type Photo struct {
	Content
	ImageURL string `json:"imageUrl" validate:"required,url"`
	AltText  string `json:"altText,omitempty" validate:"max=300"`
}

// Video is a YouTube-hosted clip. YouTubeURL is stored in canonical watch form.
type Video struct {
	Content
	YouTubeURL   string `json:"youtubeUrl" validate:"required"`
	VideoID      string `json:"videoId"`
	EmbedURL     string `json:"embedUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// PressArticle is a piece of press coverage linking to an external outlet.
type PressArticle struct {
	Content
	Outlet      string     `json:"outlet" validate:"required,max=120"`
	ArticleURL  string     `json:"articleUrl" validate:"required,url"`
	ImageURL    string     `json:"imageUrl,omitempty" validate:"omitempty,url"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// ContactMessage is a message left by a visitor through the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Subject   string    `json:"subject,omitempty" validate:"max=200"`
	Message   string    `json:"message" validate:"required,min=10,max=5000"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// VisitorCount is the payload of both visitor endpoints.
type VisitorCount struct {
	Count int64 `json:"count"`
}

// Item is the pointer constraint satisfied by *Photo, *Video and *PressArticle.
// Generic storage and services use it to reach the shared Content core.
type Item[T any] interface {
	*T
	Core() *Content
}
