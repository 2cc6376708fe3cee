// Package youtube normalizes the many shapes of a YouTube link into one canonical form.
package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when no video id can be extracted.
var ErrInvalidURL = errors.New("invalid youtube url")

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Video holds the canonical links derived from a video id.
type Video struct {
	ID           string `json:"id"`
	WatchURL     string `json:"watchUrl"`
	EmbedURL     string `json:"embedUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// FromID builds the canonical links for a known-good id.
func FromID(id string) Video {
	return Video{
		ID:           id,
		WatchURL:     "https://www.youtube.com/watch?v=" + id,
		EmbedURL:     "https://www.youtube.com/embed/" + id,
		ThumbnailURL: "https://img.youtube.com/vi/" + id + "/hqdefault.jpg",
	}
}

// Parse accepts watch, youtu.be, embed, shorts, live, /v/, mobile and
// youtube-nocookie links as well as a bare 11 character id.
func Parse(raw string) (Video, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Video{}, ErrInvalidURL
	}
	if idPattern.MatchString(raw) {
		return FromID(raw), nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Video{}, ErrInvalidURL
	}
	id, ok := extractID(u)
	if !ok || !idPattern.MatchString(id) {
		return Video{}, ErrInvalidURL
	}
	return FromID(id), nil
}

func extractID(u *url.URL) (string, bool) {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch host {
	case "youtu.be":
		return segs[0], segs[0] != ""
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtube-nocookie.com":
	default:
		return "", false
	}

	if segs[0] == "watch" {
		v := u.Query().Get("v")
		return v, v != ""
	}
	if len(segs) >= 2 {
		switch segs[0] {
		case "embed", "shorts", "live", "v":
			return segs[1], true
		}
	}
	return "", false
}
