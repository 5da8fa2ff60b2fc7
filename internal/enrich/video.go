package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
)

var (
	videoIDRe   = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*$`)
	bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// thumbnail variants in descending resolution order. The low-res default is
// always available, so probing stops there.
var thumbnailVariants = []string{
	"maxresdefault.jpg",
	"sddefault.jpg",
	"hqdefault.jpg",
	"mqdefault.jpg",
	"default.jpg",
}

// minThumbnailBytes rejects the ~1 KB grey placeholder the image host
// serves for resolutions a video never had.
const minThumbnailBytes = 1000

// ExtractVideoID pulls the 11-character video id out of any of the known
// URL shapes, or accepts a bare id. Empty string means no match.
func ExtractVideoID(input string) string {
	if m := videoIDRe.FindStringSubmatch(input); m != nil && len(m[2]) == 11 {
		return m[2]
	}
	if bareVideoID.MatchString(input) {
		return input
	}
	return ""
}

// VideoMeta fetches thumbnails and titles from the public video endpoints.
type VideoMeta struct {
	Client *http.Client

	// ThumbnailBase and OEmbedURL exist so tests can point the prober at a
	// local server. Zero values hit the real endpoints.
	ThumbnailBase string
	OEmbedURL     string
}

// Thumbnail probes the resolution variants in descending order and returns
// the first whose payload is large enough to be a real image. When every
// probe fails it falls back to the guaranteed low-resolution variant
// rather than returning nothing.
func (v *VideoMeta) Thumbnail(ctx context.Context, videoID string) string {
	base := v.ThumbnailBase
	if base == "" {
		base = "https://img.youtube.com/vi/"
	}
	for _, variant := range thumbnailVariants {
		thumbURL := base + videoID + "/" + variant
		if v.probe(ctx, thumbURL) {
			return thumbURL
		}
	}
	return base + videoID + "/hqdefault.jpg"
}

func (v *VideoMeta) probe(ctx context.Context, thumbURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbURL, nil)
	if err != nil {
		return false
	}
	resp, err := v.client().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, minThumbnailBytes+1))
	return n > minThumbnailBytes
}

// Title resolves the video title via the oEmbed endpoint. Empty string on
// any failure; the caller falls back to a generic title.
func (v *VideoMeta) Title(ctx context.Context, videoID string) string {
	endpoint := v.OEmbedURL
	if endpoint == "" {
		endpoint = "https://www.youtube.com/oembed"
	}
	watchURL := "https://www.youtube.com/watch?v=" + videoID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?url=%s&format=json", endpoint, url.QueryEscape(watchURL)), nil)
	if err != nil {
		return ""
	}
	resp, err := v.client().Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Title
}

// WatchURL returns the canonical watch URL stored as video content.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func (v *VideoMeta) client() *http.Client {
	if v.Client != nil {
		return v.Client
	}
	return http.DefaultClient
}
