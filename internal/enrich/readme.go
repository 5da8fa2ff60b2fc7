package enrich

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// readmeBranches are the conventional default branches, probed in order.
var readmeBranches = []string{"main", "master"}

// ParseRepoURL reports whether the input is a code-hosting repository URL
// (github.com with exactly an owner/repo path) and returns the owner/repo
// path and the repository name.
func ParseRepoURL(input string) (repoPath, repoName string, ok bool) {
	u, err := url.Parse(input)
	if err != nil || u.Hostname() != "github.com" {
		return "", "", false
	}
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0] + "/" + parts[1], parts[1], true
}

// ReadmeFetcher fetches a repository's readme from the raw-file host.
type ReadmeFetcher struct {
	Client *http.Client

	// RawBase overrides the raw-file host for tests.
	RawBase string
}

// Fetch probes the conventional branches in order and returns the first
// readme found. ok is false when neither branch has one, which is not an
// error condition for callers.
func (f *ReadmeFetcher) Fetch(ctx context.Context, repoPath string) (content string, ok bool) {
	base := f.RawBase
	if base == "" {
		base = "https://raw.githubusercontent.com"
	}
	for _, branch := range readmeBranches {
		rawURL := base + "/" + repoPath + "/" + branch + "/README.md"
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			continue
		}
		resp, err := f.client().Do(req)
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr == nil {
				return string(data), true
			}
			continue
		}
		resp.Body.Close()
	}
	return "", false
}

func (f *ReadmeFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}
