// Package classifier turns raw captured input into a typed, enriched
// artifact draft. Detection is an ordered cascade of cheap syntactic
// predicates; only the handler of the first matching predicate performs
// network enrichment, and every enrichment failure degrades to a safe
// default instead of aborting the capture.
package classifier

import (
	"context"
	"fmt"

	"github.com/munin-vault/munin/internal/enrich"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/notify"
	"github.com/munin-vault/munin/internal/palette"
	"github.com/munin-vault/munin/internal/wikilink"
)

// TextInput is a free-form capture. Text must already be trimmed.
type TextInput struct {
	Text    string
	Title   string
	Tags    []string
	SpaceID string

	// Offline defers article extraction for bare URLs to the retry queue.
	Offline bool
}

// Classifier resolves capture input into artifact drafts. The zero value
// works offline-only; wire the collaborators for full enrichment.
type Classifier struct {
	Readme    *enrich.ReadmeFetcher
	Video     *enrich.VideoMeta
	Extractor enrich.Extractor
	Sink      notify.Sink
}

type handler func(ctx context.Context, in TextInput, text string) models.Artifact

// Classify runs the detection cascade and returns a draft artifact (no id,
// no timestamps; the repository assigns those on commit). It never fails:
// input that matches nothing becomes a plain note.
func (c *Classifier) Classify(ctx context.Context, in TextInput) models.Artifact {
	// Editors escape punctuation; detectors see the unescaped paste.
	text := stripEscapes(in.Text)

	steps := []struct {
		match func(string) bool
		apply handler
	}{
		{isHexColor, c.colorArtifact},
		{func(s string) bool { _, ok := detectQuote(s); return ok }, c.quoteArtifact},
		{func(s string) bool { _, _, ok := enrich.ParseRepoURL(s); return ok }, c.repoArtifact},
		{func(s string) bool { return enrich.ExtractVideoID(s) != "" }, c.videoArtifact},
		{isBareURL, c.urlArtifact},
	}
	for _, step := range steps {
		if step.match(text) {
			return step.apply(ctx, in, text)
		}
	}

	return c.noteArtifact(in, wikilink.ToStored(in.Text))
}

func (c *Classifier) base(in TextInput) models.Artifact {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Artifact{Title: in.Title, Tags: tags, SpaceID: in.SpaceID}
}

func (c *Classifier) noteArtifact(in TextInput, content string) models.Artifact {
	a := c.base(in)
	a.Type = models.TypeNote
	a.Content = content
	return a
}

func (c *Classifier) colorArtifact(_ context.Context, in TextInput, text string) models.Artifact {
	a := c.base(in)
	a.Type = models.TypeColor
	a.Content = text
	if a.Title == "" {
		if name, err := palette.Name(text); err == nil {
			a.Title = name
		} else {
			a.Title = text
		}
	}
	return a
}

func (c *Classifier) quoteArtifact(_ context.Context, in TextInput, text string) models.Artifact {
	stripped, _ := detectQuote(text)
	a := c.base(in)
	a.Type = models.TypeQuote
	a.Content = stripped
	c.notify(notify.Info, "Quote saved", "")
	return a
}

func (c *Classifier) repoArtifact(ctx context.Context, in TextInput, text string) models.Artifact {
	repoPath, repoName, _ := enrich.ParseRepoURL(text)
	a := c.base(in)
	a.Type = models.TypeRepo
	a.Source = text
	if a.Title == "" {
		a.Title = repoName
	}
	if readme, ok := c.fetchReadme(ctx, repoPath); ok {
		a.Content = readme
		c.notify(notify.Info, "Repository saved", "Imported README.")
	} else {
		// Missing readme is not an error; store a placeholder instead.
		a.Content = fmt.Sprintf("Could not fetch README for %s.", repoPath)
		c.notify(notify.Info, "Repository saved", "Could not find a README.")
	}
	return a
}

func (c *Classifier) videoArtifact(ctx context.Context, in TextInput, text string) models.Artifact {
	videoID := enrich.ExtractVideoID(text)
	a := c.base(in)
	a.Type = models.TypeVideo
	a.Content = enrich.WatchURL(videoID)
	a.Source = text
	if c.Video != nil {
		a.LeadImageURL = c.Video.Thumbnail(ctx, videoID)
		if title := c.Video.Title(ctx, videoID); title != "" {
			a.Title = title
		}
	}
	if a.Title == "" {
		a.Title = "YouTube Video"
	}
	c.notify(notify.Info, "Video saved", a.Title)
	return a
}

func (c *Classifier) urlArtifact(ctx context.Context, in TextInput, text string) models.Artifact {
	pageURL := canonicalURL(text)
	a := c.base(in)
	a.Source = pageURL

	if in.Offline {
		a.Type = models.TypeNote
		a.Content = pageURL
		a.Meta = &models.Meta{NeedsArticleExtraction: true}
		c.notify(notify.Info, "You're offline", "Link saved; it will be imported when you're back online.")
		return a
	}

	art, err := c.extract(ctx, pageURL)
	if err != nil {
		// The capture is never lost: keep the raw URL as a plain note.
		a.Type = models.TypeNote
		a.Content = pageURL
		c.notify(notify.Error, "Article import failed", "Could not fetch content. Saved the link as a note.")
		return a
	}
	a.Type = models.TypeArticle
	a.Content = art.Content
	a.LeadImageURL = art.LeadImageURL
	if art.Title != "" {
		a.Title = art.Title
	}
	c.notify(notify.Info, "Article imported", a.Title)
	return a
}

func (c *Classifier) fetchReadme(ctx context.Context, repoPath string) (string, bool) {
	if c.Readme == nil {
		return "", false
	}
	return c.Readme.Fetch(ctx, repoPath)
}

func (c *Classifier) extract(ctx context.Context, pageURL string) (*enrich.Article, error) {
	if c.Extractor == nil {
		return nil, fmt.Errorf("classifier: no extractor configured")
	}
	return c.Extractor.Extract(ctx, pageURL)
}

func (c *Classifier) notify(kind notify.Kind, title, desc string) {
	if c.Sink == nil {
		return
	}
	c.Sink.Notify(notify.Notification{Kind: kind, Title: title, Description: desc})
}
