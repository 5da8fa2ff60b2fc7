package classifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/munin-vault/munin/internal/enrich"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/notify"
)

type fakeExtractor struct {
	art *enrich.Article
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, rawURL string) (*enrich.Article, error) {
	return f.art, f.err
}

type recordingSink struct {
	notes []notify.Notification
}

func (r *recordingSink) Notify(n notify.Notification) {
	r.notes = append(r.notes, n)
}

func classify(t *testing.T, c *Classifier, text string) models.Artifact {
	t.Helper()
	return c.Classify(context.Background(), TextInput{Text: text})
}

func TestClassifyColor(t *testing.T) {
	c := &Classifier{}
	a := classify(t, c, "#FF0000")
	if a.Type != models.TypeColor {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Content != "#FF0000" {
		t.Errorf("content = %q", a.Content)
	}
	if a.Title != "Red" {
		t.Errorf("title = %q, want the friendly name", a.Title)
	}
}

func TestClassifyColorKeepsGivenTitle(t *testing.T) {
	c := &Classifier{}
	a := c.Classify(context.Background(), TextInput{Text: "#FF0000", Title: "Brand red"})
	if a.Title != "Brand red" {
		t.Errorf("title = %q", a.Title)
	}
}

func TestClassifyQuote(t *testing.T) {
	sink := &recordingSink{}
	c := &Classifier{Sink: sink}
	a := classify(t, c, `"the unexamined life is not worth living"`)
	if a.Type != models.TypeQuote {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Content != "the unexamined life is not worth living" {
		t.Errorf("content = %q, want marks stripped", a.Content)
	}
}

func TestClassifyRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/main/") {
			_, _ = w.Write([]byte("# readme"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Classifier{Readme: &enrich.ReadmeFetcher{RawBase: srv.URL}}
	a := classify(t, c, "https://github.com/golang/go")
	if a.Type != models.TypeRepo {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Content != "# readme" {
		t.Errorf("content = %q", a.Content)
	}
	if a.Title != "go" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Source != "https://github.com/golang/go" {
		t.Errorf("source = %q", a.Source)
	}
}

func TestClassifyRepoMissingReadmeGetsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := &Classifier{Readme: &enrich.ReadmeFetcher{RawBase: srv.URL}}
	a := classify(t, c, "https://github.com/owner/repo")
	if a.Type != models.TypeRepo {
		t.Fatalf("type = %q", a.Type)
	}
	if !strings.Contains(a.Content, "Could not fetch README") {
		t.Errorf("content = %q, want placeholder", a.Content)
	}
}

func TestClassifyVideo(t *testing.T) {
	big := strings.Repeat("x", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "maxresdefault") {
			_, _ = w.Write([]byte(big))
			return
		}
		_, _ = w.Write([]byte(`{"title":"Never Gonna Give You Up"}`))
	}))
	defer srv.Close()

	c := &Classifier{Video: &enrich.VideoMeta{ThumbnailBase: srv.URL + "/thumb/", OEmbedURL: srv.URL + "/oembed"}}
	a := classify(t, c, "https://youtu.be/dQw4w9WgXcQ")
	if a.Type != models.TypeVideo {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Content != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("content = %q", a.Content)
	}
	if !strings.Contains(a.LeadImageURL, "maxresdefault") {
		t.Errorf("lead image = %q", a.LeadImageURL)
	}
	if a.Title != "Never Gonna Give You Up" {
		t.Errorf("title = %q", a.Title)
	}
}

func TestClassifyVideoWithoutCollaboratorsStillTypes(t *testing.T) {
	c := &Classifier{}
	a := classify(t, c, "dQw4w9WgXcQ")
	if a.Type != models.TypeVideo {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Title != "YouTube Video" {
		t.Errorf("title = %q", a.Title)
	}
}

func TestClassifyURLExtractsArticle(t *testing.T) {
	c := &Classifier{Extractor: &fakeExtractor{art: &enrich.Article{
		Title: "Post", Content: "<p>body</p>", LeadImageURL: "img.png",
	}}}
	a := classify(t, c, "example.com/post")
	if a.Type != models.TypeArticle {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Source != "https://example.com/post" {
		t.Errorf("source = %q", a.Source)
	}
	if a.Title != "Post" || a.Content != "<p>body</p>" || a.LeadImageURL != "img.png" {
		t.Errorf("got %+v", a)
	}
}

func TestClassifyURLFallsBackToNote(t *testing.T) {
	sink := &recordingSink{}
	c := &Classifier{
		Extractor: &fakeExtractor{err: errors.New("boom")},
		Sink:      sink,
	}
	a := classify(t, c, "https://example.com/post")
	if a.Type != models.TypeNote {
		t.Fatalf("type = %q, want the note fallback", a.Type)
	}
	if a.Content != "https://example.com/post" {
		t.Errorf("content = %q, want the raw URL kept", a.Content)
	}
	if len(sink.notes) == 0 || sink.notes[0].Kind != notify.Error {
		t.Error("expected an error notification")
	}
}

func TestClassifyURLOfflineDefers(t *testing.T) {
	c := &Classifier{}
	a := c.Classify(context.Background(), TextInput{Text: "example.com/post", Offline: true})
	if a.Type != models.TypeNote {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Meta == nil || !a.Meta.NeedsArticleExtraction {
		t.Error("expected the deferred-extraction flag")
	}
}

func TestClassifyDefaultNoteAppliesWikilinks(t *testing.T) {
	c := &Classifier{}
	a := c.Classify(context.Background(), TextInput{Text: "see [[abc123]]", Tags: []string{"x"}, SpaceID: "s1"})
	if a.Type != models.TypeNote {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Content != "see [#abc123](munin://open/abc123)" {
		t.Errorf("content = %q", a.Content)
	}
	if len(a.Tags) != 1 || a.Tags[0] != "x" || a.SpaceID != "s1" {
		t.Errorf("context not carried: %+v", a)
	}
}

func TestClassifyEscapedColorStillDetected(t *testing.T) {
	c := &Classifier{}
	a := classify(t, c, `\#FF0000`)
	if a.Type != models.TypeColor {
		t.Errorf("type = %q, want color after unescaping", a.Type)
	}
}

func TestDraftsCarryNoID(t *testing.T) {
	c := &Classifier{}
	a := classify(t, c, "plain note")
	if a.ID != "" || !a.CreatedAt.IsZero() {
		t.Error("drafts must not carry ids or timestamps")
	}
}
