package classifier

import (
	"strings"
	"testing"

	"github.com/munin-vault/munin/internal/models"
)

func TestClassifyFileText(t *testing.T) {
	c := &Classifier{}
	a := c.ClassifyFile(FileInput{
		Name:      "notes.txt",
		MediaType: "text/plain",
		Data:      []byte("hello"),
	})
	if a.Type != models.TypeNote {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Content != "hello" {
		t.Errorf("content = %q", a.Content)
	}
	if a.Title != "notes" {
		t.Errorf("title = %q, want extension stripped", a.Title)
	}
	if a.Meta == nil || a.Meta.FileName != "notes.txt" || a.Meta.FileSize != 5 {
		t.Errorf("meta = %+v", a.Meta)
	}
}

func TestClassifyFileImage(t *testing.T) {
	c := &Classifier{}
	a := c.ClassifyFile(FileInput{
		Name:      "photo.png",
		MediaType: "image/png",
		Data:      []byte{0x89, 0x50, 0x4E, 0x47},
	})
	if a.Type != models.TypeImage {
		t.Fatalf("type = %q", a.Type)
	}
	if !strings.HasPrefix(a.Source, "data:image/png;base64,") {
		t.Errorf("source = %q, want a data URI", a.Source)
	}
	if a.Content != "" {
		t.Errorf("content = %q, want empty for images", a.Content)
	}
}

func TestClassifyFileAudioWithoutTags(t *testing.T) {
	c := &Classifier{}
	a := c.ClassifyFile(FileInput{
		Name:      "song.mp3",
		MediaType: "audio/mpeg",
		Data:      []byte("not real audio"),
	})
	if a.Type != models.TypeAudio {
		t.Fatalf("type = %q", a.Type)
	}
	// Cover art extraction fails on garbage input; that is non-fatal.
	if a.LeadImageURL != "" {
		t.Errorf("lead image = %q, want empty", a.LeadImageURL)
	}
	if a.Content != "song.mp3" {
		t.Errorf("content = %q", a.Content)
	}
}

func TestClassifyFileOther(t *testing.T) {
	c := &Classifier{}
	a := c.ClassifyFile(FileInput{
		Name:      "report.pdf",
		MediaType: "application/pdf",
		Data:      []byte("%PDF"),
	})
	if a.Type != models.TypeFile {
		t.Fatalf("type = %q", a.Type)
	}
	if a.Meta.FileType != "application/pdf" {
		t.Errorf("meta type = %q", a.Meta.FileType)
	}
}
