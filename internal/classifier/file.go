package classifier

import (
	"bytes"
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/munin-vault/munin/internal/models"
)

// FileInput is a captured file: a drag-drop, an upload, or a drop-folder
// pickup. Data is the full file content.
type FileInput struct {
	Name      string
	MediaType string
	Data      []byte
	Tags      []string
	SpaceID   string
}

// ClassifyFile maps a file to an artifact draft by its media type. Binary
// payloads are stored as data URIs in Source so the vault stays
// self-contained; only text files land in Content directly.
func (c *Classifier) ClassifyFile(in FileInput) models.Artifact {
	a := c.base(TextInput{Tags: in.Tags, SpaceID: in.SpaceID})
	a.Title = titleFromFileName(in.Name)
	a.Meta = &models.Meta{
		FileName: in.Name,
		FileType: in.MediaType,
		FileSize: int64(len(in.Data)),
	}

	switch {
	case strings.HasPrefix(in.MediaType, "text/"):
		a.Type = models.TypeNote
		a.Content = string(in.Data)
	case strings.HasPrefix(in.MediaType, "image/"):
		a.Type = models.TypeImage
		a.Source = dataURI(in.MediaType, in.Data)
	case strings.HasPrefix(in.MediaType, "video/"):
		a.Type = models.TypeVideo
		a.Content = in.Name
		a.Source = dataURI(in.MediaType, in.Data)
	case strings.HasPrefix(in.MediaType, "audio/"):
		a.Type = models.TypeAudio
		a.Content = in.Name
		a.Source = dataURI(in.MediaType, in.Data)
		a.LeadImageURL = coverArt(in.Data)
	default:
		a.Type = models.TypeFile
		a.Source = dataURI(in.MediaType, in.Data)
	}
	return a
}

func titleFromFileName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// coverArt extracts embedded cover art from an audio file's tags. Empty
// string when the file has no tags or no picture.
func coverArt(data []byte) string {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return ""
	}
	return dataURI(pic.MIMEType, pic.Data)
}
