// Package models defines the domain types for Munin.
package models

import "time"

// ArtifactType enumerates the kinds of captured artifacts.
type ArtifactType string

const (
	TypeNote    ArtifactType = "note"
	TypeColor   ArtifactType = "color"
	TypeArticle ArtifactType = "article"
	TypeImage   ArtifactType = "image"
	TypeVideo   ArtifactType = "video"
	TypeAudio   ArtifactType = "audio"
	TypeFile    ArtifactType = "file"
	TypeQuote   ArtifactType = "quote"
	TypeRepo    ArtifactType = "repo"
)

// ArtifactTypes lists every valid artifact type. The query engine uses it to
// recognise type-name search keywords.
var ArtifactTypes = []ArtifactType{
	TypeNote, TypeColor, TypeArticle, TypeImage,
	TypeVideo, TypeAudio, TypeQuote, TypeRepo, TypeFile,
}

// ValidType reports whether s names a known artifact type.
func ValidType(s string) bool {
	for _, t := range ArtifactTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Meta carries optional per-artifact metadata.
type Meta struct {
	NeedsArticleExtraction bool   `json:"needsArticleExtraction,omitempty"`
	FileName               string `json:"fileName,omitempty"`
	FileType               string `json:"fileType,omitempty"`
	FileSize               int64  `json:"fileSize,omitempty"`
}

// Artifact is a single captured unit of knowledge.
type Artifact struct {
	ID           string       `json:"id"`
	Type         ArtifactType `json:"type"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Tags         []string     `json:"tags"`
	SpaceID      string       `json:"spaceId,omitempty"`
	Source       string       `json:"source,omitempty"`
	LeadImageURL string       `json:"leadImageUrl,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	IsPinned     bool         `json:"isPinned"`
	IsFavorited  bool         `json:"isFavorited"`
	IsTrashed    bool         `json:"isTrashed"`
	IsHidden     bool         `json:"isHidden"`
	Meta         *Meta        `json:"meta,omitempty"`
}

// Anchor bundles one or more artifact ids under a globally unique title.
type Anchor struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ArtifactIDs []string  `json:"artifactIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsTrashed   bool      `json:"isTrashed"`
}

// Space groups artifacts either explicitly (by assignment) or as a smart
// space whose membership is computed from tag intersection at query time.
type Space struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsSmart   bool      `json:"isSmart,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is the export/import shape: full entity collections, each
// optional. Importing a kind replaces that collection wholesale and leaves
// the others untouched.
type Snapshot struct {
	Artifacts []Artifact `json:"artifacts,omitempty"`
	Spaces    []Space    `json:"spaces,omitempty"`
	Anchors   []Anchor   `json:"anchors,omitempty"`
}
