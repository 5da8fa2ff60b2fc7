package vaultservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/classifier"
	"github.com/munin-vault/munin/internal/models"
)

// CaptureRequest is a free-form capture. SessionID ties the capture to its
// draft; an empty session id skips draft bookkeeping.
type CaptureRequest struct {
	SessionID string   `json:"sessionId"`
	Text      string   `json:"text"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	SpaceID   string   `json:"spaceId"`
	Offline   bool     `json:"offline"`
}

func (r CaptureRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}

// Capture classifies the input, commits the resulting artifact, and clears
// the session draft. Enrichment failures inside classification never
// surface here; only validation and storage failures do.
func (s *Service) Capture(ctx context.Context, req CaptureRequest) (*models.Artifact, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	draft := s.cls.Classify(ctx, classifier.TextInput{
		Text:    req.Text,
		Title:   req.Title,
		Tags:    req.Tags,
		SpaceID: req.SpaceID,
		Offline: req.Offline,
	})
	a, err := s.db.AddArtifact(draft)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		s.ClearDraft(req.SessionID)
	}
	s.log.Info("artifact captured", slog.String("id", a.ID), slog.String("type", string(a.Type)))
	s.publish("artifact.created", a)
	return a, nil
}

// FileCaptureRequest is a binary capture: an upload or a drop-folder file.
type FileCaptureRequest struct {
	SessionID string
	Name      string
	MediaType string
	Data      []byte
	Tags      []string
	SpaceID   string
}

func (r FileCaptureRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Data, validation.Required),
	)
}

// CaptureFile classifies and commits a file capture.
func (s *Service) CaptureFile(ctx context.Context, req FileCaptureRequest) (*models.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	draft := s.cls.ClassifyFile(classifier.FileInput{
		Name:      req.Name,
		MediaType: req.MediaType,
		Data:      req.Data,
		Tags:      req.Tags,
		SpaceID:   req.SpaceID,
	})
	a, err := s.db.AddArtifact(draft)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		s.ClearDraft(req.SessionID)
	}
	s.log.Info("file captured", slog.String("id", a.ID), slog.String("name", req.Name))
	s.publish("artifact.created", a)
	return a, nil
}
