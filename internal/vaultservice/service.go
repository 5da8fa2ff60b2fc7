// Package vaultservice orchestrates the engine: capture commits classifier
// drafts, the anchor save path runs the conflict protocol, and space and
// flag operations enforce the cross-entity rules the store alone does not.
package vaultservice

import (
	"log/slog"
	"sync"

	"github.com/munin-vault/munin/internal/classifier"
	"github.com/munin-vault/munin/internal/notify"
	"github.com/munin-vault/munin/internal/store"
)

// EventPublisher receives entity change events. Fire-and-forget, like the
// notification sink; the service never depends on delivery.
type EventPublisher interface {
	Publish(event string, payload any)
}

// Service is the single writer over the store. Callers are expected to
// serialize operations on the same record; concurrent writes are
// last-write-wins.
type Service struct {
	db     *store.DB
	cls    *classifier.Classifier
	sink   notify.Sink
	events EventPublisher
	log    *slog.Logger

	mu     sync.Mutex
	drafts map[string]Draft
}

// New wires a service. Sink and events may be nil; logging falls back to
// the default logger.
func New(db *store.DB, cls *classifier.Classifier, sink notify.Sink, events EventPublisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:     db,
		cls:    cls,
		sink:   sink,
		events: events,
		log:    log,
		drafts: make(map[string]Draft),
	}
}

func (s *Service) notify(kind notify.Kind, title, desc string) {
	if s.sink == nil {
		return
	}
	s.sink.Notify(notify.Notification{Kind: kind, Title: title, Description: desc})
}

func (s *Service) publish(event string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(event, payload)
}

// Draft is the capture-session auto-save state. Drafts are scoped to a
// session id handed in by the caller, never global.
type Draft struct {
	Text    string   `json:"text"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	SpaceID string   `json:"spaceId"`
}

// SaveDraft stores the in-progress capture for a session.
func (s *Service) SaveDraft(sessionID string, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = d
}

// Draft returns the saved draft for a session, if any.
func (s *Service) Draft(sessionID string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	return d, ok
}

// ClearDraft drops a session's draft. Called on successful commit and on
// explicit dismiss.
func (s *Service) ClearDraft(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}
