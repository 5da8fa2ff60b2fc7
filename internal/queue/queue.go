// Package queue retries enrichment that was deferred while offline.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/munin-vault/munin/internal/enrich"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/notify"
	"github.com/munin-vault/munin/internal/store"
)

// Processor walks artifacts flagged for deferred article extraction and
// attempts each one once. A failed attempt clears the flag so the item is
// not retried automatically; the user is told which URL failed.
type Processor struct {
	DB        *store.DB
	Extractor enrich.Extractor
	Sink      notify.Sink
	Log       *slog.Logger
}

// ProcessPending scans the artifact pool and processes every pending item
// sequentially. One item's failure never blocks the next; only a storage
// failure aborts the sweep.
func (p *Processor) ProcessPending(ctx context.Context) error {
	if p.Extractor == nil {
		return fmt.Errorf("queue: no extractor configured")
	}
	artifacts, err := p.DB.ListArtifacts()
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		if a.Meta == nil || !a.Meta.NeedsArticleExtraction {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.processOne(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) processOne(ctx context.Context, a models.Artifact) error {
	url := a.Source
	if url == "" {
		url = a.Content
	}

	art, extractErr := p.Extractor.Extract(ctx, url)

	// The flag is cleared on both outcomes: a failed URL stays a plain
	// note instead of looping through the queue forever.
	meta := *a.Meta
	meta.NeedsArticleExtraction = false
	patch := store.ArtifactPatch{Meta: &meta}

	if extractErr != nil {
		p.log().Warn("deferred extraction failed", slog.String("id", a.ID), slog.String("url", url))
		if _, err := p.DB.UpdateArtifact(a.ID, patch); err != nil {
			return err
		}
		p.notify(notify.Error, "Article import failed", url)
		return nil
	}

	typ := models.TypeArticle
	patch.Type = &typ
	patch.Content = &art.Content
	patch.LeadImageURL = &art.LeadImageURL
	if art.Title != "" {
		patch.Title = &art.Title
	}
	if _, err := p.DB.UpdateArtifact(a.ID, patch); err != nil {
		return err
	}
	p.log().Info("deferred extraction done", slog.String("id", a.ID))
	p.notify(notify.Info, "Article imported", art.Title)
	return nil
}

func (p *Processor) notify(kind notify.Kind, title, desc string) {
	if p.Sink == nil {
		return
	}
	p.Sink.Notify(notify.Notification{Kind: kind, Title: title, Description: desc})
}

func (p *Processor) log() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}
