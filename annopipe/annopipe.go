// Package annopipe wires selector decoding, anchoring, and segmentation
// into one pipeline.
//
// Data flow: wire annotations (position and/or quote selectors) → resolved
// byte ranges → ordered segment list for a renderer. Position selectors are
// trusted only while they still slice to the recorded quote; stale offsets
// fall back to fuzzy quote anchoring. Anchoring diagnostics go to the
// configured sink, the logger, and (optionally) the SQLite event store.
//
// Usage:
//
//	pipe, err := annopipe.New(annopipe.Config{})
//	defer pipe.Close()
//	segs := pipe.Segments(docText, anns)
package annopipe

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/ancrage/anchor"
	"github.com/hazyhaar/ancrage/anchorlog"
	"github.com/hazyhaar/ancrage/doctext"
	"github.com/hazyhaar/ancrage/segment"
	"github.com/hazyhaar/ancrage/selector"
)

// Pipeline anchors annotations and segments documents.
type Pipeline struct {
	cfg   Config
	sink  anchor.EventSink
	store *anchorlog.Store
	db    *sql.DB
}

// New creates a Pipeline. When Config.LogDBPath is set the SQLite event
// store is opened and every anchoring diagnostic is recorded there.
func New(cfg Config) (*Pipeline, error) {
	cfg.defaults()

	p := &Pipeline{cfg: cfg}

	sinks := []anchor.EventSink{anchor.SlogSink(cfg.Logger), cfg.EventSink}
	if cfg.LogDBPath != "" {
		db, err := anchorlog.Open(cfg.LogDBPath)
		if err != nil {
			return nil, fmt.Errorf("annopipe: open event store: %w", err)
		}
		store := anchorlog.NewStore(db)
		if err := store.Init(); err != nil {
			store.Close()
			db.Close()
			return nil, fmt.Errorf("annopipe: init event store: %w", err)
		}
		p.store = store
		p.db = db
		sinks = append(sinks, store.Sink())
	}
	p.sink = anchor.MultiSink(sinks...)

	return p, nil
}

// Close flushes and closes the event store and its database, if any.
func (p *Pipeline) Close() error {
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	if cerr := p.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// Store exposes the diagnostic event store, or nil when disabled.
func (p *Pipeline) Store() *anchorlog.Store { return p.store }

// Anchor resolves each annotation's selector set to a byte range in doc.
//
// Per annotation: a position selector is used directly when it is in
// bounds and, if a quote selector coexists, still slices to the recorded
// exact text. Otherwise the quote selector is resolved fuzzily. Output
// order matches input order; unanchorable annotations keep a nil range so
// segmentation excludes them.
func (p *Pipeline) Anchor(doc string, anns []selector.Annotation) []segment.Annotation {
	out := make([]segment.Annotation, 0, len(anns))
	for _, a := range anns {
		out = append(out, segment.Annotation{ID: a.ID, Range: p.anchorOne(doc, a)})
	}
	return out
}

func (p *Pipeline) anchorOne(doc string, a selector.Annotation) *anchor.Range {
	set := a.Target.Selector
	pos := set.PositionSelector()
	quote := set.QuoteSelector()

	if pos != nil {
		r := anchor.Range{Start: pos.Start, End: pos.End}
		if quote == nil {
			if r.Start >= 0 && r.Start <= r.End && r.End <= len(doc) {
				return &r
			}
			p.cfg.Logger.Warn("annopipe: position selector out of bounds",
				"annotation", a.ID, "start", r.Start, "end", r.End, "doc_len", len(doc))
		} else if anchor.Verify(doc, r, quote.Exact) {
			return &r
		} else {
			p.cfg.Logger.Warn("annopipe: stale position selector, re-anchoring by quote",
				"annotation", a.ID, "start", r.Start, "end", r.End)
		}
	}

	if quote != nil {
		return anchor.Resolve(doc, quote.Exact, quote.Prefix, quote.Suffix, p.sink)
	}
	return nil
}

// Segments anchors anns and partitions doc into the renderable segment
// list.
func (p *Pipeline) Segments(doc string, anns []selector.Annotation) []segment.Segment {
	return segment.Split(doc, p.Anchor(doc, anns))
}

// LoadText produces the anchorable text for a document file.
func (p *Pipeline) LoadText(ctx context.Context, path string) (*doctext.Document, error) {
	return doctext.Load(ctx, path, p.cfg.Doc)
}
