// Package anchorlog persists anchoring diagnostics to SQLite.
//
// It is one concrete logging collaborator for the anchor package's event
// surface: events are enqueued without blocking the resolver and flushed in
// batches by a background goroutine. Annotations themselves are never
// stored here, only the data-quality trail of resolving them.
package anchorlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/ancrage/anchor"
)

// Schema for the anchor_events table. Applied by Store.Init.
const Schema = `
CREATE TABLE IF NOT EXISTS anchor_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	exact TEXT NOT NULL,
	occurrences INTEGER NOT NULL,
	start_off INTEGER,
	end_off INTEGER,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_anchor_events_ts ON anchor_events(timestamp);
CREATE INDEX IF NOT EXISTS idx_anchor_events_kind ON anchor_events(kind);
`

// Entry is one persisted diagnostic.
type Entry struct {
	ID          int64            `json:"id"`
	Kind        anchor.EventKind `json:"kind"`
	Exact       string           `json:"exact"`
	Occurrences int              `json:"occurrences"`
	Start       *int             `json:"start,omitempty"`
	End         *int             `json:"end,omitempty"`
	Timestamp   int64            `json:"timestamp"` // unix microseconds
}

// Open opens the event database with WAL and a busy timeout. The caller
// must blank-import a driver registering "sqlite" (modernc.org/sqlite).
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("anchorlog: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("anchorlog: %s: %w", pragma, err)
		}
	}
	return db, nil
}

// Store writes events to SQLite asynchronously.
type Store struct {
	db   *sql.DB
	ch   chan Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a store backed by db and starts the flush goroutine.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the anchor_events table if needed.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// Sink returns an EventSink feeding this store. Non-blocking; events are
// dropped when the buffer is full rather than stalling resolution.
func (s *Store) Sink() anchor.EventSink {
	return func(ev anchor.Event) {
		e := Entry{
			Kind:        ev.Kind,
			Exact:       ev.Exact,
			Occurrences: ev.Occurrences,
			Timestamp:   time.Now().UnixMicro(),
		}
		if ev.Range != nil {
			start, end := ev.Range.Start, ev.Range.End
			e.Start, e.End = &start, &end
		}
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Recent returns the latest events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, exact, occurrences, start_off, end_off, timestamp
		 FROM anchor_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("anchorlog: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var start, end sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Kind, &e.Exact, &e.Occurrences, &start, &end, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("anchorlog: scan: %w", err)
		}
		if start.Valid {
			v := int(start.Int64)
			e.Start = &v
		}
		if end.Valid {
			v := int(end.Int64)
			e.End = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close drains the buffer and stops the flush goroutine. The database
// handle itself stays open; it belongs to the caller.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("anchorlog: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO anchor_events (kind, exact, occurrences, start_off, end_off, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("anchorlog: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		var start, end any
		if e.Start != nil {
			start = *e.Start
		}
		if e.End != nil {
			end = *e.End
		}
		if _, err := stmt.Exec(string(e.Kind), e.Exact, e.Occurrences, start, end, e.Timestamp); err != nil {
			slog.Error("anchorlog: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("anchorlog: commit", "error", err)
	}
}
