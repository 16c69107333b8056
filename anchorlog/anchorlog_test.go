package anchorlog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/ancrage/anchor"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(openMemory(t))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestStore_SinkAndRecent(t *testing.T) {
	s := newTestStore(t)

	sink := s.Sink()
	sink(anchor.Event{
		Kind:        anchor.EventAmbiguousFallback,
		Exact:       "the cat",
		Occurrences: 3,
		Range:       &anchor.Range{Start: 13, End: 20},
	})
	sink(anchor.Event{Kind: anchor.EventNoMatch, Exact: "zebra"})

	// Close drains the async buffer.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Newest first.
	if entries[0].Kind != anchor.EventNoMatch || entries[0].Exact != "zebra" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[0].Start != nil {
		t.Errorf("no-match entry should have nil range, got start=%v", *entries[0].Start)
	}

	e := entries[1]
	if e.Kind != anchor.EventAmbiguousFallback || e.Occurrences != 3 {
		t.Errorf("entries[1] = %+v", e)
	}
	if e.Start == nil || *e.Start != 13 || e.End == nil || *e.End != 20 {
		t.Errorf("entries[1] range = %v..%v, want 13..20", e.Start, e.End)
	}
	if e.Timestamp <= 0 {
		t.Errorf("timestamp = %d", e.Timestamp)
	}
}

func TestStore_RecentLimit(t *testing.T) {
	s := newTestStore(t)
	sink := s.Sink()
	for i := 0; i < 5; i++ {
		sink(anchor.Event{Kind: anchor.EventNoMatch, Exact: "q"})
	}
	s.Close()

	entries, err := s.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestStore_PeriodicFlush(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	s.Sink()(anchor.Event{Kind: anchor.EventFuzzyResolved, Exact: "drift"})

	// The ticker flushes within a second; poll a little longer than that.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		entries, err := s.Recent(context.Background(), 1)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(entries) == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("event never flushed")
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	s := NewStore(db)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.Close()
}
