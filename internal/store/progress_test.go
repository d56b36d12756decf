package store

import (
	"errors"
	"testing"

	"panelxd/pkg/types"
)

func TestProgressUpsertAndGet(t *testing.T) {
	s, err := NewProgress(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p, err := s.Update(types.ReadingProgress{UserID: "u1", SeriesID: "s1", EpisodeID: "e1"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.PageNumber != 1 || p.LastRead == 0 {
		t.Fatalf("defaults: %+v", p)
	}

	// Upsert replaces the position for the same series.
	if _, err := s.Update(types.ReadingProgress{UserID: "u1", SeriesID: "s1", EpisodeID: "e2", PageNumber: 4, Completed: true}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := s.Get("u1", "s1")
	if err != nil || got.EpisodeID != "e2" || got.PageNumber != 4 || !got.Completed {
		t.Fatalf("get: %v %+v", err, got)
	}
	if all := s.ForUser("u1"); len(all) != 1 {
		t.Fatalf("for user: %+v", all)
	}
}

func TestProgressDelete(t *testing.T) {
	s, _ := NewProgress(t.TempDir())
	s.Update(types.ReadingProgress{UserID: "u1", SeriesID: "s1", EpisodeID: "e1"})
	if err := s.Delete("u1", "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get("u1", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Delete("u1", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestProgressPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewProgress(dir)
	s1.Update(types.ReadingProgress{UserID: "u1", SeriesID: "s1", EpisodeID: "e1", PageNumber: 2})

	s2, err := NewProgress(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := s2.Get("u1", "s1")
	if err != nil || got.PageNumber != 2 {
		t.Fatalf("reloaded: %v %+v", err, got)
	}
}
