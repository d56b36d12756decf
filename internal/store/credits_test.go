package store

import (
	"errors"
	"testing"
)

func TestCreditsInitIsIdempotent(t *testing.T) {
	s, err := NewCredits(t.TempDir(), true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b1, err := s.Init("u1")
	if err != nil || b1.Balance != FreeLaunchCredits {
		t.Fatalf("init: %v %+v", err, b1)
	}
	if _, err := s.Use("u1", 5, "image_generation"); err != nil {
		t.Fatalf("use: %v", err)
	}
	b2, err := s.Init("u1")
	if err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if b2.Balance != FreeLaunchCredits-5 {
		t.Fatalf("re-init reset balance: %+v", b2)
	}
}

func TestCreditsUseRejectsOverdraftWhenPaid(t *testing.T) {
	s, _ := NewCredits(t.TempDir(), false)
	if _, err := s.Init("u1"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.Use("u1", FreeLaunchCredits+1, "image_generation"); !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected insufficient credits, got %v", err)
	}
}

func TestCreditsFreeLaunchNeverRejects(t *testing.T) {
	s, _ := NewCredits(t.TempDir(), true)
	s.Init("u1")
	b, err := s.Use("u1", FreeLaunchCredits*10, "story_generation")
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if b.Balance != 0 {
		t.Fatalf("balance=%d", b.Balance)
	}
}

func TestCreditsUnknownUser(t *testing.T) {
	s, _ := NewCredits(t.TempDir(), true)
	if _, err := s.Balance("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Use("nope", 1, "chat"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreditsRefundRestoresBalance(t *testing.T) {
	s, _ := NewCredits(t.TempDir(), false)
	if _, err := s.Init("u1"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := s.Use("u1", 5, "image_generation"); err != nil {
		t.Fatalf("use: %v", err)
	}
	if err := s.Refund("u1", 5, "image_generation_refund"); err != nil {
		t.Fatalf("refund: %v", err)
	}
	b, err := s.Balance("u1")
	if err != nil || b.Balance != FreeLaunchCredits {
		t.Fatalf("balance after refund: %v %+v", err, b)
	}
	h := s.History("u1")
	if len(h) != 3 || h[0].Reason != "image_generation_refund" || h[0].Amount != 5 {
		t.Fatalf("history: %+v", h)
	}
	if err := s.Refund("nope", 5, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreditsHistoryNewestFirst(t *testing.T) {
	s, _ := NewCredits(t.TempDir(), true)
	s.Init("u1")
	s.Use("u1", 1, "chat")
	s.Use("u1", 2, "story_generation")
	h := s.History("u1")
	if len(h) != 3 {
		t.Fatalf("history=%+v", h)
	}
	if h[0].Reason != "story_generation" || h[2].Reason != "grant" {
		t.Fatalf("order wrong: %+v", h)
	}
	for _, txn := range h {
		if txn.ID == "" || txn.CreatedAt == 0 {
			t.Fatalf("incomplete txn: %+v", txn)
		}
	}
}

func TestCreditsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewCredits(dir, true)
	s1.Init("u1")
	s1.Use("u1", 7, "chat")

	s2, err := NewCredits(dir, true)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	b, err := s2.Balance("u1")
	if err != nil || b.Balance != FreeLaunchCredits-7 {
		t.Fatalf("reloaded balance: %v %+v", err, b)
	}
	if len(s2.History("u1")) != 2 {
		t.Fatalf("history lost")
	}
}
