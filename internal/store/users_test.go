package store

import (
	"errors"
	"testing"

	"panelxd/pkg/types"
)

func TestUsersCreateGetUpdateDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewUsers(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u, err := s.Create("", "ada@example.com", "creator")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.UID == "" || u.Username != "ada" || u.Role != "creator" {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, err := s.Get(u.UID)
	if err != nil || got.Email != "ada@example.com" {
		t.Fatalf("get: %v %+v", err, got)
	}

	bio := "draws swords"
	upd, err := s.Update(u.UID, types.UpdateUserRequest{Bio: &bio})
	if err != nil || upd.Bio != bio || upd.UpdatedAt == 0 {
		t.Fatalf("update: %v %+v", err, upd)
	}

	byName, err := s.GetByUsername("ADA")
	if err != nil || byName.UID != u.UID {
		t.Fatalf("by username: %v %+v", err, byName)
	}

	if err := s.Delete(u.UID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(u.UID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUsersCreateConflict(t *testing.T) {
	s, err := NewUsers(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Create("u1", "a@b.c", "reader"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create("u1", "a@b.c", "reader"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUsersInvalidRoleDefaultsToReader(t *testing.T) {
	s, _ := NewUsers(t.TempDir())
	u, err := s.Create("", "x@y.z", "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != "reader" {
		t.Fatalf("role=%s", u.Role)
	}
}

func TestUsersPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewUsers(dir)
	u, err := s1.Create("", "ada@example.com", "creator")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s2, err := NewUsers(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := s2.Get(u.UID)
	if err != nil || got.Email != u.Email {
		t.Fatalf("reloaded user: %v %+v", err, got)
	}
}
