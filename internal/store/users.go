package store

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"panelxd/pkg/types"
)

// Users persists account profiles in data/users.json, keyed by uid.
type Users struct {
	mu   sync.Mutex
	path string
	byID map[string]types.UserProfile
}

func NewUsers(dataDir string) (*Users, error) {
	s := &Users{
		path: filepath.Join(dataDir, "users.json"),
		byID: make(map[string]types.UserProfile),
	}
	if err := loadJSONFile(s.path, &s.byID); err != nil {
		return nil, err
	}
	return s, nil
}

// Create registers a profile. The uid may be supplied by the caller (external
// auth) or generated here. Email is required; username defaults to the email
// local part.
func (s *Users) Create(uid, email, role string) (types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uid == "" {
		uid = genID("u")
	}
	if _, ok := s.byID[uid]; ok {
		return types.UserProfile{}, ErrConflict
	}
	if role != "creator" && role != "reader" {
		role = "reader"
	}
	u := types.UserProfile{
		UID:       uid,
		Email:     email,
		Username:  usernameFromEmail(email),
		Role:      role,
		CreatedAt: time.Now().Unix(),
	}
	s.byID[uid] = u
	if err := saveJSONFile(s.path, s.byID); err != nil {
		delete(s.byID, uid)
		return types.UserProfile{}, err
	}
	return u, nil
}

func (s *Users) Get(uid string) (types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[uid]
	if !ok {
		return types.UserProfile{}, ErrNotFound
	}
	return u, nil
}

// GetByUsername does a linear scan; the store is small and file-backed.
func (s *Users) GetByUsername(username string) (types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return types.UserProfile{}, ErrNotFound
}

func (s *Users) Update(uid string, req types.UpdateUserRequest) (types.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[uid]
	if !ok {
		return types.UserProfile{}, ErrNotFound
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	u.UpdatedAt = time.Now().Unix()
	s.byID[uid] = u
	if err := saveJSONFile(s.path, s.byID); err != nil {
		return types.UserProfile{}, err
	}
	return u, nil
}

func (s *Users) Delete(uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[uid]; !ok {
		return ErrNotFound
	}
	delete(s.byID, uid)
	return saveJSONFile(s.path, s.byID)
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
