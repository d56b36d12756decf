package store

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"panelxd/pkg/types"
)

// Progress persists reading positions in data/reading_progress.json,
// keyed by user id then series id.
type Progress struct {
	mu     sync.Mutex
	path   string
	byUser map[string]map[string]types.ReadingProgress
}

func NewProgress(dataDir string) (*Progress, error) {
	s := &Progress{
		path:   filepath.Join(dataDir, "reading_progress.json"),
		byUser: make(map[string]map[string]types.ReadingProgress),
	}
	if err := loadJSONFile(s.path, &s.byUser); err != nil {
		return nil, err
	}
	return s, nil
}

// Update upserts the reading position for one user and series.
func (s *Progress) Update(p types.ReadingProgress) (types.ReadingProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	p.LastRead = time.Now().Unix()
	m, ok := s.byUser[p.UserID]
	if !ok {
		m = make(map[string]types.ReadingProgress)
		s.byUser[p.UserID] = m
	}
	m[p.SeriesID] = p
	if err := saveJSONFile(s.path, s.byUser); err != nil {
		return types.ReadingProgress{}, err
	}
	return p, nil
}

// Get returns the position of one user in one series.
func (s *Progress) Get(userID, seriesID string) (types.ReadingProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byUser[userID][seriesID]
	if !ok {
		return types.ReadingProgress{}, ErrNotFound
	}
	return p, nil
}

// ForUser returns every position the user holds, most recently read first.
func (s *Progress) ForUser(userID string) []types.ReadingProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ReadingProgress, 0, len(s.byUser[userID]))
	for _, p := range s.byUser[userID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastRead > out[j].LastRead })
	return out
}

// Delete removes the position of one user in one series.
func (s *Progress) Delete(userID, seriesID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[userID][seriesID]; !ok {
		return ErrNotFound
	}
	delete(s.byUser[userID], seriesID)
	if len(s.byUser[userID]) == 0 {
		delete(s.byUser, userID)
	}
	return saveJSONFile(s.path, s.byUser)
}
