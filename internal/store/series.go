package store

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"panelxd/pkg/types"
)

// Series persists series, episodes, and their panels under the data dir
// (series.json, episodes.json).
type Series struct {
	mu           sync.Mutex
	seriesPath   string
	episodesPath string
	series       map[string]types.Series
	episodes     map[string]types.Episode
}

func NewSeries(dataDir string) (*Series, error) {
	s := &Series{
		seriesPath:   filepath.Join(dataDir, "series.json"),
		episodesPath: filepath.Join(dataDir, "episodes.json"),
		series:       make(map[string]types.Series),
		episodes:     make(map[string]types.Episode),
	}
	if err := loadJSONFile(s.seriesPath, &s.series); err != nil {
		return nil, err
	}
	if err := loadJSONFile(s.episodesPath, &s.episodes); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Series) Create(creatorUID, title, description, genre, tags, coverURL string) (types.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ser := types.Series{
		ID:            genID("ser"),
		CreatorUID:    creatorUID,
		Title:         title,
		Description:   description,
		Genre:         genre,
		Tags:          tags,
		CoverImageURL: coverURL,
		CreatedAt:     time.Now().Unix(),
	}
	s.series[ser.ID] = ser
	if err := saveJSONFile(s.seriesPath, s.series); err != nil {
		delete(s.series, ser.ID)
		return types.Series{}, err
	}
	return ser, nil
}

func (s *Series) Get(id string) (types.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ser, ok := s.series[id]
	if !ok {
		return types.Series{}, ErrNotFound
	}
	return ser, nil
}

// All returns published series, newest first.
func (s *Series) All() []types.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Series, 0, len(s.series))
	for _, ser := range s.series {
		if ser.Published {
			out = append(out, ser)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Trending returns published series ordered by view count.
func (s *Series) Trending(limit int) []types.Series {
	all := s.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Views > all[j].Views })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// ByCreator returns every series owned by uid, drafts included.
func (s *Series) ByCreator(uid string) []types.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Series
	for _, ser := range s.series {
		if ser.CreatorUID == uid {
			out = append(out, ser)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

func (s *Series) Update(id string, req types.UpdateSeriesRequest) (types.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ser, ok := s.series[id]
	if !ok {
		return types.Series{}, ErrNotFound
	}
	if req.Title != nil {
		ser.Title = *req.Title
	}
	if req.Description != nil {
		ser.Description = *req.Description
	}
	if req.Genre != nil {
		ser.Genre = *req.Genre
	}
	if req.Tags != nil {
		ser.Tags = *req.Tags
	}
	if req.CoverImageURL != nil {
		ser.CoverImageURL = *req.CoverImageURL
	}
	ser.UpdatedAt = time.Now().Unix()
	s.series[id] = ser
	if err := saveJSONFile(s.seriesPath, s.series); err != nil {
		return types.Series{}, err
	}
	return ser, nil
}

func (s *Series) Publish(id string) (types.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ser, ok := s.series[id]
	if !ok {
		return types.Series{}, ErrNotFound
	}
	ser.Published = true
	ser.UpdatedAt = time.Now().Unix()
	s.series[id] = ser
	if err := saveJSONFile(s.seriesPath, s.series); err != nil {
		return types.Series{}, err
	}
	return ser, nil
}

// Delete removes a series and its episodes.
func (s *Series) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.series[id]; !ok {
		return ErrNotFound
	}
	delete(s.series, id)
	for eid, ep := range s.episodes {
		if ep.SeriesID == id {
			delete(s.episodes, eid)
		}
	}
	if err := saveJSONFile(s.seriesPath, s.series); err != nil {
		return err
	}
	return saveJSONFile(s.episodesPath, s.episodes)
}

// CreateEpisode appends an episode to a series. When episodeNumber is zero the
// next free number is assigned.
func (s *Series) CreateEpisode(seriesID, creatorUID, title string, episodeNumber int) (types.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.series[seriesID]; !ok {
		return types.Episode{}, ErrNotFound
	}
	if episodeNumber <= 0 {
		for _, ep := range s.episodes {
			if ep.SeriesID == seriesID && ep.EpisodeNumber >= episodeNumber {
				episodeNumber = ep.EpisodeNumber
			}
		}
		episodeNumber++
	}
	ep := types.Episode{
		ID:            genID("ep"),
		SeriesID:      seriesID,
		CreatorUID:    creatorUID,
		Title:         title,
		EpisodeNumber: episodeNumber,
		CreatedAt:     time.Now().Unix(),
	}
	s.episodes[ep.ID] = ep
	if err := saveJSONFile(s.episodesPath, s.episodes); err != nil {
		delete(s.episodes, ep.ID)
		return types.Episode{}, err
	}
	return ep, nil
}

func (s *Series) GetEpisode(id string) (types.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.episodes[id]
	if !ok {
		return types.Episode{}, ErrNotFound
	}
	return ep, nil
}

// EpisodesByCreator returns every episode owned by uid, by series then number.
func (s *Series) EpisodesByCreator(uid string) []types.Episode {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Episode
	for _, ep := range s.episodes {
		if ep.CreatorUID == uid {
			out = append(out, ep)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesID != out[j].SeriesID {
			return out[i].SeriesID < out[j].SeriesID
		}
		return out[i].EpisodeNumber < out[j].EpisodeNumber
	})
	return out
}

func (s *Series) PublishEpisode(id string) (types.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.episodes[id]
	if !ok {
		return types.Episode{}, ErrNotFound
	}
	ep.Published = true
	ep.UpdatedAt = time.Now().Unix()
	s.episodes[id] = ep
	if err := saveJSONFile(s.episodesPath, s.episodes); err != nil {
		return types.Episode{}, err
	}
	return ep, nil
}

// SavePanels replaces the panel list of an episode, assigning ids and order.
func (s *Series) SavePanels(episodeID string, panels []types.Panel) (types.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.episodes[episodeID]
	if !ok {
		return types.Episode{}, ErrNotFound
	}
	for i := range panels {
		if panels[i].ID == "" {
			panels[i].ID = genID("pan")
		}
		panels[i].Order = i
	}
	ep.Panels = panels
	ep.UpdatedAt = time.Now().Unix()
	s.episodes[episodeID] = ep
	if err := saveJSONFile(s.episodesPath, s.episodes); err != nil {
		return types.Episode{}, err
	}
	return ep, nil
}
