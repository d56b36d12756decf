package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"panelxd/internal/store"
	"panelxd/pkg/types"
)

func newTestPlatform(t *testing.T) Platform {
	t.Helper()
	dir := t.TempDir()
	users, err := store.NewUsers(dir)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	credits, err := store.NewCredits(dir, true)
	if err != nil {
		t.Fatalf("credits: %v", err)
	}
	series, err := store.NewSeries(dir)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	progress, err := store.NewProgress(dir)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	return Platform{Users: users, Credits: credits, Series: series, Progress: progress}
}

func TestUserCreateSeedsCredits(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)

	w := postJSON(r, "/api/users", `{"email":"ada@example.com","role":"creator"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var u types.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("json: %v", err)
	}
	if u.UID == "" || u.Username != "ada" {
		t.Fatalf("unexpected user: %+v", u)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/credits/balance/"+u.UID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("balance status=%d body=%s", w.Code, w.Body.String())
	}
	var b types.CreditBalance
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("json: %v", err)
	}
	if b.Balance != store.FreeLaunchCredits {
		t.Fatalf("balance=%d", b.Balance)
	}
}

func TestUserNotFoundMaps404(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestUserEmailRequired(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)
	w := postJSON(r, "/api/users", `{"role":"reader"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestUserDuplicateMaps409(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)
	if w := postJSON(r, "/api/users", `{"uid":"u1","email":"a@b.c"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create: %d", w.Code)
	}
	if w := postJSON(r, "/api/users", `{"uid":"u1","email":"a@b.c"}`); w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestCreditsUseInsufficientMaps402(t *testing.T) {
	dir := t.TempDir()
	credits, _ := store.NewCredits(dir, false)
	p := Platform{Credits: credits}
	r := NewMux(&mockService{}, p)
	if w := postJSON(r, "/api/credits/init", `{"uid":"u1"}`); w.Code != http.StatusOK {
		t.Fatalf("init: %d", w.Code)
	}
	w := postJSON(r, "/api/credits/use", `{"uid":"u1","amount":999999,"reason":"image_generation"}`)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreditsPackagesListed(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/credits/packages", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Packages   []types.CreditPackage `json:"packages"`
		FreeLaunch bool                  `json:"free_launch"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Packages) == 0 || !body.FreeLaunch {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSeriesLifecycleOverHTTP(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)

	w := postJSON(r, "/api/series", `{"creator_id":"u1","title":"Moonlit Blade","genre":"fantasy","tags":"action,sword"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d body=%s", w.Code, w.Body.String())
	}
	var ser types.Series
	if err := json.Unmarshal(w.Body.Bytes(), &ser); err != nil {
		t.Fatalf("json: %v", err)
	}
	if ser.Tags != "action,sword" {
		t.Fatalf("tags not stored: %+v", ser)
	}

	// Draft is hidden from the public list until published.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/series", nil))
	if !strings.Contains(w.Body.String(), `"series":[]`) {
		t.Fatalf("draft leaked: %s", w.Body.String())
	}

	if w := postJSON(r, "/api/series/"+ser.ID+"/publish", `{}`); w.Code != http.StatusOK {
		t.Fatalf("publish: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/series", nil))
	if !strings.Contains(w.Body.String(), ser.ID) {
		t.Fatalf("published series missing: %s", w.Body.String())
	}

	w = postJSON(r, "/api/series/"+ser.ID+"/episodes", `{"creator_id":"u1","title":"Episode One"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("episode: %d body=%s", w.Code, w.Body.String())
	}
	var ep types.Episode
	if err := json.Unmarshal(w.Body.Bytes(), &ep); err != nil {
		t.Fatalf("json: %v", err)
	}
	if ep.EpisodeNumber != 1 {
		t.Fatalf("episode number=%d", ep.EpisodeNumber)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/episodes/"+ep.ID+"/panels",
		strings.NewReader(`{"panels":[{"image_url":"/generated/a.png","caption":"dawn"}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("panels: %d body=%s", w.Code, w.Body.String())
	}
	var got types.Episode
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(got.Panels) != 1 || got.Panels[0].ID == "" {
		t.Fatalf("panels: %+v", got.Panels)
	}
}

func TestSeriesCreateValidation(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)
	if w := postJSON(r, "/api/series", `{"title":"no creator"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadingProgressRoundTrip(t *testing.T) {
	p := newTestPlatform(t)
	r := NewMux(&mockService{}, p)

	w := postJSON(r, "/api/reading-progress", `{"user_id":"u1","series_id":"s1","episode_id":"e1","page_number":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reading-progress/u1/s1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}
	var pr types.ReadingProgress
	if err := json.Unmarshal(w.Body.Bytes(), &pr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if pr.PageNumber != 3 || pr.EpisodeID != "e1" {
		t.Fatalf("unexpected: %+v", pr)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/reading-progress/u1/s1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reading-progress/u1/s1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("after delete: %d", w.Code)
	}
}

func TestGeneratedFilesServed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "panel_1.png"), []byte("pngdata"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := NewMux(&mockService{}, Platform{GeneratedDir: dir})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generated/panel_1.png", nil))
	if w.Code != http.StatusOK || w.Body.String() != "pngdata" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}

	// Listings are refused.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generated/", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("listing status=%d", w.Code)
	}
}
