package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"panelxd/pkg/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// mountPlatformRoutes wires the user/credit/series/progress store endpoints.
// Each group is only mounted when its store was provided.
func mountPlatformRoutes(r chi.Router, p Platform) {
	if p.Users != nil {
		mountUserRoutes(r, p)
	}
	if p.Credits != nil {
		mountCreditRoutes(r, p)
	}
	if p.Series != nil {
		mountSeriesRoutes(r, p)
	}
	if p.Progress != nil {
		mountProgressRoutes(r, p)
	}
}

func mountUserRoutes(r chi.Router, p Platform) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				UID   string `json:"uid"`
				Email string `json:"email"`
				Role  string `json:"role"`
			}
			if !decodeJSONBody(w, req, &body) {
				return
			}
			if strings.TrimSpace(body.Email) == "" {
				writeJSONError(w, http.StatusBadRequest, "email is required")
				return
			}
			u, err := p.Users.Create(body.UID, body.Email, body.Role)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			// New accounts start with a seeded credit balance.
			if p.Credits != nil {
				if _, err := p.Credits.Init(u.UID); err != nil {
					writeEngineError(w, req, err)
					return
				}
			}
			writeJSON(w, http.StatusCreated, u)
		})
		r.Get("/{uid}", func(w http.ResponseWriter, req *http.Request) {
			u, err := p.Users.Get(chi.URLParam(req, "uid"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, u)
		})
		r.Get("/username/{username}", func(w http.ResponseWriter, req *http.Request) {
			u, err := p.Users.GetByUsername(chi.URLParam(req, "username"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, u)
		})
		r.Put("/{uid}", func(w http.ResponseWriter, req *http.Request) {
			var body types.UpdateUserRequest
			if !decodeJSONBody(w, req, &body) {
				return
			}
			u, err := p.Users.Update(chi.URLParam(req, "uid"), body)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, u)
		})
		r.Delete("/{uid}", func(w http.ResponseWriter, req *http.Request) {
			if err := p.Users.Delete(chi.URLParam(req, "uid")); err != nil {
				writeEngineError(w, req, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func mountCreditRoutes(r chi.Router, p Platform) {
	r.Route("/api/credits", func(r chi.Router) {
		r.Get("/packages", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"packages":    p.Credits.Packages(),
				"free_launch": p.Credits.FreeLaunch(),
			})
		})
		r.Post("/init", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				UID string `json:"uid"`
			}
			if !decodeJSONBody(w, req, &body) {
				return
			}
			if body.UID == "" {
				writeJSONError(w, http.StatusBadRequest, "uid is required")
				return
			}
			b, err := p.Credits.Init(body.UID)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, b)
		})
		r.Get("/balance/{uid}", func(w http.ResponseWriter, req *http.Request) {
			b, err := p.Credits.Balance(chi.URLParam(req, "uid"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, b)
		})
		r.Post("/use", func(w http.ResponseWriter, req *http.Request) {
			var body types.UseCreditsRequest
			if !decodeJSONBody(w, req, &body) {
				return
			}
			if body.UID == "" {
				writeJSONError(w, http.StatusBadRequest, "uid is required")
				return
			}
			b, err := p.Credits.Use(body.UID, body.Amount, body.Reason)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, b)
		})
		r.Get("/history/{uid}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"transactions": p.Credits.History(chi.URLParam(req, "uid")),
			})
		})
	})
}

func mountSeriesRoutes(r chi.Router, p Platform) {
	r.Route("/api/series", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				CreatorID   string `json:"creator_id"`
				Title       string `json:"title"`
				Description string `json:"description"`
				Genre       string `json:"genre"`
				Tags        string `json:"tags"`
				CoverURL    string `json:"cover_url"`
			}
			if !decodeJSONBody(w, req, &body) {
				return
			}
			if body.CreatorID == "" || strings.TrimSpace(body.Title) == "" {
				writeJSONError(w, http.StatusBadRequest, "creator_id and title are required")
				return
			}
			s, err := p.Series.Create(body.CreatorID, body.Title, body.Description, body.Genre, body.Tags, body.CoverURL)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusCreated, s)
		})
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"series": p.Series.All()})
		})
		r.Get("/trending", func(w http.ResponseWriter, req *http.Request) {
			limit := 10
			if v := req.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					limit = n
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{"series": p.Series.Trending(limit)})
		})
		r.Get("/creator/{uid}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"series": p.Series.ByCreator(chi.URLParam(req, "uid"))})
		})
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			s, err := p.Series.Get(chi.URLParam(req, "id"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, s)
		})
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			var body types.UpdateSeriesRequest
			if !decodeJSONBody(w, req, &body) {
				return
			}
			s, err := p.Series.Update(chi.URLParam(req, "id"), body)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, s)
		})
		r.Post("/{id}/publish", func(w http.ResponseWriter, req *http.Request) {
			s, err := p.Series.Publish(chi.URLParam(req, "id"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, s)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			if err := p.Series.Delete(chi.URLParam(req, "id")); err != nil {
				writeEngineError(w, req, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/{id}/episodes", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				CreatorID     string `json:"creator_id"`
				Title         string `json:"title"`
				EpisodeNumber int    `json:"episode_number"`
			}
			if !decodeJSONBody(w, req, &body) {
				return
			}
			ep, err := p.Series.CreateEpisode(chi.URLParam(req, "id"), body.CreatorID, body.Title, body.EpisodeNumber)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusCreated, ep)
		})
	})

	r.Route("/api/episodes", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			ep, err := p.Series.GetEpisode(chi.URLParam(req, "id"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, ep)
		})
		r.Get("/creator/{uid}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"episodes": p.Series.EpisodesByCreator(chi.URLParam(req, "uid"))})
		})
		r.Post("/{id}/publish", func(w http.ResponseWriter, req *http.Request) {
			ep, err := p.Series.PublishEpisode(chi.URLParam(req, "id"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, ep)
		})
		r.Put("/{id}/panels", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Panels []types.Panel `json:"panels"`
			}
			if !decodeJSONBody(w, req, &body) {
				return
			}
			ep, err := p.Series.SavePanels(chi.URLParam(req, "id"), body.Panels)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, ep)
		})
	})
}

func mountProgressRoutes(r chi.Router, p Platform) {
	r.Route("/api/reading-progress", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var body types.ReadingProgress
			if !decodeJSONBody(w, req, &body) {
				return
			}
			if body.UserID == "" || body.SeriesID == "" {
				writeJSONError(w, http.StatusBadRequest, "user_id and series_id are required")
				return
			}
			pr, err := p.Progress.Update(body)
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, pr)
		})
		r.Get("/user/{uid}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"progress": p.Progress.ForUser(chi.URLParam(req, "uid"))})
		})
		r.Get("/{uid}/{seriesID}", func(w http.ResponseWriter, req *http.Request) {
			pr, err := p.Progress.Get(chi.URLParam(req, "uid"), chi.URLParam(req, "seriesID"))
			if err != nil {
				writeEngineError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, pr)
		})
		r.Delete("/{uid}/{seriesID}", func(w http.ResponseWriter, req *http.Request) {
			if err := p.Progress.Delete(chi.URLParam(req, "uid"), chi.URLParam(req, "seriesID")); err != nil {
				writeEngineError(w, req, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}
