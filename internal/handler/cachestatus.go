package handler

import (
	"net/http"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/cache"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/middleware"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
)

type cacheStatusResponse struct {
	Entries []cache.EntryInfo `json:"entries"`
}

type cacheClearResponse struct {
	Cleared int `json:"cleared"`
}

// CacheStatus handles GET /api/cache-status
func (a *API) CacheStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := policy.Require(user, policy.CanInspectCache); err != nil {
		writeServiceError(w, err)
		return
	}

	entries := a.cache.Info()
	if entries == nil {
		entries = []cache.EntryInfo{}
	}
	writeJSON(w, http.StatusOK, cacheStatusResponse{Entries: entries})
}

// ClearCache handles DELETE /api/cache-status?pattern=
// An empty pattern clears everything.
func (a *API) ClearCache(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := policy.Require(user, policy.CanInspectCache); err != nil {
		writeServiceError(w, err)
		return
	}

	cleared := a.cache.Invalidate(r.URL.Query().Get("pattern"))
	writeJSON(w, http.StatusOK, cacheClearResponse{Cleared: cleared})
}
