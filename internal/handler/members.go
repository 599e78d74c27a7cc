package handler

import (
	"net/http"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/middleware"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/service"
)

type sessionRequest struct {
	LineUserID  string `json:"lineUserId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

type registerRequest struct {
	SelectedAuthorizedID int    `json:"selectedAuthorizedId"`
	Notes                string `json:"notes"`
}

// CreateSession handles POST /api/auth/session. The LINE profile in the
// body has been verified by the frontend's LIFF flow; this exchange
// binds it into a server-signed session.
func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := a.auth.CreateSession(r.Context(), req.LineUserID, req.DisplayName, req.PictureURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Register handles POST /api/register
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	pending, err := a.members.Register(r.Context(), user, service.RegistrationRequest{
		SelectedAuthorizedID: req.SelectedAuthorizedID,
		Notes:                req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pending)
}

// ListAuthorizedMembers handles GET /api/members/authorized
func (a *API) ListAuthorizedMembers(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	members, err := a.members.ListAuthorized(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if members == nil {
		members = []models.AuthorizedMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// ListRegisteredMembers handles GET /api/members/registered
func (a *API) ListRegisteredMembers(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	members, err := a.members.ListRegistered(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if members == nil {
		members = []models.RegisteredMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// Dashboard handles GET /api/dashboard
func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	stats, err := a.dashboard.Stats(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
