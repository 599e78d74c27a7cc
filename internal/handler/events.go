package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/events"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/middleware"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

type createEventRequest struct {
	Name           string               `json:"name"`
	Date           string               `json:"date"`
	Type           models.EventType     `json:"type"`
	RequiredAmount float64              `json:"requiredAmount"`
	Description    string               `json:"description"`
	Participants   []models.Participant `json:"participants"`
}

type transitionRequest struct {
	Status models.EventStatus `json:"status"`
}

// ListEvents handles GET /api/events?status=
func (a *API) ListEvents(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	status := models.EventStatus(r.URL.Query().Get("status"))

	list, err := a.events.ListEvents(r.Context(), user, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if list == nil {
		list = []models.Event{}
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateEvent handles POST /api/events
func (a *API) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	detail, err := a.events.CreateEvent(r.Context(), user, events.Draft{
		Name:           req.Name,
		Date:           req.Date,
		Type:           req.Type,
		RequiredAmount: req.RequiredAmount,
		Description:    req.Description,
	}, req.Participants)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, detail)
}

// GetEvent handles GET /api/events/{eventID}
func (a *API) GetEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	eventID := chi.URLParam(r, "eventID")

	detail, err := a.events.GetEvent(r.Context(), user, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// TransitionEventStatus handles PATCH /api/events/{eventID}/status
func (a *API) TransitionEventStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	eventID := chi.URLParam(r, "eventID")

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := a.events.TransitionStatus(r.Context(), user, eventID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
