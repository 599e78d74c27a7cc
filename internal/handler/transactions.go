package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/middleware"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

// GenerateTransactions handles POST /api/events/{eventID}/transactions
func (a *API) GenerateTransactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	eventID := chi.URLParam(r, "eventID")

	generated, err := a.transactions.GenerateFromEvent(r.Context(), user, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if generated == nil {
		generated = []models.Transaction{}
	}
	writeJSON(w, http.StatusCreated, generated)
}

// ListTransactions handles GET /api/transactions
func (a *API) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	txns, err := a.transactions.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}
