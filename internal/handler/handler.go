// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/cache"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/service"
)

// API holds all HTTP handlers for the treasury API.
type API struct {
	auth         *service.AuthService
	events       *service.EventService
	payments     *service.PaymentService
	members      *service.MemberService
	dashboard    *service.DashboardService
	transactions *service.TransactionService
	cache        *cache.Cache
}

// New constructs the API over its services.
func New(
	auth *service.AuthService,
	events *service.EventService,
	payments *service.PaymentService,
	members *service.MemberService,
	dashboard *service.DashboardService,
	transactions *service.TransactionService,
	c *cache.Cache,
) *API {
	return &API{
		auth:         auth,
		events:       events,
		payments:     payments,
		members:      members,
		dashboard:    dashboard,
		transactions: transactions,
		cache:        c,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Unknown
// errors become an opaque 500; their detail stays in the logs.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		vErr     *errs.ValidationError
		authnErr *errs.AuthenticationError
		authzErr *errs.AuthorizationError
		nfErr    *errs.NotFoundError
		itErr    *errs.InvalidTransitionError
		cErr     *errs.ConflictError
	)
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &authnErr):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &authzErr):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &nfErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &itErr):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &cErr):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
