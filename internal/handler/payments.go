package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/middleware"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/service"
)

type paymentRequest struct {
	PaidAmount float64              `json:"paidAmount"`
	Method     models.PaymentMethod `json:"paymentMethod"`
	Notes      string               `json:"notes"`

	// PaymentDate is optional; the server clock is used when absent.
	PaymentDate *time.Time `json:"paymentDate"`

	// LastUpdated, when present, is compared against the stored record
	// for stale-write detection.
	LastUpdated *time.Time `json:"lastUpdated"`
}

func (p *paymentRequest) input() ledger.PaymentInput {
	in := ledger.PaymentInput{
		PaidAmount: p.PaidAmount,
		Method:     p.Method,
		Notes:      p.Notes,
	}
	if p.PaymentDate != nil {
		in.PaymentDate = *p.PaymentDate
	}
	if p.LastUpdated != nil {
		in.ExpectedUpdated = *p.LastUpdated
	}
	return in
}

type batchPaymentRequest struct {
	Items []batchPaymentItem `json:"items"`
}

type batchPaymentItem struct {
	TrackingID string `json:"trackingID"`
	paymentRequest
}

type eventPaymentsResponse struct {
	Records []models.PaymentRecord `json:"records"`
	Summary models.PaymentSummary  `json:"summary"`
}

// ListEventPayments handles GET /api/events/{eventID}/payments
func (a *API) ListEventPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	eventID := chi.URLParam(r, "eventID")

	records, summary, err := a.payments.ListEventPayments(r.Context(), user, eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []models.PaymentRecord{}
	}
	writeJSON(w, http.StatusOK, eventPaymentsResponse{Records: records, Summary: summary})
}

// RecordPayment handles PUT /api/payments/{trackingID}
func (a *API) RecordPayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	trackingID := chi.URLParam(r, "trackingID")

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	record, err := a.payments.RecordPayment(r.Context(), user, trackingID, req.input())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// BatchRecordPayments handles POST /api/payments/batch
func (a *API) BatchRecordPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req batchPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "batch is empty")
		return
	}

	items := make([]service.BatchItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BatchItem{TrackingID: item.TrackingID, Input: item.input()}
	}

	results, err := a.payments.BatchRecordPayments(r.Context(), user, items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// MyPayments handles GET /api/my/payments
func (a *API) MyPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	records, err := a.payments.MyPayments(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []models.PaymentRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
