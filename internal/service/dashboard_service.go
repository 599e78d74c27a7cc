package service

import (
	"context"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// DashboardService aggregates the club-wide numbers for the admin
// landing page.
type DashboardService struct {
	store storage.Store
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store}
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalEvents          int     `json:"totalEvents"`
	ActiveEvents         int     `json:"activeEvents"`
	TotalRequired        float64 `json:"totalRequired"`
	TotalCollected       float64 `json:"totalCollected"`
	CollectionRate       float64 `json:"collectionRate"`
	UnpaidCount          int     `json:"unpaidCount"`
	RegisteredMembers    int     `json:"registeredMembers"`
	PendingRegistrations int     `json:"pendingRegistrations"`
	CurrentBalance       float64 `json:"currentBalance"`
}

// Stats computes the overview in one pass over each table.
func (s *DashboardService) Stats(ctx context.Context, user *policy.User) (*DashboardStats, error) {
	if err := policy.Require(user, policy.CanViewDashboard); err != nil {
		return nil, err
	}

	var stats DashboardStats

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalEvents = len(events)
	for i := range events {
		if events[i].Status == models.EventActive {
			stats.ActiveEvents++
		}
	}

	records, err := s.store.ListPaymentRecords(ctx)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(records)
	stats.TotalRequired = summary.TotalRequired
	stats.TotalCollected = summary.TotalCollected
	stats.CollectionRate = summary.CollectionRate
	stats.UnpaidCount = summary.UnpaidCount

	members, err := s.store.ListRegisteredMembers(ctx)
	if err != nil {
		return nil, err
	}
	stats.RegisteredMembers = len(members)

	pending, err := s.store.ListPendingRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if pending[i].Status == models.RegistrationPending {
			stats.PendingRegistrations++
		}
	}

	// The transaction log carries a running balance; the last row is the
	// current one.
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if len(txns) > 0 {
		stats.CurrentBalance = txns[len(txns)-1].Balance
	}

	return &stats, nil
}
