package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// MemberService owns the membership roster and the registration flow.
type MemberService struct {
	store storage.Store
	now   func() time.Time
}

// NewMemberService creates a new MemberService.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store, now: time.Now}
}

// ListAuthorized returns the pre-authorized roster new members register
// against.
func (s *MemberService) ListAuthorized(ctx context.Context, user *policy.User) ([]models.AuthorizedMember, error) {
	if err := policy.Require(user, policy.CanManageMembers); err != nil {
		return nil, err
	}
	return s.store.ListAuthorizedMembers(ctx)
}

// ListRegistered returns all registered members.
func (s *MemberService) ListRegistered(ctx context.Context, user *policy.User) ([]models.RegisteredMember, error) {
	if err := policy.Require(user, policy.CanManageMembers); err != nil {
		return nil, err
	}
	return s.store.ListRegisteredMembers(ctx)
}

// RegistrationRequest is the caller-supplied part of a registration.
type RegistrationRequest struct {
	// SelectedAuthorizedID names the pre-authorized roster entry the
	// applicant claims to be. Zero means no claim; an admin matches the
	// request manually.
	SelectedAuthorizedID int
	Notes                string
}

// Register files a pending registration for the authenticated but
// unregistered caller. Already-registered users and duplicate pending
// requests are rejected.
func (s *MemberService) Register(ctx context.Context, user *policy.User, req RegistrationRequest) (*models.PendingRegistration, error) {
	if user == nil {
		return nil, &errs.AuthenticationError{Msg: "sign-in required"}
	}
	if user.Registered {
		return nil, errs.Validationf("account is already registered")
	}

	pending, err := s.store.ListPendingRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if pending[i].LineUserID == user.LineUserID && pending[i].Status == models.RegistrationPending {
			return nil, errs.Validationf("a registration request is already pending review")
		}
	}

	request := models.PendingRegistration{
		LineUserID:           user.LineUserID,
		LineDisplayName:      user.DisplayName,
		LinePictureURL:       user.PictureURL,
		RequestDate:          s.now(),
		Status:               models.RegistrationPending,
		SelectedAuthorizedID: req.SelectedAuthorizedID,
		Notes:                req.Notes,
	}
	if err := s.store.AppendPendingRegistration(ctx, &request); err != nil {
		slog.Error("Register failed", "line_user_id", user.LineUserID, "error", err)
		return nil, err
	}

	slog.Info("registration requested", "line_user_id", user.LineUserID, "request_id", request.RequestID)
	return &request, nil
}
