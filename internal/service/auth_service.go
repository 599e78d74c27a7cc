package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/auth"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// AuthService exchanges a verified LINE profile for a session token and
// resolves sessions back into users on each request.
type AuthService struct {
	store storage.Store
	jwt   *auth.JWTManager
	now   func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Store, jwt *auth.JWTManager) *AuthService {
	return &AuthService{store: store, jwt: jwt, now: time.Now}
}

// Session is the result of a successful login exchange.
type Session struct {
	Token string       `json:"token"`
	User  *policy.User `json:"user"`
}

// CreateSession issues a session token for the given LINE profile. The
// profile is trusted here: the handler has already verified it against
// the identity provider. Registration is not required to hold a session;
// unregistered users need one to submit a registration request.
func (s *AuthService) CreateSession(ctx context.Context, lineUserID, displayName, pictureURL string) (*Session, error) {
	if lineUserID == "" {
		return nil, errs.Validationf("lineUserId is required")
	}

	user, err := s.ResolveUser(ctx, lineUserID, displayName, pictureURL)
	if err != nil {
		return nil, err
	}

	if user.Registered {
		if err := s.store.TouchMemberLogin(ctx, lineUserID, s.now()); err != nil {
			// Login bookkeeping must not block the login itself.
			slog.Warn("failed to record last login", "line_user_id", lineUserID, "error", err)
		}
	}

	token, err := s.jwt.Generate(lineUserID, displayName, pictureURL)
	if err != nil {
		slog.Error("token generation failed", "line_user_id", lineUserID, "error", err)
		return nil, errs.Persistence("generate session token", err)
	}

	slog.Info("session created", "line_user_id", lineUserID, "registered", user.Registered)
	return &Session{Token: token, User: user}, nil
}

// ResolveUser maps a LINE identity onto the club membership: registered
// members get their role and real name, everyone else a bare profile
// with Registered false.
func (s *AuthService) ResolveUser(ctx context.Context, lineUserID, displayName, pictureURL string) (*policy.User, error) {
	user := &policy.User{
		LineUserID:  lineUserID,
		DisplayName: displayName,
		PictureURL:  pictureURL,
	}

	member, err := s.store.FindRegisteredMemberByLineID(ctx, lineUserID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return user, nil
	}

	user.Registered = true
	user.MemberID = member.MemberID
	user.RealName = member.RealName
	user.Role = member.Role
	return user, nil
}
