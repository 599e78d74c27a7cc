// Package policy authorizes operations against the resolved club role,
// keeping role checks out of the ledger and event layers.
//
// Predicates enumerate qualifying roles explicitly rather than deriving
// them from a numeric rank, so each permission can evolve independently.
// Services gate operations with Require(user, predicate); the predicate
// is the single place a permission's role set is written down.
package policy

import (
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

// User is the identity resolved for a request: the social-login profile
// plus, when a matching RegisteredMember row exists, the club role.
type User struct {
	LineUserID  string
	DisplayName string
	PictureURL  string

	// Registered is false for identities authenticated by the external
	// provider that have no RegisteredMember row yet.
	Registered bool

	// MemberID, RealName and Role are only meaningful when Registered.
	MemberID int
	RealName string
	Role     models.Role
}

// CollectorName returns the name recorded on payments this user collects.
func (u *User) CollectorName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.DisplayName
}

// CanBrowseEvents reports whether role may browse the event list.
func CanBrowseEvents(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleCollector || role == models.RoleMember
}

// CanCreateEvent reports whether role may create events.
func CanCreateEvent(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageEvents reports whether role may move events through their
// lifecycle.
func CanManageEvents(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageMembers reports whether role may manage member data.
func CanManageMembers(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanCollectPayment reports whether role may record payments.
func CanCollectPayment(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleCollector
}

// CanViewReports reports whether role may view event-wide collection data.
func CanViewReports(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleCollector
}

// CanViewOwnPayments reports whether role may view its own payment rows.
func CanViewOwnPayments(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleCollector || role == models.RoleMember
}

// CanViewFinances reports whether role may read the finance log.
func CanViewFinances(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleCollector
}

// CanManageFinances reports whether role may write the finance log.
func CanManageFinances(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanViewDashboard reports whether role may view the club-wide overview.
func CanViewDashboard(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanInspectCache reports whether role may inspect or clear the server
// cache.
func CanInspectCache(role models.Role) bool {
	return role == models.RoleAdmin
}

// Require fails with AuthenticationError when user is nil (no session
// resolved) and AuthorizationError when the user is unregistered or when
// allowed rejects the role. The two failure modes stay distinct so the
// boundary can answer 401 versus 403.
func Require(user *User, allowed func(models.Role) bool) error {
	if user == nil {
		return &errs.AuthenticationError{Msg: "sign-in required"}
	}
	if !user.Registered {
		return &errs.AuthorizationError{Msg: "account not registered or pending review"}
	}
	if !allowed(user.Role) {
		return &errs.AuthorizationError{Msg: "insufficient role"}
	}
	return nil
}
