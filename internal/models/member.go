package models

import "time"

// Role is the club role resolved for a registered member.
// Roles are flat: each permission predicate in internal/policy enumerates
// the qualifying roles explicitly, with no numeric rank or inheritance.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
	RoleMember    Role = "member"
)

// MemberStatus marks whether a member row is active.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

// AuthorizedMember is a person pre-approved to register, maintained by
// admins outside this service and consumed read-only here.
type AuthorizedMember struct {
	ID              int          `json:"id"`
	RealName        string       `json:"realName"`
	LineDisplayName string       `json:"lineDisplayName,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	Role            Role         `json:"role"`
	Department      string       `json:"department,omitempty"`
	AuthorizedBy    string       `json:"authorizedBy"`
	AuthorizedDate  string       `json:"authorizedDate"`
	Status          MemberStatus `json:"status"`
	Notes           string       `json:"notes,omitempty"`
}

// RegisteredMember links a social-login identity to an authorized person
// and carries the role used by the access policy.
type RegisteredMember struct {
	MemberID        int          `json:"memberID"`
	LineUserID      string       `json:"lineUserID"`
	LineDisplayName string       `json:"lineDisplayName"`
	LinePictureURL  string       `json:"linePictureURL,omitempty"`
	RealName        string       `json:"realName"`
	Role            Role         `json:"role"`
	RegisterDate    time.Time    `json:"registerDate"`
	LastLoginDate   time.Time    `json:"lastLoginDate"`
	Status          MemberStatus `json:"status"`

	// MatchedFromID is the AuthorizedMember row this registration was
	// approved against.
	MatchedFromID int `json:"matchedFromID"`
}

// RegistrationStatus is the review state of a pending registration.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// PendingRegistration is an authenticated identity awaiting admin review.
type PendingRegistration struct {
	RequestID       int                `json:"requestID"`
	LineUserID      string             `json:"lineUserID"`
	LineDisplayName string             `json:"lineDisplayName"`
	LinePictureURL  string             `json:"linePictureURL,omitempty"`
	RequestDate     time.Time          `json:"requestDate"`
	Status          RegistrationStatus `json:"status"`
	ReviewedBy      string             `json:"reviewedBy,omitempty"`
	ReviewDate      time.Time          `json:"reviewDate,omitempty"`

	// SelectedAuthorizedID is the AuthorizedMember row the reviewer
	// matched this request against; zero until reviewed.
	SelectedAuthorizedID int    `json:"selectedAuthorizedID,omitempty"`
	Notes                string `json:"notes,omitempty"`
}
