package models

import "time"

// PaymentStatus is derived from amounts and never set directly:
// unpaid iff PaidAmount == 0, paid iff PaidAmount >= RequiredAmount,
// partial otherwise. A zero RequiredAmount is trivially paid.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentMethod is how a payment was handed over.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodOther    PaymentMethod = "other"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodTransfer, MethodOther:
		return true
	}
	return false
}

// Participant identifies a member selected for an event.
type Participant struct {
	LineUserID  string `json:"lineUserId"`
	DisplayName string `json:"displayName"`
}

// PaymentRecord tracks one member's obligation and payment for one event.
// It is exclusively owned by its event and mutated only by the ledger.
type PaymentRecord struct {
	// TrackingID is derived from event, member, and creation time.
	TrackingID string `json:"trackingID"`

	// EventID is the owning event.
	EventID string `json:"eventID"`

	MemberLineUserID  string `json:"memberLineUserID"`
	MemberDisplayName string `json:"memberDisplayName"`

	// RequiredAmount is the event's per-person amount snapshotted at
	// record creation. Not a live reference to the event.
	RequiredAmount float64 `json:"requiredAmount"`

	PaidAmount    float64       `json:"paidAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	// PaymentDate is when the money changed hands; zero until paid.
	PaymentDate time.Time `json:"paymentDate,omitempty"`

	// CollectedBy / CollectorName identify the authenticated collector
	// who recorded the payment. Never trusted from request input.
	CollectedBy   string `json:"collectedBy,omitempty"`
	CollectorName string `json:"collectorName,omitempty"`

	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	Notes         string        `json:"notes,omitempty"`

	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

// PaymentSummary aggregates a set of payment records. Derived, never
// persisted.
type PaymentSummary struct {
	TotalRequired  float64 `json:"totalRequired"`
	TotalCollected float64 `json:"totalCollected"`
	UnpaidCount    int     `json:"unpaidCount"`
	PartialCount   int     `json:"partialCount"`
	PaidCount      int     `json:"paidCount"`

	// CollectionRate is TotalCollected/TotalRequired as a percentage,
	// 0 when nothing is required.
	CollectionRate float64 `json:"collectionRate"`
}
