package models

import "time"

// TransactionType distinguishes money flowing in from money flowing out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// GenerationSource records where a transaction row came from.
type GenerationSource string

const (
	GeneratedFromTracking GenerationSource = "PaymentTracking"
	GeneratedManually     GenerationSource = "Manual"
)

// Transaction is one entry in the club's finance book. Income rows can be
// generated from paid PaymentRecords so collected money shows up in the
// books without re-entry.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`

	// Handler is the real name of the person who handled the money.
	Handler    string `json:"handler"`
	ReceiptURL string `json:"receiptURL,omitempty"`

	// Balance is the running club balance after this entry.
	Balance float64 `json:"balance"`

	// EventID and TrackingID link generated rows back to their source.
	EventID       string           `json:"eventID,omitempty"`
	GeneratedFrom GenerationSource `json:"generatedFrom"`
	TrackingID    string           `json:"trackingID,omitempty"`
}
