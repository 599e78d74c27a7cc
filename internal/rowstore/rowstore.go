// Package rowstore abstracts the row-oriented backing store. Logical
// tables hold ordered rows of string cells, mirroring the spreadsheet the
// club originally kept its books in; callers address rows by index and
// columns by position and never see the physical storage scheme.
package rowstore

import "context"

// Table names a logical table in the row store.
type Table string

const (
	TableEvents               Table = "Events"
	TablePaymentTracking      Table = "PaymentTracking"
	TableAuthorizedMembers    Table = "AuthorizedMembers"
	TableRegisteredMembers    Table = "RegisteredMembers"
	TablePendingRegistrations Table = "PendingRegistrations"
	TableTransactions         Table = "Transactions"
)

// Store is the row-oriented persistence interface consumed by the typed
// storage layer. Row indices are zero-based and stable between a GetAll
// and a subsequent UpdateRange; there is no locking across callers, so
// concurrent writers to the same row race and the later write wins.
type Store interface {
	// GetAll returns every row of table in order. Rows may have uneven
	// widths; decoding and validation belong to the caller.
	GetAll(ctx context.Context, table Table) ([][]string, error)

	// Append adds rows to the end of table.
	Append(ctx context.Context, table Table, rows [][]string) error

	// UpdateRange overwrites len(values) cells of an existing row
	// starting at startCol, extending the row if it is shorter.
	UpdateRange(ctx context.Context, table Table, rowIndex, startCol int, values []string) error

	// Close releases any resources held by the store.
	Close() error
}
