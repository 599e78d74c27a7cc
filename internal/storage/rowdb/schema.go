package rowdb

import (
	"fmt"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore"
)

// Column layouts for each logical table. Field order is significant: the
// codec encodes and decodes strictly by these positions, and updates
// address cell ranges by the named indices below. Widths are validated on
// every read so shape drift in the backing store surfaces immediately
// instead of as silently misparsed fields.

const (
	// Events: eventID, eventName, eventDate, eventType, requiredAmount,
	// description, status, createdBy, createdDate, updatedDate,
	// participantCount, collectedAmount
	eventWidth = 12

	// PaymentTracking: trackingID, eventID, memberLineUserID,
	// memberDisplayName, requiredAmount, paidAmount, paymentStatus,
	// paymentDate, collectedBy, collectorName, paymentMethod, notes,
	// createdDate, updatedDate
	trackingWidth = 14

	// trackingColPaid is the first mutable column of a payment row;
	// everything before it (identity and the requiredAmount snapshot) is
	// immutable after creation and never rewritten.
	trackingColPaid = 5

	// AuthorizedMembers: id, realName, lineDisplayName, phone, role,
	// department, authorizedBy, authorizedDate, status, notes
	authorizedWidth = 10

	// RegisteredMembers: memberID, lineUserID, lineDisplayName,
	// linePictureURL, realName, role, registerDate, lastLoginDate,
	// status, matchedFromID
	registeredWidth = 10

	registeredColLastLogin = 7

	// PendingRegistrations: requestID, lineUserID, lineDisplayName,
	// linePictureURL, requestDate, status, reviewedBy, reviewDate,
	// selectedAuthorizedID, notes
	pendingWidth = 10

	// Transactions: transactionID, date, description, type, amount,
	// handler, receiptURL, balance, eventID, generatedFrom, trackingID
	transactionWidth = 11
)

// checkWidth rejects rows narrower than the table schema. Extra trailing
// cells are tolerated; the spreadsheet heritage means humans occasionally
// scribble in spare columns.
func checkWidth(table rowstore.Table, rowIndex int, row []string, want int) error {
	if len(row) < want {
		return fmt.Errorf("%s row %d has %d cells, schema needs %d", table, rowIndex, len(row), want)
	}
	return nil
}
