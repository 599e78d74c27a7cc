package rowdb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore"
)

// Cell-level parsing helpers. Empty cells decode to zero values; anything
// non-empty must parse cleanly or the whole row is rejected.

func parseFloatCell(table rowstore.Table, column, v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: bad number %q", table, column, v)
	}
	return f, nil
}

func parseIntCell(table rowstore.Table, column, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: bad integer %q", table, column, v)
	}
	return n, nil
}

func parseTimeCell(table rowstore.Table, column, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s.%s: bad timestamp %q", table, column, v)
	}
	return t, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ---- Events ----

func encodeEvent(e *models.Event) []string {
	return []string{
		e.EventID,
		e.EventName,
		e.EventDate,
		string(e.EventType),
		formatFloat(e.RequiredAmount),
		e.Description,
		string(e.Status),
		e.CreatedBy,
		formatTime(e.CreatedDate),
		formatTime(e.UpdatedDate),
		strconv.Itoa(e.ParticipantCount),
		formatFloat(e.CollectedAmount),
	}
}

func decodeEvent(rowIndex int, row []string) (models.Event, error) {
	var e models.Event
	if err := checkWidth(rowstore.TableEvents, rowIndex, row, eventWidth); err != nil {
		return e, err
	}

	e.EventID = row[0]
	e.EventName = row[1]
	e.EventDate = row[2]
	e.EventType = models.EventType(row[3])
	if !models.ValidEventType(e.EventType) {
		return e, fmt.Errorf("Events.eventType: unknown value %q", row[3])
	}

	var err error
	if e.RequiredAmount, err = parseFloatCell(rowstore.TableEvents, "requiredAmount", row[4]); err != nil {
		return e, err
	}
	e.Description = row[5]

	e.Status = models.EventStatus(row[6])
	switch e.Status {
	case models.EventPlanning, models.EventActive, models.EventCompleted, models.EventCancelled:
	default:
		return e, fmt.Errorf("Events.status: unknown value %q", row[6])
	}

	e.CreatedBy = row[7]
	if e.CreatedDate, err = parseTimeCell(rowstore.TableEvents, "createdDate", row[8]); err != nil {
		return e, err
	}
	if e.UpdatedDate, err = parseTimeCell(rowstore.TableEvents, "updatedDate", row[9]); err != nil {
		return e, err
	}
	if e.ParticipantCount, err = parseIntCell(rowstore.TableEvents, "participantCount", row[10]); err != nil {
		return e, err
	}
	if e.CollectedAmount, err = parseFloatCell(rowstore.TableEvents, "collectedAmount", row[11]); err != nil {
		return e, err
	}

	// CollectionProgress is derived, not stored.
	if total := e.RequiredTotal(); total > 0 {
		e.CollectionProgress = e.CollectedAmount / total * 100
	}
	return e, nil
}

// ---- PaymentTracking ----

func encodePaymentRecord(r *models.PaymentRecord) []string {
	return []string{
		r.TrackingID,
		r.EventID,
		r.MemberLineUserID,
		r.MemberDisplayName,
		formatFloat(r.RequiredAmount),
		formatFloat(r.PaidAmount),
		string(r.PaymentStatus),
		formatTime(r.PaymentDate),
		r.CollectedBy,
		r.CollectorName,
		string(r.PaymentMethod),
		r.Notes,
		formatTime(r.CreatedDate),
		formatTime(r.UpdatedDate),
	}
}

// encodePaymentMutation returns the mutable tail of a payment row, the
// cells rewritten by UpdatePaymentRecord. The identity columns and the
// requiredAmount snapshot are deliberately excluded.
func encodePaymentMutation(r *models.PaymentRecord) []string {
	return encodePaymentRecord(r)[trackingColPaid:]
}

func decodePaymentRecord(rowIndex int, row []string) (models.PaymentRecord, error) {
	var r models.PaymentRecord
	if err := checkWidth(rowstore.TablePaymentTracking, rowIndex, row, trackingWidth); err != nil {
		return r, err
	}

	r.TrackingID = row[0]
	r.EventID = row[1]
	r.MemberLineUserID = row[2]
	r.MemberDisplayName = row[3]

	var err error
	if r.RequiredAmount, err = parseFloatCell(rowstore.TablePaymentTracking, "requiredAmount", row[4]); err != nil {
		return r, err
	}
	if r.PaidAmount, err = parseFloatCell(rowstore.TablePaymentTracking, "paidAmount", row[5]); err != nil {
		return r, err
	}

	r.PaymentStatus = models.PaymentStatus(row[6])
	switch r.PaymentStatus {
	case models.PaymentUnpaid, models.PaymentPartial, models.PaymentPaid:
	default:
		return r, fmt.Errorf("PaymentTracking.paymentStatus: unknown value %q", row[6])
	}

	if r.PaymentDate, err = parseTimeCell(rowstore.TablePaymentTracking, "paymentDate", row[7]); err != nil {
		return r, err
	}
	r.CollectedBy = row[8]
	r.CollectorName = row[9]
	if row[10] != "" {
		r.PaymentMethod = models.PaymentMethod(row[10])
		if !models.ValidPaymentMethod(r.PaymentMethod) {
			return r, fmt.Errorf("PaymentTracking.paymentMethod: unknown value %q", row[10])
		}
	}
	r.Notes = row[11]
	if r.CreatedDate, err = parseTimeCell(rowstore.TablePaymentTracking, "createdDate", row[12]); err != nil {
		return r, err
	}
	if r.UpdatedDate, err = parseTimeCell(rowstore.TablePaymentTracking, "updatedDate", row[13]); err != nil {
		return r, err
	}
	return r, nil
}

// ---- AuthorizedMembers ----

func decodeAuthorizedMember(rowIndex int, row []string) (models.AuthorizedMember, error) {
	var m models.AuthorizedMember
	if err := checkWidth(rowstore.TableAuthorizedMembers, rowIndex, row, authorizedWidth); err != nil {
		return m, err
	}

	var err error
	if m.ID, err = parseIntCell(rowstore.TableAuthorizedMembers, "id", row[0]); err != nil {
		return m, err
	}
	m.RealName = row[1]
	m.LineDisplayName = row[2]
	m.Phone = row[3]
	m.Role = models.Role(row[4])
	m.Department = row[5]
	m.AuthorizedBy = row[6]
	m.AuthorizedDate = row[7]
	m.Status = models.MemberStatus(row[8])
	m.Notes = row[9]
	return m, nil
}

// ---- RegisteredMembers ----

func encodeRegisteredMember(m *models.RegisteredMember) []string {
	return []string{
		strconv.Itoa(m.MemberID),
		m.LineUserID,
		m.LineDisplayName,
		m.LinePictureURL,
		m.RealName,
		string(m.Role),
		formatTime(m.RegisterDate),
		formatTime(m.LastLoginDate),
		string(m.Status),
		strconv.Itoa(m.MatchedFromID),
	}
}

func decodeRegisteredMember(rowIndex int, row []string) (models.RegisteredMember, error) {
	var m models.RegisteredMember
	if err := checkWidth(rowstore.TableRegisteredMembers, rowIndex, row, registeredWidth); err != nil {
		return m, err
	}

	var err error
	if m.MemberID, err = parseIntCell(rowstore.TableRegisteredMembers, "memberID", row[0]); err != nil {
		return m, err
	}
	m.LineUserID = row[1]
	m.LineDisplayName = row[2]
	m.LinePictureURL = row[3]
	m.RealName = row[4]

	m.Role = models.Role(row[5])
	switch m.Role {
	case models.RoleAdmin, models.RoleCollector, models.RoleMember:
	default:
		return m, fmt.Errorf("RegisteredMembers.role: unknown value %q", row[5])
	}

	if m.RegisterDate, err = parseTimeCell(rowstore.TableRegisteredMembers, "registerDate", row[6]); err != nil {
		return m, err
	}
	if m.LastLoginDate, err = parseTimeCell(rowstore.TableRegisteredMembers, "lastLoginDate", row[7]); err != nil {
		return m, err
	}
	m.Status = models.MemberStatus(row[8])
	if m.MatchedFromID, err = parseIntCell(rowstore.TableRegisteredMembers, "matchedFromID", row[9]); err != nil {
		return m, err
	}
	return m, nil
}

// ---- PendingRegistrations ----

func encodePendingRegistration(p *models.PendingRegistration) []string {
	selected := ""
	if p.SelectedAuthorizedID != 0 {
		selected = strconv.Itoa(p.SelectedAuthorizedID)
	}
	return []string{
		strconv.Itoa(p.RequestID),
		p.LineUserID,
		p.LineDisplayName,
		p.LinePictureURL,
		formatTime(p.RequestDate),
		string(p.Status),
		p.ReviewedBy,
		formatTime(p.ReviewDate),
		selected,
		p.Notes,
	}
}

func decodePendingRegistration(rowIndex int, row []string) (models.PendingRegistration, error) {
	var p models.PendingRegistration
	if err := checkWidth(rowstore.TablePendingRegistrations, rowIndex, row, pendingWidth); err != nil {
		return p, err
	}

	var err error
	if p.RequestID, err = parseIntCell(rowstore.TablePendingRegistrations, "requestID", row[0]); err != nil {
		return p, err
	}
	p.LineUserID = row[1]
	p.LineDisplayName = row[2]
	p.LinePictureURL = row[3]
	if p.RequestDate, err = parseTimeCell(rowstore.TablePendingRegistrations, "requestDate", row[4]); err != nil {
		return p, err
	}
	p.Status = models.RegistrationStatus(row[5])
	p.ReviewedBy = row[6]
	if p.ReviewDate, err = parseTimeCell(rowstore.TablePendingRegistrations, "reviewDate", row[7]); err != nil {
		return p, err
	}
	if p.SelectedAuthorizedID, err = parseIntCell(rowstore.TablePendingRegistrations, "selectedAuthorizedID", row[8]); err != nil {
		return p, err
	}
	p.Notes = row[9]
	return p, nil
}

// ---- Transactions ----

func encodeTransaction(t *models.Transaction) []string {
	return []string{
		t.TransactionID,
		formatTime(t.Date),
		t.Description,
		string(t.Type),
		formatFloat(t.Amount),
		t.Handler,
		t.ReceiptURL,
		formatFloat(t.Balance),
		t.EventID,
		string(t.GeneratedFrom),
		t.TrackingID,
	}
}

func decodeTransaction(rowIndex int, row []string) (models.Transaction, error) {
	var t models.Transaction
	if err := checkWidth(rowstore.TableTransactions, rowIndex, row, transactionWidth); err != nil {
		return t, err
	}

	t.TransactionID = row[0]
	var err error
	if t.Date, err = parseTimeCell(rowstore.TableTransactions, "date", row[1]); err != nil {
		return t, err
	}
	t.Description = row[2]

	t.Type = models.TransactionType(row[3])
	switch t.Type {
	case models.TransactionIncome, models.TransactionExpense:
	default:
		return t, fmt.Errorf("Transactions.type: unknown value %q", row[3])
	}

	if t.Amount, err = parseFloatCell(rowstore.TableTransactions, "amount", row[4]); err != nil {
		return t, err
	}
	t.Handler = row[5]
	t.ReceiptURL = row[6]
	if t.Balance, err = parseFloatCell(rowstore.TableTransactions, "balance", row[7]); err != nil {
		return t, err
	}
	t.EventID = row[8]
	t.GeneratedFrom = models.GenerationSource(row[9])
	t.TrackingID = row[10]
	return t, nil
}
