package rowdb

import (
	"strings"
	"testing"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

func TestEventCodec(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := models.Event{
		EventID:          "event_abc",
		EventName:        "Summer friendly",
		EventDate:        "2025-07-12",
		EventType:        models.EventTypeMatch,
		RequiredAmount:   500,
		Description:      "vs. the harbor club",
		Status:           models.EventActive,
		CreatedBy:        "U900",
		CreatedDate:      created,
		UpdatedDate:      created.Add(time.Hour),
		ParticipantCount: 4,
		CollectedAmount:  1250,
	}

	t.Run("column order", func(t *testing.T) {
		row := encodeEvent(&event)
		want := []string{
			"event_abc",
			"Summer friendly",
			"2025-07-12",
			"match",
			"500",
			"vs. the harbor club",
			"active",
			"U900",
			"2025-06-01T12:00:00Z",
			"2025-06-01T13:00:00Z",
			"4",
			"1250",
		}
		if len(row) != len(want) {
			t.Fatalf("row has %d cells, want %d", len(row), len(want))
		}
		for i := range want {
			if row[i] != want[i] {
				t.Errorf("cell %d = %q, want %q", i, row[i], want[i])
			}
		}
	})

	t.Run("round trip recomputes progress", func(t *testing.T) {
		got, err := decodeEvent(0, encodeEvent(&event))
		if err != nil {
			t.Fatalf("decodeEvent failed: %v", err)
		}
		// 1250 of 2000 collected.
		if got.CollectionProgress != 62.5 {
			t.Errorf("collectionProgress = %v, want 62.5", got.CollectionProgress)
		}
		got.CollectionProgress = 0
		if got != event {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, event)
		}
	})

	t.Run("narrow row rejected", func(t *testing.T) {
		_, err := decodeEvent(3, encodeEvent(&event)[:eventWidth-1])
		if err == nil || !strings.Contains(err.Error(), "row 3") {
			t.Fatalf("expected width error naming the row, got %v", err)
		}
	})

	t.Run("extra trailing cells tolerated", func(t *testing.T) {
		row := append(encodeEvent(&event), "scribble")
		if _, err := decodeEvent(0, row); err != nil {
			t.Fatalf("decodeEvent failed on wide row: %v", err)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		row := encodeEvent(&event)
		row[6] = "archived"
		if _, err := decodeEvent(0, row); err == nil {
			t.Error("expected error for unknown status, got nil")
		}
	})

	t.Run("garbage amount rejected", func(t *testing.T) {
		row := encodeEvent(&event)
		row[4] = "five hundred"
		if _, err := decodeEvent(0, row); err == nil {
			t.Error("expected error for unparseable amount, got nil")
		}
	})
}

func TestPaymentRecordCodec(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := models.PaymentRecord{
		TrackingID:        "track_event_abc_U001_1748779200000",
		EventID:           "event_abc",
		MemberLineUserID:  "U001",
		MemberDisplayName: "Ming",
		RequiredAmount:    500,
		PaidAmount:        200,
		PaymentStatus:     models.PaymentPartial,
		PaymentDate:       created.Add(24 * time.Hour),
		CollectedBy:       "U900",
		CollectorName:     "Treasurer Lin",
		PaymentMethod:     models.MethodTransfer,
		Notes:             "will settle the rest next week",
		CreatedDate:       created,
		UpdatedDate:       created.Add(24 * time.Hour),
	}

	t.Run("column order", func(t *testing.T) {
		row := encodePaymentRecord(&record)
		want := []string{
			"track_event_abc_U001_1748779200000",
			"event_abc",
			"U001",
			"Ming",
			"500",
			"200",
			"partial",
			"2025-06-02T12:00:00Z",
			"U900",
			"Treasurer Lin",
			"transfer",
			"will settle the rest next week",
			"2025-06-01T12:00:00Z",
			"2025-06-02T12:00:00Z",
		}
		if len(row) != len(want) {
			t.Fatalf("row has %d cells, want %d", len(row), len(want))
		}
		for i := range want {
			if row[i] != want[i] {
				t.Errorf("cell %d = %q, want %q", i, row[i], want[i])
			}
		}
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := decodePaymentRecord(0, encodePaymentRecord(&record))
		if err != nil {
			t.Fatalf("decodePaymentRecord failed: %v", err)
		}
		if got != record {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, record)
		}
	})

	t.Run("mutation tail starts at paidAmount", func(t *testing.T) {
		tail := encodePaymentMutation(&record)
		if len(tail) != trackingWidth-trackingColPaid {
			t.Fatalf("tail has %d cells, want %d", len(tail), trackingWidth-trackingColPaid)
		}
		if tail[0] != "200" {
			t.Errorf("tail[0] = %q, want paidAmount 200", tail[0])
		}
	})

	t.Run("fresh record has empty date and method cells", func(t *testing.T) {
		fresh := models.PaymentRecord{
			TrackingID:     "track_x",
			RequiredAmount: 500,
			PaymentStatus:  models.PaymentUnpaid,
			CreatedDate:    created,
			UpdatedDate:    created,
		}
		row := encodePaymentRecord(&fresh)
		if row[7] != "" || row[10] != "" {
			t.Errorf("paymentDate/method cells = %q/%q, want empty", row[7], row[10])
		}

		got, err := decodePaymentRecord(0, row)
		if err != nil {
			t.Fatalf("decodePaymentRecord failed: %v", err)
		}
		if !got.PaymentDate.IsZero() || got.PaymentMethod != "" {
			t.Errorf("decoded fresh record = %v/%q, want zero date and empty method", got.PaymentDate, got.PaymentMethod)
		}
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		row := encodePaymentRecord(&record)
		row[10] = "barter"
		if _, err := decodePaymentRecord(0, row); err == nil {
			t.Error("expected error for unknown method, got nil")
		}
	})
}

func TestTransactionCodec(t *testing.T) {
	txn := models.Transaction{
		TransactionID: "txn_001",
		Date:          time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
		Description:   "Summer friendly - Ming",
		Type:          models.TransactionIncome,
		Amount:        500,
		Handler:       "Treasurer Lin",
		Balance:       12500,
		EventID:       "event_abc",
		GeneratedFrom: models.GeneratedFromTracking,
		TrackingID:    "track_event_abc_U001_1748779200000",
	}

	got, err := decodeTransaction(0, encodeTransaction(&txn))
	if err != nil {
		t.Fatalf("decodeTransaction failed: %v", err)
	}
	if got != txn {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, txn)
	}

	row := encodeTransaction(&txn)
	row[3] = "loan"
	if _, err := decodeTransaction(0, row); err == nil {
		t.Error("expected error for unknown transaction type, got nil")
	}
}

func TestRegisteredMemberCodec(t *testing.T) {
	member := models.RegisteredMember{
		MemberID:        7,
		LineUserID:      "U001",
		LineDisplayName: "Ming",
		LinePictureURL:  "https://profile.line-scdn.net/abc",
		RealName:        "Wang Ming",
		Role:            models.RoleCollector,
		RegisterDate:    time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC),
		LastLoginDate:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:          models.MemberActive,
		MatchedFromID:   3,
	}

	got, err := decodeRegisteredMember(0, encodeRegisteredMember(&member))
	if err != nil {
		t.Fatalf("decodeRegisteredMember failed: %v", err)
	}
	if got != member {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, member)
	}

	row := encodeRegisteredMember(&member)
	row[5] = "owner"
	if _, err := decodeRegisteredMember(0, row); err == nil {
		t.Error("expected error for unknown role, got nil")
	}
}
