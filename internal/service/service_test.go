package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/cache"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/events"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore/sqlite"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage/rowdb"
)

var (
	adminUser = &policy.User{
		LineUserID: "U900", DisplayName: "Lin", RealName: "Treasurer Lin",
		Registered: true, MemberID: 1, Role: models.RoleAdmin,
	}
	collectorUser = &policy.User{
		LineUserID: "U901", DisplayName: "Chen",
		Registered: true, MemberID: 2, Role: models.RoleCollector,
	}
	memberUser = &policy.User{
		LineUserID: "U001", DisplayName: "Ming",
		Registered: true, MemberID: 3, Role: models.RoleMember,
	}
	strangerUser = &policy.User{
		LineUserID: "U555", DisplayName: "Visitor",
	}
)

func newTestStore(t *testing.T) storage.Store {
	store, _ := newTestStores(t)
	return store
}

// newTestStores also exposes the raw row layer for tests that seed
// tables with no typed write path, like the member roster.
func newTestStores(t *testing.T) (storage.Store, rowstore.Store) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	rows, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create row store: %v", err)
	}

	store := rowdb.New(rows, cache.New(64, time.Minute))
	t.Cleanup(func() { store.Close() })
	return store, rows
}

// seedEvent creates an event with two participants through the service
// path and returns its detail.
func seedEvent(t *testing.T, store storage.Store) *EventDetail {
	t.Helper()

	svc := NewEventService(store)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	detail, err := svc.CreateEvent(context.Background(), adminUser, events.Draft{
		Name:           "Summer friendly",
		Date:           "2025-07-12",
		Type:           models.EventTypeMatch,
		RequiredAmount: 500,
	}, []models.Participant{
		{LineUserID: "U001", DisplayName: "Ming"},
		{LineUserID: "U002", DisplayName: "Hua"},
	})
	if err != nil {
		t.Fatalf("seed CreateEvent failed: %v", err)
	}
	return detail
}
