package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/auth"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/cache"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore/sqlite"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/service"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage/rowdb"
)

type testServer struct {
	srv  *httptest.Server
	rows rowstore.Store
	jwt  *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "handler-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	rows, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create row store: %v", err)
	}

	c := cache.New(64, time.Minute)
	store := rowdb.New(rows, c)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-key-at-least-32-bytes!", time.Hour)
	authSvc := service.NewAuthService(store, jwtManager)
	l := ledger.New(store)

	api := New(
		authSvc,
		service.NewEventService(store),
		service.NewPaymentService(store, l),
		service.NewMemberService(store),
		service.NewDashboardService(store),
		service.NewTransactionService(store),
		c,
	)

	srv := httptest.NewServer(api.Router(jwtManager))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, rows: rows, jwt: jwtManager}
}

// seedMember writes a registered member row and returns a session token
// for them.
func (ts *testServer) seedMember(t *testing.T, lineUserID, realName, role string) string {
	t.Helper()

	row := []string{"1", lineUserID, realName, "", realName, role, "2025-01-05T08:00:00Z", "", "active", "0"}
	if err := ts.rows.Append(context.Background(), rowstore.TableRegisteredMembers, [][]string{row}); err != nil {
		t.Fatalf("seed member failed: %v", err)
	}

	token, err := ts.jwt.Generate(lineUserID, realName, "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body failed: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return v
}

func TestSessionExchange(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/auth/session", "", map[string]string{
		"lineUserId":  "U555",
		"displayName": "Visitor",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	session := decodeBody[map[string]any](t, resp)
	if session["token"] == "" {
		t.Error("expected a token in the response")
	}

	resp = ts.do(t, http.MethodPost, "/api/auth/session", "", map[string]string{"displayName": "Ghost"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing lineUserId", resp.StatusCode)
	}
}

func TestAuthBoundary(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing token is 401", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/events", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/events", "not.a.token", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("unregistered user is 403", func(t *testing.T) {
		token, err := ts.jwt.Generate("U555", "Visitor", "")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		resp := ts.do(t, http.MethodGet, "/api/events", token, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("health needs no auth", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/health", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.seedMember(t, "U900", "Treasurer Lin", "admin")

	createBody := map[string]any{
		"name":           "Summer friendly",
		"date":           "2025-07-12",
		"type":           "match",
		"requiredAmount": 500,
		"participants": []map[string]string{
			{"lineUserId": "U001", "displayName": "Ming"},
			{"lineUserId": "U002", "displayName": "Hua"},
		},
	}

	resp := ts.do(t, http.MethodPost, "/api/events", adminToken, createBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	type detailResp struct {
		Event struct {
			EventID string `json:"eventID"`
			Status  string `json:"status"`
		} `json:"event"`
		Records []struct {
			TrackingID string `json:"trackingID"`
		} `json:"records"`
		Summary struct {
			TotalRequired float64 `json:"totalRequired"`
		} `json:"summary"`
	}
	detail := decodeBody[detailResp](t, resp)
	if len(detail.Records) != 2 || detail.Summary.TotalRequired != 1000 {
		t.Fatalf("detail = %+v", detail)
	}
	eventID := detail.Event.EventID

	t.Run("activate and pay", func(t *testing.T) {
		resp := ts.do(t, http.MethodPatch, "/api/events/"+eventID+"/status", adminToken, map[string]string{"status": "active"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition status = %d, want 200", resp.StatusCode)
		}

		resp = ts.do(t, http.MethodPut, "/api/payments/"+detail.Records[0].TrackingID, adminToken, map[string]any{
			"paidAmount":    500,
			"paymentMethod": "cash",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("payment status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("invalid transition is 409", func(t *testing.T) {
		resp := ts.do(t, http.MethodPatch, "/api/events/"+eventID+"/status", adminToken, map[string]string{"status": "planning"})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("unknown event is 404", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/events/event_missing", adminToken, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("unknown payment method is 400", func(t *testing.T) {
		resp := ts.do(t, http.MethodPut, "/api/payments/"+detail.Records[1].TrackingID, adminToken, map[string]any{
			"paidAmount":    100,
			"paymentMethod": "iou",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("generate transactions", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/api/events/"+eventID+"/transactions", adminToken, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		txns := decodeBody[[]map[string]any](t, resp)
		if len(txns) != 1 {
			t.Errorf("expected 1 transaction, got %d", len(txns))
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/dashboard", adminToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		stats := decodeBody[map[string]any](t, resp)
		if stats["totalCollected"].(float64) != 500 {
			t.Errorf("totalCollected = %v, want 500", stats["totalCollected"])
		}
	})

	t.Run("cache status", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/cache-status", adminToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		resp = ts.do(t, http.MethodDelete, "/api/cache-status", adminToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestRoleBoundaryOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	memberToken := ts.seedMember(t, "U001", "Ming", "member")

	t.Run("member cannot create events", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/api/events", memberToken, map[string]any{
			"name": "x", "date": "2025-07-12", "type": "other",
			"participants": []map[string]string{{"lineUserId": "U001"}},
		})
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("member cannot view dashboard", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/dashboard", memberToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("member sees own payments", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/my/payments", memberToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}
