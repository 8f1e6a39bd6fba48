package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_LoginSendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "demo@moderncrm.com" || body["password"] != "demo123" {
			t.Fatalf("unexpected body %v", body)
		}
		_, _ = w.Write([]byte(`{"user":{"id":"1","name":"Demo User"},"token":"tok","message":"Login successful"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/api").Login(context.Background(), "demo@moderncrm.com", "demo123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "tok" || res.User.ID != "1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"access token required"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"1","title":"Deal"}]`))
	}))
	defer srv.Close()

	deals, err := New(srv.URL, WithToken("tok")).Deals(context.Background())
	if err != nil || len(deals) != 1 {
		t.Fatalf("deals: %v %+v", err, deals)
	}

	_, err = New(srv.URL).Deals(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || !apiErr.SessionExpired() {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if apiErr.Message != "access token required" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestClient_RetriesTransientGet(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"totalDeals":5}`))
	}))
	defer srv.Close()

	stats, err := New(srv.URL, WithRetries(3, time.Millisecond)).Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalDeals != 5 || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("unexpected: %+v after %d calls", stats, calls)
	}
}

func TestClient_DoesNotRetryPost(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithRetries(3, time.Millisecond)).CreateTask(context.Background(), map[string]any{"title": "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("POST must be sent once, got %d", calls)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid or expired token"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithRetries(3, time.Millisecond)).Customers(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}

func TestClient_RecentDealsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "3" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).RecentDeals(context.Background(), 3); err != nil {
		t.Fatalf("recent deals: %v", err)
	}
}
