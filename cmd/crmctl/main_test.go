package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moderncrm/crm-api/internal/client/session"
)

func fakeAPI(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "demo123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":"1","name":"Demo User","email":"demo@moderncrm.com","role":"Administrator"},"token":"` + validToken + `","message":"Login successful"}`))
	})
	mux.HandleFunc("GET /api/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"invalid or expired token"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"1","name":"John Smith"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginThenList(t *testing.T) {
	srv := fakeAPI(t, "tok")
	file := filepath.Join(t.TempDir(), "session.json")
	base := []string{"-api", srv.URL + "/api", "-session", file}

	var out bytes.Buffer
	err := run(context.Background(), append(base, "login", "-email", "demo@moderncrm.com", "-password", "demo123"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Login successful as Demo User")

	s, err := session.New(file).Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "tok", s.Token)

	out.Reset()
	require.NoError(t, run(context.Background(), append(base, "customers"), &out))
	assert.Contains(t, out.String(), `"name": "John Smith"`)
}

func TestCommandsRequireSession(t *testing.T) {
	srv := fakeAPI(t, "tok")
	file := filepath.Join(t.TempDir(), "session.json")

	err := run(context.Background(), []string{"-api", srv.URL + "/api", "-session", file, "stats"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestRejectedTokenClearsSession(t *testing.T) {
	srv := fakeAPI(t, "fresh")
	file := filepath.Join(t.TempDir(), "session.json")
	cache := session.New(file)
	require.NoError(t, cache.Save(session.Session{Token: "stale"}))

	err := run(context.Background(), []string{"-api", srv.URL + "/api", "-session", file, "customers"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "crmctl login"))

	s, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLogoutIsIdempotent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "session.json")
	args := []string{"-session", file, "logout"}

	require.NoError(t, run(context.Background(), args, &bytes.Buffer{}))
	require.NoError(t, run(context.Background(), args, &bytes.Buffer{}))
}

func TestCollectSkipsEmpty(t *testing.T) {
	name, empty := "Ada", ""
	body := collect(map[string]*string{"name": &name, "notes": &empty}, map[string]any{
		"customerId": "",
		"value":      0.0,
	})
	assert.Equal(t, map[string]any{"name": "Ada", "value": 0.0}, body)
}
