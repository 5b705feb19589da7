package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"compboard/internal/domain"
)

func TestLoginSavesTokenAndCachesIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "alpha" || body["password"] != "secret1" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect team name or password"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer token-123" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(domain.Team{ID: 7, Name: "alpha"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	c := New(srv.URL, store)

	team, err := c.Login(context.Background(), "alpha", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if team.ID != 7 || team.Name != "alpha" {
		t.Fatalf("unexpected team %+v", team)
	}
	if token, _ := store.Token(); token != "token-123" {
		t.Fatalf("expected token persisted, got %q", token)
	}
	if current := c.CurrentTeam(); current == nil || current.Name != "alpha" {
		t.Fatalf("expected cached identity, got %+v", current)
	}
}

func TestLoginFailureSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect team name or password"})
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemoryTokenStore())
	_, err := c.Login(context.Background(), "alpha", "wrong")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Detail != "Incorrect team name or password" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestLoadClearsRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	_ = store.Save("stale-token")
	c := New(srv.URL, store)

	team, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if team != nil {
		t.Fatalf("expected nil team for rejected token, got %+v", team)
	}
	if token, _ := store.Token(); token != "" {
		t.Fatalf("expected stale token cleared, got %q", token)
	}
}

func TestLoadWithoutTokenSkipsNetwork(t *testing.T) {
	c := New("http://127.0.0.1:1", NewMemoryTokenStore())
	team, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if team != nil {
		t.Fatalf("expected nil team when no token is stored, got %+v", team)
	}
}

func TestChangePasswordValidatesLocally(t *testing.T) {
	// An unreachable base URL proves the checks run before any request.
	c := New("http://127.0.0.1:1", NewMemoryTokenStore())
	ctx := context.Background()

	if err := c.ChangePassword(ctx, "oldpass", "short", "short"); err == nil {
		t.Fatalf("expected rejection for short password")
	}
	if err := c.ChangePassword(ctx, "oldpass", "newsecret", "different"); err == nil {
		t.Fatalf("expected rejection for mismatched confirmation")
	}
	if err := c.ChangePassword(ctx, "samepass", "samepass", "samepass"); err == nil {
		t.Fatalf("expected rejection for unchanged password")
	}
}

func TestLogoutClearsState(t *testing.T) {
	store := NewMemoryTokenStore()
	_ = store.Save("token-123")
	c := New("http://127.0.0.1:1", store)

	c.Logout()
	if token, _ := store.Token(); token != "" {
		t.Fatalf("expected token cleared, got %q", token)
	}
	if c.CurrentTeam() != nil {
		t.Fatalf("expected identity cleared")
	}
}

func TestUpdateLeaderboardSettingsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(domain.LeaderboardSettings{ShowPrivateScores: true})
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemoryTokenStore())
	settings, err := c.UpdateLeaderboardSettings(context.Background(), true)
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if gotQuery != "show_private=true" {
		t.Fatalf("expected show_private query, got %q", gotQuery)
	}
	if !settings.ShowPrivateScores {
		t.Fatalf("expected settings echoed back")
	}
}
