package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/habitd/habitd/internal/config"
)

func newTestServerWithAuth(t *testing.T) http.Handler {
	t.Helper()
	// Auth enabled with no OIDC providers configured: only API keys can
	// authenticate, which is all these tests need.
	s, err := New(newMemStore(), &config.Config{AuthEnabled: true})
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	return s.Router()
}

func TestAuthEnabled_NoToken_Unauthorized(t *testing.T) {
	h := newTestServerWithAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/habits/", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d want 401", rr.Code)
	}
}

func TestAuthEnabled_NoToken_HTMLRedirect(t *testing.T) {
	h := newTestServerWithAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/habits/", nil)
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("got %d want 302", rr.Code)
	}
	loc, err := rr.Result().Location()
	if err != nil {
		t.Fatalf("error getting location: %v", err)
	}
	if loc.Path != "/auth/login" {
		t.Fatalf("got redirect to %s want /auth/login", loc.Path)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	st := newMemStore()
	s, err := New(st, &config.Config{AuthEnabled: true})
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	h := s.Router()

	apiKey := "hab_live_testkey"
	if err := st.PutAPIKey(hashAPIKey(apiKey), "user-abc"); err != nil {
		t.Fatalf("PutAPIKey failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/habits/", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200: %s", rr.Code, rr.Body.String())
	}

	// A wrong key is rejected.
	req = httptest.NewRequest(http.MethodGet, "/habits/", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer hab_live_wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d want 401", rr.Code)
	}
}

func TestParseProviderToken(t *testing.T) {
	pid, jwt, err := parseProviderToken("google:abc.def.ghi")
	if err != nil || pid != "google" || jwt != "abc.def.ghi" {
		t.Fatalf("got %q %q %v", pid, jwt, err)
	}

	for _, bad := range []string{"", "noseparator", ":jwt", "provider:"} {
		if _, _, err := parseProviderToken(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestUserIDFromClaims(t *testing.T) {
	claims := map[string]any{"iss": "https://idp.example.com", "sub": "12345"}
	a := userIDFromClaims(claims)
	b := userIDFromClaims(claims)
	if a == "" || a != b {
		t.Fatalf("want stable non-empty id, got %q %q", a, b)
	}
	if userIDFromClaims(map[string]any{"iss": "x"}) != "" {
		t.Fatal("want empty id when sub missing")
	}
}

func TestStateStore_Stop(t *testing.T) {
	s := NewStateStore(time.Minute)
	s.Put("k", authState{Verifier: "v", ExpireAt: time.Now().Add(time.Minute)})
	s.Stop()

	// The store stays usable after the janitor exits; expiry is also
	// enforced lazily on read.
	if _, ok := s.GetAndDelete("k"); !ok {
		t.Fatal("want state to survive Stop")
	}
	s.Put("old", authState{ExpireAt: time.Now().Add(-time.Second)})
	if _, ok := s.GetAndDelete("old"); ok {
		t.Fatal("want expired state rejected")
	}
}

func TestTruncateHash(t *testing.T) {
	if got := truncateHash("short"); got != "short" {
		t.Fatalf("got %q", got)
	}
	long := "0123456789abcdef0123"
	if got := truncateHash(long); got != "0123456789abcdef..." {
		t.Fatalf("got %q", got)
	}
}
