package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// protectedProbe records whether the inner handler ran and what identity it
// saw. Used to verify both the pass-through and the short-circuit paths.
type protectedProbe struct {
	called   bool
	identity Identity
	found    bool
}

func (p *protectedProbe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.identity, p.found = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	ts := newTestTokenService(t)
	probe := &protectedProbe{}

	req := httptest.NewRequest(http.MethodPost, "/create-subreddit", nil)
	rec := httptest.NewRecorder()

	RequireAuth(ts)(probe.handler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if body := rec.Body.String(); body != "" {
		t.Errorf("body = %q, want empty", body)
	}
	if probe.called {
		t.Error("inner handler ran despite missing Authorization header")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	probe := &protectedProbe{}

	req := httptest.NewRequest(http.MethodPost, "/create-subreddit", nil)
	req.Header.Set("Authorization", "definitely-not-a-token")
	rec := httptest.NewRecorder()

	RequireAuth(ts)(probe.handler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if body := rec.Body.String(); body != "" {
		t.Errorf("body = %q, want empty", body)
	}
	if probe.called {
		t.Error("inner handler ran despite invalid token")
	}
}

func TestRequireAuth_TokenSignedWithOtherSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("a-completely-different-secret!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := other.Generate(testIdentity())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	probe := &protectedProbe{}
	req := httptest.NewRequest(http.MethodPost, "/create-subreddit", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	RequireAuth(ts)(probe.handler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if probe.called {
		t.Error("inner handler ran despite foreign-signed token")
	}
}

func TestRequireAuth_ValidRawToken(t *testing.T) {
	// The header carries the bare token. A "Bearer " prefix would make the
	// token unparseable, which is exactly what clients of this API expect.
	ts := newTestTokenService(t)

	token, err := ts.Generate(testIdentity())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	probe := &protectedProbe{}
	req := httptest.NewRequest(http.MethodPost, "/create-subreddit", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	RequireAuth(ts)(probe.handler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !probe.called {
		t.Fatal("inner handler never ran for a valid token")
	}
	if !probe.found {
		t.Fatal("identity missing from request context")
	}
	if probe.identity.UserID != "user-123" || probe.identity.Username != "alice" {
		t.Errorf("identity = %+v, want user-123/alice", probe.identity)
	}
}

func TestIdentityFromContext_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("IdentityFromContext() reported an identity on a bare context")
	}
}
