package identity_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"movie_review/internal/adapters/identity"
	"movie_review/internal/domain"
)

// ---- fakes ----

type fakeProfiles struct {
	upserts int32
	last    domain.UserProfile
}

func (f *fakeProfiles) UpsertUser(ctx context.Context, u domain.UserProfile) error {
	atomic.AddInt32(&f.upserts, 1)
	f.last = u
	return nil
}

type fakeCache struct {
	store map[string]domain.Identity
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, isID := dst.(*domain.Identity); isID {
		*d = v
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]domain.Identity{}
	}
	if id, ok := v.(domain.Identity); ok {
		c.store[key] = id
	}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

type countingVerifier struct {
	calls int32
	ident domain.Identity
	err   error
}

func (v *countingVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	atomic.AddInt32(&v.calls, 1)
	if v.err != nil {
		return domain.Identity{}, v.err
	}
	return v.ident, nil
}

// ---- tests ----

func TestVerifier_DecodesClaims(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens:verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Token != "tok-1" {
			t.Errorf("unexpected token %q", body.Token)
		}
		_ = json.NewEncoder(w).Encode(domain.Identity{UID: "uid-1", Email: "a@example.com", Name: "Ana"})
	}))
	defer ts.Close()

	profiles := &fakeProfiles{}
	v, err := identity.New(ts.URL, "", profiles)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ident, err := v.Verify(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.UID != "uid-1" || ident.Name != "Ana" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if profiles.upserts != 1 {
		t.Fatalf("expected 1 profile upsert, got %d", profiles.upserts)
	}
	if profiles.last.DisplayName != "Ana" || profiles.last.UID != "uid-1" {
		t.Fatalf("unexpected profile: %+v", profiles.last)
	}
}

func TestVerifier_RejectedToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	v, err := identity.New(ts.URL, "", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_RetriesTransientFailure(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.Identity{UID: "uid-3", Email: "r@example.com", Name: "Rey"})
	}))
	defer ts.Close()

	v, err := identity.New(ts.URL, "", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	start := time.Now()
	ident, err := v.Verify(context.Background(), "tok-retry")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.UID != "uid-3" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 attempts, got %d", hits)
	}
	// the second attempt waits out the retry delay
	if time.Since(start) < 150*time.Millisecond {
		t.Fatalf("retry happened without a delay")
	}
}

func TestVerifier_EmptyToken(t *testing.T) {
	v, err := identity.New("http://identity.invalid", "", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_NameFallsBackToEmailLocalPart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.Identity{UID: "uid-2", Email: "casey@example.com"})
	}))
	defer ts.Close()

	profiles := &fakeProfiles{}
	v, _ := identity.New(ts.URL, "", profiles)
	if _, err := v.Verify(context.Background(), "tok-2"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if profiles.last.DisplayName != "casey" {
		t.Fatalf("expected email local part as display name, got %q", profiles.last.DisplayName)
	}
}

func TestCachedVerifier_ServesFromCache(t *testing.T) {
	inner := &countingVerifier{ident: domain.Identity{UID: "uid-1", Email: "a@example.com"}}
	cache := &fakeCache{}
	cv := identity.NewCached(inner, cache, 60)

	for i := 0; i < 3; i++ {
		ident, err := cv.Verify(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
		if ident.UID != "uid-1" {
			t.Fatalf("unexpected identity: %+v", ident)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 remote verify, got %d", inner.calls)
	}

	// a different token is its own cache entry
	if _, err := cv.Verify(context.Background(), "tok-2"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 remote verifies, got %d", inner.calls)
	}
}

func TestCachedVerifier_FailuresNotCached(t *testing.T) {
	inner := &countingVerifier{err: domain.ErrInvalidToken}
	cv := identity.NewCached(inner, &fakeCache{}, 60)

	for i := 0; i < 2; i++ {
		if _, err := cv.Verify(context.Background(), "bad"); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("rejections must not be cached: calls=%d", inner.calls)
	}
}
