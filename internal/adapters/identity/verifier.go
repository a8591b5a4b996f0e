// internal/adapters/identity/verifier.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"movie_review/internal/adapters/observability"
	"movie_review/internal/domain"
)

// Verifier resolves an opaque bearer token to verified identity claims by
// calling the identity provider's verification endpoint. Tokens are never
// inspected locally; the provider owns issuance and validity.
type Verifier struct {
	base     string
	key      string
	hc       *http.Client
	profiles domain.ProfileStore // optional; captured on successful verify
}

// New builds a verifier against the provider at base. An empty base is
// allowed so the server can start unconfigured; every Verify then fails.
func New(base, key string, profiles domain.ProfileStore) (*Verifier, error) {
	return &Verifier{
		base:     strings.TrimRight(base, "/"),
		key:      key,
		hc:       &http.Client{Timeout: 10 * time.Second},
		profiles: profiles,
	}, nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" || v.base == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	ident, err := v.remoteVerify(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}

	// Single write path for the user profile: refreshed here on every verified
	// request, never written from anywhere else. Best-effort; an unavailable
	// profile store must not fail authentication.
	if v.profiles != nil {
		if perr := v.profiles.UpsertUser(ctx, profileFor(ident, time.Now().UTC())); perr != nil {
			log.Warn().Err(perr).Str("uid", ident.UID).Msg("user profile upsert failed")
		}
	}
	return ident, nil
}

func (v *Verifier) remoteVerify(ctx context.Context, token string) (domain.Identity, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return domain.Identity{}, err
	}

	// One retry on transport errors / transient 5xx; 4xx is final.
	var lastErr error
	for i := 0; i < 2; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.base+"/v1/tokens:verify", bytes.NewReader(body))
		if err != nil {
			return domain.Identity{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		if v.key != "" {
			req.Header.Set("X-API-Key", v.key)
		}

		start := time.Now()
		resp, err := v.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("identity", "verify", 0, time.Since(start))
			if ctx.Err() != nil {
				return domain.Identity{}, ctx.Err()
			}
			lastErr = err
			if i == 0 && !sleepCtx(ctx, retryDelay) {
				return domain.Identity{}, ctx.Err()
			}
			continue
		}
		observability.ObserveExternal("identity", "verify", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			var ident domain.Identity
			derr := json.NewDecoder(resp.Body).Decode(&ident)
			resp.Body.Close()
			if derr != nil {
				return domain.Identity{}, derr
			}
			if ident.UID == "" {
				return domain.Identity{}, fmt.Errorf("identity: provider returned empty uid")
			}
			return ident, nil

		case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest, http.StatusNotFound:
			resp.Body.Close()
			return domain.Identity{}, domain.ErrInvalidToken

		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("identity: remote %d", resp.StatusCode)
			if i == 0 && !sleepCtx(ctx, retryDelay) {
				return domain.Identity{}, ctx.Err()
			}
		}
	}
	return domain.Identity{}, lastErr
}

// retryDelay sits between the two verify attempts so a briefly unavailable
// provider isn't hit twice back to back.
const retryDelay = 200 * time.Millisecond

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// profileFor maps verified claims onto the persisted profile shape. The
// display name falls back to the email local part, as on first login.
func profileFor(id domain.Identity, now time.Time) domain.UserProfile {
	name := id.Name
	if name == "" {
		if at := strings.IndexByte(id.Email, '@'); at > 0 {
			name = id.Email[:at]
		} else {
			name = id.Email
		}
	}
	return domain.UserProfile{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: name,
		PhotoURL:    id.Photo,
		Provider:    "email",
		CreatedAt:   now,
		LastLoginAt: now,
	}
}
