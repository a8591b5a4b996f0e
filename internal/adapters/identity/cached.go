package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"movie_review/internal/domain"
)

// CachedVerifier fronts a TokenVerifier with a short-TTL claims cache so each
// authenticated request doesn't cost an identity-provider round trip. Keys are
// the SHA-256 of the token; raw tokens never reach the cache. Cache failures
// are soft: the request falls through to the remote verify.
type CachedVerifier struct {
	next   domain.TokenVerifier
	cache  domain.Cache
	ttlSec int
}

func NewCached(next domain.TokenVerifier, cache domain.Cache, ttlSec int) *CachedVerifier {
	if ttlSec <= 0 {
		ttlSec = 300
	}
	return &CachedVerifier{next: next, cache: cache, ttlSec: ttlSec}
}

func (c *CachedVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	key := cacheKey(token)
	var ident domain.Identity
	if ok, _ := c.cache.Get(ctx, key, &ident); ok {
		return ident, nil
	}
	ident, err := c.next.Verify(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	_ = c.cache.Set(ctx, key, ident, c.ttlSec)
	return ident, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "token:" + hex.EncodeToString(sum[:])
}
