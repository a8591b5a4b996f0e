package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"movie_review/internal/domain"
)

// searchDetailLimit caps how many search hits get a full detail lookup.
const searchDetailLimit = 5

// CatalogService fronts the external movie catalog: featured listing with a
// static fallback, free-text search, and detail lookups. Nothing is persisted
// or cached; every call goes upstream.
type CatalogService struct {
	client      domain.CatalogClient
	featured    []string
	maxParallel int
}

func NewCatalogService(client domain.CatalogClient, featured []string, maxParallel int) *CatalogService {
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &CatalogService{client: client, featured: featured, maxParallel: maxParallel}
}

// ListFeatured resolves the fixed id set concurrently, keeping whatever
// succeeds in id-list order. Partial failure is tolerated silently; only when
// every lookup fails does the static fallback set get served, still as a
// success.
func (s *CatalogService) ListFeatured(ctx context.Context) (domain.FeaturedResult, error) {
	movies := s.resolveDetails(ctx, s.featured)
	if len(movies) == 0 {
		log.Warn().Int("ids", len(s.featured)).Msg("all featured lookups failed, serving fallback data")
		return domain.FeaturedResult{Movies: fallbackMovies(), Fallback: true}, nil
	}
	return domain.FeaturedResult{Movies: movies}, nil
}

// Search runs a catalog text search and resolves full details for at most the
// first searchDetailLimit hits, dropping entries whose detail fetch fails.
// A blank query is rejected before any upstream call.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.Invalid("Search query is required")
	}
	hits, err := s.client.SearchMovies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	ids := make([]string, 0, searchDetailLimit)
	for _, h := range hits {
		if id := str(h, "imdbID"); id != "" {
			ids = append(ids, id)
			if len(ids) == searchDetailLimit {
				break
			}
		}
	}
	return s.resolveDetails(ctx, ids), nil
}

// GetDetails fetches one movie by catalog id, including the detail-only
// fields. Upstream misses match domain.ErrNotFound.
func (s *CatalogService) GetDetails(ctx context.Context, id string) (domain.Movie, error) {
	raw, err := s.client.GetMovie(ctx, id)
	if err != nil {
		return domain.Movie{}, err
	}
	return mapMovieDetails(raw), nil
}

// resolveDetails fans out one GetMovie per id with bounded concurrency.
// Failed lookups are dropped; fulfilled ones keep the input order.
func (s *CatalogService) resolveDetails(ctx context.Context, ids []string) []domain.Movie {
	results := make([]*domain.Movie, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			raw, err := s.client.GetMovie(gctx, id)
			if err != nil {
				log.Debug().Str("id", id).Err(err).Msg("movie lookup failed, dropping")
				return nil // per-item failure isolation
			}
			mv := mapMovie(raw)
			results[i] = &mv
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	out := make([]domain.Movie, 0, len(ids))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
