package domain

import "context"

type ReviewRepository interface {
	// InsertReview assigns the id and returns the stored record.
	InsertReview(ctx context.Context, r Review) (Review, error)
	GetReview(ctx context.Context, id string) (Review, error)
	UpdateReview(ctx context.Context, r Review) error
	DeleteReview(ctx context.Context, id string) error
	ListReviews(ctx context.Context) ([]Review, error)
	ListReviewsByUser(ctx context.Context, userID string) ([]Review, error)
}

type ProfileStore interface {
	UpsertUser(ctx context.Context, u UserProfile) error
}

// CatalogClient talks to the external movie catalog. Payloads stay raw maps;
// the app layer owns the projection into Movie.
type CatalogClient interface {
	GetMovie(ctx context.Context, imdbID string) (map[string]any, error)
	SearchMovies(ctx context.Context, query string) ([]map[string]any, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
