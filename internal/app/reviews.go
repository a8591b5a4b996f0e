package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"movie_review/internal/domain"
)

// defaultMovieTitle is stored when a payload carries only a movie id.
const defaultMovieTitle = "Unknown Movie"

// defaultUserName is used when the verified identity has no name claim.
const defaultUserName = "User"

// ReviewPayload is the wire shape for create and update. Identity fields are
// deliberately absent: userId/userEmail/userName come only from the verified
// token, never from the request body.
type ReviewPayload struct {
	MovieID    string `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// ReviewService validates review payloads, binds them to the caller's
// verified identity, and enforces ownership on mutation.
type ReviewService struct {
	repo domain.ReviewRepository
	now  func() time.Time
}

func NewReviewService(repo domain.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo, now: time.Now}
}

// WithClock overrides the timestamp source. Test hook.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// ValidateReview is the pure validation step: no I/O, detected before any
// side effect. Field checks run in a fixed order so the reported message is
// deterministic.
func ValidateReview(p ReviewPayload) (domain.CleanedReview, error) {
	movieID := strings.TrimSpace(p.MovieID)
	movieTitle := strings.TrimSpace(p.MovieTitle)
	comment := strings.TrimSpace(p.Comment)

	if movieID == "" && movieTitle == "" {
		return domain.CleanedReview{}, domain.Invalid("Movie ID or Title is required")
	}
	// Min/Max skip the zero value, so Required carries the rating==0 case
	// (including an omitted field, which decodes to 0).
	if err := validation.Validate(p.Rating,
		validation.Required.Error("Rating must be between 1 and 5"),
		validation.Min(1).Error("Rating must be between 1 and 5"),
		validation.Max(5).Error("Rating must be between 1 and 5"),
	); err != nil {
		return domain.CleanedReview{}, domain.Invalid(err.Error())
	}
	if err := validation.Validate(comment,
		validation.Required.Error("Comment is required"),
	); err != nil {
		return domain.CleanedReview{}, domain.Invalid(err.Error())
	}

	c := domain.CleanedReview{
		MovieTitle: movieTitle,
		Rating:     p.Rating,
		Comment:    comment,
	}
	if movieID != "" {
		c.MovieID = &movieID
	}
	if c.MovieTitle == "" {
		c.MovieTitle = defaultMovieTitle
	}
	return c, nil
}

// Create stamps identity and timestamps onto a cleaned payload and persists
// it. The returned record carries the store-assigned id.
func (s *ReviewService) Create(ctx context.Context, c domain.CleanedReview, ident domain.Identity) (domain.Review, error) {
	now := s.now().UTC()
	r := domain.Review{
		MovieID:    c.MovieID,
		MovieTitle: c.MovieTitle,
		Rating:     c.Rating,
		Comment:    c.Comment,
		UserID:     ident.UID,
		UserEmail:  ident.Email,
		UserName:   displayName(ident),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	stored, err := s.repo.InsertReview(ctx, r)
	if err != nil {
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return stored, nil
}

// Update overwrites the payload fields of an existing review after the
// existence and ownership checks. createdAt and the identity fields are
// preserved from the stored record.
func (s *ReviewService) Update(ctx context.Context, id string, c domain.CleanedReview, ident domain.Identity) (domain.Review, error) {
	existing, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if existing.UserID != ident.UID {
		return domain.Review{}, domain.ErrNotOwner
	}

	existing.MovieID = c.MovieID
	existing.MovieTitle = c.MovieTitle
	existing.Rating = c.Rating
	existing.Comment = c.Comment
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateReview(ctx, existing); err != nil {
		return domain.Review{}, fmt.Errorf("update review: %w", err)
	}
	return existing, nil
}

// Delete removes a review after the same existence and ownership checks as
// Update. Deleting an already-deleted id reports not-found, not success.
func (s *ReviewService) Delete(ctx context.Context, id string, ident domain.Identity) error {
	existing, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != ident.UID {
		return domain.ErrNotOwner
	}
	if err := s.repo.DeleteReview(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// ListAll returns every review, newest first.
func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.repo.ListReviews(ctx)
}

// ListByUser returns the caller's own reviews, newest first.
func (s *ReviewService) ListByUser(ctx context.Context, ident domain.Identity) ([]domain.Review, error) {
	return s.repo.ListReviewsByUser(ctx, ident.UID)
}

func displayName(ident domain.Identity) string {
	if ident.Name != "" {
		return ident.Name
	}
	return defaultUserName
}
