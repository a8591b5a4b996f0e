package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"movie_review/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertReview assigns the record id here, at the store boundary, and returns
// the row as persisted.
func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	rv.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		valStr(rv.MovieID),
		rv.MovieTitle,
		rv.Rating,
		rv.Comment,
		rv.UserID,
		rv.UserEmail,
		rv.UserName,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return rv, nil
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx, getReviewSQL, id)
	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Review{}, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *Repo) UpdateReview(ctx context.Context, rv domain.Review) error {
	res, err := r.db.ExecContext(ctx, updateReviewSQL,
		valStr(rv.MovieID),
		rv.MovieTitle,
		rv.Rating,
		rv.Comment,
		rv.UpdatedAt,
		rv.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// row vanished between the ownership read and this write
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteReview(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteReviewSQL, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return r.listReviews(ctx, listReviewsSQL)
}

func (r *Repo) ListReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return r.listReviews(ctx, listReviewsByUserSQL, userID)
}

func (r *Repo) listReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (domain.Review, error) {
	var rv domain.Review
	var movieID sql.NullString
	if err := row.Scan(
		&rv.ID,
		&movieID,
		&rv.MovieTitle,
		&rv.Rating,
		&rv.Comment,
		&rv.UserID,
		&rv.UserEmail,
		&rv.UserName,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	); err != nil {
		return domain.Review{}, err
	}
	if movieID.Valid {
		s := movieID.String
		rv.MovieID = &s
	}
	return rv, nil
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.UID,
		u.Email,
		u.DisplayName,
		u.PhotoURL,
		u.Provider,
		u.CreatedAt,
		u.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
