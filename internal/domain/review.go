package domain

import "time"

// Review is one user's rating + comment for a movie. The id is assigned by the
// store on insert and never reused; userId is stamped from the verified token
// and is the sole authorization key for update/delete.
type Review struct {
	ID         string    `json:"id"`
	MovieID    *string   `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	UserID     string    `json:"userId"`
	UserEmail  string    `json:"userEmail"`
	UserName   string    `json:"userName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CleanedReview is a validated, normalized review payload: trimmed fields,
// MovieID nil when absent, MovieTitle defaulted when absent.
type CleanedReview struct {
	MovieID    *string
	MovieTitle string
	Rating     int
	Comment    string
}

// Identity is the result of verifying a bearer token with the identity
// provider. Name may be empty; callers decide the display fallback.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photoUrl"`
}

// UserProfile is the denormalized per-user record kept alongside reviews.
// Refreshed on every verified login, consumed read-only elsewhere.
type UserProfile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoUrl"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}
