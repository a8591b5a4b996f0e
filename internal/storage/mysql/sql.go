package mysql

const insertReviewSQL = `
INSERT INTO reviews
  (id, movie_id, movie_title, rating, comment, user_id, user_email, user_name, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReviewSQL = `
SELECT id, movie_id, movie_title, rating, comment, user_id, user_email, user_name, created_at, updated_at
FROM reviews
WHERE id = ?
`

const updateReviewSQL = `
UPDATE reviews
SET movie_id = ?, movie_title = ?, rating = ?, comment = ?, updated_at = ?
WHERE id = ?
`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

// Newest first; id is the tiebreak for identical timestamps.
const listReviewsSQL = `
SELECT id, movie_id, movie_title, rating, comment, user_id, user_email, user_name, created_at, updated_at
FROM reviews
ORDER BY created_at DESC, id DESC
`

const listReviewsByUserSQL = `
SELECT id, movie_id, movie_title, rating, comment, user_id, user_email, user_name, created_at, updated_at
FROM reviews
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
`

// Refreshed on every verified login; created_at keeps the first-seen value.
const upsertUserSQL = `
INSERT INTO users
  (uid, email, display_name, photo_url, provider, created_at, last_login_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  email         = VALUES(email),
  display_name  = VALUES(display_name),
  photo_url     = VALUES(photo_url),
  last_login_at = VALUES(last_login_at)
`
