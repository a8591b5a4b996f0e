package shared

// FeaturedMovieIDs is the fixed set surfaced on GET /api/movies, resolved
// against the catalog on every request.
var FeaturedMovieIDs = []string{
	"tt1375666", // Inception
	"tt0111161", // The Shawshank Redemption
	"tt0468569", // The Dark Knight
	"tt0137523", // Fight Club
	"tt0109830", // Forrest Gump
	"tt0167260", // The Lord of the Rings: The Return of the King
	"tt0133093", // The Matrix
	"tt0088763", // Back to the Future
	"tt0076759", // Star Wars: Episode IV - A New Hope
	"tt0110912", // Pulp Fiction
}
