package app

import (
	"strconv"
	"strings"

	"movie_review/internal/domain"
)

// placeholderPoster is served whenever the catalog has no usable poster URL.
const placeholderPoster = "https://via.placeholder.com/300x450?text=No+Poster"

/********** tiny helpers **********/

// str returns the string at key, or "" when absent or not a string.
func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// parseRuntime extracts the leading integer from values like "148 min".
// Anything unparsable (including "N/A") maps to 0.
func parseRuntime(s string) int {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// splitGenres turns OMDb's comma-joined genre string into an ordered list.
func splitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func posterOrPlaceholder(s string) string {
	if s == "" || s == "N/A" {
		return placeholderPoster
	}
	return s
}

/********** projections **********/

// mapMovie is the pure projection of a raw OMDb payload into the list shape.
func mapMovie(m map[string]any) domain.Movie {
	return domain.Movie{
		ID:          str(m, "imdbID"),
		Title:       str(m, "Title"),
		Overview:    str(m, "Plot"),
		ReleaseDate: str(m, "Released"),
		Runtime:     parseRuntime(str(m, "Runtime")),
		Genres:      splitGenres(str(m, "Genre")),
		PosterPath:  posterOrPlaceholder(str(m, "Poster")),
		IMDbRating:  str(m, "imdbRating"),
		Director:    str(m, "Director"),
		Actors:      str(m, "Actors"),
		Year:        str(m, "Year"),
	}
}

// mapMovieDetails extends mapMovie with the detail-only fields.
func mapMovieDetails(m map[string]any) domain.Movie {
	mv := mapMovie(m)
	mv.BoxOffice = str(m, "BoxOffice")
	mv.Country = str(m, "Country")
	mv.Language = str(m, "Language")
	mv.Awards = str(m, "Awards")
	return mv
}

// fallbackMovies is the static set served when every featured lookup fails.
func fallbackMovies() []domain.Movie {
	return []domain.Movie{
		{
			ID:          "tt1375666",
			Title:       "Inception",
			Overview:    "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
			ReleaseDate: "2010-07-16",
			Runtime:     148,
			Genres:      []string{"Action", "Sci-Fi", "Thriller"},
			PosterPath:  "https://image.tmdb.org/t/p/w500/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg",
			IMDbRating:  "8.8",
			Director:    "Christopher Nolan",
			Actors:      "Leonardo DiCaprio, Joseph Gordon-Levitt, Ellen Page",
			Year:        "2010",
		},
		{
			ID:          "tt0111161",
			Title:       "The Shawshank Redemption",
			Overview:    "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			ReleaseDate: "1994-09-23",
			Runtime:     142,
			Genres:      []string{"Drama"},
			PosterPath:  "https://image.tmdb.org/t/p/w500/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
			IMDbRating:  "9.3",
			Director:    "Frank Darabont",
			Actors:      "Tim Robbins, Morgan Freeman, Bob Gunton",
			Year:        "1994",
		},
		{
			ID:          "tt0468569",
			Title:       "The Dark Knight",
			Overview:    "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests.",
			ReleaseDate: "2008-07-18",
			Runtime:     152,
			Genres:      []string{"Action", "Crime", "Drama"},
			PosterPath:  "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
			IMDbRating:  "9.0",
			Director:    "Christopher Nolan",
			Actors:      "Christian Bale, Heath Ledger, Aaron Eckhart",
			Year:        "2008",
		},
	}
}
