package domain

// Movie is the normalized projection of one catalog entry. Never persisted;
// fetched fresh from the upstream catalog on every request.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"releaseDate"`
	Runtime     int      `json:"runtime"`
	Genres      []string `json:"genres"`
	PosterPath  string   `json:"posterPath"`
	IMDbRating  string   `json:"imdbRating"`
	Director    string   `json:"director"`
	Actors      string   `json:"actors"`
	Year        string   `json:"year"`

	// detail-only fields
	BoxOffice string `json:"boxOffice,omitempty"`
	Country   string `json:"country,omitempty"`
	Language  string `json:"language,omitempty"`
	Awards    string `json:"awards,omitempty"`
}

// FeaturedResult carries the featured listing plus a flag telling the caller
// that the static fallback set was served because the upstream was down.
type FeaturedResult struct {
	Movies   []Movie
	Fallback bool
}
