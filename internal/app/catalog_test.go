package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"movie_review/internal/app"
	"movie_review/internal/domain"
)

// fakeCatalog serves canned OMDb-shaped payloads and counts calls. Safe for
// the service's concurrent fan-out.
type fakeCatalog struct {
	mu      sync.Mutex
	movies  map[string]map[string]any
	hits    []map[string]any
	gets    int
	queries int
}

func (f *fakeCatalog) GetMovie(ctx context.Context, id string) (map[string]any, error) {
	f.mu.Lock()
	f.gets++
	f.mu.Unlock()
	if m, ok := f.movies[id]; ok {
		return m, nil
	}
	return nil, errors.New("omdb: not found")
}

func (f *fakeCatalog) SearchMovies(ctx context.Context, q string) ([]map[string]any, error) {
	f.mu.Lock()
	f.queries++
	f.mu.Unlock()
	return f.hits, nil
}

func payload(id, title string) map[string]any {
	return map[string]any{
		"imdbID":   id,
		"Title":    title,
		"Plot":     "plot of " + title,
		"Released": "2010-01-01",
		"Runtime":  "120 min",
		"Genre":    "Drama, Thriller",
		"Poster":   "https://img.example/" + id + ".jpg",
		"Response": "True",
	}
}

func TestSearch_EmptyQueryNeverGoesUpstream(t *testing.T) {
	client := &fakeCatalog{}
	svc := app.NewCatalogService(client, nil, 4)

	_, err := svc.Search(context.Background(), "   ")
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Search query is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if client.queries != 0 || client.gets != 0 {
		t.Fatalf("upstream contacted: queries=%d gets=%d", client.queries, client.gets)
	}
}

func TestListFeatured_TotalFailureServesFallback(t *testing.T) {
	client := &fakeCatalog{} // every lookup fails
	svc := app.NewCatalogService(client, []string{"tt1", "tt2", "tt3"}, 4)

	res, err := svc.ListFeatured(context.Background())
	if err != nil {
		t.Fatalf("fallback must not surface as error: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected fallback flag")
	}
	if len(res.Movies) != 3 || res.Movies[0].Title != "Inception" {
		t.Fatalf("unexpected fallback set: %+v", res.Movies)
	}
}

func TestListFeatured_PartialFailuresDropped(t *testing.T) {
	client := &fakeCatalog{movies: map[string]map[string]any{
		"tt1": payload("tt1", "First"),
		"tt3": payload("tt3", "Third"),
	}}
	svc := app.NewCatalogService(client, []string{"tt1", "tt2", "tt3"}, 4)

	res, err := svc.ListFeatured(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Fallback {
		t.Fatal("fallback flag set on partial failure")
	}
	if len(res.Movies) != 2 || res.Movies[0].ID != "tt1" || res.Movies[1].ID != "tt3" {
		t.Fatalf("expected fulfilled items in id order, got %+v", res.Movies)
	}
}

func TestSearch_ResolvesAtMostFiveDetails(t *testing.T) {
	client := &fakeCatalog{movies: map[string]map[string]any{}}
	for _, id := range []string{"tt1", "tt2", "tt3", "tt4", "tt5", "tt6", "tt7"} {
		client.movies[id] = payload(id, "Movie "+id)
		client.hits = append(client.hits, map[string]any{"imdbID": id, "Title": "Movie " + id})
	}
	svc := app.NewCatalogService(client, nil, 4)

	movies, err := svc.Search(context.Background(), "movie")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(movies) != 5 {
		t.Fatalf("expected 5 results, got %d", len(movies))
	}
	if client.gets != 5 {
		t.Fatalf("expected 5 detail fetches, got %d", client.gets)
	}
}

func TestSearch_DetailFailuresOmitted(t *testing.T) {
	client := &fakeCatalog{
		movies: map[string]map[string]any{"tt1": payload("tt1", "Kept")},
		hits: []map[string]any{
			{"imdbID": "tt1"},
			{"imdbID": "tt-broken"},
		},
	}
	svc := app.NewCatalogService(client, nil, 4)

	movies, err := svc.Search(context.Background(), "kept")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Kept" {
		t.Fatalf("unexpected results: %+v", movies)
	}
}

func TestGetDetails_ProjectsDetailFields(t *testing.T) {
	p := payload("tt0133093", "The Matrix")
	p["BoxOffice"] = "$172,076,928"
	p["Country"] = "United States"
	client := &fakeCatalog{movies: map[string]map[string]any{"tt0133093": p}}
	svc := app.NewCatalogService(client, nil, 4)

	mv, err := svc.GetDetails(context.Background(), "tt0133093")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if mv.BoxOffice != "$172,076,928" || mv.Country != "United States" {
		t.Fatalf("detail fields missing: %+v", mv)
	}
	if mv.Runtime != 120 {
		t.Fatalf("runtime: %d", mv.Runtime)
	}
	if len(mv.Genres) != 2 || mv.Genres[0] != "Drama" || mv.Genres[1] != "Thriller" {
		t.Fatalf("genres: %+v", mv.Genres)
	}
}

func TestGetDetails_UnknownID(t *testing.T) {
	svc := app.NewCatalogService(&fakeCatalog{}, nil, 4)
	if _, err := svc.GetDetails(context.Background(), "tt0"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestMovieProjection_EdgeCases(t *testing.T) {
	p := payload("tt9", "Edge")
	p["Runtime"] = "N/A"
	p["Poster"] = "N/A"
	p["Genre"] = ""
	client := &fakeCatalog{movies: map[string]map[string]any{"tt9": p}}
	svc := app.NewCatalogService(client, nil, 4)

	mv, err := svc.GetDetails(context.Background(), "tt9")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if mv.Runtime != 0 {
		t.Fatalf("unparsable runtime should map to 0, got %d", mv.Runtime)
	}
	if mv.PosterPath != "https://via.placeholder.com/300x450?text=No+Poster" {
		t.Fatalf("missing poster should map to placeholder, got %q", mv.PosterPath)
	}
	if len(mv.Genres) != 0 {
		t.Fatalf("empty genre string should map to empty list, got %+v", mv.Genres)
	}
}
