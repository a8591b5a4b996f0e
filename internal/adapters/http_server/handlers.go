// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"movie_review/internal/app"
	"movie_review/internal/domain"
)

type Handlers struct {
	Reviews  *app.ReviewService
	Catalog  *app.CatalogService
	Verifier domain.TokenVerifier
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.root)
	s.mux.Get("/api/health", h.health)
	s.mux.Get("/api/movies", h.listMovies)
	s.mux.Get("/api/movies/search", h.searchMovies)
	s.mux.Get("/api/movies/{id}", h.movieDetails)
	s.mux.Get("/api/reviews", h.listReviews)

	s.mux.Group(func(r chi.Router) {
		r.Use(Auth(h.Verifier))
		r.Post("/api/reviews", h.createReview)
		r.Put("/api/reviews/{id}", h.updateReview)
		r.Delete("/api/reviews/{id}", h.deleteReview)
		r.Get("/api/my-reviews", h.myReviews)
	})

	if s.env == "dev" || s.env == "development" {
		s.mux.Post("/api/debug/review", h.debugReview)
	}

	s.mux.NotFound(notFound)
}

// ---- envelope helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// ---- movies ----

func (h *Handlers) listMovies(w http.ResponseWriter, r *http.Request) {
	res, err := h.Catalog.ListFeatured(r.Context())
	if err != nil {
		fail(w, http.StatusInternalServerError, "Failed to fetch movies from OMDb API")
		return
	}
	note := "Data provided by OMDb API"
	if res.Fallback {
		note = "Using fallback data due to OMDb API issues"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(res.Movies),
		"movies":  res.Movies,
		"note":    note,
	})
}

func (h *Handlers) searchMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	movies, err := h.Catalog.Search(r.Context(), query)
	if err != nil {
		if domain.IsValidation(err) {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("query", query).Msg("movie search failed")
		fail(w, http.StatusInternalServerError, "Failed to search movies")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(movies),
		"query":   query,
		"movies":  movies,
	})
}

func (h *Handlers) movieDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	movie, err := h.Catalog.GetDetails(r.Context(), id)
	if err != nil {
		fail(w, http.StatusNotFound, "Movie not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "movie": movie})
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		fail(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "Authentication token required")
		return
	}
	cleaned, ok := decodeAndValidate(w, r)
	if !ok {
		return
	}
	review, err := h.Reviews.Create(r.Context(), cleaned, ident)
	if err != nil {
		log.Error().Err(err).Str("uid", ident.UID).Msg("create review failed")
		fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Review created successfully",
		"review":  review,
	})
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "Authentication token required")
		return
	}
	id := chi.URLParam(r, "id")
	cleaned, ok := decodeAndValidate(w, r)
	if !ok {
		return
	}
	review, err := h.Reviews.Update(r.Context(), id, cleaned, ident)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fail(w, http.StatusNotFound, "Review not found")
	case errors.Is(err, domain.ErrNotOwner):
		fail(w, http.StatusForbidden, "Not authorized to update this review")
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("update review failed")
		fail(w, http.StatusInternalServerError, "Failed to update review")
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "Review updated successfully",
			"reviewId": id,
			"review":   review,
		})
	}
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "Authentication token required")
		return
	}
	id := chi.URLParam(r, "id")
	err := h.Reviews.Delete(r.Context(), id, ident)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fail(w, http.StatusNotFound, "Review not found")
	case errors.Is(err, domain.ErrNotOwner):
		fail(w, http.StatusForbidden, "Not authorized to delete this review")
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("delete review failed")
		fail(w, http.StatusInternalServerError, "Failed to delete review")
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"message":  "Review deleted successfully",
			"reviewId": id,
		})
	}
}

func (h *Handlers) myReviews(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "Authentication token required")
		return
	}
	reviews, err := h.Reviews.ListByUser(r.Context(), ident)
	if err != nil {
		log.Error().Err(err).Str("uid", ident.UID).Msg("list user reviews failed")
		fail(w, http.StatusInternalServerError, "Failed to fetch your reviews")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}

// decodeAndValidate handles the shared body decode + pure validation step for
// create and update. Writes the 400 envelope itself and reports success.
func decodeAndValidate(w http.ResponseWriter, r *http.Request) (domain.CleanedReview, bool) {
	var payload app.ReviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return domain.CleanedReview{}, false
	}
	cleaned, err := app.ValidateReview(payload)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return domain.CleanedReview{}, false
	}
	return cleaned, true
}

// ---- service endpoints ----

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "MySQL (connected)",
		"omdbApi":   "Connected",
	})
}

func (h *Handlers) debugReview(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	log.Info().Interface("body", body).Msg("debug review payload")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Debug endpoint - check server logs",
		"receivedData": body,
	})
}

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Movie Review API Server with OMDb Integration",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": map[string]string{
			"health":       "/api/health",
			"movies":       "/api/movies",
			"movieSearch":  "/api/movies/search?query=matrix",
			"movieDetails": "/api/movies/tt0133093",
			"reviews":      "/api/reviews",
			"myReviews":    "/api/my-reviews",
		},
		"instructions": map[string]string{
			"authentication": "Use identity token in Authorization header as Bearer token",
			"reviewCreation": "Send { movieId, movieTitle, rating, comment } in request body",
		},
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"error":   "Route " + r.URL.Path + " not found",
		"availableEndpoints": map[string]string{
			"health":       "GET /api/health",
			"movies":       "GET /api/movies",
			"movieSearch":  "GET /api/movies/search?query=matrix",
			"movieDetails": "GET /api/movies/:id",
			"reviews":      "GET /api/reviews",
			"createReview": "POST /api/reviews",
			"updateReview": "PUT /api/reviews/:id",
			"deleteReview": "DELETE /api/reviews/:id",
			"myReviews":    "GET /api/my-reviews",
		},
	})
}
