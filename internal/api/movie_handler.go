package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

type MovieHandler struct {
	sessions *SessionStore
	logger   logger.Logger
}

func NewMovieHandler(sessions *SessionStore, logger logger.Logger) *MovieHandler {
	return &MovieHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// SearchMovies maps the author, title, genre and year query parameters onto
// search criteria; all supplied criteria must match.
func (h *MovieHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	criteria := make(map[domain.SearchCriterion]string)
	for _, criterion := range []domain.SearchCriterion{
		domain.CriterionAuthor,
		domain.CriterionTitle,
		domain.CriterionGenre,
		domain.CriterionYear,
	} {
		if value := r.URL.Query().Get(string(criterion)); value != "" {
			criteria[criterion] = value
		}
	}

	movies, err := account.Movies(criteria)
	if err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) InsertMovie(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var movie domain.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.InsertMovie(&movie); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var movie domain.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.UpdateMovie(&movie); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	if err := account.DeleteMovie(&domain.Movie{ID: id}); err != nil {
		writeModelError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MovieHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/movies", h.SearchMovies)
	mux.HandleFunc("POST /api/movies", h.InsertMovie)
	mux.HandleFunc("PUT /api/movies", h.UpdateMovie)
	mux.HandleFunc("DELETE /api/movies", h.DeleteMovie)
}
