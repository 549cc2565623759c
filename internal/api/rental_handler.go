package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

type RentalHandler struct {
	sessions *SessionStore
	logger   logger.Logger
}

type RentalRequest struct {
	MovieID int64 `json:"movie_id"`
}

func NewRentalHandler(sessions *SessionStore, logger logger.Logger) *RentalHandler {
	return &RentalHandler{
		sessions: sessions,
		logger:   logger,
	}
}

func (h *RentalHandler) RentMovie(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var req RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.RentMovie(&domain.Movie{ID: req.MovieID}); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"balance":       account.Balance(),
		"rented_movies": account.RentedMoviesAmount(),
	})
}

func (h *RentalHandler) ReturnMovie(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var req RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.EndRental(&domain.Movie{ID: req.MovieID}); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rented_movies": account.RentedMoviesAmount(),
	})
}

func (h *RentalHandler) RentedMovies(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	movies, err := account.RentedMovies()
	if err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func (h *RentalHandler) RentingDate(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	movieID, err := strconv.ParseInt(r.URL.Query().Get("movie_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	mode := domain.DateModeStart
	if r.URL.Query().Get("mode") == "return" {
		mode = domain.DateModeReturn
	}

	date, err := account.RentingDate(&domain.Movie{ID: movieID}, mode)
	if err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"date": date})
}

func (h *RentalHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rentals/rent", h.RentMovie)
	mux.HandleFunc("POST /api/rentals/return", h.ReturnMovie)
	mux.HandleFunc("GET /api/rentals", h.RentedMovies)
	mux.HandleFunc("GET /api/rentals/date", h.RentingDate)
}
