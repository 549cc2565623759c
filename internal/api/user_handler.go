package api

import (
	"encoding/json"
	"net/http"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

type UserHandler struct {
	sessions *SessionStore
	logger   logger.Logger
}

type AccountResponse struct {
	Username     string  `json:"username"`
	Rank         int     `json:"rank"`
	RankName     string  `json:"rank_name"`
	Balance      float64 `json:"balance"`
	RentedMovies int     `json:"rented_movies"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Rank     int    `json:"rank"`
}

type AddFundsRequest struct {
	Amount float64 `json:"amount"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type ChangeRankRequest struct {
	Rank int `json:"rank"`
}

func NewUserHandler(sessions *SessionStore, logger logger.Logger) *UserHandler {
	return &UserHandler{
		sessions: sessions,
		logger:   logger,
	}
}

func (h *UserHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		Username:     account.Username(),
		Rank:         int(account.Rank()),
		RankName:     account.RankName(),
		Balance:      account.Balance(),
		RentedMovies: account.RentedMoviesAmount(),
	})
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.InsertUser(req.Username, req.Password, domain.Rank(req.Rank)); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

func (h *UserHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var req AddFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.AddFunds(req.Amount); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"balance": account.Balance()})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.ChangePassword(req.Password); err != nil {
		writeModelError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) ChangeRank(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	var req ChangeRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := account.ChangeRank(domain.Rank(req.Rank)); err != nil {
		writeModelError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"rank_name": account.RankName()})
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessions.FromRequest(r)
	if err != nil {
		writeModelError(w, err)
		return
	}

	if err := account.DeleteAccount(); err != nil {
		writeModelError(w, err)
		return
	}

	if token := bearerToken(r); token != "" {
		h.sessions.Delete(token)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/account", h.GetAccount)
	mux.HandleFunc("POST /api/account/funds", h.AddFunds)
	mux.HandleFunc("POST /api/account/password", h.ChangePassword)
	mux.HandleFunc("POST /api/account/rank", h.ChangeRank)
	mux.HandleFunc("DELETE /api/account", h.DeleteAccount)
	mux.HandleFunc("POST /api/users", h.CreateUser)
}
