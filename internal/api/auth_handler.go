package api

import (
	"encoding/json"
	"net/http"

	"moviebrowser/internal/service"
	"moviebrowser/pkg/logger"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *SessionStore
	logger   logger.Logger
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string  `json:"token"`
	Username     string  `json:"username"`
	RankName     string  `json:"rank_name"`
	Balance      float64 `json:"balance"`
	RentedMovies int     `json:"rented_movies"`
}

func NewAuthHandler(auth *service.AuthService, sessions *SessionStore, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		return
	}

	token, err := h.sessions.Create(account)
	if err != nil {
		h.logger.Error("failed to create session", map[string]interface{}{"error": err.Error()})
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:        token,
		Username:     account.Username(),
		RankName:     account.RankName(),
		Balance:      account.Balance(),
		RentedMovies: account.RentedMoviesAmount(),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.Delete(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
}
