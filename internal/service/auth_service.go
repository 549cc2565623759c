package service

import (
	"golang.org/x/crypto/bcrypt"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
	"moviebrowser/pkg/metrics"
)

type AuthService struct {
	users   domain.UserRepository
	movies  domain.MovieRepository
	rentals domain.RentalRepository
	audit   domain.AuditLogRepository
	logger  logger.Logger
}

func NewAuthService(
	users domain.UserRepository,
	movies domain.MovieRepository,
	rentals domain.RentalRepository,
	audit domain.AuditLogRepository,
	logger logger.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		movies:  movies,
		rentals: rentals,
		audit:   audit,
		logger:  logger,
	}
}

// Authenticate verifies the credentials and returns the account handle. The
// rented-movies counter is hydrated from storage so the handle starts out
// consistent with the rentals table.
func (s *AuthService) Authenticate(username, password string) (*Account, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		metrics.RecordLogin(false)
		return nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("login rejected", map[string]interface{}{"username": username})
		metrics.RecordLogin(false)
		return nil, domain.AuthorizationError("invalid username or password")
	}

	rented, err := s.rentals.CountActive(user.ID)
	if err != nil {
		metrics.RecordLogin(false)
		return nil, err
	}
	user.RentedMovies = rented

	s.logger.Info("user logged in", map[string]interface{}{
		"username": user.Username,
		"rank":     user.Rank.String(),
	})
	metrics.RecordLogin(true)

	return NewAccount(user, s.users, s.movies, s.rentals, s.audit, s.logger), nil
}
