package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
	"moviebrowser/pkg/metrics"
)

// Account is the handle a logged-in user operates through. Every catalog,
// rental and administration action goes through it; the handle enforces rank
// permissions and the rental cap, and keeps its in-memory rented-movies
// counter consistent with storage.
type Account struct {
	user    *domain.User
	users   domain.UserRepository
	movies  domain.MovieRepository
	rentals domain.RentalRepository
	audit   domain.AuditLogRepository
	logger  logger.Logger
}

func NewAccount(
	user *domain.User,
	users domain.UserRepository,
	movies domain.MovieRepository,
	rentals domain.RentalRepository,
	audit domain.AuditLogRepository,
	logger logger.Logger,
) *Account {
	return &Account{
		user:    user,
		users:   users,
		movies:  movies,
		rentals: rentals,
		audit:   audit,
		logger:  logger,
	}
}

func (a *Account) Username() string {
	return a.user.Username
}

func (a *Account) Rank() domain.Rank {
	return a.user.Rank
}

func (a *Account) RankName() string {
	return a.user.Rank.String()
}

func (a *Account) Balance() float64 {
	return a.user.Balance
}

func (a *Account) RentedMoviesAmount() int {
	return a.user.RentedMovies
}

// VerifyPassword checks a plaintext password against the stored hash. The
// stored form is never exposed beyond this predicate.
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.user.PasswordHash), []byte(password)) == nil
}

func (a *Account) AddFunds(funds float64) error {
	if funds < 0 {
		return domain.ValidationError("cannot add negative funds: %.2f", funds)
	}

	a.user.Balance += funds
	if err := a.users.Update(a.user); err != nil {
		a.user.Balance -= funds
		return err
	}

	return nil
}

// ChangeRank is an administration operation: rank governs the rental cap and
// every catalog and user write, so standard users cannot edit their own.
func (a *Account) ChangeRank(rank domain.Rank) error {
	if err := a.requireAdmin("change rank"); err != nil {
		return err
	}
	if !rank.Valid() {
		return domain.ValidationError("invalid rank code %d", int(rank))
	}

	previous := a.user.Rank
	a.user.Rank = rank
	if err := a.users.Update(a.user); err != nil {
		a.user.Rank = previous
		return err
	}

	a.logAction(domain.EntityTypeUser, a.user.ID, domain.ActionTypeUpdate,
		fmt.Sprintf("rank changed from %s to %s", previous, rank))
	return nil
}

func (a *Account) ChangePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return domain.ValidationError("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StorageError(err, "failed to hash password")
	}

	previous := a.user.PasswordHash
	a.user.PasswordHash = string(hash)
	if err := a.users.Update(a.user); err != nil {
		a.user.PasswordHash = previous
		return err
	}

	return nil
}

func (a *Account) IncrementRentedMovies() {
	a.user.RentedMovies++
}

func (a *Account) DecrementRentedMovies() error {
	if a.user.RentedMovies == 0 {
		return domain.StateError("rented movies counter is already zero")
	}
	a.user.RentedMovies--
	return nil
}

func (a *Account) SetRentedMoviesAmount(amount int) error {
	if amount < 0 {
		return domain.ValidationError("rented movies amount cannot be negative: %d", amount)
	}
	a.user.RentedMovies = amount
	return nil
}

func (a *Account) InsertUser(username, password string, rank domain.Rank) error {
	if err := a.requireAdmin("insert user"); err != nil {
		return err
	}

	if strings.TrimSpace(username) == "" {
		return domain.ValidationError("username cannot be empty")
	}
	if strings.TrimSpace(password) == "" {
		return domain.ValidationError("password cannot be empty")
	}
	if !rank.Valid() {
		return domain.ValidationError("invalid rank code %d", int(rank))
	}

	existing, err := a.users.FindByUsername(username)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.StateError("username %q is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StorageError(err, "failed to hash password")
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Rank:         rank,
		Balance:      0,
	}

	if err := a.users.Create(user); err != nil {
		return err
	}

	a.logAction(domain.EntityTypeUser, user.ID, domain.ActionTypeCreate,
		fmt.Sprintf("user %q created with rank %s by %q", username, rank, a.user.Username))
	return nil
}

// UpdateUser persists the handle's current in-memory fields. Calling it twice
// with unchanged state is a no-op the second time.
func (a *Account) UpdateUser() error {
	return a.users.Update(a.user)
}

func (a *Account) InsertMovie(movie *domain.Movie) error {
	if err := a.requireAdmin("insert movie"); err != nil {
		return err
	}
	if err := validateMovie(movie); err != nil {
		return err
	}

	if err := a.movies.Create(movie); err != nil {
		return err
	}

	a.logAction(domain.EntityTypeMovie, movie.ID, domain.ActionTypeCreate,
		fmt.Sprintf("movie %q added by %q", movie.Title, a.user.Username))
	return nil
}

func (a *Account) UpdateMovie(movie *domain.Movie) error {
	if err := a.requireAdmin("update movie"); err != nil {
		return err
	}
	if movie == nil || movie.ID == 0 {
		return domain.ValidationError("movie has no identity")
	}
	if err := validateMovie(movie); err != nil {
		return err
	}

	if err := a.movies.Update(movie); err != nil {
		return err
	}

	a.logAction(domain.EntityTypeMovie, movie.ID, domain.ActionTypeUpdate,
		fmt.Sprintf("movie %q updated by %q", movie.Title, a.user.Username))
	return nil
}

// Movies returns catalog entries matching every supplied criterion. An empty
// criteria map returns the whole catalog.
func (a *Account) Movies(criteria map[domain.SearchCriterion]string) ([]*domain.Movie, error) {
	return a.movies.Search(criteria)
}

func (a *Account) DeleteMovie(movie *domain.Movie) error {
	if err := a.requireAdmin("delete movie"); err != nil {
		return err
	}
	if movie == nil || movie.ID == 0 {
		return domain.ValidationError("movie has no identity")
	}

	if err := a.movies.Delete(movie.ID); err != nil {
		return err
	}

	a.logAction(domain.EntityTypeMovie, movie.ID, domain.ActionTypeDelete,
		fmt.Sprintf("movie %q deleted by %q", movie.Title, a.user.Username))
	return nil
}

func (a *Account) RentMovie(movie *domain.Movie) error {
	if movie == nil || movie.ID == 0 {
		return domain.ValidationError("movie has no identity")
	}

	// Callers often hold only the id; resolve the catalog entry so the
	// audit detail names the movie.
	stored, err := a.movies.FindByID(movie.ID)
	if err != nil {
		return err
	}
	if stored == nil {
		err := domain.StateError("movie %d is not in the catalog", movie.ID)
		metrics.RecordRental("rent", err)
		return err
	}

	limit := a.user.Rank.RentalCap()
	if limit > 0 && a.user.RentedMovies >= limit {
		err := domain.StateError("rental cap of %d reached", limit)
		metrics.RecordRental("rent", err)
		return err
	}

	rental, err := a.rentals.Rent(a.user.ID, movie.ID, domain.RentalFee, time.Now())
	metrics.RecordRental("rent", err)
	if err != nil {
		return err
	}

	a.user.Balance -= domain.RentalFee
	a.user.RentedMovies++

	a.logAction(domain.EntityTypeRental, rental.ID, domain.ActionTypeRent,
		fmt.Sprintf("movie %q rented by %q", stored.Title, a.user.Username))
	return nil
}

func (a *Account) RentedMovies() ([]*domain.Movie, error) {
	return a.rentals.ActiveMovies(a.user.ID)
}

// RentingDate returns the start or return date of the user's most recent
// rental of the movie as YYYY-MM-DD text. While the rental is open the
// return date reads as the active sentinel.
func (a *Account) RentingDate(movie *domain.Movie, mode domain.DateMode) (string, error) {
	if movie == nil || movie.ID == 0 {
		return "", domain.ValidationError("movie has no identity")
	}

	rental, err := a.rentals.FindLatest(a.user.ID, movie.ID)
	if err != nil {
		return "", err
	}
	if rental == nil {
		return "", domain.StateError("user %q never rented movie %d", a.user.Username, movie.ID)
	}

	switch mode {
	case domain.DateModeStart:
		return rental.StartDate.Format(domain.DateLayout), nil
	case domain.DateModeReturn:
		if rental.ReturnDate == nil {
			return domain.ActiveRentalLabel, nil
		}
		return rental.ReturnDate.Format(domain.DateLayout), nil
	default:
		return "", domain.ValidationError("unknown date mode %d", int(mode))
	}
}

func (a *Account) EndRental(movie *domain.Movie) error {
	if movie == nil || movie.ID == 0 {
		return domain.ValidationError("movie has no identity")
	}

	err := a.rentals.EndRental(a.user.ID, movie.ID, time.Now())
	metrics.RecordRental("return", err)
	if err != nil {
		return err
	}

	if a.user.RentedMovies > 0 {
		a.user.RentedMovies--
	}

	// Key the return row by the rental id, same as the rent row, so the two
	// correlate under FindByEntityID.
	entityID := movie.ID
	if rental, err := a.rentals.FindLatest(a.user.ID, movie.ID); err == nil && rental != nil {
		entityID = rental.ID
	}

	title := movie.Title
	if stored, err := a.movies.FindByID(movie.ID); err == nil && stored != nil {
		title = stored.Title
	}

	a.logAction(domain.EntityTypeRental, entityID, domain.ActionTypeReturn,
		fmt.Sprintf("movie %q returned by %q", title, a.user.Username))
	return nil
}

// DeleteAccount removes the user row and dormant rental history. Storage
// rejects the deletion while active rentals remain.
func (a *Account) DeleteAccount() error {
	if err := a.users.Delete(a.user.ID); err != nil {
		return err
	}

	a.logAction(domain.EntityTypeUser, a.user.ID, domain.ActionTypeDelete,
		fmt.Sprintf("account %q deleted", a.user.Username))
	return nil
}

func (a *Account) requireAdmin(action string) error {
	if a.user.Rank != domain.RankAdmin {
		return domain.AuthorizationError("%s requires administrator rank, %q is a %s", action, a.user.Username, a.user.Rank)
	}
	return nil
}

func validateMovie(movie *domain.Movie) error {
	if movie == nil {
		return domain.ValidationError("movie is required")
	}
	if strings.TrimSpace(movie.Author) == "" ||
		strings.TrimSpace(movie.Title) == "" ||
		strings.TrimSpace(movie.Genre) == "" {
		return domain.ValidationError("movie author, title and genre are required")
	}
	if movie.Year <= 0 {
		return domain.ValidationError("movie year %d is invalid", movie.Year)
	}
	return nil
}

func (a *Account) logAction(entityType domain.EntityType, entityID int64, action domain.ActionType, details string) {
	auditLog := &domain.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
		CreatedAt:  time.Now(),
	}

	if err := a.audit.Create(auditLog); err != nil {
		a.logger.Error("failed to create audit log", map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID,
			"action":      action,
			"error":       err.Error(),
		})
	}
}
