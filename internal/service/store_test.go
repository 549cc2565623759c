package service

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

// memStore is an in-memory stand-in for the sqlite repositories. It mirrors
// their state-error semantics so account tests exercise the same contract.
type memStore struct {
	users   map[int64]*domain.User
	movies  map[int64]*domain.Movie
	rentals map[int64]*domain.Rental
	logs    []*domain.AuditLog
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[int64]*domain.User),
		movies:  make(map[int64]*domain.Movie),
		rentals: make(map[int64]*domain.Rental),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func hashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func (s *memStore) seedAdmin() *domain.User {
	admin := &domain.User{
		ID:           s.id(),
		Username:     "admin",
		PasswordHash: hashPassword("Password"),
		Rank:         domain.RankAdmin,
	}
	s.users[admin.ID] = admin
	return admin
}

// UserRepository

func (s *memStore) FindByID(id int64) (*domain.User, error) {
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (s *memStore) FindByUsername(username string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(user *domain.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.StorageError(nil, "UNIQUE constraint failed: users.username")
		}
	}
	user.ID = s.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memStore) Update(user *domain.User) error {
	user.UpdatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memStore) Delete(id int64) error {
	active := 0
	for _, rental := range s.rentals {
		if rental.UserID == id && rental.Active() {
			active++
		}
	}
	if active > 0 {
		return domain.StateError("account has %d active rentals, return them first", active)
	}

	for rentalID, rental := range s.rentals {
		if rental.UserID == id {
			delete(s.rentals, rentalID)
		}
	}
	delete(s.users, id)
	return nil
}

// movieRepo wraps memStore so the Movie and User repositories can both be
// satisfied without method collisions.
type movieRepo struct{ store *memStore }

func (r movieRepo) FindByID(id int64) (*domain.Movie, error) {
	if movie, ok := r.store.movies[id]; ok {
		copied := *movie
		return &copied, nil
	}
	return nil, nil
}

func (r movieRepo) Search(criteria map[domain.SearchCriterion]string) ([]*domain.Movie, error) {
	for criterion := range criteria {
		if !criterion.Valid() {
			return nil, domain.ValidationError("unknown search criterion %q", string(criterion))
		}
	}

	matches := make([]*domain.Movie, 0)
	for _, movie := range r.store.movies {
		if movieMatches(movie, criteria) {
			copied := *movie
			matches = append(matches, &copied)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Title != matches[j].Title {
			return matches[i].Title < matches[j].Title
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func movieMatches(movie *domain.Movie, criteria map[domain.SearchCriterion]string) bool {
	for criterion, value := range criteria {
		switch criterion {
		case domain.CriterionAuthor:
			if !strings.Contains(strings.ToLower(movie.Author), strings.ToLower(value)) {
				return false
			}
		case domain.CriterionTitle:
			if !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(value)) {
				return false
			}
		case domain.CriterionGenre:
			if !strings.Contains(strings.ToLower(movie.Genre), strings.ToLower(value)) {
				return false
			}
		case domain.CriterionYear:
			if strings.TrimSpace(value) != strconv.Itoa(movie.Year) {
				return false
			}
		}
	}
	return true
}

func (r movieRepo) Create(movie *domain.Movie) error {
	for _, existing := range r.store.movies {
		if existing.Author == movie.Author && existing.Title == movie.Title && existing.Year == movie.Year {
			return domain.StateError("movie %q by %s (%d) already exists", movie.Title, movie.Author, movie.Year)
		}
	}
	movie.ID = r.store.id()
	copied := *movie
	r.store.movies[movie.ID] = &copied
	return nil
}

func (r movieRepo) Update(movie *domain.Movie) error {
	copied := *movie
	r.store.movies[movie.ID] = &copied
	return nil
}

func (r movieRepo) Delete(id int64) error {
	for _, rental := range r.store.rentals {
		if rental.MovieID == id && rental.Active() {
			return domain.StateError("movie %d has active rentals", id)
		}
	}
	for rentalID, rental := range r.store.rentals {
		if rental.MovieID == id {
			delete(r.store.rentals, rentalID)
		}
	}
	delete(r.store.movies, id)
	return nil
}

// rentalRepo implements domain.RentalRepository over the shared store.
type rentalRepo struct{ store *memStore }

func (r rentalRepo) Rent(userID, movieID int64, fee float64, startDate time.Time) (*domain.Rental, error) {
	if _, ok := r.store.movies[movieID]; !ok {
		return nil, domain.StateError("movie %d is not in the catalog", movieID)
	}

	for _, rental := range r.store.rentals {
		if rental.MovieID == movieID && rental.Active() {
			return nil, domain.StateError("movie %d is currently rented out", movieID)
		}
	}

	user, ok := r.store.users[userID]
	if !ok {
		return nil, domain.StorageError(nil, "no user %d", userID)
	}
	if user.Balance < fee {
		return nil, domain.StateError("balance %.2f does not cover the %.2f rental fee", user.Balance, fee)
	}
	user.Balance -= fee

	rental := &domain.Rental{
		ID:        r.store.id(),
		UserID:    userID,
		MovieID:   movieID,
		StartDate: startDate,
	}
	r.store.rentals[rental.ID] = rental
	copied := *rental
	return &copied, nil
}

func (r rentalRepo) EndRental(userID, movieID int64, returnDate time.Time) error {
	for _, rental := range r.store.rentals {
		if rental.UserID == userID && rental.MovieID == movieID && rental.Active() {
			stamped := returnDate
			rental.ReturnDate = &stamped
			return nil
		}
	}
	return domain.StateError("no active rental of movie %d", movieID)
}

func (r rentalRepo) FindLatest(userID, movieID int64) (*domain.Rental, error) {
	var latest *domain.Rental
	for _, rental := range r.store.rentals {
		if rental.UserID != userID || rental.MovieID != movieID {
			continue
		}
		if latest == nil || rental.StartDate.After(latest.StartDate) ||
			(rental.StartDate.Equal(latest.StartDate) && rental.ID > latest.ID) {
			latest = rental
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r rentalRepo) ActiveMovies(userID int64) ([]*domain.Movie, error) {
	movies := make([]*domain.Movie, 0)
	for _, rental := range r.store.rentals {
		if rental.UserID == userID && rental.Active() {
			if movie, ok := r.store.movies[rental.MovieID]; ok {
				copied := *movie
				movies = append(movies, &copied)
			}
		}
	}
	sort.Slice(movies, func(i, j int) bool {
		if movies[i].Title != movies[j].Title {
			return movies[i].Title < movies[j].Title
		}
		return movies[i].ID < movies[j].ID
	})
	return movies, nil
}

func (r rentalRepo) CountActive(userID int64) (int, error) {
	count := 0
	for _, rental := range r.store.rentals {
		if rental.UserID == userID && rental.Active() {
			count++
		}
	}
	return count, nil
}

// auditRepo implements domain.AuditLogRepository over the shared store.
type auditRepo struct{ store *memStore }

func (r auditRepo) Create(log *domain.AuditLog) error {
	log.ID = r.store.id()
	r.store.logs = append(r.store.logs, log)
	return nil
}

func (r auditRepo) FindByEntityID(entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	logs := make([]*domain.AuditLog, 0)
	for _, log := range r.store.logs {
		if log.EntityType == entityType && log.EntityID == entityID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

func (r auditRepo) FindAll(limit, offset int) ([]*domain.AuditLog, error) {
	if offset >= len(r.store.logs) {
		return []*domain.AuditLog{}, nil
	}
	end := offset + limit
	if end > len(r.store.logs) {
		end = len(r.store.logs)
	}
	return r.store.logs[offset:end], nil
}

func testLogger() logger.Logger {
	return logger.New(logger.ErrorLevel, io.Discard)
}

func newTestAuth(store *memStore) *AuthService {
	return NewAuthService(store, movieRepo{store}, rentalRepo{store}, auditRepo{store}, testLogger())
}
