package repository

import (
	"database/sql"
	"time"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
	"moviebrowser/pkg/metrics"
)

type RentalRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRentalRepository(db *sql.DB, logger logger.Logger) domain.RentalRepository {
	return &RentalRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RentalRepository) Rent(userID, movieID int64, fee float64, startDate time.Time) (*domain.Rental, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, domain.StorageError(err, "failed to begin rental")
	}
	defer tx.Rollback()

	var movieCount int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM movies WHERE id = ?`, movieID).Scan(&movieCount); err != nil {
		return nil, domain.StorageError(err, "failed to look up movie %d", movieID)
	}
	if movieCount == 0 {
		return nil, domain.StateError("movie %d is not in the catalog", movieID)
	}

	var active int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM rentals WHERE movie_id = ? AND return_date IS NULL`,
		movieID,
	).Scan(&active)
	if err != nil {
		return nil, domain.StorageError(err, "failed to check availability of movie %d", movieID)
	}
	if active > 0 {
		return nil, domain.StateError("movie %d is currently rented out", movieID)
	}

	var balance float64
	if err := tx.QueryRow(`SELECT balance FROM users WHERE id = ?`, userID).Scan(&balance); err != nil {
		return nil, domain.StorageError(err, "failed to read balance of user %d", userID)
	}
	if balance < fee {
		return nil, domain.StateError("balance %.2f does not cover the %.2f rental fee", balance, fee)
	}

	_, err = tx.Exec(
		`UPDATE users SET balance = balance - ?, updated_at = ? WHERE id = ?`,
		fee, time.Now(), userID,
	)
	if err != nil {
		return nil, domain.StorageError(err, "failed to charge rental fee to user %d", userID)
	}

	result, err := tx.Exec(
		`INSERT INTO rentals (user_id, movie_id, start_date, return_date) VALUES (?, ?, ?, NULL)`,
		userID, movieID, startDate,
	)
	if err != nil {
		return nil, domain.StorageError(err, "failed to create rental of movie %d", movieID)
	}

	rentalID, err := result.LastInsertId()
	if err != nil {
		return nil, domain.StorageError(err, "failed to read id of created rental")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.StorageError(err, "failed to commit rental of movie %d", movieID)
	}

	metrics.RecordDatabaseOperation("create", "rental")
	return &domain.Rental{
		ID:        rentalID,
		UserID:    userID,
		MovieID:   movieID,
		StartDate: startDate,
	}, nil
}

func (r *RentalRepository) EndRental(userID, movieID int64, returnDate time.Time) error {
	result, err := r.db.Exec(
		`UPDATE rentals SET return_date = ? WHERE user_id = ? AND movie_id = ? AND return_date IS NULL`,
		returnDate, userID, movieID,
	)
	if err != nil {
		r.logger.Error("failed to end rental", map[string]interface{}{
			"user_id":  userID,
			"movie_id": movieID,
			"error":    err.Error(),
		})
		return domain.StorageError(err, "failed to end rental of movie %d", movieID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.StorageError(err, "failed to confirm rental return of movie %d", movieID)
	}
	if affected == 0 {
		return domain.StateError("no active rental of movie %d", movieID)
	}

	metrics.RecordDatabaseOperation("update", "rental")
	return nil
}

func (r *RentalRepository) FindLatest(userID, movieID int64) (*domain.Rental, error) {
	query := `
		SELECT id, user_id, movie_id, start_date, return_date
		FROM rentals
		WHERE user_id = ? AND movie_id = ?
		ORDER BY start_date DESC, id DESC
		LIMIT 1
	`

	var rental domain.Rental
	var returnDate sql.NullTime
	err := r.db.QueryRow(query, userID, movieID).Scan(
		&rental.ID,
		&rental.UserID,
		&rental.MovieID,
		&rental.StartDate,
		&returnDate,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find rental", map[string]interface{}{
			"user_id":  userID,
			"movie_id": movieID,
			"error":    err.Error(),
		})
		return nil, domain.StorageError(err, "failed to find rental of movie %d", movieID)
	}

	if returnDate.Valid {
		rental.ReturnDate = &returnDate.Time
	}

	return &rental, nil
}

func (r *RentalRepository) ActiveMovies(userID int64) ([]*domain.Movie, error) {
	query := `
		SELECT m.id, m.author, m.title, m.genre, m.year, m.created_at, m.updated_at
		FROM movies m
		JOIN rentals r ON r.movie_id = m.id
		WHERE r.user_id = ? AND r.return_date IS NULL
		ORDER BY m.title, m.id
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Error("failed to list rented movies", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, domain.StorageError(err, "failed to list rented movies for user %d", userID)
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)
	for rows.Next() {
		var movie domain.Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Author,
			&movie.Title,
			&movie.Genre,
			&movie.Year,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)
		if err != nil {
			return nil, domain.StorageError(err, "failed to read rented movie row")
		}
		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(err, "failed to read rented movie rows")
	}

	return movies, nil
}

func (r *RentalRepository) CountActive(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM rentals WHERE user_id = ? AND return_date IS NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, domain.StorageError(err, "failed to count active rentals for user %d", userID)
	}

	return count, nil
}
