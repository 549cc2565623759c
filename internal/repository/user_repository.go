package repository

import (
	"database/sql"
	"time"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
	"moviebrowser/pkg/metrics"
)

type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) FindByID(id int64) (*domain.User, error) {
	query := `SELECT id, username, password_hash, rank, balance, created_at, updated_at FROM users WHERE id = ?`

	var user domain.User
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Rank,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find user by id", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, domain.StorageError(err, "failed to find user %d", id)
	}

	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, rank, balance, created_at, updated_at FROM users WHERE username = ?`

	var user domain.User
	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Rank,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find user by username", map[string]interface{}{"username": username, "error": err.Error()})
		return nil, domain.StorageError(err, "failed to find user %q", username)
	}

	return &user, nil
}

func (r *UserRepository) Create(user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, rank, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Exec(
		query,
		user.Username,
		user.PasswordHash,
		user.Rank,
		user.Balance,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("failed to create user", map[string]interface{}{"username": user.Username, "error": err.Error()})
		return domain.StorageError(err, "failed to create user %q", user.Username)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return domain.StorageError(err, "failed to read id of created user %q", user.Username)
	}

	metrics.RecordDatabaseOperation("create", "user")
	return nil
}

func (r *UserRepository) Update(user *domain.User) error {
	query := `
		UPDATE users
		SET password_hash = ?, rank = ?, balance = ?, updated_at = ?
		WHERE id = ?
	`

	user.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		query,
		user.PasswordHash,
		user.Rank,
		user.Balance,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		r.logger.Error("failed to update user", map[string]interface{}{"id": user.ID, "error": err.Error()})
		return domain.StorageError(err, "failed to update user %q", user.Username)
	}

	metrics.RecordDatabaseOperation("update", "user")
	return nil
}

func (r *UserRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return domain.StorageError(err, "failed to begin account deletion")
	}
	defer tx.Rollback()

	var active int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM rentals WHERE user_id = ? AND return_date IS NULL`,
		id,
	).Scan(&active)
	if err != nil {
		return domain.StorageError(err, "failed to count active rentals for user %d", id)
	}

	if active > 0 {
		return domain.StateError("account has %d active rentals, return them first", active)
	}

	if _, err := tx.Exec(`DELETE FROM rentals WHERE user_id = ?`, id); err != nil {
		return domain.StorageError(err, "failed to delete rental history for user %d", id)
	}

	if _, err := tx.Exec(`DELETE FROM users WHERE id = ?`, id); err != nil {
		return domain.StorageError(err, "failed to delete user %d", id)
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError(err, "failed to commit account deletion for user %d", id)
	}

	metrics.RecordDatabaseOperation("delete", "user")
	return nil
}
