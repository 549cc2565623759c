package database

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

// Credentials of the administrator account created on first run.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "Password"
)

// SeedAdmin ensures the built-in administrator account exists.
func SeedAdmin(db *sql.DB, log logger.Logger) error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", SeedAdminUsername).Scan(&count)
	if err != nil {
		log.Error("failed to check for seeded administrator", map[string]interface{}{"error": err.Error()})
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = db.Exec(
		`INSERT INTO users (username, password_hash, rank, balance, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		SeedAdminUsername,
		string(hash),
		int(domain.RankAdmin),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to seed administrator account", map[string]interface{}{"error": err.Error()})
		return err
	}

	log.Info("seeded administrator account", map[string]interface{}{"username": SeedAdminUsername})
	return nil
}
