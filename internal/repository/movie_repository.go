package repository

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
	"moviebrowser/pkg/metrics"
)

type MovieRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewMovieRepository(db *sql.DB, logger logger.Logger) domain.MovieRepository {
	return &MovieRepository{
		db:     db,
		logger: logger,
	}
}

func (r *MovieRepository) FindByID(id int64) (*domain.Movie, error) {
	query := `SELECT id, author, title, genre, year, created_at, updated_at FROM movies WHERE id = ?`

	var movie domain.Movie
	err := r.db.QueryRow(query, id).Scan(
		&movie.ID,
		&movie.Author,
		&movie.Title,
		&movie.Genre,
		&movie.Year,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to find movie by id", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, domain.StorageError(err, "failed to find movie %d", id)
	}

	return &movie, nil
}

// textCriteria holds the substring-matched criteria and their columns in a
// fixed order so identical criteria maps always build the same query.
var textCriteria = []struct {
	criterion domain.SearchCriterion
	column    string
}{
	{domain.CriterionAuthor, "author"},
	{domain.CriterionTitle, "title"},
	{domain.CriterionGenre, "genre"},
}

func (r *MovieRepository) Search(criteria map[domain.SearchCriterion]string) ([]*domain.Movie, error) {
	for criterion := range criteria {
		if !criterion.Valid() {
			return nil, domain.ValidationError("unknown search criterion %q", string(criterion))
		}
	}

	clauses := make([]string, 0, len(criteria))
	args := make([]interface{}, 0, len(criteria))

	for _, tc := range textCriteria {
		if value, ok := criteria[tc.criterion]; ok {
			clauses = append(clauses, "LOWER("+tc.column+") LIKE ?")
			args = append(args, "%"+strings.ToLower(value)+"%")
		}
	}

	if value, ok := criteria[domain.CriterionYear]; ok {
		year, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, domain.ValidationError("year criterion %q is not a number", value)
		}
		clauses = append(clauses, "year = ?")
		args = append(args, year)
	}

	query := `SELECT id, author, title, genre, year, created_at, updated_at FROM movies`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY title, id"

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("catalog search failed", map[string]interface{}{"error": err.Error()})
		return nil, domain.StorageError(err, "catalog search failed")
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
			r.logger.Error("failed to scan movie row", map[string]interface{}{"error": err.Error()})
			return nil, domain.StorageError(err, "failed to read catalog row")
		}
		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(err, "failed to read catalog rows")
	}

	metrics.CatalogSearchDuration.Observe(time.Since(start).Seconds())
	return movies, nil
}

func (r *MovieRepository) Create(movie *domain.Movie) error {
	query := `
		INSERT INTO movies (author, title, genre, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	result, err := r.db.Exec(
		query,
		movie.Author,
		movie.Title,
		movie.Genre,
		movie.Year,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.StateError("movie %q by %s (%d) already exists", movie.Title, movie.Author, movie.Year)
		}
		r.logger.Error("failed to create movie", map[string]interface{}{"title": movie.Title, "error": err.Error()})
		return domain.StorageError(err, "failed to create movie %q", movie.Title)
	}

	movie.ID, err = result.LastInsertId()
	if err != nil {
		return domain.StorageError(err, "failed to read id of created movie %q", movie.Title)
	}

	metrics.RecordDatabaseOperation("create", "movie")
	return nil
}

func (r *MovieRepository) Update(movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET author = ?, title = ?, genre = ?, year = ?, updated_at = ?
		WHERE id = ?
	`

	movie.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		query,
		movie.Author,
		movie.Title,
		movie.Genre,
		movie.Year,
		movie.UpdatedAt,
		movie.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.StateError("movie %q by %s (%d) already exists", movie.Title, movie.Author, movie.Year)
		}
		r.logger.Error("failed to update movie", map[string]interface{}{"id": movie.ID, "error": err.Error()})
		return domain.StorageError(err, "failed to update movie %d", movie.ID)
	}

	metrics.RecordDatabaseOperation("update", "movie")
	return nil
}

func (r *MovieRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return domain.StorageError(err, "failed to begin movie deletion")
	}
	defer tx.Rollback()

	var active int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM rentals WHERE movie_id = ? AND return_date IS NULL`,
		id,
	).Scan(&active)
	if err != nil {
		return domain.StorageError(err, "failed to count active rentals for movie %d", id)
	}

	if active > 0 {
		return domain.StateError("movie %d has active rentals", id)
	}

	if _, err := tx.Exec(`DELETE FROM rentals WHERE movie_id = ?`, id); err != nil {
		return domain.StorageError(err, "failed to delete rental history for movie %d", id)
	}

	if _, err := tx.Exec(`DELETE FROM movies WHERE id = ?`, id); err != nil {
		return domain.StorageError(err, "failed to delete movie %d", id)
	}

	if err := tx.Commit(); err != nil {
		return domain.StorageError(err, "failed to commit deletion of movie %d", id)
	}

	metrics.RecordDatabaseOperation("delete", "movie")
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
