package repository

import (
	"database/sql"
	"time"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

type AuditLogRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAuditLogRepository(db *sql.DB, logger logger.Logger) domain.AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditLogRepository) Create(log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (entity_type, entity_id, action, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	log.CreatedAt = time.Now()

	result, err := r.db.Exec(
		query,
		string(log.EntityType),
		log.EntityID,
		string(log.Action),
		log.Details,
		log.CreatedAt,
	)

	if err != nil {
		r.logger.Error("failed to create audit log", map[string]interface{}{"error": err.Error()})
		return domain.StorageError(err, "failed to create audit log")
	}

	log.ID, err = result.LastInsertId()
	if err != nil {
		return domain.StorageError(err, "failed to read id of created audit log")
	}

	return nil
}

func (r *AuditLogRepository) FindByEntityID(entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, details, created_at
		FROM audit_logs
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY created_at DESC
	`

	return r.queryLogs(query, string(entityType), entityID)
}

func (r *AuditLogRepository) FindAll(limit, offset int) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	return r.queryLogs(query, limit, offset)
}

func (r *AuditLogRepository) queryLogs(query string, args ...interface{}) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("failed to query audit logs", map[string]interface{}{"error": err.Error()})
		return nil, domain.StorageError(err, "failed to query audit logs")
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var log domain.AuditLog
		var entityTypeStr, actionStr string
		var details sql.NullString

		err := rows.Scan(
			&log.ID,
			&entityTypeStr,
			&log.EntityID,
			&actionStr,
			&details,
			&log.CreatedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan audit log row", map[string]interface{}{"error": err.Error()})
			return nil, domain.StorageError(err, "failed to read audit log row")
		}

		log.EntityType = domain.EntityType(entityTypeStr)
		log.Action = domain.ActionType(actionStr)
		log.Details = details.String

		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(err, "failed to read audit log rows")
	}

	return logs, nil
}
