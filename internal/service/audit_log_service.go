package service

import (
	"time"

	"moviebrowser/internal/domain"
	"moviebrowser/pkg/logger"
)

type AuditLogService struct {
	repo   domain.AuditLogRepository
	logger logger.Logger
}

func NewAuditLogService(repo domain.AuditLogRepository, logger logger.Logger) domain.AuditLogService {
	return &AuditLogService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AuditLogService) LogAction(entityType domain.EntityType, entityID int64, action domain.ActionType, details string) error {
	auditLog := &domain.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(auditLog); err != nil {
		s.logger.Error("failed to create audit log", map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID,
			"action":      action,
			"error":       err.Error(),
		})
		return err
	}

	return nil
}

func (s *AuditLogService) GetEntityLogs(entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	return s.repo.FindByEntityID(entityType, entityID)
}

func (s *AuditLogService) GetAllLogs(page, pageSize int) ([]*domain.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.repo.FindAll(pageSize, (page-1)*pageSize)
}
