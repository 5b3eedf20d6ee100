package service

import (
	"context"

	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, metadata map[string]interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogAction writes one audit row inside the caller's transaction so the
// trail commits or rolls back together with the mutation it describes.
func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, metadata map[string]interface{}) error {
	meta := entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
	}
	for k, v := range metadata {
		meta[k] = v
	}

	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: meta,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
