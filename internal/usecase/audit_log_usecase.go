package usecase

import (
	"context"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/pkg/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	List(ctx context.Context, actor entity.Actor, limit, offset int) (*dto.AuditLogListResponse, error)
	Get(ctx context.Context, actor entity.Actor, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(db *gorm.DB, log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{db: db, log: log, auditLogRepo: auditLogRepo}
}

func (u *auditLogUsecase) List(ctx context.Context, actor entity.Actor, limit, offset int) (*dto.AuditLogListResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only admins can read audit logs")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, apperr.FromStore(err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}

func (u *auditLogUsecase) Get(ctx context.Context, actor entity.Actor, id int64) (*dto.AuditLogResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only admins can read audit logs")
	}

	entry, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, apperr.FromStore(err)
	}
	if entry == nil {
		return nil, apperr.NotFound("audit log not found")
	}
	return converter.AuditLogToResponse(entry), nil
}
