package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
)

type AuditListQuery struct {
	TableName string `form:"table_name"`
	Operation string `form:"operation"`
	UserEmail string `form:"user_email"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
}

type AuditService interface {
	ListAuditLogs(ctx context.Context, page, limit int, query AuditListQuery) ([]model.AuditLog, int64, error)
	ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListAuditLogs(ctx context.Context, page, limit int, query AuditListQuery) ([]model.AuditLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	dateFrom, err := parseOptionalDate(query.DateFrom, "date_from")
	if err != nil {
		return nil, 0, err
	}
	dateTo, err := parseOptionalDate(query.DateTo, "date_to")
	if err != nil {
		return nil, 0, err
	}

	filter := repository.AuditFilter{
		TableName: query.TableName,
		Operation: query.Operation,
		UserEmail: query.UserEmail,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	}
	return s.auditRepo.List(ctx, page, limit, filter)
}

func (s *auditService) ListByRecord(ctx context.Context, tableName, recordID string) ([]model.AuditLog, error) {
	if tableName == "" || recordID == "" {
		return nil, ErrInvalidInput
	}
	return s.auditRepo.ListByRecord(ctx, tableName, recordID)
}
