package services

import (
	"context"
	"fmt"
	"log"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
)

type AdminLogService struct {
	logRepo *repositories.AdminLogRepository
}

func NewAdminLogService(db repositories.DBTX) *AdminLogService {
	return &AdminLogService{logRepo: repositories.NewAdminLogRepository(db)}
}

func (s *AdminLogService) List(ctx context.Context, page, limit int) ([]models.AdminLog, models.MetaData, error) {
	page, limit, offset := utils.NormalizePage(page, limit)

	logs, total, err := s.logRepo.List(ctx, limit, offset)
	if err != nil {
		return []models.AdminLog{}, models.MetaData{Page: page, Limit: limit, Offset: offset}, infra("list admin logs", err)
	}

	return logs, pageMeta(page, limit, offset, total), nil
}

// recordAdminAction writes one audit row inside the caller's transaction.
func recordAdminAction(ctx context.Context, logs *repositories.AdminLogRepository, adminID int64, action, table string, recordID int64, details string) error {
	entry := &models.AdminLog{
		AdminID:   adminID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		Details:   details,
	}
	if err := logs.Insert(ctx, entry); err != nil {
		return err
	}
	log.Printf("[Admin] admin=%d action=%s %s#%d %s", adminID, action, table, recordID, details)
	return nil
}

func pageMeta(page, limit, offset, total int) models.MetaData {
	return models.MetaData{
		Page:       page,
		Limit:      limit,
		Offset:     offset,
		TotalItems: total,
		TotalPages: utils.TotalPages(total, limit),
	}
}

func describeChange(field, from, to string) string {
	return fmt.Sprintf("%s: %s -> %s", field, from, to)
}
