package repositories

import (
	"context"
	"fmt"
	"storefront/models"

	"github.com/jackc/pgx/v5"
)

type AdminLogRepository struct {
	db DBTX
}

func NewAdminLogRepository(db DBTX) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

func (r *AdminLogRepository) WithTx(tx pgx.Tx) *AdminLogRepository {
	return &AdminLogRepository{db: tx}
}

func (r *AdminLogRepository) Insert(ctx context.Context, entry *models.AdminLog) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO admin_logs (admin_id, action, table_name, record_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.AdminID, entry.Action, entry.TableName, entry.RecordID, entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write admin log: %w", err)
	}
	return nil
}

func (r *AdminLogRepository) List(ctx context.Context, limit, offset int) ([]models.AdminLog, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count admin logs: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, table_name, record_id, details, created_at
		FROM admin_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query admin logs: %w", err)
	}
	defer rows.Close()

	logs := []models.AdminLog{}
	for rows.Next() {
		var l models.AdminLog
		if err := rows.Scan(&l.ID, &l.AdminID, &l.Action, &l.TableName, &l.RecordID, &l.Details, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan admin log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
