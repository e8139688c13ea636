package models

import "time"

const (
	ActionProductCreate       = "product_create"
	ActionProductStatusUpdate = "product_status_update"
	ActionProductDelete       = "product_delete"
	ActionPromoCreate         = "promo_create"
	ActionPromoUpdate         = "promo_update"
	ActionPromoStatusUpdate   = "promo_status_update"
	ActionUserRoleUpdate      = "user_role_update"
	ActionUserActiveUpdate    = "user_active_update"
	ActionUserDelete          = "user_delete"
	ActionUserPasswordReset   = "user_password_reset"
	ActionCategoryCreate      = "category_create"
)

type AdminLog struct {
	ID        int64     `json:"id"`
	AdminID   int64     `json:"admin_id"`
	Action    string    `json:"action"`
	TableName string    `json:"table_name"`
	RecordID  int64     `json:"record_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
