package models

import (
	"mime/multipart"
	"time"
)

type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" binding:"required"`
	Password   string `json:"password" form:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

type UpdateProductStatusRequest struct {
	ProductID string `json:"product_id" form:"product_id" binding:"required"`
	NewStatus string `json:"new_status" form:"new_status" binding:"required"`
}

type DeleteProductsRequest struct {
	ProductIDs []string `json:"product_ids" form:"product_ids[]"`
}

// CreateProductInput is assembled by the controller from the multipart form.
type CreateProductInput struct {
	Name        string
	Description string
	Price       string
	Currency    string
	Status      string
	Categories  []string
	Tags        []string
	Images      []*multipart.FileHeader
}

// PromoInput carries create and update fields. Dates use the HTML
// datetime-local layout or RFC3339.
type PromoInput struct {
	Name          string   `json:"name" form:"name"`
	Code          string   `json:"code" form:"code"`
	Description   string   `json:"description" form:"description"`
	DiscountType  string   `json:"discount_type" form:"discount_type"`
	DiscountValue string   `json:"discount_value" form:"discount_value"`
	MaxDiscount   string   `json:"max_discount" form:"max_discount"`
	StartDate     string   `json:"start_date" form:"start_date"`
	EndDate       string   `json:"end_date" form:"end_date"`
	Status        string   `json:"status" form:"status"`
	Eligibility   string   `json:"eligibility" form:"eligibility"`
	MinPurchase   string   `json:"min_purchase" form:"min_purchase"`
	MaxClaims     string   `json:"max_claims" form:"max_claims"`
	SubcategoryID string   `json:"subcategory_id" form:"subcategory_id"`
	AutoApply     bool     `json:"auto_apply" form:"auto_apply"`
	ProductIDs    []string `json:"product_ids" form:"product_ids[]"`
}

type UpdatePromoRequest struct {
	PromoID int64 `json:"promo_id" form:"promo_id" binding:"required,gt=0"`
	PromoInput
}

type UpdatePromoStatusRequest struct {
	PromoID   int64  `json:"promo_id" form:"promo_id" binding:"required,gt=0"`
	NewStatus string `json:"new_status" form:"new_status" binding:"required"`
}

type UpdateUserRoleRequest struct {
	UserID int64  `json:"user_id" form:"user_id" binding:"required,gt=0"`
	Role   string `json:"role" form:"role" binding:"required,oneof=admin customer"`
}

type UpdateUserActiveRequest struct {
	UserID   int64 `json:"user_id" form:"user_id" binding:"required,gt=0"`
	IsActive *bool `json:"is_active" form:"is_active" binding:"required"`
}

type UserIDRequest struct {
	UserID int64 `json:"user_id" form:"user_id" binding:"required,gt=0"`
}

type PasswordResetIssued struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	EmailSent bool      `json:"email_sent"`
	ResetLink string    `json:"reset_link,omitempty"`
}

type ContactRequest struct {
	Name           string `form:"name" json:"name"`
	Phone          string `form:"phone" json:"phone"`
	Message        string `form:"message" json:"message"`
	RecaptchaToken string `form:"g-recaptcha-response" json:"recaptcha_token"`
}
