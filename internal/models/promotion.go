package models

import "time"

// Типы скидки акции.
const (
	DiscountPercent = "percent"
	DiscountAmount  = "amount"
)

// PromotionTargets на что может действовать акция.
var PromotionTargets = []string{"membership", "dropin", "private"}

// Promotion ценовое правило с периодом действия.
type Promotion struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue int64      `json:"discount_value"`
	AppliesTo     []string   `json:"applies_to"`
	MinMonths     int        `json:"min_months"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PromotionInput создание или замена акции.
type PromotionInput struct {
	Title         string   `json:"title" validate:"max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	DiscountType  string   `json:"discount_type"`
	DiscountValue int64    `json:"discount_value"`
	AppliesTo     []string `json:"applies_to"`
	MinMonths     int      `json:"min_months"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	IsActive      *bool    `json:"is_active"`
}
