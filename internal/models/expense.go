package models

import "time"

// ExpenseCategory категория расходов.
type ExpenseCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Expense расход клуба.
type Expense struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	CategoryKey string    `json:"category_key"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseInput тело создания расхода.
type ExpenseInput struct {
	Date        string `json:"date"`
	CategoryKey string `json:"category_key"`
	Description string `json:"description" validate:"max=500"`
	Amount      string `json:"amount"`
}

// CategoryInput тело создания категории.
type CategoryInput struct {
	Key   string `json:"key"`
	Label string `json:"label" validate:"max=100"`
}
