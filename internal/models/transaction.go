package models

import "time"

const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"
)

type Transaction struct {
	ID          int64     `json:"id"`
	UserID      int       `json:"user_id"`
	Amount      string    `json:"amount"` // NUMERIC in the DB, kept as string to avoid float drift
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Comments    string    `json:"comments,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type TransactionRequest struct {
	Amount      string     `json:"amount" binding:"required"`
	Type        string     `json:"type" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Subcategory string     `json:"subcategory"`
	Comments    string     `json:"comments"`
	Date        *time.Time `json:"date"`
}
