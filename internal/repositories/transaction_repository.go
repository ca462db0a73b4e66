package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"finquest/internal/models"
)

type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByID(id int64) (*models.Transaction, error)
	ListByUser(userID int) ([]*models.Transaction, error)
	ListByUserAndPeriod(userID int, from, to time.Time) ([]*models.Transaction, error)
	Update(tx *models.Transaction) error
	Delete(id int64) error
}

type transactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{DB: db}
}

const transactionColumns = `
	id, user_id, amount::text, type, category,
	COALESCE(subcategory, ''), COALESCE(comments, ''), date, created_at
`

func (r *transactionRepository) Create(tx *models.Transaction) error {
	const q = `
		INSERT INTO transactions (user_id, amount, type, category, subcategory, comments, date)
		VALUES ($1, $2::numeric, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		tx.UserID, tx.Amount, tx.Type, tx.Category, tx.Subcategory, tx.Comments, tx.Date,
	).Scan(&tx.ID, &tx.CreatedAt); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(id int64) (*models.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	row := r.DB.QueryRow(q, id)

	var tx models.Transaction
	if err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.Category,
		&tx.Subcategory, &tx.Comments, &tx.Date, &tx.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(userID int) ([]*models.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY date DESC`
	return r.list(q, userID)
}

func (r *transactionRepository) ListByUserAndPeriod(userID int, from, to time.Time) ([]*models.Transaction, error) {
	q := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC`
	return r.list(q, userID, from, to)
}

func (r *transactionRepository) list(q string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.Category,
			&tx.Subcategory, &tx.Comments, &tx.Date, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}

func (r *transactionRepository) Update(tx *models.Transaction) error {
	const q = `
		UPDATE transactions
		SET amount = $1::numeric, type = $2, category = $3,
		    subcategory = NULLIF($4, ''), comments = NULLIF($5, ''), date = $6
		WHERE id = $7
	`
	if _, err := r.DB.Exec(q,
		tx.Amount, tx.Type, tx.Category, tx.Subcategory, tx.Comments, tx.Date, tx.ID,
	); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Delete(id int64) error {
	if _, err := r.DB.Exec(`DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
