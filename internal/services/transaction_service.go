package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"finquest/internal/models"
	"finquest/internal/repositories"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotOwner            = errors.New("transaction belongs to another user")
)

type TransactionService interface {
	Create(userID int, req *models.TransactionRequest) (*models.Transaction, error)
	GetByID(userID int, id int64) (*models.Transaction, error)
	List(userID int) ([]*models.Transaction, error)
	Update(userID int, id int64, req *models.TransactionRequest) (*models.Transaction, error)
	Delete(userID int, id int64) error
}

type transactionService struct {
	repo repositories.TransactionRepository
}

func NewTransactionService(repo repositories.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

func validateTransaction(req *models.TransactionRequest) error {
	amount, err := strconv.ParseFloat(req.Amount, 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("amount must be a positive number")
	}
	if req.Type != models.TransactionTypeIncome && req.Type != models.TransactionTypeExpense {
		return fmt.Errorf("type must be %s or %s", models.TransactionTypeIncome, models.TransactionTypeExpense)
	}
	if req.Category == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}

func (s *transactionService) Create(userID int, req *models.TransactionRequest) (*models.Transaction, error) {
	if err := validateTransaction(req); err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Comments:    req.Comments,
		Date:        date,
	}
	if err := s.repo.Create(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// owned loads a transaction and enforces that it belongs to userID.
func (s *transactionService) owned(userID int, id int64) (*models.Transaction, error) {
	tx, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if tx.UserID != userID {
		return nil, ErrNotOwner
	}
	return tx, nil
}

func (s *transactionService) GetByID(userID int, id int64) (*models.Transaction, error) {
	return s.owned(userID, id)
}

func (s *transactionService) List(userID int) ([]*models.Transaction, error) {
	return s.repo.ListByUser(userID)
}

func (s *transactionService) Update(userID int, id int64, req *models.TransactionRequest) (*models.Transaction, error) {
	tx, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateTransaction(req); err != nil {
		return nil, err
	}

	tx.Amount = req.Amount
	tx.Type = req.Type
	tx.Category = req.Category
	tx.Subcategory = req.Subcategory
	tx.Comments = req.Comments
	if req.Date != nil {
		tx.Date = *req.Date
	}

	if err := s.repo.Update(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) Delete(userID int, id int64) error {
	if _, err := s.owned(userID, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
