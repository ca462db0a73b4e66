package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finquest/internal/models"
)

type fakeTransactionRepo struct {
	mu     sync.Mutex
	txs    map[int64]*models.Transaction
	nextID int64
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[int64]*models.Transaction)}
}

func (r *fakeTransactionRepo) Create(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	tx.ID = r.nextID
	tx.CreatedAt = time.Now()
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) GetByID(id int64) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, nil
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTransactionRepo) ListByUser(userID int) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListByUserAndPeriod(userID int, from, to time.Time) ([]*models.Transaction, error) {
	all, _ := r.ListByUser(userID)
	var out []*models.Transaction
	for _, tx := range all {
		if !tx.Date.Before(from) && !tx.Date.After(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Update(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *fakeTransactionRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.txs, id)
	return nil
}

func validRequest() *models.TransactionRequest {
	return &models.TransactionRequest{
		Amount:   "125.50",
		Type:     models.TransactionTypeExpense,
		Category: "Groceries",
	}
}

func TestTransactionCreate(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionRepo())

	tx, err := svc.Create(1, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.ID)
	assert.Equal(t, 1, tx.UserID)
	assert.False(t, tx.Date.IsZero(), "date defaults to now when omitted")
}

func TestTransactionCreateValidation(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionRepo())

	cases := []struct {
		name   string
		mutate func(*models.TransactionRequest)
	}{
		{"zero amount", func(r *models.TransactionRequest) { r.Amount = "0" }},
		{"negative amount", func(r *models.TransactionRequest) { r.Amount = "-5" }},
		{"non-numeric amount", func(r *models.TransactionRequest) { r.Amount = "abc" }},
		{"bad type", func(r *models.TransactionRequest) { r.Type = "TRANSFER" }},
		{"missing category", func(r *models.TransactionRequest) { r.Category = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := svc.Create(1, req)
			assert.Error(t, err)
		})
	}
}

func TestTransactionOwnership(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewTransactionService(repo)

	tx, err := svc.Create(1, validRequest())
	require.NoError(t, err)

	// another user can't read, update or delete it
	_, err = svc.GetByID(2, tx.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	_, err = svc.Update(2, tx.ID, validRequest())
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, svc.Delete(2, tx.ID), ErrNotOwner)

	// the owner can
	got, err := svc.GetByID(1, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
}

func TestTransactionNotFound(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionRepo())

	_, err := svc.GetByID(1, 99)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.ErrorIs(t, svc.Delete(1, 99), ErrTransactionNotFound)
}

func TestTransactionUpdate(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewTransactionService(repo)

	tx, err := svc.Create(1, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Amount = "200.00"
	req.Type = models.TransactionTypeIncome
	req.Category = "Salary"

	updated, err := svc.Update(1, tx.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "200.00", updated.Amount)
	assert.Equal(t, models.TransactionTypeIncome, updated.Type)

	stored, err := repo.GetByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salary", stored.Category)
}
