package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finquest/internal/models"
	"finquest/internal/pdf"
	"finquest/internal/repositories"
)

// ReportSummary — income/expense totals for a period plus a per-category
// breakdown. Amounts are formatted decimal strings, same as transactions.
type ReportSummary struct {
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Count        int               `json:"count"`
	TotalIncome  string            `json:"total_income"`
	TotalExpense string            `json:"total_expense"`
	Net          string            `json:"net"`
	ByCategory   map[string]string `json:"by_category"`
}

type ReportService interface {
	Summary(userID int, from, to time.Time) (*ReportSummary, error)
	Statement(userID int, from, to time.Time) (string, error)
}

type reportService struct {
	txRepo   repositories.TransactionRepository
	userRepo repositories.UserRepository
	pdfGen   pdf.Generator
}

func NewReportService(txRepo repositories.TransactionRepository, userRepo repositories.UserRepository, pdfGen pdf.Generator) ReportService {
	return &reportService{txRepo: txRepo, userRepo: userRepo, pdfGen: pdfGen}
}

// totals accumulates in integer cents. Amounts are two-decimal NUMERIC
// strings end to end; summing them as floats would reintroduce the drift
// the string representation exists to avoid.
func (s *reportService) totals(userID int, from, to time.Time) ([]*models.Transaction, int64, int64, map[string]int64, error) {
	txs, err := s.txRepo.ListByUserAndPeriod(userID, from, to)
	if err != nil {
		return nil, 0, 0, nil, err
	}

	var income, expense int64
	byCategory := make(map[string]int64)
	for _, tx := range txs {
		cents, err := parseCents(tx.Amount)
		if err != nil {
			return nil, 0, 0, nil, fmt.Errorf("bad amount on transaction %d: %w", tx.ID, err)
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			income += cents
			byCategory[tx.Category] += cents
		case models.TransactionTypeExpense:
			expense += cents
			byCategory[tx.Category] -= cents
		}
	}
	return txs, income, expense, byCategory, nil
}

// parseCents converts a decimal string like "120.50", "79.5" or "3000"
// into cents. More than two decimal places is rejected.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return total, nil
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func (s *reportService) Summary(userID int, from, to time.Time) (*ReportSummary, error) {
	txs, income, expense, byCategory, err := s.totals(userID, from, to)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]string, len(byCategory))
	for cat, v := range byCategory {
		categories[cat] = formatCents(v)
	}

	return &ReportSummary{
		From:         from,
		To:           to,
		Count:        len(txs),
		TotalIncome:  formatCents(income),
		TotalExpense: formatCents(expense),
		Net:          formatCents(income - expense),
		ByCategory:   categories,
	}, nil
}

// Statement renders the period's transactions as a PDF and returns the
// file path.
func (s *reportService) Statement(userID int, from, to time.Time) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	txs, income, expense, _, err := s.totals(userID, from, to)
	if err != nil {
		return "", err
	}

	return s.pdfGen.GenerateStatement(pdf.StatementData{
		UserID:       user.ID,
		UserEmail:    user.Email,
		From:         from,
		To:           to,
		Transactions: txs,
		TotalIncome:  formatCents(income),
		TotalExpense: formatCents(expense),
	})
}
