package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finquest/internal/models"
)

func statementFor(userID int) StatementData {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
	return StatementData{
		UserID:    userID,
		UserEmail: fmt.Sprintf("user%d@example.com", userID),
		From:      from,
		To:        to,
		Transactions: []*models.Transaction{
			{UserID: userID, Amount: "120.50", Type: models.TransactionTypeExpense, Category: "Groceries", Date: from},
		},
		TotalIncome:  "0.00",
		TotalExpense: "120.50",
	}
}

// Two users requesting the same period must never resolve to the same
// file: a shared path would let one statement overwrite the other between
// generation and download.
func TestGenerateStatementPathsDisjointPerUser(t *testing.T) {
	gen := NewStatementGenerator(t.TempDir())

	pathA, err := gen.GenerateStatement(statementFor(1))
	require.NoError(t, err)
	pathB, err := gen.GenerateStatement(statementFor(2))
	require.NoError(t, err)

	assert.NotEqual(t, pathA, pathB)
	for _, p := range []string{pathA, pathB} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestGenerateStatementStripsFilenamePath(t *testing.T) {
	root := t.TempDir()
	gen := NewStatementGenerator(root)

	data := statementFor(1)
	data.Filename = "../../escape.pdf"

	path, err := gen.GenerateStatement(data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "escape.pdf"), path)
}
