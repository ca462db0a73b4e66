package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"finquest/internal/models"
)

// Generator — interface so handlers/services can be tested with a mock.
type Generator interface {
	GenerateStatement(data StatementData) (string, error)
}

// StatementGenerator renders a period statement of a user's transactions.
type StatementGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	fontName string
}

type StatementData struct {
	UserID       int
	UserEmail    string
	From, To     time.Time
	Transactions []*models.Transaction
	TotalIncome  string
	TotalExpense string
	Filename     string // base name only; generated when empty
}

func NewStatementGenerator(rootDir string) *StatementGenerator {
	return &StatementGenerator{
		RootDir:  filepath.Clean(rootDir),
		fontName: "Helvetica",
	}
}

func (g *StatementGenerator) GenerateStatement(data StatementData) (string, error) {
	filename := data.Filename
	if filename == "" {
		// the user id keeps paths disjoint: two users asking for the same
		// period must never share (and overwrite) one file
		filename = fmt.Sprintf("statement_%d_%s_%s.pdf",
			data.UserID, data.From.Format("20060102"), data.To.Format("20060102"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FinQuest Statement", false)
	pdf.SetAuthor("FinQuest", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "TRANSACTION STATEMENT", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("%s  |  %s - %s",
		data.UserEmail,
		data.From.Format("02.01.2006"),
		data.To.Format("02.01.2006"),
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Totals
	g.sectionTitle(pdf, "Totals")
	g.kvLine(pdf, "Income", data.TotalIncome)
	g.kvLine(pdf, "Expense", data.TotalExpense)
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Transactions table
	g.sectionTitle(pdf, "Transactions")
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(25, 7, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(22, 7, "Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(48, 7, "Comments", "1", 1, "L", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	for _, tx := range data.Transactions {
		category := tx.Category
		if tx.Subcategory != "" {
			category += " / " + tx.Subcategory
		}
		pdf.CellFormat(25, 7, tx.Date.Format("02.01.2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 7, tx.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, tx.Amount, "1", 0, "R", false, 0, "")
		pdf.CellFormat(48, 7, tx.Comments, "1", 1, "L", false, 0, "")
	}

	// ===== Page numbers
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ===== helpers =====

func (g *StatementGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // no path traversal
	return filepath.Join(g.RootDir, filename), nil
}

func (g *StatementGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *StatementGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *StatementGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
