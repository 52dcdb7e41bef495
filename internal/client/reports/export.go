package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/filex"
	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"
)

// Export writes r to path; the format follows the extension (.csv, .yaml,
// .yml or .pdf). It returns the absolute path written.
func Export(r Report, path string) (string, error) {
	var write func(Report, io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".yaml", ".yml":
		write = WriteYAML
	case ".pdf":
		write = WritePDF
	default:
		return "", fmt.Errorf("unsupported report format %q", filepath.Ext(path))
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating report file: %w", err)
	}
	if err := write(r, f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// WriteCSV writes one row per figure: section, name, amount and, for budgets,
// the spent and remaining amounts.
func WriteCSV(r Report, w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"section", "name", "amount", "spent", "remaining", "exceeded"},
		{"total", "income", r.Income.StringFixed(2), "", "", ""},
		{"total", "expense", r.Expense.StringFixed(2), "", "", ""},
		{"total", "balance", r.Balance.StringFixed(2), "", "", ""},
	}
	for _, c := range r.ByCategory {
		rows = append(rows, []string{"category", c.Category, c.Amount.StringFixed(2), "", "", ""})
	}
	for _, b := range r.Budgets {
		rows = append(rows, []string{
			"budget", b.Category, b.Budget.StringFixed(2), b.Spent.StringFixed(2), b.Remaining.StringFixed(2),
			strconv.FormatBool(b.Exceeded),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing CSV report: %w", err)
	}
	return nil
}

type yamlReport struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Report `yaml:",inline"`
}

func WriteYAML(r Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := yamlReport{
		From:   r.Period.Start.Format(time.DateOnly),
		To:     r.Period.End.Format(time.DateOnly),
		Report: r,
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("error encoding YAML report: %w", err)
	}
	return enc.Close()
}

func WritePDF(r Report, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(v interface{ StringFixed(int32) string }) string {
		return tr(v.StringFixed(2) + " " + r.Currency)
	}

	pdf.AddPage()
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Budget report "+r.Period.String()), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(50, 50, 50)
	}
	row := func(cells ...string) {
		width := 190.0 / float64(len(cells))
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(width, 6, tr(c), "", 0, align, false, 0, "")
		}
		pdf.Ln(6)
	}

	section("Summary")
	row("Income", money(r.Income))
	row("Expense", money(r.Expense))
	row("Balance", money(r.Balance))
	pdf.Ln(4)

	if len(r.ByCategory) > 0 {
		section("Expenses by category")
		for _, c := range r.ByCategory {
			row(c.Category, money(c.Amount))
		}
		pdf.Ln(4)
	}

	if len(r.Budgets) > 0 {
		section("Budgets")
		pdf.SetFont("Arial", "B", 10)
		row("Category", "Budget", "Spent", "Remaining")
		pdf.SetFont("Arial", "", 10)
		for _, b := range r.Budgets {
			if b.Exceeded {
				pdf.SetTextColor(192, 0, 0)
			}
			row(b.Category, money(b.Budget), money(b.Spent), money(b.Remaining))
			pdf.SetTextColor(50, 50, 50)
		}
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, tr("Generated by gophbudget | "+time.Now().Format(time.DateOnly)), "", 0, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF report: %w", err)
	}
	return nil
}

