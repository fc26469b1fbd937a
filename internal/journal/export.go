package journal

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/tillbook-dev/tillbook/internal/model"
)

// BuildXLSX renders the journal and its balance summary as a workbook
// with one entries sheet and one summary sheet.
func BuildXLSX(j model.Journal, summary Summary) ([]byte, error) {
	f := excelize.NewFile()
	entriesSheet := "ECRITURES"
	summarySheet := "CONTROLE"
	f.SetSheetName("Sheet1", entriesSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}

	headers := []string{"DATE", "JOURNAL_CODE", "ACCOUNT_NUMBER", "LABEL", "DEBIT", "CREDIT"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(entriesSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, line := range j.Lines {
		rowNum := i + 2
		values := []interface{}{
			line.Date.Format(dateFormat),
			line.JournalCode,
			line.Account,
			line.Label,
			line.Debit.InexactFloat64(),
			line.Credit.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(entriesSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(summarySheet, "A1", "Total debit")
	_ = f.SetCellValue(summarySheet, "B1", summary.TotalDebit.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A2", "Total credit")
	_ = f.SetCellValue(summarySheet, "B2", summary.TotalCredit.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A3", "Difference")
	_ = f.SetCellValue(summarySheet, "B3", summary.Difference.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPDF renders the journal as a review document: balance summary
// followed by the entries table.
func BuildPDF(j model.Journal, summary Summary, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total debit: %s", summary.TotalDebit.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total credit: %s", summary.TotalCredit.StringFixed(2)))
	pdf.Ln(5)
	if !summary.Balanced() {
		pdf.Cell(0, 6, fmt.Sprintf("DISCREPANCY: %s", summary.Difference.StringFixed(2)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(22, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 6, "Journal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Account", "1", 0, "C", false, 0, "")
	pdf.CellFormat(140, 6, "Label", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Debit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, "Credit", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, line := range j.Lines {
		pdf.CellFormat(22, 6, line.Date.Format(dateFormat), "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, line.JournalCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, line.Account, "1", 0, "C", false, 0, "")
		pdf.CellFormat(140, 6, line.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, line.Debit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line.Credit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
