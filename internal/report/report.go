// Package report reads the four reporting sections of a till export
// workbook into raw rows, and pins the accounting period from the report
// header.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tillbook-dev/tillbook/internal/config"
	"github.com/tillbook-dev/tillbook/internal/model"
)

// Report is the normalized content of one till export.
type Report struct {
	Families    model.Section
	VAT         model.Section
	Drawer      model.Section
	Adjustments model.Section

	Period model.Period
	// PeriodDefaulted is true when no MM/YYYY marker was found and the
	// period fell back to the current date.
	PeriodDefaulted bool
}

// MissingSheetError is fatal: the run cannot proceed without all four
// sections.
type MissingSheetError struct {
	Sheet string
}

func (e MissingSheetError) Error() string {
	return fmt.Sprintf("missing sheet %q", e.Sheet)
}

// MissingColumnError is fatal: a section sheet is too narrow to contain
// the expected column even by positional fallback.
type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q has no column %q", e.Sheet, e.Column)
}

// ReadFile reads a till export workbook from disk.
func ReadFile(path string, cfg config.ReportConfig, now time.Time) (*Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return read(f, cfg, now)
}

// Read reads a till export workbook from a stream, e.g. an upload body.
func Read(r io.Reader, cfg config.ReportConfig, now time.Time) (*Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return read(f, cfg, now)
}

func read(f *excelize.File, cfg config.ReportConfig, now time.Time) (*Report, error) {
	famRows, err := sheetRows(f, cfg.Families.Name)
	if err != nil {
		return nil, err
	}

	rpt := &Report{}
	rpt.Period, rpt.PeriodDefaulted = DetectPeriod(famRows, now)

	if rpt.Families, err = section(famRows, cfg.Families, model.SectionFamilies); err != nil {
		return nil, err
	}

	vatRows, err := sheetRows(f, cfg.VAT.Name)
	if err != nil {
		return nil, err
	}
	if rpt.VAT, err = section(vatRows, cfg.VAT, model.SectionVAT); err != nil {
		return nil, err
	}

	drawerRows, err := sheetRows(f, cfg.Drawer.Name)
	if err != nil {
		return nil, err
	}
	if rpt.Drawer, err = section(drawerRows, cfg.Drawer, model.SectionDrawer); err != nil {
		return nil, err
	}

	adjRows, err := sheetRows(f, cfg.Adjustments.Name)
	if err != nil {
		return nil, err
	}
	if rpt.Adjustments, err = section(adjRows, cfg.Adjustments, model.SectionAdjustments); err != nil {
		return nil, err
	}

	return rpt, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, MissingSheetError{Sheet: sheet}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// section extracts raw rows below the configured header row. Column names
// are matched by exact string after trimming; when the expected name is
// absent the label falls back to the first column, the amount to the
// second, the rate to the third.
func section(rows [][]string, sc config.SheetConfig, kind model.SectionKind) (model.Section, error) {
	if len(rows) < sc.HeaderRow {
		return model.Section{}, MissingColumnError{Sheet: sc.Name, Column: sc.LabelColumn}
	}
	header := rows[sc.HeaderRow-1]

	labelCol, err := findColumn(header, sc.Name, sc.LabelColumn, 0)
	if err != nil {
		return model.Section{}, err
	}
	amountCol, err := findColumn(header, sc.Name, sc.AmountColumn, 1)
	if err != nil {
		return model.Section{}, err
	}
	rateCol := -1
	if sc.RateColumn != "" {
		if rateCol, err = findColumn(header, sc.Name, sc.RateColumn, 2); err != nil {
			return model.Section{}, err
		}
	}

	sec := model.Section{Kind: kind}
	for _, row := range rows[sc.HeaderRow:] {
		r := model.ReportRow{
			Label:  strings.TrimSpace(cell(row, labelCol)),
			Amount: strings.TrimSpace(cell(row, amountCol)),
		}
		if rateCol >= 0 {
			r.Rate = strings.TrimSpace(cell(row, rateCol))
		}
		if r.Label == "" && r.Amount == "" && r.Rate == "" {
			continue
		}
		sec.Rows = append(sec.Rows, r)
	}
	return sec, nil
}

func findColumn(header []string, sheet, name string, fallback int) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	if fallback < len(header) {
		return fallback, nil
	}
	return 0, MissingColumnError{Sheet: sheet, Column: name}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
