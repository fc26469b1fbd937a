package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tillbook-dev/tillbook/internal/config"
	"github.com/tillbook-dev/tillbook/internal/model"
)

// buildWorkbook assembles an in-memory XLSX with the given sheets.
func buildWorkbook(t *testing.T, sheets map[string][][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cells := make([]interface{}, len(row))
			for j, c := range row {
				cells[j] = c
			}
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &cells))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func stockSheets() map[string][][]string {
	return map[string][][]string{
		"ANALYSE FAMILLES": {
			{"Rapport 07/2024"},
			{},
			{"FAMILLE", "CA HT"},
			{"Bar 20%", "1200,00"},
			{"Cuisine", "800,00"},
			{"TOTAL", "2000,00"},
		},
		"ANALYSE TVA": {
			{},
			{},
			{"LIBELLE TVA", "Taux", "TVA"},
			{"TVA normale", "20", "240,00"},
			{"TVA réduite", "10", "80,00"},
		},
		"Solde tiroir": {
			{},
			{},
			{"Paiement", "Montant en euro"},
			{"ESPECES", "500,00"},
			{"CB", "1820,00"},
		},
		"Point comptable": {
			{}, {}, {}, {}, {}, {},
			{"Libellé", "Montant en euro"},
			{"Ecart de caisse", "-10,00"},
		},
	}
}

func TestRead_StockLayout(t *testing.T) {
	r := buildWorkbook(t, stockSheets())
	rpt, err := Read(r, config.Default().Report, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "07/2024", rpt.Period.String())
	assert.False(t, rpt.PeriodDefaulted)

	require.Len(t, rpt.Families.Rows, 3)
	assert.Equal(t, model.ReportRow{Label: "Bar 20%", Amount: "1200,00"}, rpt.Families.Rows[0])
	assert.Equal(t, "TOTAL", rpt.Families.Rows[2].Label)

	require.Len(t, rpt.VAT.Rows, 2)
	assert.Equal(t, model.ReportRow{Label: "TVA normale", Rate: "20", Amount: "240,00"}, rpt.VAT.Rows[0])

	require.Len(t, rpt.Drawer.Rows, 2)
	assert.Equal(t, "ESPECES", rpt.Drawer.Rows[0].Label)

	require.Len(t, rpt.Adjustments.Rows, 1)
	assert.Equal(t, model.ReportRow{Label: "Ecart de caisse", Amount: "-10,00"}, rpt.Adjustments.Rows[0])
}

func TestRead_MissingSheetIsFatal(t *testing.T) {
	sheets := stockSheets()
	delete(sheets, "ANALYSE TVA")
	r := buildWorkbook(t, sheets)

	_, err := Read(r, config.Default().Report, fixedNow)
	require.Error(t, err)
	var missing MissingSheetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ANALYSE TVA", missing.Sheet)
}

func TestRead_PositionalFallback(t *testing.T) {
	sheets := stockSheets()
	// Rename the family columns: names no longer match, positions do.
	sheets["ANALYSE FAMILLES"][2] = []string{"Libellé famille", "Montant HT"}
	r := buildWorkbook(t, sheets)

	rpt, err := Read(r, config.Default().Report, fixedNow)
	require.NoError(t, err)
	require.Len(t, rpt.Families.Rows, 3)
	assert.Equal(t, "Bar 20%", rpt.Families.Rows[0].Label)
	assert.Equal(t, "1200,00", rpt.Families.Rows[0].Amount)
}

func TestRead_PeriodDefaultWhenNoMarker(t *testing.T) {
	sheets := stockSheets()
	sheets["ANALYSE FAMILLES"][0] = []string{"Rapport mensuel"}
	r := buildWorkbook(t, sheets)

	rpt, err := Read(r, config.Default().Report, fixedNow)
	require.NoError(t, err)
	assert.True(t, rpt.PeriodDefaulted)
	assert.Equal(t, "03/2025", rpt.Period.String())
}

func TestSection_TooNarrowSheet(t *testing.T) {
	rows := [][]string{{}, {}, {"FAMILLE"}}
	_, err := section(rows, config.Default().Report.Families, model.SectionFamilies)
	require.Error(t, err)
	var missing MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "CA HT", missing.Column)
}

func TestSection_SkipsFullyEmptyRows(t *testing.T) {
	rows := [][]string{
		{}, {},
		{"FAMILLE", "CA HT"},
		{"", ""},
		{"Bar 20%", "100,00"},
		{},
	}
	sec, err := section(rows, config.Default().Report.Families, model.SectionFamilies)
	require.NoError(t, err)
	require.Len(t, sec.Rows, 1)
	assert.Equal(t, "Bar 20%", sec.Rows[0].Label)
}

func TestReadFile_NotAWorkbook(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a zip")), config.Default().Report, time.Now())
	assert.Error(t, err)
}
