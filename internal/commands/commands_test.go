package commands

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tillbook-dev/tillbook/internal/runlog"
	"github.com/tillbook-dev/tillbook/internal/settings"
)

// runTillbook executes the CLI in-process and captures stdout/stderr.
func runTillbook(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeExportFile drops a stock till export workbook at path.
func writeExportFile(t *testing.T, path string) {
	t.Helper()
	sheets := map[string][][]string{
		"ANALYSE FAMILLES": {
			{"Rapport 07/2024"},
			{},
			{"FAMILLE", "CA HT"},
			{"Bar 20%", "1200,00"},
			{"TOTAL", "1200,00"},
		},
		"ANALYSE TVA": {
			{}, {},
			{"LIBELLE TVA", "Taux", "TVA"},
			{"TVA normale", "20", "240,00"},
		},
		"Solde tiroir": {
			{}, {},
			{"Paiement", "Montant en euro"},
			{"ESPECES", "1440,00"},
		},
		"Point comptable": {
			{}, {}, {}, {}, {}, {},
			{"Libellé", "Montant en euro"},
		},
	}

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
	require.NoError(t, f.SaveAs(path))
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runTillbook(t, "init", dir)
	require.NoError(t, err)

	for _, d := range []string{"settings", "logs", "exports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	data, err := os.ReadFile(filepath.Join(dir, "tillbook.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "code: VE")
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runTillbook(t, "init", dir)
	require.NoError(t, err)

	_, _, err = runTillbook(t, "init", dir)
	assert.Error(t, err)
}

func TestGenerate_WritesExportAndRunLog(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "export.xlsx")
	writeExportFile(t, src)

	stdout, _, err := runTillbook(t, "generate", src, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "balanced")
	assert.Contains(t, stdout, "07/2024")

	f, err := os.Open(filepath.Join(dir, "exports", "ECRITURES_07-2024.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	// Header + family credit + VAT credit + drawer debit.
	require.Len(t, records, 4)
	assert.Equal(t, "707000000", records[1][2])
	assert.Equal(t, "31/07/2024", records[1][0])

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "07/2024", entries[0].Period)
	assert.Equal(t, 3, entries[0].Lines)
	assert.True(t, entries[0].Difference.IsZero())
}

func TestGenerate_AppliesUserSettings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "export.xlsx")
	writeExportFile(t, src)

	require.NoError(t, settings.Save(dir, "aurore", settings.Settings{
		FamilyToAccount: map[string]string{"Bar 20%": "707100000"},
	}))

	out := filepath.Join(dir, "journal.csv")
	_, _, err := runTillbook(t, "generate", src, "--dir", dir, "--user", "aurore", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "707100000")
}

func TestGenerate_MissingFileFails(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runTillbook(t, "generate", filepath.Join(dir, "nope.xlsx"), "--dir", dir)
	assert.Error(t, err)
}

func TestGenerate_BadFormatFails(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "export.xlsx")
	writeExportFile(t, src)

	_, _, err := runTillbook(t, "generate", src, "--dir", dir, "--format", "docx")
	assert.Error(t, err)
}

func TestAccounts_SetThenList(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runTillbook(t, "accounts", "set", "--dir", dir, "--user", "aurore",
		"--family", "Bar 20%=707100000",
		"--vat", "0.2=445710099",
		"--adjustment", "65800001")
	require.NoError(t, err)

	stdout, _, err := runTillbook(t, "accounts", "list", "--dir", dir, "--user", "aurore")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Bar 20% -> 707100000")
	assert.Contains(t, stdout, "0.2 -> 445710099")
	assert.Contains(t, stdout, "Adjustment account: 65800001")
}

func TestAccounts_SetRejectsMalformedPair(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runTillbook(t, "accounts", "set", "--dir", dir, "--family", "Bar 20%")
	assert.Error(t, err)
}
