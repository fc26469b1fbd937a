package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Journal.Code = "VT"
	cfg.Payments.TokenOrder = []string{"CB", "ESPECES"}

	path := filepath.Join(t.TempDir(), "tillbook.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "VT", got.Journal.Code)
	assert.Equal(t, cfg.Journal.LabelPrefix, got.Journal.LabelPrefix)
	assert.Equal(t, cfg.Report.Families, got.Report.Families)
	assert.Equal(t, cfg.Report.VAT, got.Report.VAT)
	assert.Equal(t, cfg.Report.Drawer, got.Report.Drawer)
	assert.Equal(t, cfg.Report.Adjustments, got.Report.Adjustments)
	assert.Equal(t, []string{"CB", "ESPECES"}, got.Payments.TokenOrder)
	assert.Equal(t, cfg.Server.Addr, got.Server.Addr)
	assert.Equal(t, cfg.Server.MaxUploadBytes, got.Server.MaxUploadBytes)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "VE", cfg.Journal.Code)
	assert.Equal(t, "CA", cfg.Journal.LabelPrefix)
	assert.Equal(t, "ANALYSE FAMILLES", cfg.Report.Families.Name)
	assert.Equal(t, 3, cfg.Report.Families.HeaderRow)
	assert.Equal(t, "CA HT", cfg.Report.Families.AmountColumn)
	assert.Equal(t, "Taux", cfg.Report.VAT.RateColumn)
	assert.Equal(t, 7, cfg.Report.Adjustments.HeaderRow)
	assert.Equal(t, []string{"ESPECES", "CB", "CHEQUE", "VIREMENT"}, cfg.Payments.TokenOrder)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "tillbook.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "code: VE")
	assert.Contains(t, contents, "name: ANALYSE FAMILLES")
	assert.Contains(t, contents, "header_row: 7")
	assert.Contains(t, contents, "token_order:")
}
