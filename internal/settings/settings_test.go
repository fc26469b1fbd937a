package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir, "aurore")
	require.NoError(t, err)
	assert.Empty(t, s.FamilyToAccount)
	assert.Empty(t, s.AdjustmentAccount)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := Settings{
		FamilyToAccount:        map[string]string{"Bar 20%": "707100000"},
		VATRateToAccount:       map[string]string{"0.2": "445710099"},
		PaymentMethodToAccount: map[string]string{"CB": "411100013"},
		AdjustmentAccount:      "65800001",
	}
	require.NoError(t, Save(dir, "aurore", in))

	out, err := Load(dir, "aurore")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "settings"), 0o755))
	require.NoError(t, os.WriteFile(Path(dir, "bob"), []byte("{nope"), 0o644))

	_, err := Load(dir, "bob")
	assert.Error(t, err)
}

func TestPath_SanitizesUser(t *testing.T) {
	dir := t.TempDir()
	p := Path(dir, "../../etc/passwd")
	assert.Equal(t, filepath.Join(dir, "settings", "_.._etc_passwd.json"), p)

	assert.Equal(t, filepath.Join(dir, "settings", "default.json"), Path(dir, ""))
}

func TestOverrides(t *testing.T) {
	s := Settings{
		FamilyToAccount:   map[string]string{"Cuisine": "707200000"},
		AdjustmentAccount: "65800002",
	}
	ov := s.Overrides()
	assert.Equal(t, "707200000", ov.Families["Cuisine"])
	assert.Equal(t, "65800002", ov.Adjustment)
}
