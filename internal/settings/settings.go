// Package settings persists per-user account-mapping overrides as flat
// JSON files, one file per user under <workDir>/settings/.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tillbook-dev/tillbook/internal/accounts"
)

// Settings is one user's saved mapping overrides. Zero-value fields mean
// "use the built-in default".
type Settings struct {
	FamilyToAccount        map[string]string `json:"family_to_account,omitempty"`
	VATRateToAccount       map[string]string `json:"vat_rate_to_account,omitempty"`
	PaymentMethodToAccount map[string]string `json:"payment_method_to_account,omitempty"`
	AdjustmentAccount      string            `json:"adjustment_account,omitempty"`
}

// Overrides converts saved settings into resolver overrides.
func (s Settings) Overrides() accounts.Overrides {
	return accounts.Overrides{
		Families:   s.FamilyToAccount,
		VAT:        s.VATRateToAccount,
		Payments:   s.PaymentMethodToAccount,
		Adjustment: s.AdjustmentAccount,
	}
}

const settingsDir = "settings"

// Path returns the settings file path for a user.
func Path(workDir, user string) string {
	return filepath.Join(workDir, settingsDir, sanitizeUser(user)+".json")
}

// Load reads a user's settings. A missing file is not an error: it yields
// empty settings, meaning defaults apply.
func Load(workDir, user string) (Settings, error) {
	data, err := os.ReadFile(Path(workDir, user))
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// Save writes a user's settings. Last write wins; concurrent writers to
// the same user are not a supported scenario.
func Save(workDir, user string, s Settings) error {
	dir := filepath.Join(workDir, settingsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(Path(workDir, user), data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// sanitizeUser keeps user-supplied names from escaping the settings dir.
func sanitizeUser(user string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, user)
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		cleaned = "default"
	}
	return cleaned
}
