package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level tillbook.yaml configuration.
type Config struct {
	Journal  JournalConfig  `yaml:"journal"`
	Report   ReportConfig   `yaml:"report"`
	Payments PaymentsConfig `yaml:"payments"`
	Server   ServerConfig   `yaml:"server"`
}

// JournalConfig controls generated entry defaults.
type JournalConfig struct {
	Code        string `yaml:"code"`         // e.g. "VE"
	LabelPrefix string `yaml:"label_prefix"` // run label = "<prefix> MM-YYYY"
}

// SheetConfig locates one reporting section in the export workbook.
// HeaderRow is 1-based. Column names are matched by exact string after
// trimming; a missing name falls back to the sheet's first/second column.
type SheetConfig struct {
	Name         string `yaml:"name"`
	HeaderRow    int    `yaml:"header_row"`
	LabelColumn  string `yaml:"label_column"`
	AmountColumn string `yaml:"amount_column"`
	RateColumn   string `yaml:"rate_column,omitempty"`
}

// ReportConfig describes the four required sections.
type ReportConfig struct {
	Families    SheetConfig `yaml:"families"`
	VAT         SheetConfig `yaml:"vat"`
	Drawer      SheetConfig `yaml:"drawer"`
	Adjustments SheetConfig `yaml:"adjustments"`
}

// PaymentsConfig fixes the payment-token match precedence. The source
// exports drifted on this order across revisions, so it is explicit
// configuration rather than a hard-coded tie-break.
type PaymentsConfig struct {
	TokenOrder []string `yaml:"token_order"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	LogLevel       string `yaml:"log_level"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Load reads a tillbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration matching the stock till export layout.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Code:        "VE",
			LabelPrefix: "CA",
		},
		Report: ReportConfig{
			Families: SheetConfig{
				Name:         "ANALYSE FAMILLES",
				HeaderRow:    3,
				LabelColumn:  "FAMILLE",
				AmountColumn: "CA HT",
			},
			VAT: SheetConfig{
				Name:         "ANALYSE TVA",
				HeaderRow:    3,
				LabelColumn:  "LIBELLE TVA",
				AmountColumn: "TVA",
				RateColumn:   "Taux",
			},
			Drawer: SheetConfig{
				Name:         "Solde tiroir",
				HeaderRow:    3,
				LabelColumn:  "Paiement",
				AmountColumn: "Montant en euro",
			},
			Adjustments: SheetConfig{
				Name:         "Point comptable",
				HeaderRow:    7,
				LabelColumn:  "Libellé",
				AmountColumn: "Montant en euro",
			},
		},
		Payments: PaymentsConfig{
			TokenOrder: []string{"ESPECES", "CB", "CHEQUE", "VIREMENT"},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			LogLevel:       "info",
			MaxUploadBytes: 16 << 20,
		},
	}
}
