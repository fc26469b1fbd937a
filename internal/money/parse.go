// Package money converts the locale-formatted numeric text found in till
// exports ("1 234,56 €", "20 %") into decimals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// amountReplacer strips currency symbols and the spacing characters French
// spreadsheets use as thousands separators, and normalizes the decimal comma.
var amountReplacer = strings.NewReplacer(
	"€", "",
	" ", "",
	" ", "", // no-break space
	" ", "", // narrow no-break space
	"\t", "",
	",", ".",
)

// ParseAmount parses a monetary cell. The contract is lenient: absent or
// malformed text contributes zero rather than failing the run.
func ParseAmount(text string) decimal.Decimal {
	s := amountReplacer.Replace(text)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseRate parses a VAT rate cell. Values greater than 1 are read as
// percentages ("20" and "0,20" both normalize to 0.20); the result is
// rounded to 3 decimal places. ok is false for absent or malformed text,
// which callers must treat as "no rate bucket matched".
func ParseRate(text string) (rate decimal.Decimal, ok bool) {
	s := strings.ReplaceAll(text, "%", "")
	s = amountReplacer.Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d.Round(3), true
}

// RateKey renders a normalized rate as its canonical bucket key: the short
// decimal string, e.g. 0.055 -> "0.055", 0.10 -> "0.1", 0.20 -> "0.2".
func RateKey(rate decimal.Decimal) string {
	return rate.Round(3).String()
}

// RatePercent renders a normalized rate as a percentage without trailing
// zeros, e.g. 0.055 -> "5.5", 0.2 -> "20".
func RatePercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
