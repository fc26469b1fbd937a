// Package journal derives a double-entry sales journal from the parsed
// till report and verifies that it balances.
package journal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillbook-dev/tillbook/internal/accounts"
	"github.com/tillbook-dev/tillbook/internal/model"
	"github.com/tillbook-dev/tillbook/internal/money"
	"github.com/tillbook-dev/tillbook/internal/report"
)

// Params fixes the per-run entry fields. The resolver is frozen before
// generation; running twice with identical input and params yields an
// identical journal.
type Params struct {
	Date        time.Time
	Label       string
	JournalCode string
}

// Generator emits journal lines from the four report sections.
type Generator struct {
	resolver *accounts.Resolver
	params   Params
}

// NewGenerator creates a Generator over a resolved account table.
func NewGenerator(resolver *accounts.Resolver, params Params) *Generator {
	return &Generator{resolver: resolver, params: params}
}

// Generate processes the four sections in fixed order: family revenue,
// VAT collected, drawer receipts, point-comptable adjustments. Sections
// do not interact; source-row order is preserved within each.
func (g *Generator) Generate(rpt *report.Report) model.Journal {
	var j model.Journal
	j.Lines = append(j.Lines, g.familyLines(rpt.Families)...)
	j.Lines = append(j.Lines, g.vatLines(rpt.VAT)...)
	j.Lines = append(j.Lines, g.drawerLines(rpt.Drawer)...)
	j.Lines = append(j.Lines, g.adjustmentLines(rpt.Adjustments)...)
	return j
}

// familyLines credits revenue per product family. Totals rows and
// zero-or-negative amounts post nothing.
func (g *Generator) familyLines(sec model.Section) []model.JournalLine {
	var lines []model.JournalLine
	for _, row := range sec.Rows {
		if row.Label == "" || isTotal(row.Label) {
			continue
		}
		amount := money.ParseAmount(row.Amount)
		if !amount.IsPositive() {
			continue
		}
		lines = append(lines, g.credit(
			g.resolver.FamilyAccount(row.Label),
			g.params.Label+" - "+row.Label,
			amount,
		))
	}
	return lines
}

// vatLines credits collected VAT per rate bucket. Exempt and totals rows
// post nothing; rows whose rate maps to no configured account are skipped
// entirely rather than defaulted to a wrong account.
func (g *Generator) vatLines(sec model.Section) []model.JournalLine {
	var lines []model.JournalLine
	for _, row := range sec.Rows {
		label := strings.ToUpper(row.Label)
		if strings.Contains(label, "EXONERE") || strings.Contains(label, "EXONÉRÉ") || isTotal(row.Label) {
			continue
		}
		amount := money.ParseAmount(row.Amount)
		if !amount.IsPositive() {
			continue
		}
		rate, ok := money.ParseRate(row.Rate)
		if !ok {
			continue
		}
		account, ok := g.resolver.VATAccount(money.RateKey(rate))
		if !ok {
			continue
		}
		lines = append(lines, g.credit(
			account,
			"TVA "+money.RatePercent(rate)+"%",
			amount,
		))
	}
	return lines
}

// drawerLines debits the account classified from each payment label. The
// line label is the run's general label, not the payment method.
func (g *Generator) drawerLines(sec model.Section) []model.JournalLine {
	var lines []model.JournalLine
	for _, row := range sec.Rows {
		if row.Label == "" || isTotal(row.Label) {
			continue
		}
		amount := money.ParseAmount(row.Amount)
		if !amount.IsPositive() {
			continue
		}
		lines = append(lines, g.debit(
			g.resolver.PaymentAccount(row.Label),
			g.params.Label,
			amount,
		))
	}
	return lines
}

// adjustmentLines debits the configured adjustment account with the
// absolute amount. Adjustments may be legitimately negative in the source
// but always post as a debit magnitude; only exact zero posts nothing.
func (g *Generator) adjustmentLines(sec model.Section) []model.JournalLine {
	var lines []model.JournalLine
	for _, row := range sec.Rows {
		if row.Label == "" || isTotal(row.Label) {
			continue
		}
		amount := money.ParseAmount(row.Amount)
		if amount.IsZero() {
			continue
		}
		lines = append(lines, g.debit(
			g.resolver.AdjustmentAccount(),
			g.params.Label+" - "+row.Label,
			amount.Abs(),
		))
	}
	return lines
}

func (g *Generator) credit(account, label string, amount decimal.Decimal) model.JournalLine {
	return model.JournalLine{
		Date:        g.params.Date,
		JournalCode: g.params.JournalCode,
		Account:     account,
		Label:       label,
		Credit:      amount,
	}
}

func (g *Generator) debit(account, label string, amount decimal.Decimal) model.JournalLine {
	return model.JournalLine{
		Date:        g.params.Date,
		JournalCode: g.params.JournalCode,
		Account:     account,
		Label:       label,
		Debit:       amount,
	}
}

// isTotal reports whether a row is a totals row; such rows are always
// excluded, whatever the section.
func isTotal(label string) bool {
	return strings.Contains(strings.ToUpper(label), "TOTAL")
}
