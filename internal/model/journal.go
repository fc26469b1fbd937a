package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a single posting to one account: purely a debit or purely
// a credit, never both.
type JournalLine struct {
	Date        time.Time
	JournalCode string
	Account     string
	Label       string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
}

// IsDebit reports whether the line posts on the debit side.
func (l JournalLine) IsDebit() bool {
	return !l.Debit.IsZero()
}

// Journal is the ordered sequence of lines produced by one generation run.
// Order is section-of-origin (families, VAT, drawer, adjustments) then
// source-row order.
type Journal struct {
	Lines []JournalLine
}

// TotalDebit sums the debit column.
func (j Journal) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range j.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit column.
func (j Journal) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range j.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
