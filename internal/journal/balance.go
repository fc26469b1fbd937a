package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tillbook-dev/tillbook/internal/model"
)

// Summary is the balance check over a full journal. Imbalance is
// advisory: the journal is still delivered, since a discrepancy usually
// means a data-quality issue upstream that a human must resolve.
type Summary struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	// Difference is debit minus credit, rounded to 2 decimal places.
	Difference decimal.Decimal
}

// Balanced reports whether debits equal credits within the 0.01 rounding
// tolerance.
func (s Summary) Balanced() bool {
	return s.Difference.IsZero()
}

func (s Summary) String() string {
	if s.Balanced() {
		return fmt.Sprintf("balanced: debit %s = credit %s",
			s.TotalDebit.StringFixed(2), s.TotalCredit.StringFixed(2))
	}
	return fmt.Sprintf("imbalanced: debit %s, credit %s, difference %s",
		s.TotalDebit.StringFixed(2), s.TotalCredit.StringFixed(2), s.Difference.StringFixed(2))
}

// Verify sums the debit and credit columns independently, rounds each to
// 2 decimal places, and compares.
func Verify(j model.Journal) Summary {
	debit := j.TotalDebit().Round(2)
	credit := j.TotalCredit().Round(2)
	return Summary{
		TotalDebit:  debit,
		TotalCredit: credit,
		Difference:  debit.Sub(credit),
	}
}
