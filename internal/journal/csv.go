package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tillbook-dev/tillbook/internal/model"
)

// Header is the CSV header for journal exports.
const Header = "DATE,JOURNAL_CODE,ACCOUNT_NUMBER,LABEL,DEBIT,CREDIT"

const (
	numFields  = 6
	dateFormat = "02/01/2006"
	colDate    = 0
	colCode    = 1
	colAccount = 2
	colLabel   = 3
	colDebit   = 4
	colCredit  = 5
)

// WriteCSV writes the journal as CSV, header included. Both amount
// columns are always present; the empty side is 0.00.
func WriteCSV(w io.Writer, j model.Journal) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, line := range j.Lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLine converts a JournalLine to a CSV row.
func MarshalLine(line model.JournalLine) []string {
	row := make([]string, numFields)
	row[colDate] = line.Date.Format(dateFormat)
	row[colCode] = line.JournalCode
	row[colAccount] = line.Account
	row[colLabel] = line.Label
	row[colDebit] = line.Debit.StringFixed(2)
	row[colCredit] = line.Credit.StringFixed(2)
	return row
}
