// Package runlog keeps an append-only CSV audit trail of generation
// runs, one row per run.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp   time.Time
	User        string
	SourceFile  string
	Period      string // "MM/YYYY"
	Lines       int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,user,source_file,period,lines,total_debit,total_credit,difference"

const (
	numFields     = 8
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colTimestamp  = 0
	colUser       = 1
	colSourceFile = 2
	colPeriod     = 3
	colLines      = 4
	colDebit      = 5
	colCredit     = 6
	colDifference = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colUser] = e.User
	row[colSourceFile] = e.SourceFile
	row[colPeriod] = e.Period
	row[colLines] = strconv.Itoa(e.Lines)
	row[colDebit] = e.TotalDebit.StringFixed(2)
	row[colCredit] = e.TotalCredit.StringFixed(2)
	row[colDifference] = e.Difference.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	lines, err := strconv.Atoi(record[colLines])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing lines %q: %w", record[colLines], err)
	}
	debit, err := decimal.NewFromString(record[colDebit])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total_debit %q: %w", record[colDebit], err)
	}
	credit, err := decimal.NewFromString(record[colCredit])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total_credit %q: %w", record[colCredit], err)
	}
	diff, err := decimal.NewFromString(record[colDifference])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing difference %q: %w", record[colDifference], err)
	}

	return Entry{
		Timestamp:   ts,
		User:        record[colUser],
		SourceFile:  record[colSourceFile],
		Period:      record[colPeriod],
		Lines:       lines,
		TotalDebit:  debit,
		TotalCredit: credit,
		Difference:  diff,
	}, nil
}

// Append writes an entry to <workDir>/logs/run-log.csv, creating the file
// and header if needed.
func Append(workDir string, e Entry) error {
	dir := filepath.Join(workDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(workDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return cw.Error()
}

// Read returns all entries from <workDir>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(workDir string) ([]Entry, error) {
	path := filepath.Join(workDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
