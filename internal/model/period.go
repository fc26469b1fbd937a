package model

import (
	"fmt"
	"time"
)

// Period is the calendar month covered by one till export, pinned from the
// report header or defaulted to the current date. Immutable once resolved.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// EndOfMonth returns the last day of the period, the default posting date.
func (p Period) EndOfMonth() time.Time {
	firstOfNext := time.Date(p.Year, p.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1)
}

// String renders the period as "MM/YYYY".
func (p Period) String() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

// Label renders the period as "MM-YYYY", used in default entry labels.
func (p Period) Label() string {
	return fmt.Sprintf("%02d-%04d", int(p.Month), p.Year)
}
