package report

import (
	"regexp"
	"strconv"
	"time"

	"github.com/tillbook-dev/tillbook/internal/model"
)

// The reporting period is embedded as free text somewhere in the header
// region of the family sheet, with placement varying across export
// revisions. A bounded pattern scan beats fixed-cell addressing.
var periodPattern = regexp.MustCompile(`(0[1-9]|1[0-2])/([0-9]{4})`)

// periodScanRows bounds the scan to the header region.
const periodScanRows = 3

// DetectPeriod scans the first three raw rows of the family sheet for an
// MM/YYYY marker, row-major, first match wins. With no match the period
// defaults to now's month and defaulted is true.
func DetectPeriod(rows [][]string, now time.Time) (p model.Period, defaulted bool) {
	limit := len(rows)
	if limit > periodScanRows {
		limit = periodScanRows
	}
	for _, row := range rows[:limit] {
		for _, c := range row {
			m := periodPattern.FindStringSubmatch(c)
			if m == nil {
				continue
			}
			month, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[2])
			return model.Period{Year: year, Month: time.Month(month)}, false
		}
	}
	return model.PeriodOf(now), true
}
