package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillbook-dev/tillbook/internal/model"
)

func sampleJournal() model.Journal {
	date := time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)
	return model.Journal{Lines: []model.JournalLine{
		{Date: date, JournalCode: "VE", Account: "707000000", Label: "CA 07-2024 - Bar 20%", Credit: dec("1200.00")},
		{Date: date, JournalCode: "VE", Account: "530000000", Label: "CA 07-2024", Debit: dec("500.00")},
	}}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleJournal()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"DATE", "JOURNAL_CODE", "ACCOUNT_NUMBER", "LABEL", "DEBIT", "CREDIT"}, records[0])
	assert.Equal(t, []string{"31/07/2024", "VE", "707000000", "CA 07-2024 - Bar 20%", "0.00", "1200.00"}, records[1])
	assert.Equal(t, []string{"31/07/2024", "VE", "530000000", "CA 07-2024", "500.00", "0.00"}, records[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.Journal{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestMarshalLine_DateFormat(t *testing.T) {
	line := model.JournalLine{
		Date:    time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		Account: "707000000",
		Credit:  dec("1.00"),
	}
	row := MarshalLine(line)
	assert.Equal(t, "02/01/2024", row[colDate])
}
