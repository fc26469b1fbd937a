package model

// ReportRow is one row from a reporting section of the till export.
// All fields are raw cell text; parsing happens downstream.
type ReportRow struct {
	Label  string
	Amount string
	Rate   string // only present in the VAT section
}

// SectionKind identifies one of the four reporting sections.
type SectionKind string

const (
	SectionFamilies    SectionKind = "families"
	SectionVAT         SectionKind = "vat"
	SectionDrawer      SectionKind = "drawer"
	SectionAdjustments SectionKind = "adjustments"
)

// Section holds the rows read from one sheet of the export.
type Section struct {
	Kind SectionKind
	Rows []ReportRow
}
