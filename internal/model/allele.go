package model

// Column names of the canonical record set, in persisted order.
var AlleleCallColumns = []string{
	"FileName",
	"CaseID",
	"SpecimenID",
	"SpecimenComment",
	"LocusName",
	"ReadingBy",
	"ReadingDateTime",
	"AlleleValue",
}

// Placeholder values used when an instrument export omits a field.
const (
	NotAvailable      = "N/A"
	UnknownTime       = "Unknown"
	UndatedSentinel   = "0000-00-00T00:00:00"
	NIEMComment       = "Extracted from NIEM"
	SpreadsheetReader = "ABI3500"
)

// AlleleCall is one allele value observed at one locus for one specimen.
// Two calls are duplicates only when every field matches; the struct is
// comparable and is used directly as the dedup key.
type AlleleCall struct {
	FileName        string `json:"file_name"`
	CaseID          string `json:"case_id"`
	SpecimenID      string `json:"specimen_id"`
	SpecimenComment string `json:"specimen_comment"`
	LocusName       string `json:"locus_name"`
	ReadingBy       string `json:"reading_by"`
	ReadingDateTime string `json:"reading_datetime"`
	AlleleValue     string `json:"allele_value"`
}

// Row returns the call as a string slice in AlleleCallColumns order.
func (c AlleleCall) Row() []string {
	return []string{
		c.FileName,
		c.CaseID,
		c.SpecimenID,
		c.SpecimenComment,
		c.LocusName,
		c.ReadingBy,
		c.ReadingDateTime,
		c.AlleleValue,
	}
}

// AlleleCallFromRow builds a call from a row in AlleleCallColumns order.
// Short rows leave trailing fields empty.
func AlleleCallFromRow(row []string) AlleleCall {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return AlleleCall{
		FileName:        get(0),
		CaseID:          get(1),
		SpecimenID:      get(2),
		SpecimenComment: get(3),
		LocusName:       get(4),
		ReadingBy:       get(5),
		ReadingDateTime: get(6),
		AlleleValue:     get(7),
	}
}
