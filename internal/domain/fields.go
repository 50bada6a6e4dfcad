package domain

// FieldNames is the fixed catalogue of fields requested from the extraction
// provider, in canonical order. Field ids are 1-based positions in this list.
var FieldNames = []string{
	"COURT",
	"BRANCH",
	"OFFICER NAME WITH S/O AND AGED",
	"BRANCH ADDRESS",
	"ACCOUNT NO",
	"AMOUNT SANCTIONED",
	"OUTSTANDING DATE",
	"OUTSTANDING AMOUNT",
	"MICRO FINANCE 1",
	"MICRO FINANCE 2",
	"MICRO FINANCE 3",
	"MICRO FINANCE TOTAL",
	"OUTSTANDING AMOUNT IN BOX",
	"CO-BORROWERS NO",
	"PROPERTY OWNER NO",
	"MOD DATED",
	"MOD DOC NO.",
	"REGISTRATION DISTRICT",
	"SUB REGISTRATION",
	"DOC TYPE SALE/SETTLEMENT",
	"ORIGINAL DOCUMENT DATED",
	"NPA DATED",
	"DEMAND NOTICE DATED",
	"OUTSTANDING AMOUNT IN WORDS",
	"MFL IN WORDS",
	"OUTSTANDING AMOUNT DATED",
	"POSESSION NOTICE DATED",
	"NEWS PAPER AD DATED",
	"POLICE STATION",
	"VERIFIED BY",
	"AGED",
	"WITHOUT AGED",
	"VERIFIED MONTH AND YEAR",
	"LOAN APPLICATION DATE",
	"LOAN SANCTION LETTER DATE",
	"ORIGINAL DOCUMENT TRANSFER FROM",
	"ORIGINAL DOCUMENT TRANSFER TO",
	"ORIGINAL DOCUMENT NO",
	"EC DATED",
	"STATEMENT OF ACCOUNTS DATED",
	"AGREEMENT DATE",
	"DECLARATION DATED",
}

// Display labels for the two free-text sections, used by tabular exports.
const (
	PropertyDescriptionLabel = "DESCRIPTION OF THE IMMOVABLE PROPERTY"
	ApplicantsLabel          = "APPLICANTS AND CO-BORROWERS"
)

// ExportRow is one row of a tabular export.
type ExportRow struct {
	SNo       int
	FieldName string
	Value     string
}

// ExportRows lists the record as export rows: one per field numbered by field id,
// then the two sections numbered len(Fields)+1 and len(Fields)+2.
func (r *ExtractionRecord) ExportRows() []ExportRow {
	rows := make([]ExportRow, 0, len(r.Fields)+2)
	for _, f := range r.Fields {
		rows = append(rows, ExportRow{SNo: f.ID, FieldName: f.FieldName, Value: f.Value})
	}
	n := len(r.Fields)
	rows = append(rows,
		ExportRow{SNo: n + 1, FieldName: PropertyDescriptionLabel, Value: r.ImmovablePropertyDescription},
		ExportRow{SNo: n + 2, FieldName: ApplicantsLabel, Value: r.ApplicantsAndCoBorrowers},
	)
	return rows
}
