package record_test

import (
	"lexmerge/internal/domain"
)

var validValues = map[string]string{
	"COURT":                          "Chief Judicial Magistrate, Madurai",
	"BRANCH":                         "Anna Nagar",
	"OFFICER NAME WITH S/O AND AGED": "R. Senthil, S/o. Raman aged 42 years",
	"ACCOUNT NO":                     "123456789012",
	"AMOUNT SANCTIONED":              "5,00,000",
	"OUTSTANDING DATE":               "31.03.2024",
	"OUTSTANDING AMOUNT":             "4,12,345.50",
	"MICRO FINANCE 1":                "10,000",
	"MICRO FINANCE 2":                "20,000",
	"MICRO FINANCE 3":                "5,500",
	"MICRO FINANCE TOTAL":            "35,500",
	"CO-BORROWERS NO":                "2 to 4",
	"MOD DATED":                      "12.06.2019",
	"NPA DATED":                      "30.09.2023",
}

// validRecord returns a record over the full catalogue that passes every built-in check.
func validRecord() *domain.ExtractionRecord {
	rec := &domain.ExtractionRecord{}
	for i, name := range domain.FieldNames {
		rec.Fields = append(rec.Fields, domain.ExtractionField{ID: i + 1, FieldName: name, Value: validValues[name]})
	}
	return rec
}

func setValue(rec *domain.ExtractionRecord, name, value string) {
	for i := range rec.Fields {
		if rec.Fields[i].FieldName == name {
			rec.Fields[i].Value = value
			return
		}
	}
}
