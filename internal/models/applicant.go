// internal/models/applicant.go
package models

// SourceRow is one raw applicant row as read from a data source, before any
// synthetic income or cost has been drawn.
type SourceRow struct {
	Line       int `json:"line"`
	Age        int `json:"age"`
	Amount     int `json:"amount"`
	TermMonths int `json:"monthsLoanDuration"`
}

// ApplicantRecord is a loan applicant ready for the eligibility decision.
type ApplicantRecord struct {
	Age             int     `json:"age"`
	TermMonths      int     `json:"termMonths"`
	Amount          float64 `json:"amount"`
	GrossIncome     float64 `json:"grossIncome"`
	NetIncome       float64 `json:"netIncome"`
	MaintenanceCost float64 `json:"maintenanceCost"`
}
