// internal/models/client.go
package models

// AdmittedClient is an applicant that passed the eligibility decision.
type AdmittedClient struct {
	ApplicantRecord
	Installment float64 `json:"installment"`
	Bankrupt    bool    `json:"bankrupt"`
}

// MonthSnapshot is the state of one client after a simulated month.
type MonthSnapshot struct {
	Month           int     `json:"month"`
	RatePct         float64 `json:"ratePct"`
	MaintenanceCost float64 `json:"maintenanceCost"`
	Installment     float64 `json:"installment"`
	Income          float64 `json:"income"`
	MissedCount     int     `json:"missedCount"`
	Bankrupt        bool    `json:"bankrupt"`
}

// ClientTrace is the append-only monthly history of a single client.
// Client holds the state at admission and is never modified.
type ClientTrace struct {
	Client AdmittedClient  `json:"client"`
	Months []MonthSnapshot `json:"months"`
}

// Bankrupt reports whether the client defaulted during the run.
func (t ClientTrace) Bankrupt() bool {
	if len(t.Months) == 0 {
		return t.Client.Bankrupt
	}
	return t.Months[len(t.Months)-1].Bankrupt
}

// Current returns the client state after the last simulated month.
func (t ClientTrace) Current() AdmittedClient {
	c := t.Client
	if len(t.Months) == 0 {
		return c
	}
	last := t.Months[len(t.Months)-1]
	c.MaintenanceCost = last.MaintenanceCost
	c.Installment = last.Installment
	c.Bankrupt = last.Bankrupt
	return c
}
