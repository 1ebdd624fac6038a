// internal/simulation/portfolio.go
package simulation

import (
	"fmt"

	"loan-risk-sim/internal/models"
)

// SelectPortfolio admits applicants in input order and attaches the
// decision-time installment. Rejected applicants are dropped.
func SelectPortfolio(applicants []models.ApplicantRecord, marginPct, ratePct float64) ([]models.AdmittedClient, error) {
	admitted := make([]models.AdmittedClient, 0, len(applicants))
	for i, a := range applicants {
		ok, err := IsEligible(a.Age, a.TermMonths, a.Amount, a.NetIncome, a.MaintenanceCost, marginPct, ratePct)
		if err != nil {
			return nil, fmt.Errorf("applicant %d: %w", i, err)
		}
		if !ok {
			continue
		}
		installment, err := Installment(a.Amount, a.TermMonths, marginPct, ratePct)
		if err != nil {
			return nil, fmt.Errorf("applicant %d: %w", i, err)
		}
		admitted = append(admitted, models.AdmittedClient{
			ApplicantRecord: a,
			Installment:     installment,
		})
	}
	return admitted, nil
}

// LongestTerm returns the largest term among clients, or 0 when there are none.
func LongestTerm(clients []models.AdmittedClient) int {
	longest := 0
	for _, c := range clients {
		if c.TermMonths > longest {
			longest = c.TermMonths
		}
	}
	return longest
}
