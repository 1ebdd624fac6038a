// internal/provisioning/synthesize.go
package provisioning

import (
	"loan-risk-sim/internal/models"
	"loan-risk-sim/internal/simulation"
)

// Income tax brackets applied to the synthetic gross income.
const (
	TaxThresholdAnnual = 85528
	LowerTaxRate       = 0.17
	UpperTaxRate       = 0.32
)

// Synthesizer draws the income and baseline maintenance cost that the source
// rows do not carry.
type Synthesizer struct {
	drawer       *simulation.Drawer
	costKind     simulation.Kind
	incomeParams simulation.Params
}

func NewSynthesizer(drawer *simulation.Drawer, costKind simulation.Kind, incomeStdDev float64) *Synthesizer {
	return &Synthesizer{
		drawer:       drawer,
		costKind:     costKind,
		incomeParams: simulation.GrossIncomeParams(incomeStdDev),
	}
}

// NetIncome applies the bracket selected by annualised gross income.
func NetIncome(gross float64) float64 {
	rate := UpperTaxRate
	if gross*12 < TaxThresholdAnnual {
		rate = LowerTaxRate
	}
	return simulation.Round2(gross - gross*rate)
}

// Applicant completes one row. Gross income is drawn before the cost.
func (s *Synthesizer) Applicant(row models.SourceRow) models.ApplicantRecord {
	gross := simulation.Round0(s.drawer.DrawKind(simulation.KindNormal, s.incomeParams))
	return models.ApplicantRecord{
		Age:             row.Age,
		TermMonths:      row.TermMonths,
		Amount:          float64(row.Amount),
		GrossIncome:     gross,
		NetIncome:       NetIncome(gross),
		MaintenanceCost: s.drawer.MaintenanceCost(s.costKind),
	}
}

func (s *Synthesizer) Applicants(rows []models.SourceRow) []models.ApplicantRecord {
	out := make([]models.ApplicantRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.Applicant(r))
	}
	return out
}
