// internal/orchestrator/report.go
package orchestrator

import "loan-risk-sim/internal/simulation"

// RunReport is the outcome of one run of a batch.
type RunReport struct {
	Run             int       `json:"run"`
	BankruptCount   int       `json:"bankruptCount"`
	BankruptcyRate  float64   `json:"bankruptcyRate"`
	TotalBankIncome float64   `json:"totalBankIncome"`
	RatePath        []float64 `json:"ratePath"`      // months 1..n
	MonthlyIncome   []float64 `json:"monthlyIncome"` // months 1..n
}

// Report is what a simulation request returns. The top level outcome fields
// repeat the first run; Batch aggregates all of them.
type Report struct {
	RunID           string                  `json:"runId"`
	Source          string                  `json:"source"`
	Policy          string                  `json:"policy"`
	Seed            uint64                  `json:"seed"`
	ApplicantCount  int                     `json:"applicantCount"`
	AdmittedCount   int                     `json:"admittedCount"`
	AdmissionRate   float64                 `json:"admissionRate"`
	BankruptCount   int                     `json:"bankruptCount"`
	BankruptcyRate  float64                 `json:"bankruptcyRate"`
	TotalBankIncome float64                 `json:"totalBankIncome"`
	MonthlyIncome   []float64               `json:"monthlyIncome"`
	Runs            []RunReport             `json:"runs"`
	Batch           simulation.BatchSummary `json:"batch"`
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return simulation.Round2(float64(n) / float64(d))
}

// months drops the unused index 0 of a per-month series.
func months(series []float64) []float64 {
	if len(series) <= 1 {
		return []float64{}
	}
	out := make([]float64, len(series)-1)
	copy(out, series[1:])
	return out
}
