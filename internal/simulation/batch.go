// internal/simulation/batch.go
package simulation

import "loan-risk-sim/internal/models"

// BatchSummary aggregates several independent runs over the same portfolio.
type BatchSummary struct {
	Runs            int     `json:"runs"`
	MinBankrupt     int     `json:"minBankrupt"`
	MaxBankrupt     int     `json:"maxBankrupt"`
	MeanBankrupt    float64 `json:"meanBankrupt"`
	MeanBankIncome  float64 `json:"meanBankIncome"`
	TotalBankIncome float64 `json:"totalBankIncome"`
}

func Summarize(results []models.SimulationResult) BatchSummary {
	if len(results) == 0 {
		return BatchSummary{}
	}
	sum := BatchSummary{
		Runs:        len(results),
		MinBankrupt: results[0].BankruptCount,
		MaxBankrupt: results[0].BankruptCount,
	}
	bankrupt, income := 0, 0.0
	for _, r := range results {
		bankrupt += r.BankruptCount
		income += r.TotalBankIncome
		if r.BankruptCount < sum.MinBankrupt {
			sum.MinBankrupt = r.BankruptCount
		}
		if r.BankruptCount > sum.MaxBankrupt {
			sum.MaxBankrupt = r.BankruptCount
		}
	}
	n := float64(len(results))
	sum.MeanBankrupt = Round2(float64(bankrupt) / n)
	sum.MeanBankIncome = Round2(income / n)
	sum.TotalBankIncome = Round2(income)
	return sum
}
