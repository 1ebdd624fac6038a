// internal/models/result.go
package models

// SimulationResult is the aggregate outcome of one simulation run.
type SimulationResult struct {
	BankruptCount   int     `json:"bankruptCount"`
	TotalBankIncome float64 `json:"totalBankIncome"`
}
