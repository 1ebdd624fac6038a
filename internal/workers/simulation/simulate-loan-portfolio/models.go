// internal/workers/simulation/simulate-loan-portfolio/models.go
package simulateloanportfolio

import "loan-risk-sim/internal/orchestrator"

// Input is read from the job variables. Pointer fields distinguish an
// explicit zero from an absent variable.
type Input struct {
	SourcePath                  string   `json:"sourcePath,omitempty"`
	SourceFormat                string   `json:"sourceFormat,omitempty"`
	InterestRateDistribution    string   `json:"interestRateDistribution,omitempty"`
	MaintenanceCostDistribution string   `json:"maintenanceCostDistribution,omitempty"`
	BankMarginPct               *float64 `json:"bankMarginPct,omitempty"`
	DecisionTimeRatePct         *float64 `json:"decisionTimeRatePct,omitempty"`
	NumberOfClients             *int     `json:"numberOfClients,omitempty"`
	DefaultPolicy               string   `json:"defaultPolicy,omitempty"`
	Seed                        *uint64  `json:"seed,omitempty"`
	Runs                        *int     `json:"runs,omitempty"`
}

type Output struct {
	RunID           string               `json:"simulationRunId"`
	AdmittedCount   int                  `json:"admittedCount"`
	BankruptCount   int                  `json:"bankruptCount"`
	TotalBankIncome float64              `json:"totalBankIncome"`
	Report          *orchestrator.Report `json:"simulationReport"`
}
