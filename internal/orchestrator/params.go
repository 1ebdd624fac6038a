// internal/orchestrator/params.go
package orchestrator

import (
	"fmt"
	"strings"

	"loan-risk-sim/internal/common/config"
	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/simulation"
)

// Params is the full input of one simulation request.
type Params struct {
	SourcePath                  string
	SourceFormat                string
	InterestRateDistribution    string
	MaintenanceCostDistribution string
	BankMarginPct               float64
	DecisionTimeRatePct         float64
	NumberOfClients             int
	Policy                      string
	GrossIncomeStdDev           float64
	Seed                        uint64 // 0 picks a time based seed
	Runs                        int
}

// ParamsFromConfig copies the simulation and source sections.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		SourcePath:                  cfg.Source.Path,
		SourceFormat:                cfg.Source.Format,
		InterestRateDistribution:    cfg.Simulation.InterestRateDistribution,
		MaintenanceCostDistribution: cfg.Simulation.MaintenanceCostDistribution,
		BankMarginPct:               cfg.Simulation.BankMarginPct,
		DecisionTimeRatePct:         cfg.Simulation.DecisionTimeRatePct,
		NumberOfClients:             cfg.Simulation.NumberOfClients,
		Policy:                      cfg.Simulation.DefaultPolicy,
		GrossIncomeStdDev:           cfg.Simulation.GrossIncomeStdDev,
		Seed:                        cfg.Simulation.Seed,
		Runs:                        cfg.Simulation.Runs,
	}
}

// Validate checks the numeric knobs and parses the policy.
func (p Params) Validate() (simulation.Policy, error) {
	var problems []string

	policy, err := simulation.ParsePolicy(p.Policy)
	if err != nil {
		problems = append(problems, err.Error())
	}
	if p.NumberOfClients <= 0 {
		problems = append(problems, fmt.Sprintf("numberOfClients must be > 0, got %d", p.NumberOfClients))
	}
	if p.BankMarginPct < 0 {
		problems = append(problems, fmt.Sprintf("bankMarginPct must be >= 0, got %v", p.BankMarginPct))
	}
	if p.DecisionTimeRatePct <= -100 {
		problems = append(problems, fmt.Sprintf("decisionTimeRatePct must be > -100, got %v", p.DecisionTimeRatePct))
	}
	if p.GrossIncomeStdDev <= 0 {
		problems = append(problems, fmt.Sprintf("grossIncomeStdDev must be > 0, got %v", p.GrossIncomeStdDev))
	}
	if p.Runs <= 0 {
		problems = append(problems, fmt.Sprintf("runs must be > 0, got %d", p.Runs))
	}

	if len(problems) > 0 {
		return "", errors.NewInvalidSimulationParametersError(strings.Join(problems, "; "))
	}
	return policy, nil
}
