// internal/workers/simulation/simulate-loan-portfolio/config.go
package simulateloanportfolio

import (
	"time"

	"loan-risk-sim/internal/common/config"
	"loan-risk-sim/internal/orchestrator"
)

type Config struct {
	Timeout time.Duration
	// Defaults fill every knob the job variables leave out.
	Defaults orchestrator.Params
}

func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout)
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Config{
		Timeout:  timeout,
		Defaults: orchestrator.ParamsFromConfig(cfg),
	}
}
