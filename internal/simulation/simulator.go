// internal/simulation/simulator.go
package simulation

import (
	"errors"
	"fmt"
	"strings"

	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/models"
)

// Policy selects how a failed affordability test is treated.
type Policy string

const (
	// PolicyImmediate defaults a client on the first failed month.
	PolicyImmediate Policy = "A"
	// PolicyGrace tolerates two consecutive failed months at a surcharged rate
	// and defaults the client on the third.
	PolicyGrace Policy = "B"
)

const (
	missedLimit          = 3
	graceSurchargeFactor = 1.10
)

var ErrUnknownPolicy = errors.New("unknown default policy")

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "IMMEDIATE":
		return PolicyImmediate, nil
	case "B", "GRACE":
		return PolicyGrace, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

type Options struct {
	Policy              Policy
	MarginPct           float64
	MaintenanceCostKind Kind
}

// Run is everything one simulation run produced.
type Run struct {
	Result models.SimulationResult
	// MonthlyIncome[m] is the bank income accrued in month m, rounded to cents.
	MonthlyIncome []float64
	Traces        []models.ClientTrace
}

// Simulator advances admitted clients month by month along a shared rate path.
type Simulator struct {
	opts   Options
	drawer *Drawer
	logger logger.Logger
}

func NewSimulator(opts Options, drawer *Drawer, log logger.Logger) *Simulator {
	if opts.Policy == "" {
		opts.Policy = PolicyImmediate
	}
	return &Simulator{
		opts:   opts,
		drawer: drawer,
		logger: log.WithFields(map[string]interface{}{"policy": string(opts.Policy)}),
	}
}

// Simulate runs every client through its term. The clients slice is not
// modified; per-client state lives in the returned traces.
func (s *Simulator) Simulate(clients []models.AdmittedClient, path RatePath) (*Run, error) {
	if len(clients) == 0 {
		return &Run{}, nil
	}
	for i, c := range clients {
		if c.TermMonths <= 0 {
			return nil, fmt.Errorf("client %d: %w", i, ErrInvalidTerm)
		}
		if !path.Covers(c.TermMonths) {
			return nil, fmt.Errorf("client %d needs %d months, path has %d: %w",
				i, c.TermMonths, path.Months(), ErrRatePathTooShort)
		}
	}

	income := make([]float64, len(path))
	run := &Run{Traces: make([]models.ClientTrace, 0, len(clients))}

	for i, c := range clients {
		var trace models.ClientTrace
		var err error
		switch s.opts.Policy {
		case PolicyGrace:
			trace, err = s.simulateGrace(c, path, income)
		default:
			trace, err = s.simulateImmediate(c, path, income)
		}
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", i, err)
		}
		if trace.Bankrupt() {
			run.Result.BankruptCount++
			s.logger.Debug("client defaulted", map[string]interface{}{
				"client": i,
				"month":  len(trace.Months),
				"term":   c.TermMonths,
			})
		}
		run.Traces = append(run.Traces, trace)
	}

	total := 0.0
	run.MonthlyIncome = make([]float64, len(income))
	for m, v := range income {
		total += v
		run.MonthlyIncome[m] = Round2(v)
	}
	run.Result.TotalBankIncome = Round2(total)

	s.logger.Info("simulation run finished", map[string]interface{}{
		"clients":         len(clients),
		"bankruptCount":   run.Result.BankruptCount,
		"totalBankIncome": run.Result.TotalBankIncome,
	})
	return run, nil
}

// month redraws the cost and recomputes the installment at ratePct.
func (s *Simulator) month(c models.AdmittedClient, m int, ratePct float64) (models.MonthSnapshot, error) {
	cost := s.drawer.MaintenanceCost(s.opts.MaintenanceCostKind)
	installment, err := Installment(c.Amount, c.TermMonths, s.opts.MarginPct, ratePct)
	if err != nil {
		return models.MonthSnapshot{}, err
	}
	return models.MonthSnapshot{
		Month:           m,
		RatePct:         ratePct,
		MaintenanceCost: cost,
		Installment:     installment,
	}, nil
}

func (s *Simulator) contribution(c models.AdmittedClient) float64 {
	return c.Amount * s.opts.MarginPct / 100
}

func (s *Simulator) simulateImmediate(c models.AdmittedClient, path RatePath, income []float64) (models.ClientTrace, error) {
	trace := models.ClientTrace{Client: c, Months: make([]models.MonthSnapshot, 0, c.TermMonths)}
	contribution := s.contribution(c)

	for m := 1; m <= c.TermMonths; m++ {
		rate, err := path.At(m)
		if err != nil {
			return trace, err
		}
		snap, err := s.month(c, m, rate)
		if err != nil {
			return trace, err
		}

		income[m] += contribution
		if !Affordable(c.NetIncome, snap.MaintenanceCost, snap.Installment) {
			income[m] -= contribution
			snap.Bankrupt = true
			trace.Months = append(trace.Months, snap)
			break
		}
		snap.Income = contribution
		trace.Months = append(trace.Months, snap)
	}
	return trace, nil
}

func (s *Simulator) simulateGrace(c models.AdmittedClient, path RatePath, income []float64) (models.ClientTrace, error) {
	trace := models.ClientTrace{Client: c, Months: make([]models.MonthSnapshot, 0, c.TermMonths)}
	contribution := s.contribution(c)
	missed := 0

	for m := 1; m <= c.TermMonths; m++ {
		rate, err := path.At(m)
		if err != nil {
			return trace, err
		}
		if missed > 0 && missed < missedLimit {
			rate = Round2(rate * graceSurchargeFactor)
		}
		snap, err := s.month(c, m, rate)
		if err != nil {
			return trace, err
		}

		if !Affordable(c.NetIncome, snap.MaintenanceCost, snap.Installment) {
			missed++
			snap.MissedCount = missed
			if missed >= missedLimit {
				snap.Bankrupt = true
				trace.Months = append(trace.Months, snap)
				break
			}
			trace.Months = append(trace.Months, snap)
			continue
		}

		missed = 0
		income[m] += contribution
		snap.Income = contribution
		trace.Months = append(trace.Months, snap)
	}
	return trace, nil
}
