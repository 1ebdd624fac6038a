// internal/orchestrator/service.go
package orchestrator

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/common/metrics"
	"loan-risk-sim/internal/common/observability"
	"loan-risk-sim/internal/models"
	"loan-risk-sim/internal/provisioning"
	"loan-risk-sim/internal/simulation"
)

// SourceProvider resolves the applicant source of a request.
type SourceProvider interface {
	Source(location, format string) (provisioning.RowSource, error)
}

// Service runs provisioning, admission and the repayment simulation end to end.
type Service struct {
	sources SourceProvider
	obs     *observability.Observability
	logger  logger.Logger
	now     func() time.Time
}

// NewService builds a Service. obs may be nil.
func NewService(sources SourceProvider, obs *observability.Observability, log logger.Logger) *Service {
	return &Service{sources: sources, obs: obs, logger: log, now: time.Now}
}

// Run executes one request. All randomness comes from a single generator
// seeded from p.Seed, so equal params and source rows give equal reports.
func (s *Service) Run(ctx context.Context, p Params) (*Report, error) {
	policy, err := p.Validate()
	if err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = uint64(s.now().UnixNano())
	}
	rateKind := simulation.ParseKind(p.InterestRateDistribution)
	costKind := simulation.ParseKind(p.MaintenanceCostDistribution)

	runID, _ := ctx.Value(runIDKey{}).(string)
	if runID == "" {
		runID = uuid.NewString()
	}
	report := &Report{
		RunID:  runID,
		Source: p.SourcePath,
		Policy: string(policy),
		Seed:   seed,
	}
	log := s.logger.WithFields(map[string]interface{}{
		"runId":  runID,
		"policy": string(policy),
		"seed":   seed,
	})

	drawer, err := simulation.NewDrawer(simulation.NewRand(seed), p.NumberOfClients)
	if err != nil {
		return nil, errors.NewInvalidSimulationParametersError(err.Error())
	}

	src, err := s.sources.Source(p.SourcePath, p.SourceFormat)
	if err != nil {
		return nil, err
	}
	report.Source = src.Name()

	rows, err := provisioning.Load(ctx, src, p.NumberOfClients, log)
	if err != nil {
		return nil, err
	}

	applicants := provisioning.NewSynthesizer(drawer, costKind, p.GrossIncomeStdDev).Applicants(rows)
	admitted, err := simulation.SelectPortfolio(applicants, p.BankMarginPct, p.DecisionTimeRatePct)
	if err != nil {
		return nil, mapSimulationError(err)
	}
	report.ApplicantCount = len(applicants)
	report.AdmittedCount = len(admitted)
	report.AdmissionRate = ratio(len(admitted), len(applicants))
	metrics.SimulationAdmittedClients.WithLabelValues(string(policy)).Observe(float64(len(admitted)))

	log.Info("Portfolio selected", map[string]interface{}{
		"applicants": len(applicants),
		"admitted":   len(admitted),
		"rateDist":   string(rateKind),
		"costDist":   string(costKind),
	})

	sim := simulation.NewSimulator(simulation.Options{
		Policy:              policy,
		MarginPct:           p.BankMarginPct,
		MaintenanceCostKind: costKind,
	}, drawer, log)

	longest := simulation.LongestTerm(admitted)
	results := make([]models.SimulationResult, 0, p.Runs)
	for i := 0; i < p.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewSimulationFailedError(err)
		}

		path := simulation.DrawRatePath(drawer, rateKind, longest)
		run, err := sim.Simulate(admitted, path)
		if err != nil {
			return nil, mapSimulationError(err)
		}

		metrics.ObserveRun(string(policy), run.Result.BankruptCount, run.Result.TotalBankIncome)
		s.obs.RecordClientMonths(ctx, clientMonths(run.Traces), string(policy))

		results = append(results, run.Result)
		report.Runs = append(report.Runs, RunReport{
			Run:             i + 1,
			BankruptCount:   run.Result.BankruptCount,
			BankruptcyRate:  ratio(run.Result.BankruptCount, len(admitted)),
			TotalBankIncome: run.Result.TotalBankIncome,
			RatePath:        months(path),
			MonthlyIncome:   months(run.MonthlyIncome),
		})
	}

	first := report.Runs[0]
	report.BankruptCount = first.BankruptCount
	report.BankruptcyRate = first.BankruptcyRate
	report.TotalBankIncome = first.TotalBankIncome
	report.MonthlyIncome = first.MonthlyIncome
	report.Batch = simulation.Summarize(results)

	log.Info("Simulation finished", map[string]interface{}{
		"runs":           p.Runs,
		"meanBankrupt":   report.Batch.MeanBankrupt,
		"meanBankIncome": report.Batch.MeanBankIncome,
	})
	return report, nil
}

func clientMonths(traces []models.ClientTrace) int64 {
	var n int64
	for _, t := range traces {
		n += int64(len(t.Months))
	}
	return n
}

func mapSimulationError(err error) error {
	var stdErr *errors.StandardError
	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, simulation.ErrRatePathTooShort):
		return errors.NewRatePathTooShortError(err)
	case stderrors.Is(err, simulation.ErrInvalidTerm):
		return errors.NewInvalidSimulationParametersError(err.Error())
	default:
		return errors.NewSimulationFailedError(err)
	}
}

type runIDKey struct{}

// WithRunID makes Run report the given id instead of a fresh one.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}
