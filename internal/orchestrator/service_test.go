// internal/orchestrator/service_test.go
package orchestrator

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/models"
	"loan-risk-sim/internal/provisioning"
)

// ==========================
// Test Helper Functions
// ==========================

type rowSource struct {
	rows []models.SourceRow
	err  error
}

func (s rowSource) Rows(context.Context) ([]models.SourceRow, error) { return s.rows, s.err }
func (s rowSource) Name() string                                     { return "test-source" }
func (s rowSource) Format() string                                   { return provisioning.FormatCSV }

type stubSources struct {
	src provisioning.RowSource
	err error
}

func (s stubSources) Source(string, string) (provisioning.RowSource, error) {
	return s.src, s.err
}

func createTestRows(n int, age, amount, term int) []models.SourceRow {
	rows := make([]models.SourceRow, n)
	for i := range rows {
		rows[i] = models.SourceRow{Line: i + 2, Age: age, Amount: amount, TermMonths: term + i%6}
	}
	return rows
}

func createTestParams() Params {
	return Params{
		SourcePath:                  "data/credit.csv",
		InterestRateDistribution:    "normal",
		MaintenanceCostDistribution: "normal",
		BankMarginPct:               6.0,
		DecisionTimeRatePct:         6.5,
		NumberOfClients:             50,
		Policy:                      "A",
		GrossIncomeStdDev:           2000,
		Seed:                        42,
		Runs:                        1,
	}
}

func createTestService(t *testing.T, rows []models.SourceRow) *Service {
	t.Helper()
	return NewService(stubSources{src: rowSource{rows: rows}}, nil, logger.NewTestLogger(t))
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %T", err)
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Params Tests
// ==========================

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"unknown policy", func(p *Params) { p.Policy = "C" }},
		{"zero clients", func(p *Params) { p.NumberOfClients = 0 }},
		{"negative margin", func(p *Params) { p.BankMarginPct = -1 }},
		{"rate at -100", func(p *Params) { p.DecisionTimeRatePct = -100 }},
		{"zero income spread", func(p *Params) { p.GrossIncomeStdDev = 0 }},
		{"zero runs", func(p *Params) { p.Runs = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestParams()
			tt.modify(&p)
			_, err := p.Validate()
			requireCode(t, err, errors.ErrCodeInvalidSimulationParameters)
		})
	}

	t.Run("grace policy by name", func(t *testing.T) {
		p := createTestParams()
		p.Policy = "grace"
		policy, err := p.Validate()
		require.NoError(t, err)
		assert.Equal(t, "B", string(policy))
	})
}

// ==========================
// Run Tests
// ==========================

func TestService_Run_Invariants(t *testing.T) {
	rows := createTestRows(40, 35, 3000, 12)

	for _, policy := range []string{"A", "B"} {
		for _, dist := range []string{"normal", "uniform", "gamma"} {
			t.Run(policy+"/"+dist, func(t *testing.T) {
				p := createTestParams()
				p.Policy = policy
				p.InterestRateDistribution = dist
				p.MaintenanceCostDistribution = dist

				report, err := createTestService(t, rows).Run(context.Background(), p)
				require.NoError(t, err)

				assert.Equal(t, policy, report.Policy)
				assert.Equal(t, "test-source", report.Source)
				assert.Equal(t, 40, report.ApplicantCount)
				assert.LessOrEqual(t, report.AdmittedCount, report.ApplicantCount)
				assert.LessOrEqual(t, report.BankruptCount, report.AdmittedCount)
				assert.GreaterOrEqual(t, report.TotalBankIncome, 0.0)
				require.Len(t, report.Runs, 1)

				run := report.Runs[0]
				if report.AdmittedCount > 0 {
					assert.GreaterOrEqual(t, len(run.RatePath), 12)
					assert.LessOrEqual(t, len(run.RatePath), 17)
					assert.Len(t, run.MonthlyIncome, len(run.RatePath))
					sum := 0.0
					for _, v := range run.MonthlyIncome {
						sum += v
					}
					assert.InDelta(t, report.TotalBankIncome, sum, 0.01*float64(len(run.MonthlyIncome)))
				}
			})
		}
	}
}

func TestService_Run_Deterministic(t *testing.T) {
	rows := createTestRows(30, 40, 8000, 24)
	p := createTestParams()
	p.Runs = 3
	ctx := WithRunID(context.Background(), "run-1")

	first, err := createTestService(t, rows).Run(ctx, p)
	require.NoError(t, err)
	second, err := createTestService(t, rows).Run(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, first, second)

	p.Seed = 43
	third, err := createTestService(t, rows).Run(ctx, p)
	require.NoError(t, err)
	assert.NotEqual(t, first.Runs[0].RatePath, third.Runs[0].RatePath)
}

func TestService_Run_Batch(t *testing.T) {
	p := createTestParams()
	p.Runs = 5
	p.Policy = "B"

	report, err := createTestService(t, createTestRows(30, 40, 8000, 24)).Run(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, report.Runs, 5)
	assert.Equal(t, 5, report.Batch.Runs)
	assert.LessOrEqual(t, float64(report.Batch.MinBankrupt), report.Batch.MeanBankrupt)
	assert.LessOrEqual(t, report.Batch.MeanBankrupt, float64(report.Batch.MaxBankrupt))
	assert.Equal(t, report.Runs[0].BankruptCount, report.BankruptCount)
	assert.Equal(t, report.Runs[0].TotalBankIncome, report.TotalBankIncome)
	for i, r := range report.Runs {
		assert.Equal(t, i+1, r.Run)
	}
}

func TestService_Run_CapsApplicants(t *testing.T) {
	p := createTestParams()
	p.NumberOfClients = 4

	report, err := createTestService(t, createTestRows(10, 30, 1000, 12)).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 4, report.ApplicantCount)
}

func TestService_Run_EmptyPortfolio(t *testing.T) {
	tests := []struct {
		name string
		rows []models.SourceRow
	}{
		{"no rows", nil},
		{"nobody matures before retirement", createTestRows(10, 70, 1000, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestParams()
			p.Runs = 2

			report, err := createTestService(t, tt.rows).Run(context.Background(), p)
			require.NoError(t, err)

			assert.Equal(t, 0, report.AdmittedCount)
			assert.Equal(t, 0.0, report.AdmissionRate)
			assert.Equal(t, 0, report.BankruptCount)
			assert.Equal(t, 0.0, report.TotalBankIncome)
			assert.Empty(t, report.MonthlyIncome)
			assert.Len(t, report.Runs, 2)
			assert.Equal(t, 0.0, report.Batch.MeanBankIncome)
		})
	}
}

func TestService_Run_TimeBasedSeed(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := createTestService(t, createTestRows(5, 30, 1000, 12))
	svc.now = func() time.Time { return fixed }

	p := createTestParams()
	p.Seed = 0

	report, err := svc.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, uint64(fixed.UnixNano()), report.Seed)
}

func TestService_Run_Errors(t *testing.T) {
	t.Run("invalid params", func(t *testing.T) {
		p := createTestParams()
		p.Runs = 0
		_, err := createTestService(t, nil).Run(context.Background(), p)
		requireCode(t, err, errors.ErrCodeInvalidSimulationParameters)
	})

	t.Run("source cannot be built", func(t *testing.T) {
		svc := NewService(stubSources{err: errors.NewSourceFormatUnsupportedError("parquet")}, nil, logger.NewTestLogger(t))
		_, err := svc.Run(context.Background(), createTestParams())
		requireCode(t, err, errors.ErrCodeSourceFormatUnsupported)
	})

	t.Run("source read fails", func(t *testing.T) {
		src := rowSource{err: errors.NewMalformedInputError(3, "age", "x", "is not an integer")}
		svc := NewService(stubSources{src: src}, nil, logger.NewTestLogger(t))
		_, err := svc.Run(context.Background(), createTestParams())
		requireCode(t, err, errors.ErrCodeMalformedInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := createTestService(t, createTestRows(5, 30, 1000, 12)).Run(ctx, createTestParams())
		requireCode(t, err, errors.ErrCodeSimulationFailed)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
