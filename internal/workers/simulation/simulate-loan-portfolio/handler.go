// internal/workers/simulation/simulate-loan-portfolio/handler.go
package simulateloanportfolio

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/common/metrics"
	"loan-risk-sim/internal/common/observability"
	"loan-risk-sim/internal/common/validation"
	"loan-risk-sim/internal/orchestrator"
)

const (
	TaskType = "simulate-loan-portfolio"
)

// Runner executes one simulation request.
type Runner interface {
	Run(ctx context.Context, p orchestrator.Params) (*orchestrator.Report, error)
}

type Handler struct {
	config       *Config
	runner       Runner
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, runner Runner, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		runner:       runner,
		errorHandler: errors.NewErrorHandler(l),
		obs:          obs,
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	active := metrics.WorkerJobsActive.WithLabelValues(TaskType)
	active.Inc()
	defer active.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	ctx = orchestrator.WithRunID(ctx, strconv.FormatInt(job.Key, 10))
	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// parseInput validates the raw variables before decoding them.
func (h *Handler) parseInput(variables string) (*Input, error) {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	result, err := validation.ValidateJSON(variables, GetInputSchema())
	if err != nil {
		return nil, errors.NewSimulationFailedError(err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidSimulationParametersError(strings.Join(result.GetErrorMessages(), "; ")).
			WithMetadata("validationErrors", result.Errors)
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidSimulationParametersError("parse input: " + err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidSimulationParametersError("input cannot be nil")
	}

	report, err := h.runner.Run(ctx, h.params(input))
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("simulation timed out", map[string]interface{}{"timeout": h.config.Timeout.String()})
		}
		return nil, err
	}

	return &Output{
		RunID:           report.RunID,
		AdmittedCount:   report.AdmittedCount,
		BankruptCount:   report.BankruptCount,
		TotalBankIncome: report.TotalBankIncome,
		Report:          report,
	}, nil
}

// params overlays the job variables on the configured defaults.
func (h *Handler) params(input *Input) orchestrator.Params {
	p := h.config.Defaults
	if input.SourcePath != "" {
		p.SourcePath = input.SourcePath
		p.SourceFormat = input.SourceFormat
	} else if input.SourceFormat != "" {
		p.SourceFormat = input.SourceFormat
	}
	if input.InterestRateDistribution != "" {
		p.InterestRateDistribution = input.InterestRateDistribution
	}
	if input.MaintenanceCostDistribution != "" {
		p.MaintenanceCostDistribution = input.MaintenanceCostDistribution
	}
	if input.BankMarginPct != nil {
		p.BankMarginPct = *input.BankMarginPct
	}
	if input.DecisionTimeRatePct != nil {
		p.DecisionTimeRatePct = *input.DecisionTimeRatePct
	}
	if input.NumberOfClients != nil {
		p.NumberOfClients = *input.NumberOfClients
	}
	if input.DefaultPolicy != "" {
		p.Policy = input.DefaultPolicy
	}
	if input.Seed != nil {
		p.Seed = *input.Seed
	}
	if input.Runs != nil {
		p.Runs = *input.Runs
	}
	return p
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		h.failJob(ctx, client, job, errors.NewSimulationFailedError(err), start)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "completed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "completed")

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":          job.Key,
		"simulationRunId": output.RunID,
		"bankruptCount":   output.BankruptCount,
		"totalBankIncome": output.TotalBankIncome,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "failed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "failed")

	// ctx may already be past its deadline.
	reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	h.errorHandler.HandleJobError(reportCtx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ParseInput is parseInput for callers outside a job.
func (h *Handler) ParseInput(variables string) (*Input, error) {
	return h.parseInput(variables)
}
