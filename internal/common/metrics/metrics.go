// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the cache label of ApplicantsLoaded.
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheDisabled = "disabled"
)

var (
	SimulationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulation_runs_total",
			Help: "Total number of portfolio simulation runs",
		},
		[]string{"policy"},
	)

	SimulationBankruptcies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulation_bankruptcies_total",
			Help: "Total number of simulated client defaults",
		},
		[]string{"policy"},
	)

	SimulationAdmittedClients = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simulation_admitted_clients",
			Help:    "Number of admitted clients per simulation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"policy"},
	)

	SimulationBankIncome = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "simulation_bank_income",
			Help: "Total bank income of the last simulation run",
		},
		[]string{"policy"},
	)

	// ApplicantsLoaded is labelled with one of the Cache* values.
	ApplicantsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provisioning_applicants_loaded_total",
			Help: "Applicant rows loaded from sources",
		},
		[]string{"format", "cache"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// ObserveRun records one finished simulation run.
func ObserveRun(policy string, bankrupt int, income float64) {
	SimulationRuns.WithLabelValues(policy).Inc()
	SimulationBankruptcies.WithLabelValues(policy).Add(float64(bankrupt))
	SimulationBankIncome.WithLabelValues(policy).Set(income)
}
