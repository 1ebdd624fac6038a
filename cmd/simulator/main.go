// cmd/simulator/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"loan-risk-sim/internal/common/config"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/orchestrator"
	"loan-risk-sim/internal/provisioning"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("simulator", pflag.ContinueOnError)
	fs.String("config", "", "Path to a config file (default: configs/config.yaml)")
	fs.String("source", "", "Applicant source: path, http(s) URL, s3://bucket/key or postgres table")
	fs.String("format", "", "Source format: csv, xlsx or postgres (default: detect)")
	fs.String("policy", "", "Default policy: A (immediate) or B (grace)")
	fs.String("rate-dist", "", "Interest rate distribution: normal, uniform or gamma")
	fs.String("cost-dist", "", "Maintenance cost distribution: normal, uniform or gamma")
	fs.Float64("margin", 0, "Bank margin in percent")
	fs.Float64("rate", 0, "Market interest rate in percent at decision time")
	fs.Int("clients", 0, "Applicants taken from the source and draw pool size")
	fs.Uint64("seed", 0, "Generator seed (0: time based)")
	fs.Int("runs", 0, "Independent rate paths to simulate")
	fs.String("log-level", "", "Log level: debug, info, warn or error")
	fs.Bool("json", false, "Print the full report as JSON")
	return fs
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.LoadWithFlags(configPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory, closeSources, err := provisioning.NewFactoryFromConfig(ctx, cfg, log)
	if err != nil {
		zapLog.Error("source setup failed", zap.Error(err))
		return 1
	}
	defer closeSources()

	svc := orchestrator.NewService(factory, nil, log)
	report, err := svc.Run(ctx, orchestrator.ParamsFromConfig(cfg))
	if err != nil {
		zapLog.Error("simulation failed", zap.Error(err))
		return 1
	}

	if asJSON, _ := fs.GetBool("json"); asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			zapLog.Error("write report failed", zap.Error(err))
			return 1
		}
		return 0
	}
	printSummary(stdout, report)
	return 0
}

func printSummary(w io.Writer, r *orchestrator.Report) {
	fmt.Fprintf(w, "run:              %s\n", r.RunID)
	fmt.Fprintf(w, "source:           %s\n", r.Source)
	fmt.Fprintf(w, "policy:           %s\n", r.Policy)
	fmt.Fprintf(w, "seed:             %d\n", r.Seed)
	fmt.Fprintf(w, "applicants:       %d\n", r.ApplicantCount)
	fmt.Fprintf(w, "admitted:         %d (%.2f)\n", r.AdmittedCount, r.AdmissionRate)
	fmt.Fprintf(w, "bankrupt:         %d (%.2f)\n", r.BankruptCount, r.BankruptcyRate)
	fmt.Fprintf(w, "bank income:      %.2f\n", r.TotalBankIncome)
	if len(r.Runs) > 1 {
		b := r.Batch
		fmt.Fprintf(w, "runs:             %d\n", b.Runs)
		fmt.Fprintf(w, "bankrupt min/avg/max: %d / %.2f / %d\n", b.MinBankrupt, b.MeanBankrupt, b.MaxBankrupt)
		fmt.Fprintf(w, "mean bank income: %.2f\n", b.MeanBankIncome)
	}
}
