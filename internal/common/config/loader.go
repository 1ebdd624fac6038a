// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"loan-risk-sim/internal/simulation"
)

// FlagKeys maps command line flag names to config keys.
var FlagKeys = map[string]string{
	"source":    "source.path",
	"format":    "source.format",
	"policy":    "simulation.default_policy",
	"rate-dist": "simulation.interest_rate_distribution",
	"cost-dist": "simulation.maintenance_cost_distribution",
	"margin":    "simulation.bank_margin_pct",
	"rate":      "simulation.decision_time_rate_pct",
	"clients":   "simulation.number_of_clients",
	"seed":      "simulation.seed",
	"runs":      "simulation.runs",
	"log-level": "logging.level",
}

// Load reads configs/config.yaml (or ./config.yaml), merges
// config.<APP_ENVIRONMENT>.yaml on top and applies env overrides.
func Load() (*Config, error) {
	return load(newViper(), "", nil)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	return load(newViper(), path, nil)
}

// LoadWithFlags is Load, or LoadFromFile when path is set, with any flag in
// FlagKeys that was set on fs taking precedence over file and env.
func LoadWithFlags(path string, fs *pflag.FlagSet) (*Config, error) {
	return load(newViper(), path, fs)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("simulation.interest_rate_distribution", "normal")
	v.SetDefault("simulation.maintenance_cost_distribution", "normal")
	v.SetDefault("simulation.bank_margin_pct", 6.0)
	v.SetDefault("simulation.decision_time_rate_pct", 6.5)
	v.SetDefault("simulation.number_of_clients", 100)
	v.SetDefault("simulation.default_policy", "A")
	v.SetDefault("simulation.gross_income_stddev", 2000.0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.runs", 1)
	v.SetDefault("source.path", "data/credit.csv")
	return v
}

func load(v *viper.Viper, path string, fs *pflag.FlagSet) (*Config, error) {
	loadEnvFile()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}

		env := os.Getenv("APP_ENVIRONMENT")
		if env == "" {
			env = "development"
		}
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		_ = v.MergeInConfig() // optional
	}

	if fs != nil {
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking towards the project root.
func loadEnvFile() string {
	possiblePaths := []string{".env", "../.env", "../../.env", "../../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars replaces ${VAR} placeholders in string values. Unset
// variables expand to the empty string, which leaves a backend unconfigured.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional infrastructure fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loan-risk-sim"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 5
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 60000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Source.Table == "" {
		cfg.Source.Table = "credit_applicants"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = cfg.Camunda.MaxJobsActive
		}
		if worker.Timeout == 0 {
			worker.Timeout = cfg.Camunda.Timeout
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates the simulation section. Infrastructure sections are
// checked by the binaries that need them.
func validateConfig(cfg *Config) error {
	sim := cfg.Simulation
	if _, err := simulation.ParsePolicy(sim.DefaultPolicy); err != nil {
		return fmt.Errorf("simulation.default_policy: %w", err)
	}
	if sim.BankMarginPct < 0 {
		return fmt.Errorf("simulation.bank_margin_pct must be >= 0")
	}
	if sim.DecisionTimeRatePct <= -100 {
		return fmt.Errorf("simulation.decision_time_rate_pct must be > -100")
	}
	if sim.NumberOfClients <= 0 {
		return fmt.Errorf("simulation.number_of_clients must be > 0")
	}
	if sim.GrossIncomeStdDev <= 0 {
		return fmt.Errorf("simulation.gross_income_stddev must be > 0")
	}
	if sim.Runs <= 0 {
		return fmt.Errorf("simulation.runs must be > 0")
	}
	if cfg.Source.Path == "" && !strings.EqualFold(cfg.Source.Format, "postgres") {
		return fmt.Errorf("source.path is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: cfg.Camunda.MaxJobsActive,
		Timeout:       cfg.Camunda.Timeout,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
