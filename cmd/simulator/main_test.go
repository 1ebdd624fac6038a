// cmd/simulator/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk-sim/internal/orchestrator"
)

func writeTestFiles(t *testing.T) (configPath, dataPath string) {
	t.Helper()
	dir := t.TempDir()

	dataPath = filepath.Join(dir, "credit.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(
		"age,amount,months_loan_duration\n"+
			"40,20000,24\n"+
			"35,5000,12\n"+
			"29,12000,36\n"+
			"61,3000,48\n"), 0o600))

	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"simulation:\n"+
			"  seed: 11\n"+
			"  number_of_clients: 10\n"+
			"logging:\n"+
			"  level: error\n"), 0o600))
	return configPath, dataPath
}

func TestRun_JSONReport(t *testing.T) {
	configPath, dataPath := writeTestFiles(t)

	var out bytes.Buffer
	code := run([]string{"--config", configPath, "--source", dataPath, "--policy", "B", "--runs", "2", "--json"}, &out)
	require.Equal(t, 0, code)

	var report orchestrator.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "B", report.Policy)
	assert.Equal(t, uint64(11), report.Seed)
	assert.Equal(t, dataPath, report.Source)
	assert.Equal(t, 4, report.ApplicantCount)
	assert.Len(t, report.Runs, 2)
}

func TestRun_TextSummary(t *testing.T) {
	configPath, dataPath := writeTestFiles(t)

	var out bytes.Buffer
	code := run([]string{"--config", configPath, "--source", dataPath, "--clients", "2"}, &out)
	require.Equal(t, 0, code)

	assert.Contains(t, out.String(), "applicants:       2")
	assert.Contains(t, out.String(), "policy:           A")
}

func TestRun_Failures(t *testing.T) {
	configPath, dataPath := writeTestFiles(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown flag", []string{"--nope"}, 2},
		{"invalid policy", []string{"--config", configPath, "--source", dataPath, "--policy", "Z"}, 1},
		{"missing source", []string{"--config", configPath, "--source", filepath.Join(t.TempDir(), "none.csv")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &out))
		})
	}
}
