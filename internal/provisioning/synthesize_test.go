// internal/provisioning/synthesize_test.go
package provisioning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk-sim/internal/simulation"
)

func createTestSynthesizer(t *testing.T, seed uint64, kind simulation.Kind) *Synthesizer {
	t.Helper()
	drawer, err := simulation.NewDrawer(simulation.NewRand(seed), 100)
	require.NoError(t, err)
	return NewSynthesizer(drawer, kind, 2000)
}

func TestNetIncome(t *testing.T) {
	tests := []struct {
		name     string
		gross    float64
		expected float64
	}{
		{"lower bracket", 5000, 4150},
		{"just below threshold", 7127, 5915.41},
		{"at threshold", 7128, 4847.04},
		{"upper bracket", 8000, 5440},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NetIncome(tt.gross), 1e-9)
		})
	}
}

func TestSynthesizer_Applicants(t *testing.T) {
	rows := createTestRows(20)

	for _, kind := range []simulation.Kind{simulation.KindNormal, simulation.KindUniform, simulation.KindGamma} {
		t.Run(string(kind), func(t *testing.T) {
			applicants := createTestSynthesizer(t, 42, kind).Applicants(rows)
			require.Len(t, applicants, len(rows))

			for i, a := range applicants {
				assert.Equal(t, rows[i].Age, a.Age)
				assert.Equal(t, rows[i].TermMonths, a.TermMonths)
				assert.Equal(t, float64(rows[i].Amount), a.Amount)
				assert.Equal(t, math.Trunc(a.GrossIncome), a.GrossIncome, "gross income is whole")
				assert.Equal(t, NetIncome(a.GrossIncome), a.NetIncome)
				assert.GreaterOrEqual(t, a.MaintenanceCost, 0.0)
			}
		})
	}
}

func TestSynthesizer_SameSeedSameApplicants(t *testing.T) {
	rows := createTestRows(10)

	a := createTestSynthesizer(t, 7, simulation.KindNormal).Applicants(rows)
	b := createTestSynthesizer(t, 7, simulation.KindNormal).Applicants(rows)
	c := createTestSynthesizer(t, 8, simulation.KindNormal).Applicants(rows)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
