package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallment(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		term      int
		margin    float64
		rate      float64
		expected  float64
		expectErr bool
	}{
		{name: "two year loan", amount: 20000, term: 24, margin: 6.0, rate: 6.5, expected: 1881.52},
		{name: "one year loan", amount: 1200, term: 12, margin: 0, rate: 0, expected: 200},
		{name: "single month", amount: 1000, term: 1, margin: 6.0, rate: 6.5, expected: 2010.13},
		{name: "zero term", amount: 1000, term: 0, expectErr: true},
		{name: "negative term", amount: 1000, term: -12, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Installment(tt.amount, tt.term, tt.margin, tt.rate)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidTerm)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestInstallment_MonotonicInRate(t *testing.T) {
	prev := 0.0
	for _, rate := range []float64{-5, 0, 3, 6.5, 10, 18, 40} {
		got, err := Installment(20000, 36, 6.0, rate)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "rate %v", rate)
		prev = got
	}
}

func TestMaturesBeforeRetirement(t *testing.T) {
	assert.True(t, MaturesBeforeRetirement(40, 24))
	assert.True(t, MaturesBeforeRetirement(63, 24))
	assert.False(t, MaturesBeforeRetirement(63, 25))
	assert.False(t, MaturesBeforeRetirement(66, 1))
}

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		term     int
		amount   float64
		net      float64
		cost     float64
		expected bool
	}{
		{"installment above half of disposable income", 40, 24, 20000, 4000, 500, false},
		{"affordable", 40, 24, 20000, 5000, 500, true},
		{"installment just out of reach", 40, 12, 1200, 500, 100, false},
		{"too old at maturity", 60, 72, 1000, 10000, 500, false},
		{"costs exceed income", 30, 12, 1000, 1000, 2000, false},
		{"too old with a term far past retirement", 30, 200000, 1000, 5000, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := IsEligible(tt.age, tt.term, tt.amount, tt.net, tt.cost, 6.0, 6.5)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}

	_, err := IsEligible(40, 0, 1000, 5000, 500, 6.0, 6.5)
	assert.ErrorIs(t, err, ErrInvalidTerm)
	_, err = IsEligible(70, -1, 1000, 5000, 500, 6.0, 6.5)
	assert.ErrorIs(t, err, ErrInvalidTerm)
}

func TestIsEligible_HalfDisposableEqualsInstallment(t *testing.T) {
	inst, err := Installment(1200, 12, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 200.0, inst)

	ok, err := IsEligible(30, 12, 1200, 600, 200, 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsEligible(30, 12, 1200, 600.02, 200, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInstallment_MonotonicInAmount(t *testing.T) {
	prev := 0.0
	for _, amount := range []float64{1, 250, 1000, 1000.01, 5000, 20000, 250000, 1e7} {
		got, err := Installment(amount, 24, 6.0, 6.5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "amount %v", amount)
		prev = got
	}
}

func TestInstallment_Overflow(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := Installment(1000, 200000, 6.0, 6.5)
		assert.ErrorIs(t, err, ErrInstallmentOverflow)
	})
	assert.NotPanics(t, func() {
		ok, err := IsEligible(30, 200000, 1000, 5000, 500, 6.0, 6.5)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
