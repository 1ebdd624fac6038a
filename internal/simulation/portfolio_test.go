package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk-sim/internal/models"
)

func TestSelectPortfolio(t *testing.T) {
	applicants := []models.ApplicantRecord{
		{Age: 40, TermMonths: 24, Amount: 20000, NetIncome: 5000, MaintenanceCost: 500},
		{Age: 40, TermMonths: 24, Amount: 20000, NetIncome: 4000, MaintenanceCost: 500},
		{Age: 64, TermMonths: 36, Amount: 1000, NetIncome: 9000, MaintenanceCost: 100},
		{Age: 25, TermMonths: 12, Amount: 1200, NetIncome: 3000, MaintenanceCost: 200},
	}

	admitted, err := SelectPortfolio(applicants, 6.0, 6.5)
	require.NoError(t, err)
	require.Len(t, admitted, 2)

	assert.Equal(t, applicants[0], admitted[0].ApplicantRecord)
	assert.Equal(t, 1881.52, admitted[0].Installment)
	assert.False(t, admitted[0].Bankrupt)

	assert.Equal(t, applicants[3], admitted[1].ApplicantRecord)
	assert.Equal(t, 212.5, admitted[1].Installment)

	assert.Equal(t, 24, LongestTerm(admitted))
}

func TestSelectPortfolio_Empty(t *testing.T) {
	admitted, err := SelectPortfolio(nil, 6.0, 6.5)
	require.NoError(t, err)
	assert.Empty(t, admitted)
	assert.Equal(t, 0, LongestTerm(admitted))
}

func TestSelectPortfolio_InvalidTerm(t *testing.T) {
	applicants := []models.ApplicantRecord{
		{Age: 40, TermMonths: 12, Amount: 1000, NetIncome: 5000},
		{Age: 40, TermMonths: 0, Amount: 1000, NetIncome: 5000},
	}

	_, err := SelectPortfolio(applicants, 6.0, 6.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTerm)
	assert.Contains(t, err.Error(), "applicant 1")
}
