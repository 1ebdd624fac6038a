package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientTrace_Current(t *testing.T) {
	client := AdmittedClient{
		ApplicantRecord: ApplicantRecord{Age: 30, TermMonths: 12, Amount: 1000, MaintenanceCost: 2000},
		Installment:     175.8,
	}

	trace := ClientTrace{Client: client}
	assert.False(t, trace.Bankrupt())
	assert.Equal(t, client, trace.Current())

	trace.Months = append(trace.Months,
		MonthSnapshot{Month: 1, MaintenanceCost: 2100, Installment: 176.1},
		MonthSnapshot{Month: 2, MaintenanceCost: 2600, Installment: 180.4, Bankrupt: true},
	)

	current := trace.Current()
	assert.True(t, trace.Bankrupt())
	assert.True(t, current.Bankrupt)
	assert.Equal(t, 2600.0, current.MaintenanceCost)
	assert.Equal(t, 180.4, current.Installment)

	assert.False(t, trace.Client.Bankrupt)
	assert.Equal(t, 2000.0, trace.Client.MaintenanceCost)
}
