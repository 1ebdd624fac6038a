// internal/simulation/eligibility.go
package simulation

import (
	"errors"
	"math"
)

// RetirementAge is the latest age at which a loan may mature.
const RetirementAge = 65

var (
	ErrInvalidTerm         = errors.New("loan term must be a positive number of months")
	ErrInstallmentOverflow = errors.New("installment is not a finite number")
)

// Installment returns the monthly repayment:
//
//	(amount*(1+margin/100)^(term/12) + amount*(1+rate/100)^(term/12)) / term
//
// rounded to cents. It is the bank's simplified compounding policy, not an
// amortisation schedule.
func Installment(amount float64, termMonths int, marginPct, ratePct float64) (float64, error) {
	if termMonths <= 0 {
		return 0, ErrInvalidTerm
	}
	years := float64(termMonths) / 12
	withMargin := amount * math.Pow(1+marginPct/100, years)
	withRate := amount * math.Pow(1+ratePct/100, years)
	installment := (withMargin + withRate) / float64(termMonths)
	if math.IsInf(installment, 0) || math.IsNaN(installment) {
		return 0, ErrInstallmentOverflow
	}
	return Round2(installment), nil
}

// Affordable reports whether half of the disposable income covers the installment.
func Affordable(netIncome, maintenanceCost, installment float64) bool {
	return (netIncome-maintenanceCost)/2 > installment
}

// MaturesBeforeRetirement reports whether the loan ends by RetirementAge.
func MaturesBeforeRetirement(age, termMonths int) bool {
	return float64(age)+Round2(float64(termMonths)/12) <= RetirementAge
}

// IsEligible applies the admission rule at decision time. A loan maturing
// after retirement is rejected before its installment is computed.
func IsEligible(age, termMonths int, amount, netIncome, maintenanceCost, marginPct, ratePct float64) (bool, error) {
	if termMonths <= 0 {
		return false, ErrInvalidTerm
	}
	if !MaturesBeforeRetirement(age, termMonths) {
		return false, nil
	}
	installment, err := Installment(amount, termMonths, marginPct, ratePct)
	if err != nil {
		return false, err
	}
	return Affordable(netIncome, maintenanceCost, installment), nil
}
