// internal/simulation/ratepath.go
package simulation

import (
	"errors"
	"fmt"
)

var ErrRatePathTooShort = errors.New("rate path does not cover the loan term")

// RatePath holds one interest rate per elapsed month, shared by every client of
// a run. Months are addressed 1..n; index 0 is never read.
type RatePath []float64

// DrawRatePath draws longestTerm+1 independent rates from the interest-rate
// distribution of the given kind.
func DrawRatePath(d *Drawer, kind Kind, longestTerm int) RatePath {
	if longestTerm < 0 {
		longestTerm = 0
	}
	path := make(RatePath, longestTerm+1)
	for i := range path {
		path[i] = d.InterestRate(kind)
	}
	return path
}

// Months is the number of addressable months.
func (p RatePath) Months() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Covers reports whether months 1..term can be read.
func (p RatePath) Covers(term int) bool {
	return term < len(p)
}

// At returns the rate for month m.
func (p RatePath) At(m int) (float64, error) {
	if m < 1 || m >= len(p) {
		return 0, fmt.Errorf("month %d of %d: %w", m, p.Months(), ErrRatePathTooShort)
	}
	return p[m], nil
}
