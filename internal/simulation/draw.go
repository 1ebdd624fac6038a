// internal/simulation/draw.go
package simulation

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind names a sampling distribution.
type Kind string

const (
	KindNormal  Kind = "normal"
	KindUniform Kind = "uniform"
	KindGamma   Kind = "gamma"
)

var ErrInvalidPoolSize = errors.New("pool size must be positive")

// ParseKind maps a case-insensitive name to a Kind. Anything that is not
// normal or uniform resolves to gamma.
func ParseKind(name string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindNormal:
		return KindNormal
	case KindUniform:
		return KindUniform
	default:
		return KindGamma
	}
}

// Distribution is one of Normal, Uniform or Gamma.
type Distribution interface {
	Kind() Kind
	sampler(src rand.Source) distuv.Rander
}

type Normal struct {
	Mean   float64
	StdDev float64
}

func (Normal) Kind() Kind { return KindNormal }

func (n Normal) sampler(src rand.Source) distuv.Rander {
	return distuv.Normal{Mu: n.Mean, Sigma: n.StdDev, Src: src}
}

type Uniform struct {
	Low  float64
	High float64
}

func (Uniform) Kind() Kind { return KindUniform }

func (u Uniform) sampler(src rand.Source) distuv.Rander {
	return distuv.Uniform{Min: u.Low, Max: u.High, Src: src}
}

// Gamma is parameterised by shape and scale; gonum takes a rate, so Beta is 1/Scale.
type Gamma struct {
	Shape float64
	Scale float64
}

func (Gamma) Kind() Kind { return KindGamma }

func (g Gamma) sampler(src rand.Source) distuv.Rander {
	return distuv.Gamma{Alpha: g.Shape, Beta: 1 / g.Scale, Src: src}
}

// Params is the full parameter set of a drawn quantity. Which fields are used
// depends on the Kind the caller asks for.
type Params struct {
	Mean   float64
	StdDev float64
	Low    float64
	High   float64
}

var (
	MaintenanceCostParams = Params{Mean: 2317, StdDev: 913, Low: 1404, High: 3230}
	InterestRateParams    = Params{Mean: 7.38, StdDev: 5.7, Low: 0, High: 18}
)

const GrossIncomeMean = 6857

// GrossIncomeParams returns the income parameters for a configurable spread.
func GrossIncomeParams(stdDev float64) Params {
	return Params{Mean: GrossIncomeMean, StdDev: stdDev}
}

// Distribution builds the variant for kind. Gamma uses shape = scale = sqrt(mean),
// rounded to two decimals.
func (p Params) Distribution(kind Kind) Distribution {
	switch kind {
	case KindNormal:
		return Normal{Mean: p.Mean, StdDev: p.StdDev}
	case KindUniform:
		return Uniform{Low: p.Low, High: p.High}
	default:
		shape := Round2(math.Sqrt(p.Mean))
		return Gamma{Shape: shape, Scale: shape}
	}
}

// NewRand returns a seeded generator. Two generators built from the same seed
// produce the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Drawer oversamples a pool of poolSize values from a distribution and returns
// one of them picked uniformly. It is not safe for concurrent use.
type Drawer struct {
	rng  *rand.Rand
	pool []float64
}

func NewDrawer(rng *rand.Rand, poolSize int) (*Drawer, error) {
	if poolSize <= 0 {
		return nil, ErrInvalidPoolSize
	}
	return &Drawer{rng: rng, pool: make([]float64, poolSize)}, nil
}

func (d *Drawer) PoolSize() int { return len(d.pool) }

// Draw samples the pool from dist and picks one value.
func (d *Drawer) Draw(dist Distribution) float64 {
	s := dist.sampler(d.rng)
	for i := range d.pool {
		d.pool[i] = s.Rand()
	}
	return d.pool[d.rng.IntN(len(d.pool))]
}

// DrawKind is Draw(p.Distribution(kind)).
func (d *Drawer) DrawKind(kind Kind, p Params) float64 {
	return d.Draw(p.Distribution(kind))
}

// MaintenanceCost draws a non-negative monthly cost rounded to cents.
func (d *Drawer) MaintenanceCost(kind Kind) float64 {
	return math.Abs(Round2(d.DrawKind(kind, MaintenanceCostParams)))
}

// InterestRate draws a rate in percent rounded to two decimals.
func (d *Drawer) InterestRate(kind Kind) float64 {
	return Round2(d.DrawKind(kind, InterestRateParams))
}
