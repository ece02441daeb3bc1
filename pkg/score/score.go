package score

import (
	"errors"
	"math"
)

var (
	ErrScoreOverflow = errors.New("score: overflow")
	ErrNegativeInput = errors.New("score: negative input")
)

// Baseline is the score every record starts at.
const Baseline int64 = 0

// Weights of the aggregate formula. Volume contributes one point per
// thousand units; the rest are flat multipliers.
const (
	volumeDivisor   = 1000
	leverageWeight  = 10
	yieldWeight     = 5
	nftWeight       = 2
	riskWeight      = 15
	diversityWeight = 3
)

// Policy controls what happens when the aggregate overflows int64.
// Silent wraparound is never an option: it would corrupt a trust signal.
type Policy int

const (
	// Reject fails the computation with ErrScoreOverflow.
	Reject Policy = iota
	// Saturate clamps the result to math.MaxInt64.
	Saturate
)

// Inputs are the six non-negative activity metrics the score aggregates.
type Inputs struct {
	Volume       int64
	Leverage     int64
	YieldFarming int64
	NFT          int64
	Risk         int64
	Diversity    int64
}

func (in Inputs) validate() error {
	for _, v := range []int64{in.Volume, in.Leverage, in.YieldFarming, in.NFT, in.Risk, in.Diversity} {
		if v < 0 {
			return ErrNegativeInput
		}
	}
	return nil
}

// Compute aggregates the six inputs:
//
//	score = floor(volume/1000) + 10·leverage + 5·yield + 2·nft + 15·risk + 3·diversity
//
// Overflow fails with ErrScoreOverflow.
func Compute(in Inputs) (int64, error) {
	return ComputeWithPolicy(in, Reject)
}

// ComputeWithPolicy is Compute with an explicit overflow policy.
func ComputeWithPolicy(in Inputs, policy Policy) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	total := in.Volume / volumeDivisor
	for _, term := range []struct {
		value  int64
		weight int64
	}{
		{in.Leverage, leverageWeight},
		{in.YieldFarming, yieldWeight},
		{in.NFT, nftWeight},
		{in.Risk, riskWeight},
		{in.Diversity, diversityWeight},
	} {
		product, ok := mul64(term.value, term.weight)
		if !ok {
			return saturate(policy)
		}
		total, ok = add64(total, product)
		if !ok {
			return saturate(policy)
		}
	}

	return total, nil
}

func saturate(policy Policy) (int64, error) {
	if policy == Saturate {
		return math.MaxInt64, nil
	}
	return 0, ErrScoreOverflow
}

// mul64 multiplies non-negative a and b, reporting overflow.
func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// add64 adds non-negative a and b, reporting overflow.
func add64(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
