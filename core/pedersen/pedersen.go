package pedersen

import (
	"errors"
	"math/big"

	"github.com/cronokirby/saferith"
)

var (
	ErrNilFields      = errors.New("pedersen: contains nil field")
	ErrModulusNotOdd  = errors.New("pedersen: modulus N is even")
	ErrSEqualT        = errors.New("pedersen: S equals T")
	ErrGeneratorRange = errors.New("pedersen: generator is not in [2, N-1)")
)

// Parameters hold a Pedersen commitment key: C = Sˣ·Tʳ (mod N).
type Parameters struct {
	n    *saferith.Modulus
	s, t *saferith.Nat
}

// New returns a new set of Pedersen parameters after validating them.
func New(n *saferith.Modulus, s, t *saferith.Nat) (*Parameters, error) {
	if n == nil || s == nil || t == nil {
		return nil, ErrNilFields
	}

	nBig := n.Nat().Big()
	if nBig.Bit(0) != 1 {
		return nil, ErrModulusNotOdd
	}

	one := big.NewInt(1)
	for _, gen := range []*saferith.Nat{s, t} {
		g := gen.Big()
		if g.Cmp(one) <= 0 || g.Cmp(nBig) >= 0 {
			return nil, ErrGeneratorRange
		}
	}
	if s.Eq(t) == 1 {
		return nil, ErrSEqualT
	}

	return &Parameters{n: n, s: s, t: t}, nil
}

// N returns the modulus of the commitment group.
func (p *Parameters) N() *saferith.Modulus { return p.n }

// S returns the S generator.
func (p *Parameters) S() *saferith.Nat { return p.s }

// T returns the T generator.
func (p *Parameters) T() *saferith.Nat { return p.t }

// Commit computes Sˣ·Tʳ (mod N), binding x under randomness r.
func (p *Parameters) Commit(x, r *saferith.Nat) *saferith.Nat {
	sx := new(saferith.Nat).Exp(p.s, x, p.n)
	tr := new(saferith.Nat).Exp(p.t, r, p.n)
	return sx.ModMul(sx, tr, p.n)
}

// Verify returns true if c == Sˣ·Tʳ (mod N).
func (p *Parameters) Verify(c, x, r *saferith.Nat) bool {
	if c == nil || x == nil || r == nil {
		return false
	}
	return p.Commit(x, r).Eq(c) == 1
}
