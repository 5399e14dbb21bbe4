package bignum

import (
	"errors"
	"math/bits"
)

var (
	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("natural number underflow")
	ErrParse     = errors.New("invalid numeral")
)

// Nat is an arbitrary-precision natural number.
// Limbs are base-2^32 little-endian (Limbs[0] is least significant).
// Canonical zero is a nil/empty slice. Values are immutable: every operation
// allocates a fresh slice.
type Nat struct {
	Limbs []uint32
}

// NatFromUint64 creates a Nat from a uint64.
func NatFromUint64(v uint64) Nat {
	if v == 0 {
		return Nat{}
	}
	lo := uint32(v)       //nolint:gosec // G115: low limb
	hi := uint32(v >> 32) //nolint:gosec // G115: high limb
	if hi == 0 {
		return Nat{Limbs: []uint32{lo}}
	}
	return Nat{Limbs: []uint32{lo, hi}}
}

// IsZero reports whether n is zero.
func (n Nat) IsZero() bool {
	return len(trimLimbs(n.Limbs)) == 0
}

// Cmp returns -1, 0 or 1.
func (n Nat) Cmp(m Nat) int {
	return cmpLimbs(n.Limbs, m.Limbs)
}

// Uint64 converts n to uint64 if it fits.
func (n Nat) Uint64() (uint64, bool) {
	limbs := trimLimbs(n.Limbs)
	switch len(limbs) {
	case 0:
		return 0, true
	case 1:
		return uint64(limbs[0]), true
	case 2:
		return uint64(limbs[0]) | (uint64(limbs[1]) << 32), true
	default:
		return 0, false
	}
}

// BitLen returns the number of significant bits.
func (n Nat) BitLen() int {
	limbs := trimLimbs(n.Limbs)
	if len(limbs) == 0 {
		return 0
	}
	return (len(limbs)-1)*32 + (32 - bits.LeadingZeros32(limbs[len(limbs)-1]))
}

// Inc returns n+1.
func (n Nat) Inc() Nat {
	return NatAddSmall(n, 1)
}

// Dec returns n-1, or ErrUnderflow when n is zero.
func (n Nat) Dec() (Nat, error) {
	return NatSub(n, Nat{Limbs: []uint32{1}})
}

// NatAdd returns a+b.
func NatAdd(a, b Nat) Nat {
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	n := max(len(al), len(bl))
	if n == 0 {
		return Nat{}
	}
	out := make([]uint32, n+1)
	var carry uint64
	for i := range n {
		var av, bv uint64
		if i < len(al) {
			av = uint64(al[i])
		}
		if i < len(bl) {
			bv = uint64(bl[i])
		}
		sum := av + bv + carry
		out[i] = uint32(sum) //nolint:gosec // G115: limb arithmetic
		carry = sum >> 32
	}
	out[n] = uint32(carry) //nolint:gosec // G115: limb arithmetic
	return Nat{Limbs: trimLimbs(out)}
}

// NatAddSmall returns u+v.
func NatAddSmall(u Nat, v uint32) Nat {
	return NatAdd(u, Nat{Limbs: []uint32{v}})
}

// NatSub returns a-b, or ErrUnderflow when b > a.
func NatSub(a, b Nat) (Nat, error) {
	if cmpLimbs(a.Limbs, b.Limbs) < 0 {
		return Nat{}, ErrUnderflow
	}
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	out := make([]uint32, len(al))
	copy(out, al)
	subInPlace(out, bl)
	return Nat{Limbs: trimLimbs(out)}, nil
}

// NatMul returns a*b (schoolbook).
func NatMul(a, b Nat) Nat {
	al := trimLimbs(a.Limbs)
	bl := trimLimbs(b.Limbs)
	if len(al) == 0 || len(bl) == 0 {
		return Nat{}
	}
	out := make([]uint32, len(al)+len(bl))
	for i := range al {
		ai := uint64(al[i])
		var carry uint64
		for j := range bl {
			k := i + j
			sum := uint64(out[k]) + ai*uint64(bl[j]) + carry
			out[k] = uint32(sum) //nolint:gosec // G115: limb arithmetic
			carry = sum >> 32
		}
		for k := i + len(bl); carry != 0; k++ {
			sum := uint64(out[k]) + carry
			out[k] = uint32(sum) //nolint:gosec // G115: limb arithmetic
			carry = sum >> 32
		}
	}
	return Nat{Limbs: trimLimbs(out)}
}

// natMulSmall returns u*m.
func natMulSmall(u Nat, m uint32) Nat {
	return NatMul(u, Nat{Limbs: []uint32{m}})
}

// natDivModSmall divides u by a non-zero d.
func natDivModSmall(u Nat, d uint32) (q Nat, r uint32) {
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return Nat{}, 0
	}
	out := make([]uint32, len(limbs))
	var rem uint64
	for i := len(limbs) - 1; i >= 0; i-- {
		cur := (rem << 32) | uint64(limbs[i])
		out[i] = uint32(cur / uint64(d)) //nolint:gosec // G115: quotient fits in uint32
		rem = cur % uint64(d)
	}
	return Nat{Limbs: trimLimbs(out)}, uint32(rem) //nolint:gosec // G115: remainder fits
}

func trimLimbs(limbs []uint32) []uint32 {
	for len(limbs) > 0 && limbs[len(limbs)-1] == 0 {
		limbs = limbs[:len(limbs)-1]
	}
	if len(limbs) == 0 {
		return nil
	}
	return limbs
}

func cmpLimbs(a, b []uint32) int {
	a = trimLimbs(a)
	b = trimLimbs(b)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func subInPlace(dst, sub []uint32) {
	var borrow uint64
	for i := range dst {
		av := uint64(dst[i])
		bv := uint64(0)
		if i < len(sub) {
			bv = uint64(sub[i])
		}
		dst[i] = uint32(av - bv - borrow) //nolint:gosec // G115: limb arithmetic
		if av < bv+borrow {
			borrow = 1
		} else {
			borrow = 0
		}
	}
}
