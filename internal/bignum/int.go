package bignum

// Int is an arbitrary-precision signed integer used for polynomial
// coefficients. Canonical zero is Neg=false with empty Limbs.
type Int struct {
	Neg   bool
	Limbs []uint32
}

// IntFromInt64 creates an Int from an int64.
func IntFromInt64(v int64) Int {
	if v == 0 {
		return Int{}
	}
	if v > 0 {
		return Int{Limbs: NatFromUint64(uint64(v)).Limbs}
	}
	u := uint64(-(v + 1)) //nolint:gosec // G115: -(v+1) is non-negative
	u++
	return Int{Neg: true, Limbs: NatFromUint64(u).Limbs}
}

// IntFromNat lifts a natural number.
func IntFromNat(n Nat) Int {
	return Int{Limbs: trimLimbs(n.Limbs)}
}

// IsZero reports whether the integer is zero.
func (i Int) IsZero() bool {
	return len(trimLimbs(i.Limbs)) == 0
}

// Abs returns the magnitude.
func (i Int) Abs() Nat {
	return Nat{Limbs: trimLimbs(i.Limbs)}
}

// Negated returns -i.
func (i Int) Negated() Int {
	if i.IsZero() {
		return Int{}
	}
	return Int{Neg: !i.Neg, Limbs: trimLimbs(i.Limbs)}
}

// Cmp compares two Int values.
func (i Int) Cmp(j Int) int {
	ia := trimLimbs(i.Limbs)
	ja := trimLimbs(j.Limbs)
	switch {
	case len(ia) == 0 && len(ja) == 0:
		return 0
	case len(ia) == 0:
		if j.Neg {
			return 1
		}
		return -1
	case len(ja) == 0:
		if i.Neg {
			return -1
		}
		return 1
	case i.Neg != j.Neg:
		if i.Neg {
			return -1
		}
		return 1
	default:
		cmp := cmpLimbs(ia, ja)
		if i.Neg {
			return -cmp
		}
		return cmp
	}
}

// Equal reports whether i == j.
func (i Int) Equal(j Int) bool {
	return i.Cmp(j) == 0
}

// IntAdd returns a+b.
func IntAdd(a, b Int) Int {
	aa := a.Abs()
	ba := b.Abs()
	if a.Neg == b.Neg {
		sum := NatAdd(aa, ba)
		if sum.IsZero() {
			return Int{}
		}
		return Int{Neg: a.Neg, Limbs: sum.Limbs}
	}
	switch cmp := aa.Cmp(ba); {
	case cmp == 0:
		return Int{}
	case cmp > 0:
		diff, _ := NatSub(aa, ba)
		return Int{Neg: a.Neg, Limbs: diff.Limbs}
	default:
		diff, _ := NatSub(ba, aa)
		return Int{Neg: b.Neg, Limbs: diff.Limbs}
	}
}

// IntSub returns a-b.
func IntSub(a, b Int) Int {
	return IntAdd(a, b.Negated())
}

// IntMul returns a*b.
func IntMul(a, b Int) Int {
	prod := NatMul(a.Abs(), b.Abs())
	if prod.IsZero() {
		return Int{}
	}
	return Int{Neg: a.Neg != b.Neg, Limbs: prod.Limbs}
}
