package bignum

import (
	"fmt"
	"strings"
)

// ParseNat parses a non-empty string of decimal digits.
func ParseNat(s string) (Nat, error) {
	if s == "" {
		return Nat{}, ErrParse
	}
	var out Nat
	for i := range len(s) {
		ch := s[i]
		if ch < '0' || ch > '9' {
			return Nat{}, fmt.Errorf("%w: %q", ErrParse, s)
		}
		out = NatAddSmall(natMulSmall(out, 10), uint32(ch-'0'))
	}
	return out, nil
}

// MustParseNat is ParseNat for literals known to be valid.
func MustParseNat(s string) Nat {
	n, err := ParseNat(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String formats n in decimal.
func (n Nat) String() string {
	limbs := trimLimbs(n.Limbs)
	if len(limbs) == 0 {
		return "0"
	}

	const base = uint32(1_000_000_000)

	cur := Nat{Limbs: limbs}
	var parts []uint32
	for !cur.IsZero() {
		q, r := natDivModSmall(cur, base)
		parts = append(parts, r)
		cur = q
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", parts[len(parts)-1])
	for i := len(parts) - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, "%09d", parts[i])
	}
	return sb.String()
}

// String formats i in decimal with a leading '-' when negative.
func (i Int) String() string {
	s := i.Abs().String()
	if i.Neg && s != "0" {
		return "-" + s
	}
	return s
}
