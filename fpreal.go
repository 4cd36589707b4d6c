package bitwuzla

import (
	"math/big"
)

// Construction of FP values from decimal real and rational strings, with
// correct rounding under a given mode.

// NewFPFromRational rounds num/den into the (e, s) format under rm.
func NewFPFromRational(e, s uint32, rm RoundingMode, r *big.Rat) *FloatingPoint {
	if r.Sign() == 0 {
		return NewFPZero(e, s, false)
	}
	negative := r.Sign() < 0
	num := new(big.Int).Abs(r.Num())
	den := new(big.Int).Set(r.Denom())

	// exp = floor(log2(num/den)).
	exp := num.BitLen() - den.BitLen()
	for ratCmpPow2(num, den, exp+1) >= 0 {
		exp++
	}
	for ratCmpPow2(num, den, exp) < 0 {
		exp--
	}

	bias := int(fpExpBias(e).Int64())
	emin := 1 - bias
	emax := bias
	target := exp
	if target < emin {
		target = emin
	}

	// I2 = floor(|r| * 2^(s-1-target+2)): kept bits plus guard and round,
	// with the division remainder folded into sticky.
	shift := int(s-1) - target + 2
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if shift >= 0 {
		n.Lsh(n, uint(shift))
	} else {
		d.Lsh(d, uint(-shift))
	}
	i2, rem := new(big.Int).QuoRem(n, d, new(big.Int))

	kept := new(big.Int).Rsh(i2, 2)
	g := i2.Bit(1) == 1
	sticky := i2.Bit(0) == 1 || rem.Sign() != 0
	lsbSet := kept.Bit(0) == 1

	incr := false
	switch rm {
	case RNE:
		incr = g && (sticky || lsbSet)
	case RNA:
		incr = g
	case RTP:
		incr = !negative && (g || sticky)
	case RTN:
		incr = negative && (g || sticky)
	case RTZ:
	}
	if incr {
		kept.Add(kept, bigOne)
	}

	hidden := new(big.Int).Lsh(bigOne, uint(s-1))
	if kept.Cmp(new(big.Int).Lsh(hidden, 1)) >= 0 {
		kept.Rsh(kept, 1)
		target++
	}

	sign := NewBitVectorZero(1)
	if negative {
		sign = NewBitVectorOne(1)
	}
	if target > emax {
		roundsAway := rm == RNE || rm == RNA ||
			(rm == RTP && !negative) || (rm == RTN && negative)
		if roundsAway {
			return NewFPInf(e, s, negative)
		}
		exp := new(big.Int).Sub(new(big.Int).Lsh(bigOne, uint(e)), big.NewInt(2))
		return NewFPFromParts(sign, NewBitVectorFromBigInt(e, exp), NewBitVectorOnes(s-1))
	}
	if kept.Sign() == 0 {
		return NewFPZero(e, s, negative)
	}
	if kept.Cmp(hidden) < 0 {
		// Subnormal.
		return NewFPFromParts(sign, NewBitVectorZero(e), NewBitVectorFromBigInt(s-1, kept))
	}
	frac := new(big.Int).Sub(kept, hidden)
	expField := big.NewInt(int64(target + bias))
	return NewFPFromParts(sign, NewBitVectorFromBigInt(e, expField), NewBitVectorFromBigInt(s-1, frac))
}

// ratCmpPow2 compares num/den against 2^exp.
func ratCmpPow2(num, den *big.Int, exp int) int {
	a := new(big.Int).Set(num)
	b := new(big.Int).Set(den)
	if exp >= 0 {
		b.Lsh(b, uint(exp))
	} else {
		a.Lsh(a, uint(-exp))
	}
	return a.Cmp(b)
}

// MkFPValueFromReal builds an FP value from a decimal real string such as
// "0.1", "-2.5e3" under the given rounding mode.
func (tm *TermManager) MkFPValueFromReal(sort Sort, rm RoundingMode, real string) (Term, error) {
	r, ok := new(big.Rat).SetString(real)
	if !ok {
		return Term{}, newErr(TypeErrorKind, "invalid real literal %q", real)
	}
	return tm.MkFPValue(NewFPFromRational(sort.FPExpBits(), sort.FPSigBits(), rm, r)), nil
}

// MkFPValueFromRational builds an FP value from decimal numerator and
// denominator strings under the given rounding mode.
func (tm *TermManager) MkFPValueFromRational(sort Sort, rm RoundingMode, num, den string) (Term, error) {
	n, okN := new(big.Int).SetString(num, 10)
	d, okD := new(big.Int).SetString(den, 10)
	if !okN || !okD || d.Sign() == 0 {
		return Term{}, newErr(TypeErrorKind, "invalid rational literal %q/%q", num, den)
	}
	r := new(big.Rat).SetFrac(n, d)
	return tm.MkFPValue(NewFPFromRational(sort.FPExpBits(), sort.FPSigBits(), rm, r)), nil
}
