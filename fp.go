package bitwuzla

// Floating-point sort and operation convenience wrappers, following the
// teacher's one-theory-per-file layout and Mk* naming (MkFPAdd, MkFPIsNaN,
// ...); every one of these is a thin MkTerm call, the real work happens in
// inferSort (termmanager.go) and, for constant folding, floatingpoint.go.

// MkFPSort16/32/64/128 are the IEEE standard formats.
func (tm *TermManager) MkFPSort16() Sort  { return tm.MkFPSort(5, 11) }
func (tm *TermManager) MkFPSort32() Sort  { return tm.MkFPSort(8, 24) }
func (tm *TermManager) MkFPSort64() Sort  { return tm.MkFPSort(11, 53) }
func (tm *TermManager) MkFPSort128() Sort { return tm.MkFPSort(15, 113) }

// MkFPValueZero, MkFPValueInf, MkFPValueNaN wrap the named FloatingPoint
// constructors (floatingpoint.go) as VALUE terms of the given sort.
func (tm *TermManager) MkFPValueZero(sort Sort, negative bool) Term {
	return tm.MkFPValue(NewFPZero(sort.FPExpBits(), sort.FPSigBits(), negative))
}

func (tm *TermManager) MkFPValueInf(sort Sort, negative bool) Term {
	return tm.MkFPValue(NewFPInf(sort.FPExpBits(), sort.FPSigBits(), negative))
}

func (tm *TermManager) MkFPValueNaN(sort Sort) Term {
	return tm.MkFPValue(NewFPNaN(sort.FPExpBits(), sort.FPSigBits()))
}

// MkFPFp packs sign/exponent/trailing-significand bit-vectors into an FP
// term, per KindFPFp.
func (tm *TermManager) MkFPFp(sign, exp, sig Term) Term {
	return tm.MkTerm(KindFPFp, nil, sign, exp, sig)
}

func (tm *TermManager) MkFPAdd(rm, lhs, rhs Term) Term { return tm.MkTerm(KindFPAdd, nil, rm, lhs, rhs) }
func (tm *TermManager) MkFPSub(rm, lhs, rhs Term) Term { return tm.MkTerm(KindFPSub, nil, rm, lhs, rhs) }
func (tm *TermManager) MkFPMul(rm, lhs, rhs Term) Term { return tm.MkTerm(KindFPMul, nil, rm, lhs, rhs) }
func (tm *TermManager) MkFPDiv(rm, lhs, rhs Term) Term { return tm.MkTerm(KindFPDiv, nil, rm, lhs, rhs) }
func (tm *TermManager) MkFPFma(rm, a, b, c Term) Term  { return tm.MkTerm(KindFPFma, nil, rm, a, b, c) }
func (tm *TermManager) MkFPSqrt(rm, x Term) Term       { return tm.MkTerm(KindFPSqrt, nil, rm, x) }
func (tm *TermManager) MkFPRem(a, b Term) Term         { return tm.MkTerm(KindFPRem, nil, a, b) }
func (tm *TermManager) MkFPRti(rm, x Term) Term        { return tm.MkTerm(KindFPRti, nil, rm, x) }

func (tm *TermManager) MkFPNeg(x Term) Term { return tm.MkTerm(KindFPNeg, nil, x) }
func (tm *TermManager) MkFPAbs(x Term) Term { return tm.MkTerm(KindFPAbs, nil, x) }

func (tm *TermManager) MkFPLt(a, b Term) Term  { return tm.MkTerm(KindFPLt, nil, a, b) }
func (tm *TermManager) MkFPGt(a, b Term) Term  { return tm.MkTerm(KindFPGt, nil, a, b) }
func (tm *TermManager) MkFPLeq(a, b Term) Term { return tm.MkTerm(KindFPLeq, nil, a, b) }
func (tm *TermManager) MkFPGeq(a, b Term) Term { return tm.MkTerm(KindFPGeq, nil, a, b) }
func (tm *TermManager) MkFPEqual(a, b Term) Term { return tm.MkTerm(KindFPEqual, nil, a, b) }
func (tm *TermManager) MkFPMin(a, b Term) Term { return tm.MkTerm(KindFPMin, nil, a, b) }
func (tm *TermManager) MkFPMax(a, b Term) Term { return tm.MkTerm(KindFPMax, nil, a, b) }

func (tm *TermManager) MkFPIsNaN(x Term) Term       { return tm.MkTerm(KindFPIsNan, nil, x) }
func (tm *TermManager) MkFPIsInf(x Term) Term       { return tm.MkTerm(KindFPIsInf, nil, x) }
func (tm *TermManager) MkFPIsZero(x Term) Term      { return tm.MkTerm(KindFPIsZero, nil, x) }
func (tm *TermManager) MkFPIsNormal(x Term) Term    { return tm.MkTerm(KindFPIsNormal, nil, x) }
func (tm *TermManager) MkFPIsSubnormal(x Term) Term { return tm.MkTerm(KindFPIsSubnormal, nil, x) }
func (tm *TermManager) MkFPIsNeg(x Term) Term       { return tm.MkTerm(KindFPIsNeg, nil, x) }
func (tm *TermManager) MkFPIsPos(x Term) Term       { return tm.MkTerm(KindFPIsPos, nil, x) }

// MkFPToFPFromFP converts x to an FP sort with the given format, rounding
// with rm.
func (tm *TermManager) MkFPToFPFromFP(rm Term, expBits, sigBits uint32, x Term) Term {
	return tm.MkTerm(KindFPToFPFromFP, []uint32{expBits, sigBits}, rm, x)
}

// MkFPToFPFromBV reinterprets a packed bit-vector as an FP value of the
// corresponding format (no rounding involved).
func (tm *TermManager) MkFPToFPFromBV(expBits, sigBits uint32, bv Term) Term {
	return tm.MkTerm(KindFPToFPFromBV, []uint32{expBits, sigBits}, bv)
}

func (tm *TermManager) MkFPToFPFromSBV(rm Term, expBits, sigBits uint32, bv Term) Term {
	return tm.MkTerm(KindFPToFPFromSBV, []uint32{expBits, sigBits}, rm, bv)
}

func (tm *TermManager) MkFPToFPFromUBV(rm Term, expBits, sigBits uint32, bv Term) Term {
	return tm.MkTerm(KindFPToFPFromUBV, []uint32{expBits, sigBits}, rm, bv)
}

func (tm *TermManager) MkFPToSBV(rm Term, width uint32, x Term) Term {
	return tm.MkTerm(KindFPToSBV, []uint32{width}, rm, x)
}

func (tm *TermManager) MkFPToUBV(rm Term, width uint32, x Term) Term {
	return tm.MkTerm(KindFPToUBV, []uint32{width}, rm, x)
}
