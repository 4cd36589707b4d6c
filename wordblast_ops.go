package bitwuzla

import "math/big"

// Operation templates for the word-blaster. Each template is parameterized
// over the (e, s) sort via fpFmt and emits only core BV/Bool terms, so the
// same code path serves constant folding and symbolic encoding.

func (f fpFmt) magOf(p Term) Term { return f.tm.MkBVExtract(f.pw-2, 0, p) }

func (f fpFmt) flipSign(p Term) Term {
	tm := f.tm
	return tm.MkBVConcat(tm.MkBVXor(f.signOf(p), f.c(1, 1)), f.magOf(p))
}

func (f fpFmt) nonZero(x Term) Term {
	return f.tm.MkNot(f.tm.MkEqual(x, f.c(x.Sort().BVWidth(), 0)))
}

// fpLt implements fp.lt on packed operands: IEEE ordering, false on any
// NaN, +0 and -0 compare equal. For non-negative floats the packed
// magnitude order coincides with the value order, subnormals and
// infinities included.
func (f fpFmt) fpLt(a, b Term) Term {
	tm := f.tm
	ordered := tm.MkAnd(tm.MkNot(f.isNaN(a)), tm.MkNot(f.isNaN(b)))
	magA, magB := f.magOf(a), f.magOf(b)
	negA := f.isNegSign(a)
	bothZero := tm.MkAnd(f.isZero(a), f.isZero(b))
	sameSign := tm.MkEqual(f.signOf(a), f.signOf(b))
	lt := tm.MkIte(sameSign,
		tm.MkIte(negA, tm.MkBVUlt(magB, magA), tm.MkBVUlt(magA, magB)),
		tm.MkAnd(negA, tm.MkNot(bothZero)))
	return tm.MkAnd(ordered, lt)
}

func (f fpFmt) fpEq(a, b Term) Term {
	tm := f.tm
	ordered := tm.MkAnd(tm.MkNot(f.isNaN(a)), tm.MkNot(f.isNaN(b)))
	bothZero := tm.MkAnd(f.isZero(a), f.isZero(b))
	return tm.MkAnd(ordered, tm.MkOr(bothZero, tm.MkEqual(a, b)))
}

func (f fpFmt) fpMinMax(a, b Term, isMin bool) Term {
	tm := f.tm
	lt := f.fpLt(a, b)
	gt := f.fpLt(b, a)
	zeroTie := tm.MkAnd(f.isZero(a), f.isZero(b),
		tm.MkNot(tm.MkEqual(f.signOf(a), f.signOf(b))))
	var tie, pick Term
	if isMin {
		tie = f.packZero(f.c(1, 1))
		pick = tm.MkIte(lt, a, tm.MkIte(gt, b, a))
	} else {
		tie = f.packZero(f.c(1, 0))
		pick = tm.MkIte(gt, a, tm.MkIte(lt, b, a))
	}
	core := tm.MkIte(zeroTie, tie, pick)
	return tm.MkIte(f.isNaN(a), b, tm.MkIte(f.isNaN(b), a, core))
}

// addMags adds or subtracts two magnitudes (hidden bit at msw-1, both
// nonzero) and reduces the result to roundAndPack's sb+2 layout. cancel is
// true when the sum is exactly zero.
func (f fpFmt) addMags(sX, eX, mX, sY, eY, mY, rm Term) (sign, exp, sig, cancel Term) {
	tm := f.tm
	msw := mX.Sort().BVWidth()
	// Four headroom bits: three rounding bits below the aligned operands
	// and one carry bit above their hidden position.
	aw := msw + 4

	xBig := tm.MkOr(tm.MkBVSgt(eX, eY),
		tm.MkAnd(tm.MkEqual(eX, eY), tm.MkBVUge(mX, mY)))
	sL := tm.MkIte(xBig, sX, sY)
	sS := tm.MkIte(xBig, sY, sX)
	eL := tm.MkIte(xBig, eX, eY)
	eS := tm.MkIte(xBig, eY, eX)
	mL := tm.MkIte(xBig, mX, mY)
	mS := tm.MkIte(xBig, mY, mX)

	extL := tm.MkBVShl(tm.MkBVZeroExtend(4, mL), f.c(aw, 3))
	extSF := tm.MkBVShl(tm.MkBVZeroExtend(4, mS), f.c(aw, 3))
	d := tm.MkBVSub(eL, eS)
	extS, lost := f.lshrSticky(extSF, f.expToShift(d, aw))
	extS = tm.MkBVOr(extS, tm.MkIte(lost, f.c(aw, 1), f.c(aw, 0)))

	effSub := tm.MkNot(tm.MkEqual(sX, sY))
	sum := tm.MkIte(effSub, tm.MkBVSub(extL, extS), tm.MkBVAdd(extL, extS))
	cancel = tm.MkEqual(sum, f.c(aw, 0))

	norm, adj := f.normalizeLeft(sum)
	// The hidden bit of the aligned operands sits at aw-2, so a result
	// whose MSB lands at aw-1 has exponent eL+1-adj.
	exp = tm.MkBVSub(tm.MkBVAdd(eL, f.c(f.ew, 1)), adj)
	kept := tm.MkBVExtract(aw-1, aw-1-f.sb, norm)
	sticky := f.nonZero(tm.MkBVExtract(aw-2-f.sb, 0, norm))
	sig = tm.MkBVConcat(kept, f.boolToBit(sticky))
	sign = sL
	_ = sS
	return sign, exp, sig, cancel
}

func (f fpFmt) rtnZeroSign(rm Term) Term {
	tm := f.tm
	return tm.MkIte(tm.MkEqual(rm, f.c(3, uint64(RTN))), f.c(1, 1), f.c(1, 0))
}

func (f fpFmt) fpAdd(rm, a, b Term, subtract bool) Term {
	tm := f.tm
	if subtract {
		b = f.flipSign(b)
	}
	ua, ub := f.unpack(a), f.unpack(b)

	bothInfOpposite := tm.MkAnd(ua.inf, ub.inf,
		tm.MkNot(tm.MkEqual(ua.sign, ub.sign)))
	isNan := tm.MkOr(ua.nan, ub.nan, bothInfOpposite)

	bothZero := tm.MkAnd(ua.zero, ub.zero)
	zeroSign := tm.MkIte(tm.MkEqual(ua.sign, ub.sign), ua.sign, f.rtnZeroSign(rm))

	sign, exp, sig, cancel := f.addMags(ua.sign, ua.exp, ua.sig, ub.sign, ub.exp, ub.sig, rm)
	core := tm.MkIte(cancel,
		f.packZero(f.rtnZeroSign(rm)),
		f.roundAndPack(rm, sign, exp, sig))

	return tm.MkIte(isNan, f.packNaN(),
		tm.MkIte(ua.inf, f.packInf(ua.sign),
			tm.MkIte(ub.inf, f.packInf(ub.sign),
				tm.MkIte(bothZero, f.packZero(zeroSign),
					tm.MkIte(ua.zero, b,
						tm.MkIte(ub.zero, a, core))))))
}

// mulCore multiplies two unpacked significands and returns the sign,
// exponent and the normalized full-width product (hidden bit at 2sb-1).
func (f fpFmt) mulCore(ua, ub ufp) (sign, exp, prod Term) {
	tm := f.tm
	sign = tm.MkBVXor(ua.sign, ub.sign)
	p := tm.MkBVMul(tm.MkBVZeroExtend(f.sb, ua.sig), tm.MkBVZeroExtend(f.sb, ub.sig))
	top := tm.MkEqual(tm.MkBVExtract(2*f.sb-1, 2*f.sb-1, p), f.c(1, 1))
	prod = tm.MkIte(top, p, tm.MkBVShl(p, f.c(2*f.sb, 1)))
	exp = tm.MkBVAdd(tm.MkBVAdd(ua.exp, ub.exp),
		tm.MkIte(top, f.c(f.ew, 1), f.c(f.ew, 0)))
	return sign, exp, prod
}

func (f fpFmt) reduceWide(prod Term) Term {
	tm := f.tm
	w := prod.Sort().BVWidth()
	kept := tm.MkBVExtract(w-1, w-1-f.sb, prod)
	sticky := f.nonZero(tm.MkBVExtract(w-2-f.sb, 0, prod))
	return tm.MkBVConcat(kept, f.boolToBit(sticky))
}

func (f fpFmt) fpMul(rm, a, b Term) Term {
	tm := f.tm
	ua, ub := f.unpack(a), f.unpack(b)
	isNan := tm.MkOr(ua.nan, ub.nan,
		tm.MkAnd(ua.inf, ub.zero), tm.MkAnd(ua.zero, ub.inf))
	sign := tm.MkBVXor(ua.sign, ub.sign)
	anyInf := tm.MkOr(ua.inf, ub.inf)
	anyZero := tm.MkOr(ua.zero, ub.zero)

	csign, cexp, prod := f.mulCore(ua, ub)
	core := f.roundAndPack(rm, csign, cexp, f.reduceWide(prod))

	return tm.MkIte(isNan, f.packNaN(),
		tm.MkIte(anyInf, f.packInf(sign),
			tm.MkIte(anyZero, f.packZero(sign), core)))
}

func (f fpFmt) fpDiv(rm, a, b Term) Term {
	tm := f.tm
	ua, ub := f.unpack(a), f.unpack(b)
	isNan := tm.MkOr(ua.nan, ub.nan,
		tm.MkAnd(ua.zero, ub.zero), tm.MkAnd(ua.inf, ub.inf))
	sign := tm.MkBVXor(ua.sign, ub.sign)
	isInf := tm.MkOr(ua.inf, ub.zero)
	isZero := tm.MkOr(ua.zero, ub.inf)

	W := 2*f.sb + 2
	num := tm.MkBVShl(tm.MkBVZeroExtend(W-f.sb, ua.sig), f.c(W, uint64(f.sb+2)))
	den := tm.MkBVZeroExtend(W-f.sb, ub.sig)
	q := tm.MkBVUDiv(num, den)
	rNZ := f.nonZero(tm.MkBVURem(num, den))
	qTop := tm.MkEqual(tm.MkBVExtract(f.sb+2, f.sb+2, q), f.c(1, 1))

	sigHi := tm.MkBVConcat(tm.MkBVExtract(f.sb+2, 2, q),
		f.boolToBit(tm.MkOr(f.nonZero(tm.MkBVExtract(1, 0, q)), rNZ)))
	sigLo := tm.MkBVConcat(tm.MkBVExtract(f.sb+1, 1, q),
		f.boolToBit(tm.MkOr(tm.MkEqual(tm.MkBVExtract(0, 0, q), f.c(1, 1)), rNZ)))
	exp := tm.MkBVSub(ua.exp, ub.exp)
	sig := tm.MkIte(qTop, sigHi, sigLo)
	exp = tm.MkIte(qTop, exp, tm.MkBVSub(exp, f.c(f.ew, 1)))
	core := f.roundAndPack(rm, sign, exp, sig)

	return tm.MkIte(isNan, f.packNaN(),
		tm.MkIte(isInf, f.packInf(sign),
			tm.MkIte(isZero, f.packZero(sign), core)))
}

// isqrt computes the floor square root of r by restoring digit recurrence,
// returning the root and whether a remainder was left.
func (f fpFmt) isqrt(r Term) (Term, Term) {
	tm := f.tm
	W := r.Sort().BVWidth()
	hw := W / 2
	rw := hw + 2
	rem := f.c(rw, 0)
	root := f.c(hw, 0)
	for i := int(hw) - 1; i >= 0; i-- {
		pair := tm.MkBVExtract(uint32(2*i+1), uint32(2*i), r)
		rem = tm.MkBVOr(tm.MkBVShl(rem, f.c(rw, 2)), tm.MkBVZeroExtend(rw-2, pair))
		trial := tm.MkBVOr(tm.MkBVShl(tm.MkBVZeroExtend(rw-hw, root), f.c(rw, 2)), f.c(rw, 1))
		cond := tm.MkBVUge(rem, trial)
		rem = tm.MkIte(cond, tm.MkBVSub(rem, trial), rem)
		root = tm.MkBVOr(tm.MkBVShl(root, f.c(hw, 1)),
			tm.MkIte(cond, f.c(hw, 1), f.c(hw, 0)))
	}
	return root, f.nonZero(rem)
}

func (f fpFmt) fpSqrt(rm, a Term) Term {
	tm := f.tm
	ua := f.unpack(a)
	isNan := tm.MkOr(ua.nan,
		tm.MkAnd(tm.MkEqual(ua.sign, f.c(1, 1)), tm.MkNot(ua.zero)))
	posInf := tm.MkAnd(ua.inf, tm.MkEqual(ua.sign, f.c(1, 0)))

	odd := tm.MkEqual(tm.MkBVExtract(0, 0, ua.exp), f.c(1, 1))
	eHalf := tm.MkBVAshr(
		tm.MkBVSub(ua.exp, tm.MkIte(odd, f.c(f.ew, 1), f.c(f.ew, 0))),
		f.c(f.ew, 1))

	W := 2*f.sb + 6
	r := tm.MkBVShl(tm.MkBVZeroExtend(W-f.sb, ua.sig), f.c(W, uint64(f.sb+3)))
	r = tm.MkIte(odd, tm.MkBVShl(r, f.c(W, 1)), r)
	s, remNZ := f.isqrt(r)
	sticky := tm.MkOr(tm.MkEqual(tm.MkBVExtract(0, 0, s), f.c(1, 1)), remNZ)
	sig := tm.MkBVConcat(tm.MkBVExtract(f.sb+1, 1, s), f.boolToBit(sticky))
	core := f.roundAndPack(rm, f.c(1, 0), eHalf, sig)

	return tm.MkIte(isNan, f.packNaN(),
		tm.MkIte(posInf, f.packInf(f.c(1, 0)),
			tm.MkIte(ua.zero, f.packZero(ua.sign), core)))
}

func (f fpFmt) fpRem(a, b Term) Term {
	tm := f.tm
	ua, ub := f.unpack(a), f.unpack(b)
	isNan := tm.MkOr(ua.nan, ub.nan, ua.inf, ub.zero)
	passthrough := tm.MkOr(ub.inf, ua.zero)

	rw := f.sb + 1
	mA := tm.MkBVZeroExtend(1, ua.sig)
	mB := tm.MkBVZeroExtend(1, ub.sig)
	d := tm.MkBVSub(ua.exp, ub.exp)
	dNonNeg := tm.MkBVSge(d, f.c(f.ew, 0))
	dZero := tm.MkEqual(d, f.c(f.ew, 0))

	// Long-division reduction of |a| by |b| across the exponent gap,
	// keeping only the remainder and the quotient's parity bit.
	qb0 := tm.MkBVUge(mA, mB)
	r := tm.MkIte(qb0, tm.MkBVSub(mA, mB), mA)
	parity := tm.MkAnd(dZero, qb0)
	maxD := int(uint64(1)<<f.eb) + int(f.sb) + 2
	for k := maxD; k >= 1; k-- {
		gate := tm.MkBVSge(d, f.expC(big.NewInt(int64(k))))
		r2 := tm.MkBVShl(r, f.c(rw, 1))
		qb := tm.MkBVUge(r2, mB)
		r2 = tm.MkIte(qb, tm.MkBVSub(r2, mB), r2)
		r = tm.MkIte(gate, r2, r)
		if k == 1 {
			parity = tm.MkIte(gate, qb, parity)
		}
	}
	// Round the implicit quotient to nearest-even: flip the remainder when
	// it exceeds half of |b|, or equals half with an odd quotient.
	r2 := tm.MkBVShl(r, f.c(rw, 1))
	flip := tm.MkOr(tm.MkBVUgt(r2, mB),
		tm.MkAnd(tm.MkEqual(r2, mB), parity))
	mag := tm.MkIte(flip, tm.MkBVSub(mB, r), r)
	signGen := tm.MkIte(flip, tm.MkBVXor(ua.sign, f.c(1, 1)), ua.sign)

	// d == -1: |a| in [|b|/2, |b|): the quotient rounds to one when
	// |a| > |b|/2, leaving |b| - |a| with flipped sign.
	dNeg1 := tm.MkEqual(d, f.expC(big.NewInt(-1)))
	nearFlip := tm.MkBVUgt(mA, mB)
	magNear := tm.MkBVSub(tm.MkBVShl(mB, f.c(rw, 1)), mA)

	useNear := tm.MkAnd(dNeg1, nearFlip)
	usePass := tm.MkNot(tm.MkOr(dNonNeg, useNear))

	magSel := tm.MkIte(useNear, magNear, mag)
	signSel := tm.MkIte(useNear, tm.MkBVXor(ua.sign, f.c(1, 1)), signGen)
	scaleBase := tm.MkIte(useNear, ua.exp, ub.exp)

	magExt := tm.MkBVZeroExtend(1, magSel) // sb+2 bits
	zeroRes := tm.MkEqual(magExt, f.c(f.sb+2, 0))
	norm, adj := f.normalizeLeft(magExt)
	exp := tm.MkBVSub(tm.MkBVAdd(scaleBase, f.c(f.ew, 2)), adj)
	// Exact result: guard is norm's low bit, sticky zero.
	sig := tm.MkBVConcat(tm.MkBVExtract(f.sb+1, 1, norm),
		f.boolToBit(tm.MkEqual(tm.MkBVExtract(0, 0, norm), f.c(1, 1))))
	rmRNE := f.c(3, uint64(RNE))
	core := tm.MkIte(zeroRes, f.packZero(ua.sign),
		f.roundAndPack(rmRNE, signSel, exp, sig))

	return tm.MkIte(isNan, f.packNaN(),
		tm.MkIte(passthrough, f.canonicalize(a),
			tm.MkIte(usePass, a, core)))
}

func (f fpFmt) fpRti(rm, a Term) Term {
	tm := f.tm
	ua := f.unpack(a)
	exact := tm.MkBVSge(ua.exp, f.expC(big.NewInt(int64(f.sb-1))))

	sh := tm.MkBVSub(f.expC(big.NewInt(int64(f.sb-1))), ua.exp)
	ext := tm.MkBVConcat(ua.sig, f.c(2, 0)) // sb+2 bits
	shifted, lost := f.lshrSticky(ext, f.expToShift(sh, f.sb+2))
	g := tm.MkEqual(tm.MkBVExtract(1, 1, shifted), f.c(1, 1))
	st := tm.MkOr(tm.MkEqual(tm.MkBVExtract(0, 0, shifted), f.c(1, 1)), lost)
	kept := tm.MkBVExtract(f.sb+1, 2, shifted)
	lsb := tm.MkEqual(tm.MkBVExtract(0, 0, kept), f.c(1, 1))
	incr := f.roundIncr(rm, ua.sign, lsb, g, st)
	i := tm.MkBVAdd(tm.MkBVZeroExtend(1, kept),
		tm.MkIte(incr, f.c(f.sb+1, 1), f.c(f.sb+1, 0)))

	zeroRes := tm.MkEqual(i, f.c(f.sb+1, 0))
	norm, adj := f.normalizeLeft(i)
	exp := tm.MkBVSub(f.expC(big.NewInt(int64(f.sb))), adj)
	sig := tm.MkBVConcat(norm, f.c(1, 0))
	core := tm.MkIte(zeroRes, f.packZero(ua.sign),
		f.roundAndPack(rm, ua.sign, exp, sig))

	return tm.MkIte(tm.MkOr(ua.nan, ua.inf, ua.zero), f.canonicalize(a),
		tm.MkIte(exact, a, core))
}

func (f fpFmt) fpFma(rm, a, b, c Term) Term {
	tm := f.tm
	ua, ub, uc := f.unpack(a), f.unpack(b), f.unpack(c)
	prodSign := tm.MkBVXor(ua.sign, ub.sign)
	prodInf := tm.MkOr(ua.inf, ub.inf)
	prodZero := tm.MkOr(ua.zero, ub.zero)
	isNan := tm.MkOr(ua.nan, ub.nan, uc.nan,
		tm.MkAnd(ua.inf, ub.zero), tm.MkAnd(ua.zero, ub.inf),
		tm.MkAnd(prodInf, uc.inf, tm.MkNot(tm.MkEqual(prodSign, uc.sign))))

	zeroSign := tm.MkIte(tm.MkEqual(prodSign, uc.sign), uc.sign, f.rtnZeroSign(rm))

	csign, cexp, prod := f.mulCore(ua, ub)
	// Align the addend to the product's 2sb-wide significand domain.
	cSig := tm.MkBVShl(tm.MkBVZeroExtend(f.sb, uc.sig), f.c(2*f.sb, uint64(f.sb)))
	sign, exp, sig, cancel := f.addMags(csign, cexp, prod, uc.sign, uc.exp, cSig, rm)
	sum := tm.MkIte(cancel,
		f.packZero(f.rtnZeroSign(rm)),
		f.roundAndPack(rm, sign, exp, sig))
	prodOnly := f.roundAndPack(rm, csign, cexp, f.reduceWide(prod))
	core := tm.MkIte(uc.zero, prodOnly, sum)

	return tm.MkIte(isNan, f.packNaN(),
		tm.MkIte(prodInf, f.packInf(prodSign),
			tm.MkIte(uc.inf, f.packInf(uc.sign),
				tm.MkIte(tm.MkAnd(prodZero, uc.zero), f.packZero(zeroSign),
					tm.MkIte(prodZero, f.canonicalize(c), core)))))
}

func bitsFor(v uint64) uint32 {
	n := uint32(1)
	for uint64(1)<<n <= v {
		n++
	}
	return n
}

func (f fpFmt) withEw(ew uint32) fpFmt {
	if ew > f.ew {
		f.ew = ew
	}
	return f
}

// fpConvert rounds a value from format g into format f.
func (f fpFmt) fpConvert(rm, a Term, g fpFmt) Term {
	tm := f.tm
	ew := f.ew
	if g.ew > ew {
		ew = g.ew
	}
	fw := f.withEw(ew)
	ua := g.unpack(a)
	exp := ua.exp
	if ew > g.ew {
		exp = tm.MkBVSignExtend(ew-g.ew, exp)
	}
	var sig Term
	if g.sb >= f.sb+1 {
		kept := tm.MkBVExtract(g.sb-1, g.sb-1-f.sb, ua.sig)
		var sticky Term
		if g.sb-1-f.sb >= 1 {
			sticky = f.nonZero(tm.MkBVExtract(g.sb-2-f.sb, 0, ua.sig))
		} else {
			sticky = tm.MkFalse()
		}
		sig = tm.MkBVConcat(kept, f.boolToBit(sticky))
	} else {
		sig = tm.MkBVConcat(ua.sig, f.c(f.sb+2-g.sb, 0))
	}
	core := fw.roundAndPack(rm, ua.sign, exp, sig)
	return tm.MkIte(ua.nan, f.packNaN(),
		tm.MkIte(ua.inf, f.packInf(ua.sign),
			tm.MkIte(ua.zero, f.packZero(ua.sign), core)))
}

// fpFromInt rounds a W-bit integer magnitude with the given sign into
// format f.
func (f fpFmt) fpFromInt(rm, sign, mag Term) Term {
	tm := f.tm
	w := mag.Sort().BVWidth()
	fw := f.withEw(bitsFor(uint64(w)) + 2)
	isZero := tm.MkEqual(mag, f.c(w, 0))
	norm, adj := fw.normalizeLeft(mag)
	exp := tm.MkBVSub(fw.expC(big.NewInt(int64(w-1))), adj)
	var sig Term
	if w >= f.sb+1 {
		kept := tm.MkBVExtract(w-1, w-1-f.sb, norm)
		var sticky Term
		if w-1-f.sb >= 1 {
			sticky = f.nonZero(tm.MkBVExtract(w-2-f.sb, 0, norm))
		} else {
			sticky = tm.MkFalse()
		}
		sig = tm.MkBVConcat(kept, f.boolToBit(sticky))
	} else {
		sig = tm.MkBVConcat(norm, f.c(f.sb+2-w, 0))
	}
	core := fw.roundAndPack(rm, sign, exp, sig)
	return tm.MkIte(isZero, f.packZero(f.c(1, 0)), core)
}

// fpToInt converts a to a w-bit integer per rm. ok is false on the
// unspecified cases (NaN, infinity, out of range); the caller substitutes
// its per-term fresh constant then.
func (f fpFmt) fpToInt(rm, a Term, w uint32, signed bool) (val, ok Term) {
	tm := f.tm
	fw := f.withEw(bitsFor(uint64(w)+2) + 2)
	ua := fw.unpack(a)
	iw := w + f.sb + 3

	// X = magnitude * 4 as a fixed-point integer with two rounding bits.
	sa := tm.MkBVSub(ua.exp, fw.expC(big.NewInt(int64(f.sb)-3)))
	saNeg := tm.MkBVSlt(sa, fw.c(fw.ew, 0))
	left := tm.MkBVShl(tm.MkBVZeroExtend(iw-f.sb, ua.sig), fw.expToShift(sa, iw))
	negAmt := tm.MkBVSub(fw.c(fw.ew, 0), sa)
	right, lost := fw.lshrSticky(tm.MkBVZeroExtend(iw-f.sb, ua.sig), fw.expToShift(negAmt, iw))
	x := tm.MkIte(saNeg, right, left)
	stLost := tm.MkAnd(saNeg, lost)

	g := tm.MkEqual(tm.MkBVExtract(1, 1, x), f.c(1, 1))
	st := tm.MkOr(tm.MkEqual(tm.MkBVExtract(0, 0, x), f.c(1, 1)), stLost)
	kept := tm.MkBVExtract(iw-1, 2, x) // iw-2 bits
	lsb := tm.MkEqual(tm.MkBVExtract(0, 0, kept), f.c(1, 1))
	incr := fw.roundIncr(rm, ua.sign, lsb, g, st)
	i := tm.MkBVAdd(kept, tm.MkIte(incr, f.c(iw-2, 1), f.c(iw-2, 0)))

	neg := tm.MkEqual(ua.sign, f.c(1, 1))
	iZero := tm.MkEqual(i, f.c(iw-2, 0))
	expSmall := tm.MkBVSlt(ua.exp, fw.expC(big.NewInt(int64(w)+1)))

	low := tm.MkBVExtract(w-1, 0, i)
	if signed {
		hiZero := tm.MkEqual(tm.MkBVExtract(iw-3, w-1, i), f.c(iw-1-w, 0))
		atMin := tm.MkAnd(tm.MkEqual(low, tm.MkBVValue(NewBitVectorMinSigned(w))),
			tm.MkEqual(tm.MkBVExtract(iw-3, w, i), f.c(iw-2-w, 0)))
		inRange := tm.MkIte(neg, tm.MkOr(hiZero, atMin), hiZero)
		ok = tm.MkAnd(tm.MkNot(ua.nan), tm.MkNot(ua.inf), expSmall, inRange)
		val = tm.MkIte(neg, tm.MkBVNeg(low), low)
		return val, ok
	}
	hiZero := tm.MkEqual(tm.MkBVExtract(iw-3, w, i), f.c(iw-2-w, 0))
	inRange := tm.MkAnd(hiZero, tm.MkOr(tm.MkNot(neg), iZero))
	ok = tm.MkAnd(tm.MkNot(ua.nan), tm.MkNot(ua.inf), expSmall, inRange)
	val = low
	return val, ok
}

// encodeFPOp lowers one FP-kinded term given its already-blasted children.
func (wb *wordBlaster) encodeFPOp(t Term, bc []Term) Term {
	tm := wb.tm
	fmtOf := func(i int) fpFmt {
		s := t.Child(i).Sort()
		return newFmt(tm, s.FPExpBits(), s.FPSigBits())
	}
	switch t.Kind() {
	case KindFPFp:
		return tm.MkBVConcat(tm.MkBVConcat(bc[0], bc[1]), bc[2])
	case KindFPAbs:
		f := fmtOf(0)
		return tm.MkBVConcat(f.c(1, 0), f.magOf(bc[0]))
	case KindFPNeg:
		f := fmtOf(0)
		return f.canonicalize(f.flipSign(bc[0]))
	case KindFPIsNan:
		return fmtOf(0).isNaN(bc[0])
	case KindFPIsInf:
		return fmtOf(0).isInf(bc[0])
	case KindFPIsZero:
		return fmtOf(0).isZero(bc[0])
	case KindFPIsNormal:
		return fmtOf(0).isNormal(bc[0])
	case KindFPIsSubnormal:
		return fmtOf(0).isSubnormal(bc[0])
	case KindFPIsNeg:
		return fmtOf(0).isNegSign(bc[0])
	case KindFPIsPos:
		return tm.MkNot(fmtOf(0).isNegSign(bc[0]))
	case KindFPEqual:
		return fmtOf(0).fpEq(bc[0], bc[1])
	case KindFPLt:
		return fmtOf(0).fpLt(bc[0], bc[1])
	case KindFPGt:
		return fmtOf(0).fpLt(bc[1], bc[0])
	case KindFPLeq:
		f := fmtOf(0)
		return tm.MkOr(f.fpLt(bc[0], bc[1]), f.fpEq(bc[0], bc[1]))
	case KindFPGeq:
		f := fmtOf(0)
		return tm.MkOr(f.fpLt(bc[1], bc[0]), f.fpEq(bc[0], bc[1]))
	case KindFPMin:
		return fmtOf(0).fpMinMax(bc[0], bc[1], true)
	case KindFPMax:
		return fmtOf(0).fpMinMax(bc[0], bc[1], false)
	case KindFPAdd:
		return fmtOf(1).fpAdd(bc[0], bc[1], bc[2], false)
	case KindFPSub:
		return fmtOf(1).fpAdd(bc[0], bc[1], bc[2], true)
	case KindFPMul:
		return fmtOf(1).fpMul(bc[0], bc[1], bc[2])
	case KindFPDiv:
		return fmtOf(1).fpDiv(bc[0], bc[1], bc[2])
	case KindFPFma:
		return fmtOf(1).fpFma(bc[0], bc[1], bc[2], bc[3])
	case KindFPSqrt:
		return fmtOf(1).fpSqrt(bc[0], bc[1])
	case KindFPRti:
		return fmtOf(1).fpRti(bc[0], bc[1])
	case KindFPRem:
		return fmtOf(0).fpRem(bc[0], bc[1])
	case KindFPToFPFromBV:
		f := newFmt(tm, t.Indices()[0], t.Indices()[1])
		return f.canonicalize(bc[0])
	case KindFPToFPFromFP:
		f := newFmt(tm, t.Indices()[0], t.Indices()[1])
		return f.fpConvert(bc[0], bc[1], fmtOf(1))
	case KindFPToFPFromUBV:
		f := newFmt(tm, t.Indices()[0], t.Indices()[1])
		return f.fpFromInt(bc[0], f.c(1, 0), bc[1])
	case KindFPToFPFromSBV:
		f := newFmt(tm, t.Indices()[0], t.Indices()[1])
		w := bc[1].Sort().BVWidth()
		sign := tm.MkBVExtract(w-1, w-1, bc[1])
		mag := tm.MkIte(tm.MkEqual(sign, f.c(1, 1)), tm.MkBVNeg(bc[1]), bc[1])
		return f.fpFromInt(bc[0], sign, mag)
	case KindFPToUBV, KindFPToSBV:
		f := fmtOf(1)
		w := t.Indices()[0]
		val, ok := f.fpToInt(bc[0], bc[1], w, t.Kind() == KindFPToSBV)
		fresh, have := wb.consts[t.data]
		if !have {
			fresh = tm.MkConst(tm.MkBVSort(w), "")
			wb.consts[t.data] = fresh
		}
		return tm.MkIte(ok, val, fresh)
	}
	internalErrorf("encodeFPOp: unhandled kind %s", t.Kind())
	return Term{}
}

// fpFoldValue constant-folds an FP operation whose operands are all values
// by running it through the same templates and rewriting the resulting
// ground BV term, then repacking the format.
func fpFoldValue(rw *Rewriter, t Term) (Term, bool) {
	for i := 0; i < t.NumChildren(); i++ {
		if !t.Child(i).IsValue() {
			return Term{}, false
		}
	}
	wb := newWordBlaster(rw.tm)
	r := rw.Rewrite(wb.Blast(t))
	if !r.IsValue() {
		// fp.to_ubv/fp.to_sbv on an unspecified input folds to its fresh
		// placeholder constant, not a value; leave the term symbolic.
		return Term{}, false
	}
	if t.Sort().IsFP() {
		s := t.Sort()
		return rw.tm.MkFPValue(newFPFromPacked(s.FPExpBits(), s.FPSigBits(), r.Value().BV())), true
	}
	return r, true
}
