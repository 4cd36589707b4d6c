package bitwuzla

import "math/big"

// The word-blaster reduces every FP- and RM-sorted subterm to bit-vector
// terms over the packed sign/exponent/significand encoding. The same
// templates serve constant folding (rewriter, via fpFoldValue) and symbolic
// bit-blasting: with value operands the emitted BV terms fold to values,
// with symbolic operands they flow on into the AIG layer unchanged.
//
// NaN is canonicalized everywhere (sign 0, exponent all-ones, significand
// MSB set) so that SMT `=` on FP terms coincides with bit-vector equality
// of their packed encodings.

// wordBlaster rewrites a term DAG, mapping FP sorts to BV(1+e+s-1) and RM
// to BV(3). It is per-check-sat state; fresh constants introduced for FP/RM
// constants and for unspecified conversion results are cached per input
// term so repeated encounters agree.
type wordBlaster struct {
	tm     *TermManager
	cache  map[*termData]Term
	consts map[*termData]Term
	// side conditions accumulated while blasting (RM range constraints);
	// the caller conjoins them with the blasted assertions.
	side []Term
}

func newWordBlaster(tm *TermManager) *wordBlaster {
	return &wordBlaster{
		tm:     tm,
		cache:  make(map[*termData]Term),
		consts: make(map[*termData]Term),
	}
}

// mapSort translates FP and RM sorts (also inside array and function sorts)
// to their bit-vector carriers.
func (wb *wordBlaster) mapSort(s Sort) Sort {
	tm := wb.tm
	switch {
	case s.IsFP():
		return tm.MkBVSort(s.FPBVWidth())
	case s.IsRM():
		return tm.MkBVSort(3)
	case s.IsArray():
		return tm.MkArraySort(wb.mapSort(s.ArrayIndex()), wb.mapSort(s.ArrayElement()))
	case s.IsFun():
		dom := s.FunDomain()
		mapped := make([]Sort, len(dom))
		for i, d := range dom {
			mapped[i] = wb.mapSort(d)
		}
		return tm.MkFunSort(mapped, wb.mapSort(s.FunCodomain()))
	default:
		return s
	}
}

// SideConditions drains the constraints accumulated so far.
func (wb *wordBlaster) SideConditions() []Term {
	s := wb.side
	wb.side = nil
	return s
}

// Blast returns t with every FP/RM-sorted subterm replaced by its packed
// bit-vector encoding.
func (wb *wordBlaster) Blast(t Term) Term {
	if r, ok := wb.cache[t.data]; ok {
		return r
	}
	tm := wb.tm
	var r Term
	switch t.Kind() {
	case KindValue:
		switch {
		case t.Sort().IsFP():
			fp := t.Value().FP()
			packed := fp.PackedBV()
			if fp.IsNaN() {
				packed = NewFPNaN(fp.ExpBits, fp.SigBits).PackedBV()
			}
			r = tm.MkBVValue(packed)
		case t.Sort().IsRM():
			r = tm.MkBVValue(NewBitVectorFromUint64(3, uint64(t.Value().RM())))
		default:
			r = t
		}
	case KindConstant, KindVariable:
		mapped := wb.mapSort(t.Sort())
		if mapped.Equal(t.Sort()) {
			r = t
			break
		}
		if c, ok := wb.consts[t.data]; ok {
			r = c
			break
		}
		var raw Term
		if t.Kind() == KindConstant {
			raw = tm.MkConst(mapped, t.Symbol())
		} else {
			raw = tm.MkVar(mapped, t.Symbol())
		}
		switch {
		case t.Sort().IsFP():
			f := newFmt(tm, t.Sort().FPExpBits(), t.Sort().FPSigBits())
			r = f.canonicalize(raw)
		case t.Sort().IsRM():
			wb.side = append(wb.side, tm.MkBVUle(raw, tm.MkBVValue(NewBitVectorFromUint64(3, 4))))
			r = raw
		default:
			r = raw
		}
		wb.consts[t.data] = r
	default:
		bc := make([]Term, t.NumChildren())
		for i := 0; i < t.NumChildren(); i++ {
			bc[i] = wb.Blast(t.Child(i))
		}
		switch {
		case t.Kind() >= KindFPAbs && t.Kind() <= KindFPToUBV:
			r = wb.encodeFPOp(t, bc)
		case t.Kind() == KindConstArray:
			r = tm.MkConstArray(wb.mapSort(t.Sort()), bc[0])
		default:
			r = tm.rebuild(t, bc)
		}
	}
	wb.cache[t.data] = r
	return r
}

// fpFmt carries one (e, s) format's derived parameters and the term-level
// building blocks shared by every operation template.
type fpFmt struct {
	tm *TermManager
	eb uint32 // exponent field width
	sb uint32 // significand width incl. hidden bit
	ew uint32 // working exponent width (signed, with headroom)
	pw uint32 // packed width
}

func newFmt(tm *TermManager, eb, sb uint32) fpFmt {
	// The working exponent must hold sums/differences of unbiased exponents
	// plus normalization adjustments of up to 2*sb bits.
	ebc := eb
	if ebc > 48 {
		ebc = 48
	}
	bound := uint64(1)<<ebc + 4*uint64(sb) + 16
	ew := uint32(2)
	for uint64(1)<<(ew-1) < bound {
		ew++
	}
	return fpFmt{tm: tm, eb: eb, sb: sb, ew: ew, pw: fpPackedWidth(eb, sb)}
}

func (f fpFmt) bias() *big.Int { return fpExpBias(f.eb) }

func (f fpFmt) c(w uint32, v uint64) Term {
	return f.tm.MkBVValue(NewBitVectorFromUint64(w, v))
}

func (f fpFmt) cBig(w uint32, v *big.Int) Term {
	return f.tm.MkBVValue(NewBitVectorFromBigInt(w, v))
}

// expC builds a working-width exponent constant from a signed value.
func (f fpFmt) expC(v *big.Int) Term {
	return f.cBig(f.ew, v)
}

func (f fpFmt) eminC() Term {
	return f.expC(new(big.Int).Sub(bigOne, f.bias()))
}

func (f fpFmt) emaxC() Term { return f.expC(f.bias()) }

func (f fpFmt) packParts(sign, expField, sigField Term) Term {
	return f.tm.MkBVConcat(f.tm.MkBVConcat(sign, expField), sigField)
}

func (f fpFmt) packZero(sign Term) Term {
	return f.packParts(sign, f.c(f.eb, 0), f.c(f.sb-1, 0))
}

func (f fpFmt) packInf(sign Term) Term {
	return f.packParts(sign, f.tm.MkBVValue(NewBitVectorOnes(f.eb)), f.c(f.sb-1, 0))
}

func (f fpFmt) packNaN() Term {
	return f.tm.MkBVValue(NewFPNaN(f.eb, f.sb).PackedBV())
}

func (f fpFmt) signOf(p Term) Term { return f.tm.MkBVExtract(f.pw-1, f.pw-1, p) }
func (f fpFmt) expFieldOf(p Term) Term {
	return f.tm.MkBVExtract(f.pw-2, f.sb-1, p)
}
func (f fpFmt) sigFieldOf(p Term) Term { return f.tm.MkBVExtract(f.sb-2, 0, p) }

func (f fpFmt) isNaN(p Term) Term {
	tm := f.tm
	return tm.MkAnd(
		tm.MkEqual(f.expFieldOf(p), tm.MkBVValue(NewBitVectorOnes(f.eb))),
		tm.MkNot(tm.MkEqual(f.sigFieldOf(p), f.c(f.sb-1, 0))))
}

func (f fpFmt) isInf(p Term) Term {
	tm := f.tm
	return tm.MkAnd(
		tm.MkEqual(f.expFieldOf(p), tm.MkBVValue(NewBitVectorOnes(f.eb))),
		tm.MkEqual(f.sigFieldOf(p), f.c(f.sb-1, 0)))
}

func (f fpFmt) isZero(p Term) Term {
	tm := f.tm
	return tm.MkAnd(
		tm.MkEqual(f.expFieldOf(p), f.c(f.eb, 0)),
		tm.MkEqual(f.sigFieldOf(p), f.c(f.sb-1, 0)))
}

func (f fpFmt) isSubnormal(p Term) Term {
	tm := f.tm
	return tm.MkAnd(
		tm.MkEqual(f.expFieldOf(p), f.c(f.eb, 0)),
		tm.MkNot(tm.MkEqual(f.sigFieldOf(p), f.c(f.sb-1, 0))))
}

func (f fpFmt) isNormal(p Term) Term {
	tm := f.tm
	return tm.MkAnd(
		tm.MkNot(tm.MkEqual(f.expFieldOf(p), f.c(f.eb, 0))),
		tm.MkNot(tm.MkEqual(f.expFieldOf(p), f.tm.MkBVValue(NewBitVectorOnes(f.eb)))))
}

func (f fpFmt) isNegSign(p Term) Term {
	return f.tm.MkEqual(f.signOf(p), f.c(1, 1))
}

// canonicalize maps every NaN payload to the canonical NaN pattern.
func (f fpFmt) canonicalize(p Term) Term {
	return f.tm.MkIte(f.isNaN(p), f.packNaN(), p)
}

// boolToBit converts a Bool term to a BV1 term.
func (f fpFmt) boolToBit(b Term) Term {
	return f.tm.MkIte(b, f.c(1, 1), f.c(1, 0))
}

// ufp is the unpacked form: nonzero finite numbers carry a normalized
// significand (hidden bit explicit and set) and an unbiased exponent.
type ufp struct {
	sign Term // BV1
	exp  Term // signed, width ew
	sig  Term // width sb, MSB set for nonzero finite
	nan  Term // Bool
	inf  Term // Bool
	zero Term // Bool
}

// normalizeLeft shifts sig left until its MSB is set (caller guarantees
// sig != 0 on the selected path) and returns the shift amount at width ew.
func (f fpFmt) normalizeLeft(sig Term) (Term, Term) {
	tm := f.tm
	w := sig.Sort().BVWidth()
	adj := f.c(f.ew, 0)
	sh := uint32(1)
	for sh*2 < w {
		sh *= 2
	}
	for ; sh >= 1; sh /= 2 {
		cond := tm.MkEqual(tm.MkBVExtract(w-1, w-sh, sig), f.c(sh, 0))
		sig = tm.MkIte(cond, tm.MkBVShl(sig, f.c(w, uint64(sh))), sig)
		adj = tm.MkIte(cond, tm.MkBVAdd(adj, f.c(f.ew, uint64(sh))), adj)
		if sh == 1 {
			break
		}
	}
	return sig, adj
}

// lshrSticky shifts x right by sh (same width as x, unsigned) and reports
// whether any set bit was shifted out.
func (f fpFmt) lshrSticky(x, sh Term) (Term, Term) {
	tm := f.tm
	w := x.Sort().BVWidth()
	zero := f.c(w, 0)
	wC := f.c(w, uint64(w))
	tooBig := tm.MkBVUge(sh, wC)
	lostSmall := tm.MkNot(tm.MkEqual(tm.MkBVShl(x, tm.MkBVSub(wC, sh)), zero))
	lost := tm.MkIte(tooBig, tm.MkNot(tm.MkEqual(x, zero)), lostSmall)
	return tm.MkBVShr(x, sh), lost
}

// expToShift converts a non-negative working-width exponent difference into
// a shift amount at width w, clamping anything ≥ w to w.
func (f fpFmt) expToShift(d Term, w uint32) Term {
	tm := f.tm
	wC := f.expC(big.NewInt(int64(w)))
	clamped := tm.MkIte(tm.MkBVSge(d, wC), wC, d)
	if f.ew > w {
		return tm.MkBVExtract(w-1, 0, clamped)
	}
	if f.ew < w {
		return tm.MkBVZeroExtend(w-f.ew, clamped)
	}
	return clamped
}

// unpack decomposes a packed term, normalizing subnormal significands.
func (f fpFmt) unpack(p Term) ufp {
	tm := f.tm
	sign := f.signOf(p)
	expF := f.expFieldOf(p)
	var sigF Term
	if f.sb > 1 {
		sigF = f.sigFieldOf(p)
	}
	u := ufp{
		sign: sign,
		nan:  f.isNaN(p),
		inf:  f.isInf(p),
		zero: f.isZero(p),
	}
	// Normal: exponent = field - bias, significand = 1.sigF.
	expExt := tm.MkBVZeroExtend(f.ew-f.eb, expF)
	normalExp := tm.MkBVSub(expExt, f.cBig(f.ew, f.bias()))
	var normalSig, subSig Term
	if f.sb > 1 {
		normalSig = tm.MkBVConcat(f.c(1, 1), sigF)
		subSig = tm.MkBVConcat(f.c(1, 0), sigF)
	} else {
		normalSig = f.c(1, 1)
		subSig = f.c(1, 0)
	}
	// Subnormal: exponent = emin - leading-zero count, significand shifted
	// up so the MSB lands in the hidden-bit position.
	normSub, adj := f.normalizeLeft(subSig)
	subExp := tm.MkBVSub(f.eminC(), adj)
	isSub := f.isSubnormal(p)
	u.exp = tm.MkIte(isSub, subExp, normalExp)
	u.sig = tm.MkIte(isSub, normSub, normalSig)
	return u
}

// roundIncr computes the rounding increment for the given mode as a Bool.
// lsb, g, s are Bool terms for the low kept bit, guard bit, and sticky bit.
func (f fpFmt) roundIncr(rm, sign, lsb, g, s Term) Term {
	tm := f.tm
	rmIs := func(m RoundingMode) Term {
		return tm.MkEqual(rm, f.c(3, uint64(m)))
	}
	neg := tm.MkEqual(sign, f.c(1, 1))
	gOrS := tm.MkOr(g, s)
	rne := tm.MkAnd(g, tm.MkOr(s, lsb))
	rna := g
	rtp := tm.MkAnd(tm.MkNot(neg), gOrS)
	rtn := tm.MkAnd(neg, gOrS)
	return tm.MkIte(rmIs(RNE), rne,
		tm.MkIte(rmIs(RNA), rna,
			tm.MkIte(rmIs(RTP), rtp,
				tm.MkIte(rmIs(RTN), rtn, tm.MkFalse()))))
}

// roundAndPack rounds a normalized significand and packs the result,
// handling subnormal denormalization, exponent overflow per mode, and exact
// zero. sig has width sb+2 with layout [hidden|fraction|guard|sticky] and
// its hidden bit set; exp is the unbiased exponent at width ew.
func (f fpFmt) roundAndPack(rm, sign, exp, sig Term) Term {
	tm := f.tm
	sw := f.sb + 2
	// Denormalize when the exponent is below emin.
	belowMin := tm.MkBVSlt(exp, f.eminC())
	shAmt := tm.MkIte(belowMin, tm.MkBVSub(f.eminC(), exp), f.c(f.ew, 0))
	s0 := tm.MkEqual(tm.MkBVExtract(0, 0, sig), f.c(1, 1))
	hi := tm.MkBVExtract(sw-1, 1, sig) // [hidden|fraction|guard]
	hiSh, lost := f.lshrSticky(hi, f.expToShift(shAmt, sw-1))
	g := tm.MkEqual(tm.MkBVExtract(0, 0, hiSh), f.c(1, 1))
	kept := tm.MkBVExtract(sw-2, 1, hiSh) // sb bits
	sticky := tm.MkOr(s0, lost)
	expAdj := tm.MkIte(belowMin, f.eminC(), exp)

	lsb := tm.MkEqual(tm.MkBVExtract(0, 0, kept), f.c(1, 1))
	incr := f.roundIncr(rm, sign, lsb, g, sticky)
	rounded := tm.MkBVAdd(tm.MkBVZeroExtend(1, kept),
		tm.MkIte(incr, f.c(f.sb+1, 1), f.c(f.sb+1, 0)))
	carry := tm.MkEqual(tm.MkBVExtract(f.sb, f.sb, rounded), f.c(1, 1))
	sigF := tm.MkIte(carry,
		tm.MkBVExtract(f.sb, 1, rounded),
		tm.MkBVExtract(f.sb-1, 0, rounded))
	expF := tm.MkIte(carry, tm.MkBVAdd(expAdj, f.c(f.ew, 1)), expAdj)

	zeroRes := tm.MkEqual(sigF, f.c(f.sb, 0))
	hiddenSet := tm.MkEqual(tm.MkBVExtract(f.sb-1, f.sb-1, sigF), f.c(1, 1))
	overflow := tm.MkBVSgt(expF, f.emaxC())

	roundsToInf := tm.MkOr(
		tm.MkEqual(rm, f.c(3, uint64(RNE))),
		tm.MkEqual(rm, f.c(3, uint64(RNA))),
		tm.MkAnd(tm.MkEqual(rm, f.c(3, uint64(RTP))), tm.MkEqual(sign, f.c(1, 0))),
		tm.MkAnd(tm.MkEqual(rm, f.c(3, uint64(RTN))), tm.MkEqual(sign, f.c(1, 1))))
	maxNormal := f.packParts(sign,
		f.cBig(f.eb, new(big.Int).Sub(new(big.Int).Lsh(bigOne, uint(f.eb)), big.NewInt(2))),
		tm.MkBVValue(NewBitVectorOnes(f.sb-1)))

	biased := tm.MkBVAdd(expF, f.cBig(f.ew, f.bias()))
	normalPack := f.packParts(sign,
		tm.MkBVExtract(f.eb-1, 0, biased),
		tm.MkBVExtract(f.sb-2, 0, sigF))
	subPack := f.packParts(sign, f.c(f.eb, 0), tm.MkBVExtract(f.sb-2, 0, sigF))

	return tm.MkIte(overflow,
		tm.MkIte(roundsToInf, f.packInf(sign), maxNormal),
		tm.MkIte(zeroRes, f.packZero(sign),
			tm.MkIte(hiddenSet, normalPack, subPack)))
}
