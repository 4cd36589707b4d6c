package bitwuzla

// Bit-vector term convenience wrappers, one per SMT-LIB BV operator,
// following the teacher's one-theory-per-file layout and Mk* naming.

// MkBVValueUint64 and MkBVValueInt64 wrap machine integers as BV values of
// the given sort.
func (tm *TermManager) MkBVValueUint64(sort Sort, v uint64) Term {
	return tm.MkBVValue(NewBitVectorFromUint64(sort.BVWidth(), v))
}

func (tm *TermManager) MkBVValueInt64(sort Sort, v int64) Term {
	return tm.MkBVValue(NewBitVectorFromInt64(sort.BVWidth(), v))
}

// MkBVValueString parses str in base 2, 10, or 16 as a value of the given
// BV sort. Base-10 strings may carry a leading '-' for the two's-complement
// encoding.
func (tm *TermManager) MkBVValueString(sort Sort, str string, base int) (Term, error) {
	bv, err := ParseBitVector(sort.BVWidth(), str, base)
	if err != nil {
		return Term{}, newErr(TypeErrorKind, "%v", err)
	}
	return tm.MkBVValue(bv), nil
}

// Named BV constants per sort.
func (tm *TermManager) MkBVZero(sort Sort) Term {
	return tm.MkBVValue(NewBitVectorZero(sort.BVWidth()))
}
func (tm *TermManager) MkBVOne(sort Sort) Term {
	return tm.MkBVValue(NewBitVectorOne(sort.BVWidth()))
}
func (tm *TermManager) MkBVOnes(sort Sort) Term {
	return tm.MkBVValue(NewBitVectorOnes(sort.BVWidth()))
}
func (tm *TermManager) MkBVMinSigned(sort Sort) Term {
	return tm.MkBVValue(NewBitVectorMinSigned(sort.BVWidth()))
}
func (tm *TermManager) MkBVMaxSigned(sort Sort) Term {
	return tm.MkBVValue(NewBitVectorMaxSigned(sort.BVWidth()))
}

func (tm *TermManager) MkBVAdd(a, b Term) Term  { return tm.MkTerm(KindBVAdd, nil, a, b) }
func (tm *TermManager) MkBVSub(a, b Term) Term  { return tm.MkTerm(KindBVSub, nil, a, b) }
func (tm *TermManager) MkBVMul(a, b Term) Term  { return tm.MkTerm(KindBVMul, nil, a, b) }
func (tm *TermManager) MkBVUDiv(a, b Term) Term { return tm.MkTerm(KindBVUdiv, nil, a, b) }
func (tm *TermManager) MkBVSDiv(a, b Term) Term { return tm.MkTerm(KindBVSdiv, nil, a, b) }
func (tm *TermManager) MkBVURem(a, b Term) Term { return tm.MkTerm(KindBVUrem, nil, a, b) }
func (tm *TermManager) MkBVSRem(a, b Term) Term { return tm.MkTerm(KindBVSrem, nil, a, b) }
func (tm *TermManager) MkBVSMod(a, b Term) Term { return tm.MkTerm(KindBVSmod, nil, a, b) }
func (tm *TermManager) MkBVNeg(a Term) Term     { return tm.MkTerm(KindBVNeg, nil, a) }
func (tm *TermManager) MkBVInc(a Term) Term     { return tm.MkTerm(KindBVInc, nil, a) }
func (tm *TermManager) MkBVDec(a Term) Term     { return tm.MkTerm(KindBVDec, nil, a) }

func (tm *TermManager) MkBVNot(a Term) Term     { return tm.MkTerm(KindBVNot, nil, a) }
func (tm *TermManager) MkBVAnd(a, b Term) Term  { return tm.MkTerm(KindBVAnd, nil, a, b) }
func (tm *TermManager) MkBVOr(a, b Term) Term   { return tm.MkTerm(KindBVOr, nil, a, b) }
func (tm *TermManager) MkBVXor(a, b Term) Term  { return tm.MkTerm(KindBVXor, nil, a, b) }
func (tm *TermManager) MkBVNand(a, b Term) Term { return tm.MkTerm(KindBVNand, nil, a, b) }
func (tm *TermManager) MkBVNor(a, b Term) Term  { return tm.MkTerm(KindBVNor, nil, a, b) }
func (tm *TermManager) MkBVXnor(a, b Term) Term { return tm.MkTerm(KindBVXnor, nil, a, b) }

func (tm *TermManager) MkBVRedand(a Term) Term { return tm.MkTerm(KindBVRedand, nil, a) }
func (tm *TermManager) MkBVRedor(a Term) Term  { return tm.MkTerm(KindBVRedor, nil, a) }
func (tm *TermManager) MkBVRedxor(a Term) Term { return tm.MkTerm(KindBVRedxor, nil, a) }

func (tm *TermManager) MkBVShl(a, b Term) Term  { return tm.MkTerm(KindBVShl, nil, a, b) }
func (tm *TermManager) MkBVShr(a, b Term) Term  { return tm.MkTerm(KindBVShr, nil, a, b) }
func (tm *TermManager) MkBVAshr(a, b Term) Term { return tm.MkTerm(KindBVAshr, nil, a, b) }
func (tm *TermManager) MkBVRol(a, b Term) Term  { return tm.MkTerm(KindBVRol, nil, a, b) }
func (tm *TermManager) MkBVRor(a, b Term) Term  { return tm.MkTerm(KindBVRor, nil, a, b) }

func (tm *TermManager) MkBVUlt(a, b Term) Term { return tm.MkTerm(KindBVUlt, nil, a, b) }
func (tm *TermManager) MkBVUle(a, b Term) Term { return tm.MkTerm(KindBVUle, nil, a, b) }
func (tm *TermManager) MkBVUgt(a, b Term) Term { return tm.MkTerm(KindBVUgt, nil, a, b) }
func (tm *TermManager) MkBVUge(a, b Term) Term { return tm.MkTerm(KindBVUge, nil, a, b) }
func (tm *TermManager) MkBVSlt(a, b Term) Term { return tm.MkTerm(KindBVSlt, nil, a, b) }
func (tm *TermManager) MkBVSle(a, b Term) Term { return tm.MkTerm(KindBVSle, nil, a, b) }
func (tm *TermManager) MkBVSgt(a, b Term) Term { return tm.MkTerm(KindBVSgt, nil, a, b) }
func (tm *TermManager) MkBVSge(a, b Term) Term { return tm.MkTerm(KindBVSge, nil, a, b) }

func (tm *TermManager) MkBVComp(a, b Term) Term { return tm.MkTerm(KindBVComp, nil, a, b) }
func (tm *TermManager) MkBVConcat(a, b Term) Term {
	return tm.MkTerm(KindBVConcat, nil, a, b)
}

func (tm *TermManager) MkBVUaddo(a, b Term) Term { return tm.MkTerm(KindBVUaddo, nil, a, b) }
func (tm *TermManager) MkBVUsubo(a, b Term) Term { return tm.MkTerm(KindBVUsubo, nil, a, b) }
func (tm *TermManager) MkBVUmulo(a, b Term) Term { return tm.MkTerm(KindBVUmulo, nil, a, b) }
func (tm *TermManager) MkBVSaddo(a, b Term) Term { return tm.MkTerm(KindBVSaddo, nil, a, b) }
func (tm *TermManager) MkBVSsubo(a, b Term) Term { return tm.MkTerm(KindBVSsubo, nil, a, b) }
func (tm *TermManager) MkBVSdivo(a, b Term) Term { return tm.MkTerm(KindBVSdivo, nil, a, b) }
func (tm *TermManager) MkBVSmulo(a, b Term) Term { return tm.MkTerm(KindBVSmulo, nil, a, b) }

// Indexed operators.
func (tm *TermManager) MkBVExtract(upper, lower uint32, a Term) Term {
	return tm.MkTerm(KindBVExtract, []uint32{upper, lower}, a)
}
func (tm *TermManager) MkBVRepeat(n uint32, a Term) Term {
	return tm.MkTerm(KindBVRepeat, []uint32{n}, a)
}
func (tm *TermManager) MkBVRoli(n uint32, a Term) Term {
	return tm.MkTerm(KindBVRoli, []uint32{n}, a)
}
func (tm *TermManager) MkBVRori(n uint32, a Term) Term {
	return tm.MkTerm(KindBVRori, []uint32{n}, a)
}
func (tm *TermManager) MkBVSignExtend(n uint32, a Term) Term {
	return tm.MkTerm(KindBVSignExtend, []uint32{n}, a)
}
func (tm *TermManager) MkBVZeroExtend(n uint32, a Term) Term {
	return tm.MkTerm(KindBVZeroExtend, []uint32{n}, a)
}
