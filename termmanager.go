package bitwuzla

import "sync"

// TermManager owns every hash-consed Sort and Term minted through it, and is
// the sole authority for structural interning: two structurally equal terms
// (same kind, same indices, same children by identity, same sort) are
// always the same Term value. This mirrors borzacchiello-gosmt's
// ExprBuilder, generalized from its bucket-of-two-caches (bvcache/boolcache)
// to one bucketed table shared across every sort family, since this solver's
// term set is far more heterogeneous than a pure bit-vector expression
// builder's.
type TermManager struct {
	mu sync.Mutex

	sortTable  map[uint64][]*sortData
	nextSortID uint64

	termTable  map[uint64][]*termData
	nextTermID uint64
}

// NewTermManager returns a fresh, empty term manager. Sorts and terms are
// never shared across managers.
func NewTermManager() *TermManager {
	return &TermManager{
		sortTable: make(map[uint64][]*sortData),
		termTable: make(map[uint64][]*termData),
	}
}

func termHashKey(kind Kind, sort *sortData, indices []uint32, children []*termData, symbol string, value *valuePayload) uint64 {
	h := newStructHasher()
	h.writeUint64(uint64(kind))
	if sort != nil {
		h.writeUint64(sort.id)
	}
	for _, ix := range indices {
		h.writeUint64(uint64(ix))
	}
	for _, c := range children {
		h.writeUint64(c.id)
	}
	h.writeString(symbol)
	if value != nil {
		h.writeString(value.String())
	}
	return h.sum()
}

func termStructEqual(a *termData, kind Kind, sort *sortData, indices []uint32, children []*termData, symbol string, value *valuePayload) bool {
	if a.kind != kind || a.sort != sort || a.symbol != symbol {
		return false
	}
	if len(a.indices) != len(indices) || len(a.children) != len(children) {
		return false
	}
	for i := range indices {
		if a.indices[i] != indices[i] {
			return false
		}
	}
	for i := range children {
		if a.children[i] != children[i] {
			return false
		}
	}
	if (a.value == nil) != (value == nil) {
		return false
	}
	if a.value != nil && a.value.String() != value.String() {
		return false
	}
	return true
}

// intern hash-conses a fully-built termData and returns the canonical Term
// handle for it, minting a fresh id only on a genuine cache miss.
func (tm *TermManager) intern(kind Kind, sort Sort, indices []uint32, children []*termData, symbol string, value *valuePayload) Term {
	h := termHashKey(kind, sort.data, indices, children, symbol, value)
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for _, cand := range tm.termTable[h] {
		if termStructEqual(cand, kind, sort.data, indices, children, symbol, value) {
			return Term{tm, cand}
		}
	}
	tm.nextTermID++
	d := &termData{
		id: tm.nextTermID, kind: kind, sort: sort.data,
		children: children, indices: indices, symbol: symbol, value: value,
	}
	tm.termTable[h] = append(tm.termTable[h], d)
	return Term{tm, d}
}

// MkConst returns a fresh free constant of the given sort. Passing a name
// already used for another constant of the same sort yields distinct
// constants (constants are never deduplicated by name, only by identity).
func (tm *TermManager) MkConst(sort Sort, symbol string) Term {
	tm.mu.Lock()
	tm.nextTermID++
	d := &termData{id: tm.nextTermID, kind: KindConstant, sort: sort.data, symbol: symbol}
	tm.mu.Unlock()
	return Term{tm, d}
}

// MkVar returns a fresh bound variable of the given sort, for use under a
// FORALL/EXISTS/LAMBDA binder.
func (tm *TermManager) MkVar(sort Sort, symbol string) Term {
	tm.mu.Lock()
	tm.nextTermID++
	d := &termData{id: tm.nextTermID, kind: KindVariable, sort: sort.data, symbol: symbol}
	tm.mu.Unlock()
	return Term{tm, d}
}

func (tm *TermManager) mkValue(sort Sort, v *valuePayload) Term {
	v.kind = sort.Kind()
	return tm.intern(KindValue, sort, nil, nil, "", v)
}

// MkBoolValue, MkBVValue, MkFPValue, MkRMValue wrap concrete payloads as
// VALUE terms.
func (tm *TermManager) MkBoolValue(b bool) Term {
	return tm.mkValue(tm.MkBoolSort(), &valuePayload{b: b})
}

func (tm *TermManager) MkBVValue(bv *BitVector) Term {
	return tm.mkValue(tm.MkBVSort(bv.Width), &valuePayload{bv: bv})
}

func (tm *TermManager) MkFPValue(fp *FloatingPoint) Term {
	return tm.mkValue(tm.MkFPSort(fp.ExpBits, fp.SigBits), &valuePayload{fp: fp})
}

func (tm *TermManager) MkRMValue(rm RoundingMode) Term {
	return tm.mkValue(tm.MkRMSort(), &valuePayload{rm: rm})
}

// inferSort implements the total type-inference function over Kind: given an
// operator, its index vector, and its already-typed operand terms, it either
// returns the operator's result sort or panics with a TypeError. Every
// MkTerm call routes through here, so this is the single place operator
// typing rules live, per spec.md §4.1.
func (tm *TermManager) inferSort(kind Kind, indices []uint32, children []Term) Sort {
	arg := func(i int) Sort { return children[i].Sort() }
	checkArity := func(n int) {
		if len(children) != n {
			typeErrorf("%s: expected %d operand(s), got %d", kind, n, len(children))
		}
	}
	checkBool := func(s Sort) {
		if !s.IsBool() {
			typeErrorf("%s: expected Bool operand, got %s", kind, s)
		}
	}
	checkBV := func(s Sort) {
		if !s.IsBV() {
			typeErrorf("%s: expected BitVec operand, got %s", kind, s)
		}
	}
	checkFP := func(s Sort) {
		if !s.IsFP() {
			typeErrorf("%s: expected FloatingPoint operand, got %s", kind, s)
		}
	}
	checkSameSort := func(a, b Sort) {
		if !a.Equal(b) {
			typeErrorf("%s: operand sort mismatch %s vs %s", kind, a, b)
		}
	}
	checkSameWidthSort := func(a, b Sort) {
		checkBV(a)
		checkBV(b)
		if a.BVWidth() != b.BVWidth() {
			typeErrorf("%s: width mismatch %d vs %d", kind, a.BVWidth(), b.BVWidth())
		}
	}

	switch kind {
	case KindAnd, KindOr, KindXor, KindIff, KindImplies:
		if len(children) < 2 {
			typeErrorf("%s: expected at least 2 operands, got %d", kind, len(children))
		}
		for _, c := range children {
			checkBool(c.Sort())
		}
		return tm.MkBoolSort()
	case KindNot:
		checkArity(1)
		checkBool(arg(0))
		return tm.MkBoolSort()
	case KindEqual, KindDistinct:
		if len(children) < 2 {
			typeErrorf("%s: expected at least 2 operands, got %d", kind, len(children))
		}
		for i := 1; i < len(children); i++ {
			checkSameSort(arg(0), arg(i))
		}
		return tm.MkBoolSort()
	case KindIte:
		checkArity(3)
		checkBool(arg(0))
		checkSameSort(arg(1), arg(2))
		return arg(1)

	case KindForall, KindExists:
		checkArity(2)
		if !children[0].IsVariable() {
			typeErrorf("%s: first operand must be a bound variable", kind)
		}
		checkBool(arg(1))
		return tm.MkBoolSort()
	case KindLambda:
		checkArity(2)
		if !children[0].IsVariable() {
			typeErrorf("LAMBDA: first operand must be a bound variable")
		}
		return tm.MkFunSort([]Sort{arg(0)}, arg(1))
	case KindApply:
		if len(children) < 2 {
			typeErrorf("APPLY: expected a function and at least one argument")
		}
		fn := arg(0)
		if !fn.IsFun() {
			typeErrorf("APPLY: first operand must have function sort, got %s", fn)
		}
		dom := fn.FunDomain()
		if len(dom) != len(children)-1 {
			typeErrorf("APPLY: expected %d argument(s), got %d", len(dom), len(children)-1)
		}
		for i, d := range dom {
			checkSameSort(d, arg(i+1))
		}
		return fn.FunCodomain()

	case KindSelect:
		checkArity(2)
		if !arg(0).IsArray() {
			typeErrorf("SELECT: first operand must have array sort, got %s", arg(0))
		}
		checkSameSort(arg(0).ArrayIndex(), arg(1))
		return arg(0).ArrayElement()
	case KindStore:
		checkArity(3)
		if !arg(0).IsArray() {
			typeErrorf("STORE: first operand must have array sort, got %s", arg(0))
		}
		checkSameSort(arg(0).ArrayIndex(), arg(1))
		checkSameSort(arg(0).ArrayElement(), arg(2))
		return arg(0)
	case KindConstArray:
		internalErrorf("CONST_ARRAY must be built via MkConstArray, not MkTerm")
		return Sort{}

	case KindBVNot, KindBVNeg, KindBVRedand, KindBVRedor, KindBVRedxor, KindBVInc, KindBVDec:
		checkArity(1)
		checkBV(arg(0))
		if kind == KindBVRedand || kind == KindBVRedor || kind == KindBVRedxor {
			return tm.MkBVSort(1)
		}
		return arg(0)
	case KindBVAdd, KindBVSub, KindBVMul, KindBVUdiv, KindBVSdiv, KindBVUrem, KindBVSrem, KindBVSmod,
		KindBVAnd, KindBVOr, KindBVXor, KindBVNand, KindBVNor, KindBVXnor,
		KindBVShl, KindBVShr, KindBVAshr, KindBVRol, KindBVRor:
		checkArity(2)
		checkSameWidthSort(arg(0), arg(1))
		return arg(0)
	case KindBVUlt, KindBVUle, KindBVUgt, KindBVUge, KindBVSlt, KindBVSle, KindBVSgt, KindBVSge,
		KindBVUaddo, KindBVUsubo, KindBVUmulo, KindBVSaddo, KindBVSsubo, KindBVSdivo, KindBVSmulo:
		checkArity(2)
		checkSameWidthSort(arg(0), arg(1))
		return tm.MkBoolSort()
	case KindBVComp:
		checkArity(2)
		checkSameWidthSort(arg(0), arg(1))
		return tm.MkBVSort(1)
	case KindBVConcat:
		checkArity(2)
		checkBV(arg(0))
		checkBV(arg(1))
		return tm.MkBVSort(arg(0).BVWidth() + arg(1).BVWidth())

	case KindBVExtract:
		checkArity(1)
		checkBV(arg(0))
		if len(indices) != 2 {
			typeErrorf("BV_EXTRACT: expected indices [upper, lower]")
		}
		upper, lower := indices[0], indices[1]
		if lower > upper || upper >= arg(0).BVWidth() {
			typeErrorf("BV_EXTRACT: invalid bounds [%d:%d] for width %d", upper, lower, arg(0).BVWidth())
		}
		return tm.MkBVSort(upper - lower + 1)
	case KindBVRepeat:
		checkArity(1)
		checkBV(arg(0))
		if len(indices) != 1 || indices[0] < 1 {
			typeErrorf("BV_REPEAT: expected indices [n>=1]")
		}
		return tm.MkBVSort(arg(0).BVWidth() * indices[0])
	case KindBVRoli, KindBVRori:
		checkArity(1)
		checkBV(arg(0))
		if len(indices) != 1 {
			typeErrorf("%s: expected indices [n]", kind)
		}
		return arg(0)
	case KindBVSignExtend, KindBVZeroExtend:
		checkArity(1)
		checkBV(arg(0))
		if len(indices) != 1 {
			typeErrorf("%s: expected indices [n]", kind)
		}
		return tm.MkBVSort(arg(0).BVWidth() + indices[0])

	case KindFPNeg, KindFPAbs, KindFPIsNan, KindFPIsInf, KindFPIsZero, KindFPIsNormal,
		KindFPIsSubnormal, KindFPIsNeg, KindFPIsPos:
		checkArity(1)
		if !arg(0).IsFP() {
			typeErrorf("%s: expected FloatingPoint operand, got %s", kind, arg(0))
		}
		switch kind {
		case KindFPNeg, KindFPAbs:
			return arg(0)
		default:
			return tm.MkBoolSort()
		}
	case KindFPFp:
		checkArity(3)
		checkBV(arg(0))
		checkBV(arg(1))
		checkBV(arg(2))
		if arg(0).BVWidth() != 1 {
			typeErrorf("FP_FP: sign operand must be 1 bit")
		}
		return tm.MkFPSort(arg(1).BVWidth(), arg(2).BVWidth()+1)
	case KindFPAdd, KindFPSub, KindFPMul, KindFPDiv:
		checkArity(3)
		if !arg(0).IsRM() {
			typeErrorf("%s: first operand must be RoundingMode, got %s", kind, arg(0))
		}
		checkFP(arg(1))
		checkSameSort(arg(1), arg(2))
		return arg(1)
	case KindFPSqrt, KindFPRti:
		checkArity(2)
		if !arg(0).IsRM() {
			typeErrorf("%s: first operand must be RoundingMode, got %s", kind, arg(0))
		}
		checkFP(arg(1))
		return arg(1)
	case KindFPRem:
		checkArity(2)
		checkFP(arg(0))
		checkSameSort(arg(0), arg(1))
		return arg(0)
	case KindFPFma:
		checkArity(4)
		if !arg(0).IsRM() {
			typeErrorf("FP_FMA: first operand must be RoundingMode")
		}
		checkFP(arg(1))
		checkSameSort(arg(1), arg(2))
		checkSameSort(arg(1), arg(3))
		return arg(1)
	case KindFPMin, KindFPMax:
		checkArity(2)
		checkFP(arg(0))
		checkSameSort(arg(0), arg(1))
		return arg(0)
	case KindFPEqual, KindFPLt, KindFPLeq, KindFPGt, KindFPGeq:
		checkArity(2)
		checkFP(arg(0))
		checkSameSort(arg(0), arg(1))
		return tm.MkBoolSort()
	case KindFPToFPFromFP:
		checkArity(2)
		if !arg(0).IsRM() {
			typeErrorf("FP_TO_FP_FROM_FP: first operand must be RoundingMode")
		}
		checkFP(arg(1))
		if len(indices) != 2 {
			typeErrorf("FP_TO_FP_FROM_FP: expected indices [exp, sig]")
		}
		return tm.MkFPSort(indices[0], indices[1])
	case KindFPToFPFromBV:
		checkArity(1)
		checkBV(arg(0))
		if len(indices) != 2 {
			typeErrorf("FP_TO_FP_FROM_BV: expected indices [exp, sig]")
		}
		if arg(0).BVWidth() != fpPackedWidth(indices[0], indices[1]) {
			typeErrorf("FP_TO_FP_FROM_BV: width mismatch")
		}
		return tm.MkFPSort(indices[0], indices[1])
	case KindFPToFPFromSBV, KindFPToFPFromUBV:
		checkArity(2)
		if !arg(0).IsRM() {
			typeErrorf("%s: first operand must be RoundingMode", kind)
		}
		checkBV(arg(1))
		if len(indices) != 2 {
			typeErrorf("%s: expected indices [exp, sig]", kind)
		}
		return tm.MkFPSort(indices[0], indices[1])
	case KindFPToSBV, KindFPToUBV:
		checkArity(2)
		if !arg(0).IsRM() {
			typeErrorf("%s: first operand must be RoundingMode", kind)
		}
		if !arg(1).IsFP() {
			typeErrorf("%s: second operand must be FloatingPoint", kind)
		}
		if len(indices) != 1 {
			typeErrorf("%s: expected indices [width]", kind)
		}
		return tm.MkBVSort(indices[0])

	default:
		internalErrorf("inferSort: unhandled kind %s", kind)
		return Sort{}
	}
}

// MkTerm is the single generic term constructor: it type-checks (kind,
// indices, children) via inferSort and returns the hash-consed Term. Named
// convenience wrappers (MkAnd, MkBVAdd, MkSelect, ...) just call this.
func (tm *TermManager) MkTerm(kind Kind, indices []uint32, children ...Term) Term {
	sort := tm.inferSort(kind, indices, children)
	cd := make([]*termData, len(children))
	for i, c := range children {
		cd[i] = c.data
	}
	return tm.intern(kind, sort, indices, cd, "", nil)
}

// MkConstArray returns the constant array of the given sort whose every
// cell holds defaultValue.
func (tm *TermManager) MkConstArray(sort Sort, defaultValue Term) Term {
	if !sort.IsArray() {
		typeErrorf("MkConstArray: expected array sort, got %s", sort)
	}
	if !sort.ArrayElement().Equal(defaultValue.Sort()) {
		typeErrorf("MkConstArray: default value sort %s does not match element sort %s", defaultValue.Sort(), sort.ArrayElement())
	}
	return tm.intern(KindConstArray, sort, nil, []*termData{defaultValue.data}, "", nil)
}
