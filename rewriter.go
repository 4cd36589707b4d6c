package bitwuzla

import "sort"

// Rewriter normalizes terms under the SMT-LIB theory semantics. Dispatch is
// one switch over Kind per node, cached per input term, so rewriting a DAG
// is linear in its distinct nodes. Level selects intensity: 0 is the
// identity, 1 adds constant folding, operator desugaring and local
// simplification, 2 adds inverse cancellation and commutative operand
// ordering. Identical inputs always produce identical outputs.
type Rewriter struct {
	tm    *TermManager
	level uint64
	cache map[*termData]*termData
}

func NewRewriter(tm *TermManager, level uint64) *Rewriter {
	return &Rewriter{tm: tm, level: level, cache: make(map[*termData]*termData)}
}

func (rw *Rewriter) Level() uint64 { return rw.level }

// Rewrite returns a term of equal sort and equivalent meaning.
func (rw *Rewriter) Rewrite(t Term) Term {
	if rw.level == 0 {
		return t
	}
	if d, ok := rw.cache[t.data]; ok {
		return Term{rw.tm, d}
	}
	children := make([]Term, t.NumChildren())
	changed := false
	for i := 0; i < t.NumChildren(); i++ {
		// Binder bodies are rewritten too; bound variables rewrite to
		// themselves so this is capture-free.
		children[i] = rw.Rewrite(t.Child(i))
		if !children[i].Equal(t.Child(i)) {
			changed = true
		}
	}
	u := t
	if changed {
		u = rw.tm.rebuild(t, children)
	}
	v := rw.step(u)
	if !v.Equal(u) {
		v = rw.Rewrite(v)
	}
	rw.cache[t.data] = v.data
	rw.cache[u.data] = v.data
	rw.cache[v.data] = v.data
	return v
}

func isTrue(t Term) bool  { return t.IsValue() && t.Sort().IsBool() && t.Value().Bool() }
func isFalse(t Term) bool { return t.IsValue() && t.Sort().IsBool() && !t.Value().Bool() }

func bvVal(t Term) (*BitVector, bool) {
	if t.IsValue() && t.Sort().IsBV() {
		return t.Value().BV(), true
	}
	return nil, false
}

func fpVal(t Term) (*FloatingPoint, bool) {
	if t.IsValue() && t.Sort().IsFP() {
		return t.Value().FP(), true
	}
	return nil, false
}

// step applies one round of rules at the root of t; children are already in
// normal form.
func (rw *Rewriter) step(t Term) Term {
	tm := rw.tm
	switch t.Kind() {
	case KindNot:
		a := t.Child(0)
		if isTrue(a) {
			return tm.MkFalse()
		}
		if isFalse(a) {
			return tm.MkTrue()
		}
		if a.Kind() == KindNot {
			return a.Child(0)
		}
		return t

	case KindAnd:
		return rw.rewriteAndOr(t, true)
	case KindOr:
		return rw.rewriteAndOr(t, false)

	case KindImplies:
		// a => b => ... => z folds right-associatively.
		args := t.Children()
		r := args[len(args)-1]
		for i := len(args) - 2; i >= 0; i-- {
			r = tm.MkOr(tm.MkNot(args[i]), r)
		}
		return r

	case KindIff:
		args := t.Children()
		r := tm.MkEqual(args[0], args[1])
		for _, a := range args[2:] {
			r = tm.MkEqual(r, a)
		}
		return r

	case KindXor:
		args := t.Children()
		r := tm.MkNot(tm.MkEqual(args[0], args[1]))
		for _, a := range args[2:] {
			r = tm.MkNot(tm.MkEqual(r, a))
		}
		return r

	case KindEqual:
		return rw.rewriteEqual(t)

	case KindDistinct:
		args := t.Children()
		var pairs []Term
		for i := 0; i < len(args); i++ {
			for j := i + 1; j < len(args); j++ {
				pairs = append(pairs, tm.MkNot(tm.MkEqual(args[i], args[j])))
			}
		}
		if len(pairs) == 1 {
			return pairs[0]
		}
		return tm.MkAnd(pairs...)

	case KindIte:
		c, a, b := t.Child(0), t.Child(1), t.Child(2)
		if isTrue(c) {
			return a
		}
		if isFalse(c) {
			return b
		}
		if a.Equal(b) {
			return a
		}
		if a.Sort().IsBool() {
			if isTrue(a) && isFalse(b) {
				return c
			}
			if isFalse(a) && isTrue(b) {
				return tm.MkNot(c)
			}
		}
		return t

	case KindApply:
		fn := t.Child(0)
		if fn.Kind() == KindLambda {
			return tm.Substitute(fn.Child(1), map[Term]Term{fn.Child(0): t.Child(1)})
		}
		return t

	case KindSelect:
		return rw.rewriteSelect(t)

	case KindStore:
		a, i, v := t.Child(0), t.Child(1), t.Child(2)
		if rw.level >= 2 && v.Kind() == KindSelect && v.Child(0).Equal(a) && v.Child(1).Equal(i) {
			return a
		}
		return t

	default:
		if t.Kind() >= KindBVAdd && t.Kind() <= KindBVZeroExtend {
			return rw.stepBV(t)
		}
		if t.Kind() >= KindFPAbs && t.Kind() <= KindFPToUBV {
			return rw.stepFP(t)
		}
		return t
	}
}

func (rw *Rewriter) rewriteAndOr(t Term, isAnd bool) Term {
	tm := rw.tm
	// Flatten nested same-kind operands, drop neutral elements, detect the
	// absorbing element and complementary pairs.
	var flat []Term
	var gather func(x Term)
	gather = func(x Term) {
		if x.Kind() == t.Kind() {
			for _, c := range x.Children() {
				gather(c)
			}
			return
		}
		flat = append(flat, x)
	}
	gather(t)

	seen := make(map[*termData]bool)
	var kept []Term
	for _, a := range flat {
		if isAnd && isTrue(a) || !isAnd && isFalse(a) {
			continue
		}
		if isAnd && isFalse(a) {
			return tm.MkFalse()
		}
		if !isAnd && isTrue(a) {
			return tm.MkTrue()
		}
		if seen[a.data] {
			continue
		}
		seen[a.data] = true
		kept = append(kept, a)
	}
	for _, a := range kept {
		if a.Kind() == KindNot && seen[a.Child(0).data] {
			if isAnd {
				return tm.MkFalse()
			}
			return tm.MkTrue()
		}
	}
	switch len(kept) {
	case 0:
		if isAnd {
			return tm.MkTrue()
		}
		return tm.MkFalse()
	case 1:
		return kept[0]
	}
	if rw.level >= 2 {
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].id() < kept[j].id() })
	}
	if len(kept) == t.NumChildren() {
		same := true
		for i, a := range kept {
			if !a.Equal(t.Child(i)) {
				same = false
				break
			}
		}
		if same {
			return t
		}
	}
	if isAnd {
		return tm.MkAnd(kept...)
	}
	return tm.MkOr(kept...)
}

func (rw *Rewriter) rewriteEqual(t Term) Term {
	tm := rw.tm
	args := t.Children()
	if len(args) > 2 {
		var chain []Term
		for i := 1; i < len(args); i++ {
			chain = append(chain, tm.MkEqual(args[0], args[i]))
		}
		return tm.MkAnd(chain...)
	}
	a, b := args[0], args[1]
	if a.Equal(b) {
		return tm.MkTrue()
	}
	if a.IsValue() && b.IsValue() {
		// Distinct hash-consed values of the same sort denote distinct
		// elements for Bool/BV/RM. FP needs care: every NaN payload denotes
		// the single NaN datum, so `=` holds for any two NaNs.
		if a.Sort().IsFP() {
			fa, fb := a.Value().FP(), b.Value().FP()
			return tm.MkBoolValue(fa.Equal(fb) || (fa.IsNaN() && fb.IsNaN()))
		}
		return tm.MkFalse()
	}
	if a.Sort().IsBool() {
		if isTrue(a) {
			return b
		}
		if isTrue(b) {
			return a
		}
		if isFalse(a) {
			return tm.MkNot(b)
		}
		if isFalse(b) {
			return tm.MkNot(a)
		}
	}
	if rw.level >= 2 && a.id() > b.id() {
		return tm.MkEqual(b, a)
	}
	return t
}

func (rw *Rewriter) rewriteSelect(t Term) Term {
	tm := rw.tm
	arr, idx := t.Child(0), t.Child(1)
	switch arr.Kind() {
	case KindStore:
		base, si, sv := arr.Child(0), arr.Child(1), arr.Child(2)
		if si.Equal(idx) {
			return sv
		}
		if si.IsValue() && idx.IsValue() {
			return tm.MkSelect(base, idx)
		}
		// Write-over-read, encoded eagerly.
		return tm.MkIte(tm.MkEqual(si, idx), sv, tm.MkSelect(base, idx))
	case KindConstArray:
		return arr.Child(0)
	case KindIte:
		return tm.MkIte(arr.Child(0), tm.MkSelect(arr.Child(1), idx), tm.MkSelect(arr.Child(2), idx))
	}
	return t
}

func (rw *Rewriter) stepBV(t Term) Term {
	if v, ok := rw.foldBV(t); ok {
		return v
	}
	if v, ok := rw.desugarBV(t); ok {
		return v
	}
	return rw.simplifyBV(t)
}

// foldBV constant-folds any BV-kinded term whose operands are all values.
func (rw *Rewriter) foldBV(t Term) (Term, bool) {
	tm := rw.tm
	n := t.NumChildren()
	vals := make([]*BitVector, n)
	for i := 0; i < n; i++ {
		v, ok := bvVal(t.Child(i))
		if !ok {
			return Term{}, false
		}
		vals[i] = v
	}
	bvr := func(v *BitVector) (Term, bool) { return tm.MkBVValue(v), true }
	br := func(v bool) (Term, bool) { return tm.MkBoolValue(v), true }
	bit := func(v bool) (Term, bool) {
		if v {
			return tm.MkBVValue(NewBitVectorOne(1)), true
		}
		return tm.MkBVValue(NewBitVectorZero(1)), true
	}
	switch t.Kind() {
	case KindBVAdd:
		return bvr(vals[0].Add(vals[1]))
	case KindBVSub:
		return bvr(vals[0].Sub(vals[1]))
	case KindBVMul:
		return bvr(vals[0].Mul(vals[1]))
	case KindBVUdiv:
		return bvr(vals[0].UDiv(vals[1]))
	case KindBVSdiv:
		return bvr(vals[0].SDiv(vals[1]))
	case KindBVUrem:
		return bvr(vals[0].URem(vals[1]))
	case KindBVSrem:
		return bvr(vals[0].SRem(vals[1]))
	case KindBVSmod:
		return bvr(vals[0].SMod(vals[1]))
	case KindBVNeg:
		return bvr(vals[0].Neg())
	case KindBVInc:
		return bvr(vals[0].Add(NewBitVectorOne(vals[0].Width)))
	case KindBVDec:
		return bvr(vals[0].Sub(NewBitVectorOne(vals[0].Width)))
	case KindBVNot:
		return bvr(vals[0].Not())
	case KindBVAnd:
		return bvr(vals[0].And(vals[1]))
	case KindBVOr:
		return bvr(vals[0].Or(vals[1]))
	case KindBVXor:
		return bvr(vals[0].Xor(vals[1]))
	case KindBVNand:
		return bvr(vals[0].Nand(vals[1]))
	case KindBVNor:
		return bvr(vals[0].Nor(vals[1]))
	case KindBVXnor:
		return bvr(vals[0].Xnor(vals[1]))
	case KindBVShl:
		return bvr(vals[0].Shl(vals[1]))
	case KindBVShr:
		return bvr(vals[0].Shr(vals[1]))
	case KindBVAshr:
		return bvr(vals[0].Ashr(vals[1]))
	case KindBVRol:
		return bvr(vals[0].Rol(vals[1]))
	case KindBVRor:
		return bvr(vals[0].Ror(vals[1]))
	case KindBVConcat:
		return bvr(vals[0].Concat(vals[1]))
	case KindBVExtract:
		return bvr(vals[0].Extract(t.Indices()[0], t.Indices()[1]))
	case KindBVRepeat:
		return bvr(vals[0].Repeat(t.Indices()[0]))
	case KindBVRoli:
		return bvr(vals[0].Roli(t.Indices()[0]))
	case KindBVRori:
		return bvr(vals[0].Rori(t.Indices()[0]))
	case KindBVSignExtend:
		return bvr(vals[0].SignExtend(t.Indices()[0]))
	case KindBVZeroExtend:
		return bvr(vals[0].ZeroExtend(t.Indices()[0]))
	case KindBVComp:
		return bvr(vals[0].Comp(vals[1]))
	case KindBVRedand:
		return bit(vals[0].Redand())
	case KindBVRedor:
		return bit(vals[0].Redor())
	case KindBVRedxor:
		return bit(vals[0].Redxor())
	case KindBVUlt:
		return br(vals[0].Ult(vals[1]))
	case KindBVUle:
		return br(vals[0].Ule(vals[1]))
	case KindBVUgt:
		return br(vals[0].Ugt(vals[1]))
	case KindBVUge:
		return br(vals[0].Uge(vals[1]))
	case KindBVSlt:
		return br(vals[0].Slt(vals[1]))
	case KindBVSle:
		return br(vals[0].Sle(vals[1]))
	case KindBVSgt:
		return br(vals[0].Sgt(vals[1]))
	case KindBVSge:
		return br(vals[0].Sge(vals[1]))
	case KindBVUaddo:
		return br(vals[0].Uaddo(vals[1]))
	case KindBVUsubo:
		return br(vals[0].Usubo(vals[1]))
	case KindBVUmulo:
		return br(vals[0].Umulo(vals[1]))
	case KindBVSaddo:
		return br(vals[0].Saddo(vals[1]))
	case KindBVSsubo:
		return br(vals[0].Ssubo(vals[1]))
	case KindBVSdivo:
		return br(vals[0].Sdivo(vals[1]))
	case KindBVSmulo:
		return br(vals[0].Smulo(vals[1]))
	}
	return Term{}, false
}

// desugarBV lowers derived BV operators onto the small core the bit-blaster
// implements natively (add, neg, mul, udiv, urem, bitwise, shifts, concat,
// extract, unsigned/signed comparison).
func (rw *Rewriter) desugarBV(t Term) (Term, bool) {
	tm := rw.tm
	arg := func(i int) Term { return t.Child(i) }
	width := func(x Term) uint32 { return x.Sort().BVWidth() }
	cval := func(w uint32, v uint64) Term { return tm.MkBVValue(NewBitVectorFromUint64(w, v)) }
	msb := func(x Term) Term { return tm.MkBVExtract(width(x)-1, width(x)-1, x) }
	switch t.Kind() {
	case KindBVNand:
		return tm.MkBVNot(tm.MkBVAnd(arg(0), arg(1))), true
	case KindBVNor:
		return tm.MkBVNot(tm.MkBVOr(arg(0), arg(1))), true
	case KindBVXnor:
		return tm.MkBVNot(tm.MkBVXor(arg(0), arg(1))), true
	case KindBVInc:
		return tm.MkBVAdd(arg(0), cval(width(arg(0)), 1)), true
	case KindBVDec:
		return tm.MkBVSub(arg(0), cval(width(arg(0)), 1)), true
	case KindBVSub:
		return tm.MkBVAdd(arg(0), tm.MkBVNeg(arg(1))), true
	case KindBVComp:
		return tm.MkIte(tm.MkEqual(arg(0), arg(1)), cval(1, 1), cval(1, 0)), true
	case KindBVRedand:
		w := width(arg(0))
		return tm.MkIte(tm.MkEqual(arg(0), tm.MkBVValue(NewBitVectorOnes(w))), cval(1, 1), cval(1, 0)), true
	case KindBVRedor:
		w := width(arg(0))
		return tm.MkIte(tm.MkEqual(arg(0), cval(w, 0)), cval(1, 0), cval(1, 1)), true
	case KindBVRedxor:
		w := width(arg(0))
		r := tm.MkBVExtract(0, 0, arg(0))
		for i := uint32(1); i < w; i++ {
			r = tm.MkBVXor(r, tm.MkBVExtract(i, i, arg(0)))
		}
		return r, true
	case KindBVUgt:
		return tm.MkBVUlt(arg(1), arg(0)), true
	case KindBVUge:
		return tm.MkBVUle(arg(1), arg(0)), true
	case KindBVSgt:
		return tm.MkBVSlt(arg(1), arg(0)), true
	case KindBVSge:
		return tm.MkBVSle(arg(1), arg(0)), true
	case KindBVRol, KindBVRor:
		a, b := arg(0), arg(1)
		w := width(a)
		if w == 1 {
			return a, true
		}
		m := tm.MkBVURem(b, cval(w, uint64(w)))
		inv := tm.MkBVSub(cval(w, uint64(w)), m)
		if t.Kind() == KindBVRol {
			return tm.MkBVOr(tm.MkBVShl(a, m), tm.MkBVShr(a, inv)), true
		}
		return tm.MkBVOr(tm.MkBVShr(a, m), tm.MkBVShl(a, inv)), true
	case KindBVRoli, KindBVRori:
		a := arg(0)
		w := width(a)
		n := t.Indices()[0] % w
		if t.Kind() == KindBVRori {
			n = (w - n) % w
		}
		if n == 0 {
			return a, true
		}
		return tm.MkBVConcat(tm.MkBVExtract(w-1-n, 0, a), tm.MkBVExtract(w-1, w-n, a)), true
	case KindBVRepeat:
		a := arg(0)
		n := t.Indices()[0]
		if n == 1 {
			return a, true
		}
		r := a
		for i := uint32(1); i < n; i++ {
			r = tm.MkBVConcat(r, a)
		}
		return r, true
	case KindBVZeroExtend:
		n := t.Indices()[0]
		if n == 0 {
			return arg(0), true
		}
		return tm.MkBVConcat(cval(n, 0), arg(0)), true
	case KindBVSignExtend:
		n := t.Indices()[0]
		if n == 0 {
			return arg(0), true
		}
		return tm.MkBVConcat(tm.MkBVRepeat(n, msb(arg(0))), arg(0)), true
	case KindBVUaddo:
		a, b := arg(0), arg(1)
		w := width(a)
		sum := tm.MkBVAdd(tm.MkBVZeroExtend(1, a), tm.MkBVZeroExtend(1, b))
		return tm.MkEqual(tm.MkBVExtract(w, w, sum), cval(1, 1)), true
	case KindBVUsubo:
		return tm.MkBVUlt(arg(0), arg(1)), true
	case KindBVUmulo:
		a, b := arg(0), arg(1)
		w := width(a)
		if w == 1 {
			return tm.MkFalse(), true
		}
		prod := tm.MkBVMul(tm.MkBVZeroExtend(w, a), tm.MkBVZeroExtend(w, b))
		return tm.MkNot(tm.MkEqual(tm.MkBVExtract(2*w-1, w, prod), cval(w, 0))), true
	case KindBVSaddo:
		a, b := arg(0), arg(1)
		s := tm.MkBVAdd(a, b)
		return tm.MkAnd(
			tm.MkEqual(msb(a), msb(b)),
			tm.MkNot(tm.MkEqual(msb(s), msb(a))),
		), true
	case KindBVSsubo:
		a, b := arg(0), arg(1)
		d := tm.MkBVSub(a, b)
		return tm.MkAnd(
			tm.MkNot(tm.MkEqual(msb(a), msb(b))),
			tm.MkNot(tm.MkEqual(msb(d), msb(a))),
		), true
	case KindBVSdivo:
		a, b := arg(0), arg(1)
		w := width(a)
		return tm.MkAnd(
			tm.MkEqual(a, tm.MkBVValue(NewBitVectorMinSigned(w))),
			tm.MkEqual(b, tm.MkBVValue(NewBitVectorOnes(w))),
		), true
	case KindBVSmulo:
		a, b := arg(0), arg(1)
		w := width(a)
		if w == 1 {
			// The only signed 1-bit overflow is -1 * -1 = 1.
			return tm.MkAnd(tm.MkEqual(a, cval(1, 1)), tm.MkEqual(b, cval(1, 1))), true
		}
		prod := tm.MkBVMul(tm.MkBVSignExtend(w, a), tm.MkBVSignExtend(w, b))
		top := tm.MkBVExtract(2*w-1, w-1, prod)
		return tm.MkNot(tm.MkOr(
			tm.MkEqual(top, cval(w+1, 0)),
			tm.MkEqual(top, tm.MkBVValue(NewBitVectorOnes(w+1))),
		)), true
	case KindBVSdiv:
		a, b := arg(0), arg(1)
		negA := tm.MkEqual(msb(a), cval(1, 1))
		negB := tm.MkEqual(msb(b), cval(1, 1))
		absA := tm.MkIte(negA, tm.MkBVNeg(a), a)
		absB := tm.MkIte(negB, tm.MkBVNeg(b), b)
		q := tm.MkBVUDiv(absA, absB)
		return tm.MkIte(tm.MkEqual(negA, negB), q, tm.MkBVNeg(q)), true
	case KindBVSrem:
		a, b := arg(0), arg(1)
		negA := tm.MkEqual(msb(a), cval(1, 1))
		negB := tm.MkEqual(msb(b), cval(1, 1))
		absA := tm.MkIte(negA, tm.MkBVNeg(a), a)
		absB := tm.MkIte(negB, tm.MkBVNeg(b), b)
		r := tm.MkBVURem(absA, absB)
		return tm.MkIte(negA, tm.MkBVNeg(r), r), true
	case KindBVSmod:
		a, b := arg(0), arg(1)
		w := width(a)
		negA := tm.MkEqual(msb(a), cval(1, 1))
		negB := tm.MkEqual(msb(b), cval(1, 1))
		absA := tm.MkIte(negA, tm.MkBVNeg(a), a)
		absB := tm.MkIte(negB, tm.MkBVNeg(b), b)
		u := tm.MkBVURem(absA, absB)
		zero := cval(w, 0)
		return tm.MkIte(tm.MkEqual(u, zero), u,
			tm.MkIte(tm.MkAnd(tm.MkNot(negA), tm.MkNot(negB)), u,
				tm.MkIte(tm.MkAnd(negA, tm.MkNot(negB)), tm.MkBVAdd(tm.MkBVNeg(u), b),
					tm.MkIte(tm.MkAnd(tm.MkNot(negA), negB), tm.MkBVAdd(u, b),
						tm.MkBVNeg(u))))), true
	}
	return Term{}, false
}

// simplifyBV applies local algebraic rules to the core BV operators.
func (rw *Rewriter) simplifyBV(t Term) Term {
	tm := rw.tm
	arg := func(i int) Term { return t.Child(i) }
	switch t.Kind() {
	case KindBVAdd:
		a, b := arg(0), arg(1)
		if v, ok := bvVal(a); ok && v.IsZero() {
			return b
		}
		if v, ok := bvVal(b); ok && v.IsZero() {
			return a
		}
		if rw.level >= 2 {
			if a.Kind() == KindBVNeg && a.Child(0).Equal(b) || b.Kind() == KindBVNeg && b.Child(0).Equal(a) {
				return tm.MkBVZero(t.Sort())
			}
			if a.id() > b.id() {
				return tm.MkBVAdd(b, a)
			}
		}
	case KindBVMul:
		a, b := arg(0), arg(1)
		if v, ok := bvVal(a); ok {
			if v.IsZero() {
				return a
			}
			if v.AsBigInt().Cmp(bigOne) == 0 {
				return b
			}
		}
		if v, ok := bvVal(b); ok {
			if v.IsZero() {
				return b
			}
			if v.AsBigInt().Cmp(bigOne) == 0 {
				return a
			}
		}
		if rw.level >= 2 && a.id() > b.id() {
			return tm.MkBVMul(b, a)
		}
	case KindBVAnd:
		a, b := arg(0), arg(1)
		if a.Equal(b) {
			return a
		}
		if v, ok := bvVal(a); ok {
			if v.IsZero() {
				return a
			}
			if v.IsOnes() {
				return b
			}
		}
		if v, ok := bvVal(b); ok {
			if v.IsZero() {
				return b
			}
			if v.IsOnes() {
				return a
			}
		}
		if rw.level >= 2 && a.id() > b.id() {
			return tm.MkBVAnd(b, a)
		}
	case KindBVOr:
		a, b := arg(0), arg(1)
		if a.Equal(b) {
			return a
		}
		if v, ok := bvVal(a); ok {
			if v.IsZero() {
				return b
			}
			if v.IsOnes() {
				return a
			}
		}
		if v, ok := bvVal(b); ok {
			if v.IsZero() {
				return a
			}
			if v.IsOnes() {
				return b
			}
		}
		if rw.level >= 2 && a.id() > b.id() {
			return tm.MkBVOr(b, a)
		}
	case KindBVXor:
		a, b := arg(0), arg(1)
		if a.Equal(b) {
			return tm.MkBVZero(t.Sort())
		}
		if v, ok := bvVal(a); ok && v.IsZero() {
			return b
		}
		if v, ok := bvVal(b); ok && v.IsZero() {
			return a
		}
		if rw.level >= 2 && a.id() > b.id() {
			return tm.MkBVXor(b, a)
		}
	case KindBVNot:
		if arg(0).Kind() == KindBVNot {
			return arg(0).Child(0)
		}
	case KindBVNeg:
		if arg(0).Kind() == KindBVNeg {
			return arg(0).Child(0)
		}
	case KindBVShl, KindBVShr, KindBVAshr:
		a, b := arg(0), arg(1)
		if v, ok := bvVal(b); ok && v.IsZero() {
			return a
		}
		if v, ok := bvVal(b); ok && shiftAmountTooLarge(v) {
			switch t.Kind() {
			case KindBVShl, KindBVShr:
				return tm.MkBVZero(t.Sort())
			case KindBVAshr:
				s := a.Sort()
				return tm.MkIte(
					tm.MkEqual(tm.MkBVExtract(s.BVWidth()-1, s.BVWidth()-1, a), tm.MkBVValue(NewBitVectorOne(1))),
					tm.MkBVOnes(s), tm.MkBVZero(s))
			}
		}
	case KindBVUdiv:
		a, b := arg(0), arg(1)
		if v, ok := bvVal(b); ok && v.AsBigInt().Cmp(bigOne) == 0 {
			return a
		}
	case KindBVUrem:
		_, b := arg(0), arg(1)
		if v, ok := bvVal(b); ok && v.AsBigInt().Cmp(bigOne) == 0 {
			return tm.MkBVZero(t.Sort())
		}
	case KindBVExtract:
		a := arg(0)
		upper, lower := t.Indices()[0], t.Indices()[1]
		if lower == 0 && upper == a.Sort().BVWidth()-1 {
			return a
		}
		if a.Kind() == KindBVExtract {
			inner := a.Child(0)
			off := a.Indices()[1]
			return tm.MkBVExtract(upper+off, lower+off, inner)
		}
		if a.Kind() == KindBVConcat {
			hi, lo := a.Child(0), a.Child(1)
			lw := lo.Sort().BVWidth()
			if upper < lw {
				return tm.MkBVExtract(upper, lower, lo)
			}
			if lower >= lw {
				return tm.MkBVExtract(upper-lw, lower-lw, hi)
			}
		}
	case KindBVUlt:
		a, b := arg(0), arg(1)
		if a.Equal(b) {
			return tm.MkFalse()
		}
		if v, ok := bvVal(b); ok && v.IsZero() {
			return tm.MkFalse()
		}
		if v, ok := bvVal(a); ok && v.IsOnes() {
			return tm.MkFalse()
		}
	case KindBVUle:
		a, b := arg(0), arg(1)
		if a.Equal(b) {
			return tm.MkTrue()
		}
		if v, ok := bvVal(a); ok && v.IsZero() {
			return tm.MkTrue()
		}
		if v, ok := bvVal(b); ok && v.IsOnes() {
			return tm.MkTrue()
		}
	case KindBVSlt:
		if arg(0).Equal(arg(1)) {
			return tm.MkFalse()
		}
	case KindBVSle:
		if arg(0).Equal(arg(1)) {
			return tm.MkTrue()
		}
	}
	return t
}

// stepFP folds FP operations whose operands are all values through the same
// word-blasting templates the symbolic path uses, and simplifies the
// classification predicates directly on the packed representation.
func (rw *Rewriter) stepFP(t Term) Term {
	tm := rw.tm
	if fp, ok := fpVal(t.Child(t.NumChildren() - 1)); ok && t.NumChildren() >= 1 {
		switch t.Kind() {
		case KindFPIsNan:
			return tm.MkBoolValue(fp.IsNaN())
		case KindFPIsInf:
			return tm.MkBoolValue(fp.IsInf())
		case KindFPIsZero:
			return tm.MkBoolValue(fp.IsZero())
		case KindFPIsNormal:
			return tm.MkBoolValue(fp.IsNormal())
		case KindFPIsSubnormal:
			return tm.MkBoolValue(fp.IsSubnormal())
		case KindFPIsNeg:
			return tm.MkBoolValue(fp.IsNeg())
		case KindFPIsPos:
			return tm.MkBoolValue(fp.IsPos())
		case KindFPNeg:
			return tm.MkFPValue(fp.Neg())
		case KindFPAbs:
			return tm.MkFPValue(fp.Abs())
		}
	}
	if t.Kind() == KindFPFp {
		s, okS := bvVal(t.Child(0))
		e, okE := bvVal(t.Child(1))
		m, okM := bvVal(t.Child(2))
		if okS && okE && okM {
			return tm.MkFPValue(NewFPFromParts(s, e, m))
		}
	}
	if t.Kind() == KindFPToFPFromBV {
		if v, ok := bvVal(t.Child(0)); ok {
			return tm.MkFPValue(newFPFromPacked(t.Indices()[0], t.Indices()[1], v))
		}
	}
	if v, ok := fpFoldValue(rw, t); ok {
		return v
	}
	return t
}
