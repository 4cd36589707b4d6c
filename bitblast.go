package bitwuzla

import (
	"fmt"
	"math/big"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/matthewsot/bitwuzla/internal/satsolver"
)

// unsupportedError aborts bit-blasting for constructs outside the encodable
// fragment (array equality, residual quantifiers); check_sat absorbs it
// into an Unknown result.
type unsupportedError struct{ msg string }

func (e unsupportedError) Error() string { return e.msg }

func unsupportedf(format string, args ...interface{}) {
	panic(unsupportedError{msg: fmt.Sprintf(format, args...)})
}

// bitBlaster encodes preprocessed, word-blasted assertions into an
// And-Inverter Graph and Tseitin-encodes the AIG into the SAT port. The
// circuit and the solver share gini's literal space, so clauses stream from
// logic.C's structural-hashed nodes straight into the port without
// translation maps.
type bitBlaster struct {
	tm   *TermManager
	circ *logic.C
	sat  satsolver.Port
	low  *Rewriter

	boolMap map[*termData]z.Lit
	bvMap   map[*termData][]z.Lit
	marks   []int8

	apps   []Term
	appSet map[*termData]bool
}

func newBitBlaster(tm *TermManager, sat satsolver.Port) *bitBlaster {
	return &bitBlaster{
		tm:   tm,
		circ: logic.NewC(),
		sat:  sat,
		// Encoding-level lowering: derived operators are reduced to the
		// small core the circuits below implement, independent of the
		// user-visible rewrite level.
		low:     NewRewriter(tm, 1),
		boolMap: make(map[*termData]z.Lit),
		bvMap:   make(map[*termData][]z.Lit),
		appSet:  make(map[*termData]bool),
	}
}

// Apps returns every registered function application and array read, in
// first-encounter order.
func (bb *bitBlaster) Apps() []Term { return bb.apps }

// Assert encodes t (Bool sort) and adds it as a unit clause.
func (bb *bitBlaster) Assert(t Term) {
	lit := bb.encodeBool(bb.low.Rewrite(t))
	bb.flushCNF(lit)
	bb.sat.Add(lit)
	bb.sat.Add(0)
}

// AssertActivated encodes t guarded by a fresh activation literal and
// returns the literal; the clause fires only while the literal is assumed.
func (bb *bitBlaster) AssertActivated(t Term) z.Lit {
	lit := bb.encodeBool(bb.low.Rewrite(t))
	act := bb.circ.Lit()
	bb.flushCNF(lit)
	bb.sat.Add(act.Not())
	bb.sat.Add(lit)
	bb.sat.Add(0)
	return act
}

func (bb *bitBlaster) flushCNF(roots ...z.Lit) {
	bb.marks, _ = bb.circ.CnfSince(bb.sat, bb.marks, roots...)
}

func (bb *bitBlaster) registerApp(t Term) {
	if !bb.appSet[t.data] {
		bb.appSet[t.data] = true
		bb.apps = append(bb.apps, t)
	}
}

func (bb *bitBlaster) encodeBool(t Term) z.Lit {
	if l, ok := bb.boolMap[t.data]; ok {
		return l
	}
	c := bb.circ
	var l z.Lit
	switch t.Kind() {
	case KindValue:
		if t.Value().Bool() {
			l = c.T
		} else {
			l = c.F
		}
	case KindConstant:
		l = c.Lit()
	case KindNot:
		l = bb.encodeBool(t.Child(0)).Not()
	case KindAnd:
		l = c.T
		for _, a := range t.Children() {
			l = c.And(l, bb.encodeBool(a))
		}
	case KindOr:
		l = c.F
		for _, a := range t.Children() {
			l = c.Or(l, bb.encodeBool(a))
		}
	case KindImplies:
		l = c.Implies(bb.encodeBool(t.Child(0)), bb.encodeBool(t.Child(1)))
	case KindXor:
		l = c.Xor(bb.encodeBool(t.Child(0)), bb.encodeBool(t.Child(1)))
	case KindIff:
		l = c.Xor(bb.encodeBool(t.Child(0)), bb.encodeBool(t.Child(1))).Not()
	case KindIte:
		l = c.Choice(bb.encodeBool(t.Child(0)), bb.encodeBool(t.Child(1)), bb.encodeBool(t.Child(2)))
	case KindEqual:
		l = bb.encodeEqual(t.Child(0), t.Child(1))
	case KindBVUlt:
		lt, _ := bb.compare(t.Child(0), t.Child(1), false)
		l = lt
	case KindBVUle:
		lt, eq := bb.compare(t.Child(0), t.Child(1), false)
		l = c.Or(lt, eq)
	case KindBVSlt:
		lt, _ := bb.compare(t.Child(0), t.Child(1), true)
		l = lt
	case KindBVSle:
		lt, eq := bb.compare(t.Child(0), t.Child(1), true)
		l = c.Or(lt, eq)
	case KindApply, KindSelect:
		for i := 1; i < t.NumChildren(); i++ {
			bb.encodeAny(t.Child(i))
		}
		bb.registerApp(t)
		l = c.Lit()
	case KindForall, KindExists:
		unsupportedf("quantified subformula reached the bit-blaster")
	default:
		unsupportedf("cannot bit-blast %s as Bool", t.Kind())
	}
	bb.boolMap[t.data] = l
	return l
}

// encodeAny encodes a term of any encodable sort so its model value is
// observable later; used for function-application arguments.
func (bb *bitBlaster) encodeAny(t Term) {
	switch {
	case t.Sort().IsBool():
		bb.encodeBool(t)
	case t.Sort().IsBV():
		bb.encodeBV(t)
	default:
		unsupportedf("cannot bit-blast argument of sort %s", t.Sort())
	}
}

func (bb *bitBlaster) encodeEqual(a, b Term) z.Lit {
	c := bb.circ
	switch {
	case a.Sort().IsBool():
		return c.Xor(bb.encodeBool(a), bb.encodeBool(b)).Not()
	case a.Sort().IsBV():
		av, bv := bb.encodeBV(a), bb.encodeBV(b)
		l := c.T
		for i := range av {
			l = c.And(l, c.Xor(av[i], bv[i]).Not())
		}
		return l
	default:
		if a.Equal(b) {
			return c.T
		}
		unsupportedf("equality over %s sort is not bit-blastable", a.Sort())
		return 0
	}
}

// compare returns (lt, eq) for a against b, unsigned or two's-complement.
func (bb *bitBlaster) compare(a, b Term, signed bool) (z.Lit, z.Lit) {
	c := bb.circ
	av, bv := bb.encodeBV(a), bb.encodeBV(b)
	w := len(av)
	if signed {
		// Flipping the sign bits maps two's-complement order onto the
		// unsigned order.
		av = append(append([]z.Lit{}, av[:w-1]...), av[w-1].Not())
		bv = append(append([]z.Lit{}, bv[:w-1]...), bv[w-1].Not())
	}
	lt := c.F
	eq := c.T
	for i := 0; i < w; i++ {
		bitEq := c.Xor(av[i], bv[i]).Not()
		lt = c.Or(c.And(av[i].Not(), bv[i]), c.And(bitEq, lt))
		eq = c.And(eq, bitEq)
	}
	return lt, eq
}

// encodeBV returns t's bits, least significant first.
func (bb *bitBlaster) encodeBV(t Term) []z.Lit {
	if v, ok := bb.bvMap[t.data]; ok {
		return v
	}
	c := bb.circ
	w := int(t.Sort().BVWidth())
	var out []z.Lit
	switch t.Kind() {
	case KindValue:
		bv := t.Value().BV()
		out = make([]z.Lit, w)
		for i := 0; i < w; i++ {
			if bv.Bit(uint32(i)) == 1 {
				out[i] = c.T
			} else {
				out[i] = c.F
			}
		}
	case KindConstant:
		out = make([]z.Lit, w)
		for i := range out {
			out[i] = c.Lit()
		}
	case KindIte:
		cond := bb.encodeBool(t.Child(0))
		av, bv := bb.encodeBV(t.Child(1)), bb.encodeBV(t.Child(2))
		out = make([]z.Lit, w)
		for i := range out {
			out[i] = c.Choice(cond, av[i], bv[i])
		}
	case KindBVNot:
		av := bb.encodeBV(t.Child(0))
		out = make([]z.Lit, w)
		for i := range out {
			out[i] = av[i].Not()
		}
	case KindBVAnd, KindBVOr, KindBVXor:
		av, bv := bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1))
		out = make([]z.Lit, w)
		for i := range out {
			switch t.Kind() {
			case KindBVAnd:
				out[i] = c.And(av[i], bv[i])
			case KindBVOr:
				out[i] = c.Or(av[i], bv[i])
			default:
				out[i] = c.Xor(av[i], bv[i])
			}
		}
	case KindBVAdd:
		out = bb.adder(bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1)), c.F)
	case KindBVNeg:
		av := bb.encodeBV(t.Child(0))
		inv := make([]z.Lit, w)
		for i := range inv {
			inv[i] = av[i].Not()
		}
		out = bb.incr(inv)
	case KindBVMul:
		out = bb.multiplier(bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1)))
	case KindBVUdiv:
		q, _ := bb.divider(bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1)))
		out = q
	case KindBVUrem:
		_, r := bb.divider(bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1)))
		out = r
	case KindBVShl, KindBVShr, KindBVAshr:
		out = bb.shifter(t.Kind(), bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1)))
	case KindBVConcat:
		hi, lo := bb.encodeBV(t.Child(0)), bb.encodeBV(t.Child(1))
		out = append(append([]z.Lit{}, lo...), hi...)
	case KindBVExtract:
		av := bb.encodeBV(t.Child(0))
		upper, lower := t.Indices()[0], t.Indices()[1]
		out = append([]z.Lit{}, av[lower:upper+1]...)
	case KindApply, KindSelect:
		for i := 1; i < t.NumChildren(); i++ {
			bb.encodeAny(t.Child(i))
		}
		bb.registerApp(t)
		out = make([]z.Lit, w)
		for i := range out {
			out[i] = c.Lit()
		}
	default:
		unsupportedf("cannot bit-blast %s as a bit-vector", t.Kind())
	}
	bb.bvMap[t.data] = out
	return out
}

func (bb *bitBlaster) adder(a, b []z.Lit, carry z.Lit) []z.Lit {
	c := bb.circ
	out := make([]z.Lit, len(a))
	for i := range a {
		s := c.Xor(c.Xor(a[i], b[i]), carry)
		carry = c.Or(c.And(a[i], b[i]), c.And(c.Xor(a[i], b[i]), carry))
		out[i] = s
	}
	return out
}

func (bb *bitBlaster) incr(a []z.Lit) []z.Lit {
	c := bb.circ
	carry := c.T
	out := make([]z.Lit, len(a))
	for i := range a {
		out[i] = c.Xor(a[i], carry)
		carry = c.And(a[i], carry)
	}
	return out
}

func (bb *bitBlaster) multiplier(a, b []z.Lit) []z.Lit {
	c := bb.circ
	w := len(a)
	acc := make([]z.Lit, w)
	for i := range acc {
		acc[i] = c.F
	}
	for i := 0; i < w; i++ {
		partial := make([]z.Lit, w)
		for j := 0; j < w; j++ {
			if j < i {
				partial[j] = c.F
			} else {
				partial[j] = c.And(b[j-i], a[i])
			}
		}
		acc = bb.adder(acc, partial, c.F)
	}
	return acc
}

// divider builds a restoring divider; division by zero yields all-ones
// quotient and the dividend as remainder, per SMT-LIB.
func (bb *bitBlaster) divider(a, b []z.Lit) (q, r []z.Lit) {
	c := bb.circ
	w := len(a)
	rem := make([]z.Lit, w)
	for i := range rem {
		rem[i] = c.F
	}
	q = make([]z.Lit, w)
	for i := w - 1; i >= 0; i-- {
		// rem = rem << 1 | a[i]
		rem = append([]z.Lit{a[i]}, rem[:w-1]...)
		// geq = rem >= b
		lt := c.F
		for j := 0; j < w; j++ {
			bitEq := c.Xor(rem[j], b[j]).Not()
			lt = c.Or(c.And(rem[j].Not(), b[j]), c.And(bitEq, lt))
		}
		geq := lt.Not()
		// rem -= b when geq
		diff := bb.subtractor(rem, b)
		for j := 0; j < w; j++ {
			rem[j] = c.Choice(geq, diff[j], rem[j])
		}
		q[i] = geq
	}
	bz := c.F
	for i := range b {
		bz = c.Or(bz, b[i])
	}
	bz = bz.Not()
	for i := 0; i < w; i++ {
		q[i] = c.Choice(bz, c.T, q[i])
		r = append(r, c.Choice(bz, a[i], rem[i]))
	}
	return q, r
}

func (bb *bitBlaster) subtractor(a, b []z.Lit) []z.Lit {
	c := bb.circ
	nb := make([]z.Lit, len(b))
	for i := range b {
		nb[i] = b[i].Not()
	}
	return bb.adder(a, nb, c.T)
}

func (bb *bitBlaster) shifter(kind Kind, a, amt []z.Lit) []z.Lit {
	c := bb.circ
	w := len(a)
	var fill z.Lit = c.F
	if kind == KindBVAshr {
		fill = a[w-1]
	}
	cur := append([]z.Lit{}, a...)
	stages := 0
	for (1 << stages) < w {
		stages++
	}
	for j := 0; j < stages; j++ {
		sh := 1 << j
		next := make([]z.Lit, w)
		for i := 0; i < w; i++ {
			var from z.Lit
			switch kind {
			case KindBVShl:
				if i >= sh {
					from = cur[i-sh]
				} else {
					from = c.F
				}
			default: // logical or arithmetic right shift
				if i+sh < w {
					from = cur[i+sh]
				} else {
					from = fill
				}
			}
			next[i] = c.Choice(amt[j], from, cur[i])
		}
		cur = next
	}
	// Any set amount bit at weight >= w shifts everything out.
	over := c.F
	for j := stages; j < w; j++ {
		over = c.Or(over, amt[j])
	}
	out := make([]z.Lit, w)
	for i := 0; i < w; i++ {
		out[i] = c.Choice(over, fill, cur[i])
	}
	return out
}

// Solve runs the SAT port under the given assumptions.
func (bb *bitBlaster) Solve(assumptions []z.Lit, stop func() bool) satsolver.Result {
	if len(assumptions) > 0 {
		bb.sat.Assume(assumptions...)
	}
	return bb.sat.Solve(stop)
}

// lookupBoolValue and lookupBVValue read a term's model value after a SAT
// result; ok is false when the term was never encoded.
func (bb *bitBlaster) lookupBoolValue(t Term) (bool, bool) {
	l, ok := bb.boolMap[t.data]
	if !ok {
		return false, false
	}
	return bb.litValue(l), true
}

func (bb *bitBlaster) lookupBVValue(t Term) (*BitVector, bool) {
	bits, ok := bb.bvMap[t.data]
	if !ok {
		return nil, false
	}
	return bb.bitsValue(bits, t.Sort().BVWidth()), true
}

func (bb *bitBlaster) litValue(l z.Lit) bool {
	if l == bb.circ.T {
		return true
	}
	if l == bb.circ.F {
		return false
	}
	return bb.sat.Value(l)
}

func (bb *bitBlaster) bitsValue(bits []z.Lit, width uint32) *BitVector {
	v := new(big.Int)
	for i, l := range bits {
		if bb.litValue(l) {
			v.SetBit(v, i, 1)
		}
	}
	return NewBitVectorFromBigInt(width, v)
}

// appValue reads a registered application's model value as a term.
func (bb *bitBlaster) appValue(t Term) Term {
	switch {
	case t.Sort().IsBool():
		b, _ := bb.lookupBoolValue(t)
		return bb.tm.MkBoolValue(b)
	case t.Sort().IsBV():
		v, ok := bb.lookupBVValue(t)
		if !ok {
			return bb.tm.MkBVZero(t.Sort())
		}
		return bb.tm.MkBVValue(v)
	default:
		internalErrorf("appValue on sort %s", t.Sort())
		return Term{}
	}
}
