package bitwuzla

// Quantifier handling is instantiation-based and intentionally shallow:
// existentials in positive positions are skolemized, universals over small
// bit-vector or Boolean domains are ground-expanded, and anything else is
// left in place so check_sat reports unknown for it.

// quantifierExpandWidth bounds the BV width ground expansion will take on;
// beyond it a universal stays quantified.
const quantifierExpandWidth = 4

type quantifierEliminator struct {
	tm      *TermManager
	skolems map[*termData]Term
}

func newQuantifierEliminator(tm *TermManager) *quantifierEliminator {
	return &quantifierEliminator{tm: tm, skolems: make(map[*termData]Term)}
}

// Eliminate rewrites the quantifiers of a top-level assertion that this
// engine can discharge. positive tracks polarity from the assertion root.
func (qe *quantifierEliminator) Eliminate(t Term, positive bool) Term {
	tm := qe.tm
	switch t.Kind() {
	case KindNot:
		return tm.MkNot(qe.Eliminate(t.Child(0), !positive))
	case KindAnd, KindOr:
		children := make([]Term, t.NumChildren())
		changed := false
		for i := range children {
			children[i] = qe.Eliminate(t.Child(i), positive)
			changed = changed || !children[i].Equal(t.Child(i))
		}
		if !changed {
			return t
		}
		return tm.rebuild(t, children)
	case KindImplies:
		if t.NumChildren() != 2 {
			return t
		}
		a := qe.Eliminate(t.Child(0), !positive)
		b := qe.Eliminate(t.Child(1), positive)
		return tm.rebuild(t, []Term{a, b})
	case KindExists:
		if positive {
			return qe.Eliminate(qe.skolemize(t), positive)
		}
		return qe.expand(t, positive)
	case KindForall:
		if !positive {
			return qe.Eliminate(qe.skolemize(t), positive)
		}
		return qe.expand(t, positive)
	default:
		return t
	}
}

// skolemize replaces the bound variable with a fresh constant; the fresh
// constant is cached per quantifier term so repeated elimination agrees.
func (qe *quantifierEliminator) skolemize(t Term) Term {
	v := t.Child(0)
	sk, ok := qe.skolems[t.data]
	if !ok {
		sk = qe.tm.MkConst(v.Sort(), "")
		qe.skolems[t.data] = sk
	}
	return qe.tm.Substitute(t.Child(1), map[Term]Term{v: sk})
}

// expand ground-instantiates a universal (or negated existential) over a
// small finite domain; larger domains are left quantified.
func (qe *quantifierEliminator) expand(t Term, positive bool) Term {
	tm := qe.tm
	v, body := t.Child(0), t.Child(1)
	var instances []Term
	switch {
	case v.Sort().IsBool():
		for _, val := range []Term{tm.MkFalse(), tm.MkTrue()} {
			instances = append(instances, tm.Substitute(body, map[Term]Term{v: val}))
		}
	case v.Sort().IsBV() && v.Sort().BVWidth() <= quantifierExpandWidth:
		w := v.Sort().BVWidth()
		for x := uint64(0); x < 1<<w; x++ {
			val := tm.MkBVValue(NewBitVectorFromUint64(w, x))
			instances = append(instances, tm.Substitute(body, map[Term]Term{v: val}))
		}
	default:
		return t
	}
	for i, inst := range instances {
		instances[i] = qe.Eliminate(inst, positive)
	}
	if t.Kind() == KindForall {
		return tm.MkAnd(instances...)
	}
	return tm.MkOr(instances...)
}

// containsQuantifier reports whether any FORALL/EXISTS survives in t.
func containsQuantifier(t Term) bool {
	found := false
	visitDAG(t, func(u Term) {
		if u.Kind() == KindForall || u.Kind() == KindExists {
			found = true
		}
	})
	return found
}
