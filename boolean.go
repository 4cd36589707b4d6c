package bitwuzla

// Boolean and core term convenience wrappers, following the teacher's Mk*
// naming. Each is a thin MkTerm call; type checking happens in inferSort.

// MkTrue and MkFalse return the Boolean constants.
func (tm *TermManager) MkTrue() Term  { return tm.MkBoolValue(true) }
func (tm *TermManager) MkFalse() Term { return tm.MkBoolValue(false) }

func (tm *TermManager) MkAnd(args ...Term) Term { return tm.MkTerm(KindAnd, nil, args...) }
func (tm *TermManager) MkOr(args ...Term) Term  { return tm.MkTerm(KindOr, nil, args...) }
func (tm *TermManager) MkNot(a Term) Term       { return tm.MkTerm(KindNot, nil, a) }
func (tm *TermManager) MkImplies(a, b Term) Term {
	return tm.MkTerm(KindImplies, nil, a, b)
}
func (tm *TermManager) MkIff(a, b Term) Term { return tm.MkTerm(KindIff, nil, a, b) }
func (tm *TermManager) MkXor(a, b Term) Term { return tm.MkTerm(KindXor, nil, a, b) }

// MkIte returns if-then-else over any sort; cond must be Bool and the
// branches must agree on sort.
func (tm *TermManager) MkIte(cond, then, els Term) Term {
	return tm.MkTerm(KindIte, nil, cond, then, els)
}

func (tm *TermManager) MkEqual(a, b Term) Term { return tm.MkTerm(KindEqual, nil, a, b) }
func (tm *TermManager) MkDistinct(args ...Term) Term {
	return tm.MkTerm(KindDistinct, nil, args...)
}

// MkForall and MkExists bind one variable; nested binders express multiple.
func (tm *TermManager) MkForall(v, body Term) Term { return tm.MkTerm(KindForall, nil, v, body) }
func (tm *TermManager) MkExists(v, body Term) Term { return tm.MkTerm(KindExists, nil, v, body) }
func (tm *TermManager) MkLambda(v, body Term) Term { return tm.MkTerm(KindLambda, nil, v, body) }

// MkApply applies a function-sorted term to arguments.
func (tm *TermManager) MkApply(fn Term, args ...Term) Term {
	children := append([]Term{fn}, args...)
	return tm.MkTerm(KindApply, nil, children...)
}
