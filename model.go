package bitwuzla

// Model extraction: values are reconstructed from the SAT assignment of
// the most recent Satisfiable check, the congruence engine's application
// table, and the preprocessor's substitution residues.

// GetValue returns a VALUE term of t's sort under the current model. A
// quantified term is returned unchanged; terms of array or function sort
// have no first-class value form and are also returned unchanged.
func (sc *SolvingContext) GetValue(t Term) (val Term, err error) {
	defer Recover(&err)
	if !sc.opts.ProduceModels {
		usageErrorf("get_value requires the produce_models option")
	}
	if sc.last != Satisfiable || sc.bb == nil {
		usageErrorf("get_value requires a preceding sat result")
	}
	if containsQuantifier(t) {
		return t, nil
	}
	switch t.Sort().Kind() {
	case SortArray, SortFun, SortUninterpreted:
		return t, nil
	}
	return sc.evalModel(t), nil
}

func (sc *SolvingContext) evalModel(t Term) Term {
	tm := sc.tm
	// Constants eliminated by variable substitution evaluate through their
	// pinned expressions.
	subst := sc.pp.Substitutions()
	u := t
	for i := 0; i < 8; i++ {
		next := tm.Substitute(u, subst)
		if next.Equal(u) {
			break
		}
		u = next
	}
	blasted := sc.wb.Blast(u)
	ground := sc.groundTerm(blasted, make(map[*termData]Term))
	folded := sc.evalRW.Rewrite(ground)
	return sc.unblastValue(t.Sort(), folded)
}

// groundTerm replaces every free constant and registered application in a
// blasted term with its model value. Applications are matched before their
// children are grounded so the registered term identity is preserved.
func (sc *SolvingContext) groundTerm(t Term, cache map[*termData]Term) Term {
	if r, ok := cache[t.data]; ok {
		return r
	}
	tm := sc.tm
	var r Term
	switch t.Kind() {
	case KindValue:
		r = t
	case KindConstant:
		switch {
		case t.Sort().IsBool():
			b, _ := sc.bb.lookupBoolValue(t)
			r = tm.MkBoolValue(b)
		case t.Sort().IsBV():
			if v, ok := sc.bb.lookupBVValue(t); ok {
				r = tm.MkBVValue(v)
			} else {
				r = tm.MkBVZero(t.Sort())
			}
		default:
			r = t
		}
	case KindApply, KindSelect:
		if sc.bb.appSet[t.data] {
			r = sc.bb.appValue(t)
			break
		}
		fallthrough
	default:
		children := make([]Term, t.NumChildren())
		for i := range children {
			children[i] = sc.groundTerm(t.Child(i), cache)
		}
		r = tm.rebuild(t, children)
	}
	cache[t.data] = r
	return r
}

// unblastValue converts a folded blasted value back into the original
// sort's value form.
func (sc *SolvingContext) unblastValue(sort Sort, folded Term) Term {
	tm := sc.tm
	if folded.IsValue() {
		switch {
		case sort.IsFP() && folded.Sort().IsBV():
			return tm.MkFPValue(newFPFromPacked(sort.FPExpBits(), sort.FPSigBits(), folded.Value().BV()))
		case sort.IsRM() && folded.Sort().IsBV():
			return tm.MkRMValue(RoundingMode(folded.Value().BV().AsUint64()))
		default:
			return folded
		}
	}
	// Residual structure (for instance an unconstrained conversion
	// placeholder): fall back to the sort's default value.
	return sc.defaultValue(sort)
}

func (sc *SolvingContext) defaultValue(sort Sort) Term {
	tm := sc.tm
	switch sort.Kind() {
	case SortBool:
		return tm.MkFalse()
	case SortBV:
		return tm.MkBVZero(sort)
	case SortFP:
		return tm.MkFPValueZero(sort, false)
	case SortRM:
		return tm.MkRMValue(RNE)
	default:
		internalErrorf("no default value for sort %s", sort)
		return Term{}
	}
}
