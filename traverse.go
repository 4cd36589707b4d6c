package bitwuzla

// rebuild reconstructs a non-leaf term with the given children, reusing the
// original when nothing changed. It is the one place generic bottom-up
// transformations (substitution, pass rewriting, word-blasting) route
// through, so every transformer agrees on how each kind is re-made.
func (tm *TermManager) rebuild(t Term, children []Term) Term {
	same := len(children) == len(t.data.children)
	if same {
		for i, c := range children {
			if c.data != t.data.children[i] {
				same = false
				break
			}
		}
	}
	if same {
		return t
	}
	if t.Kind() == KindConstArray {
		return tm.MkConstArray(t.Sort(), children[0])
	}
	return tm.MkTerm(t.Kind(), t.Indices(), children...)
}

// Substitute returns t with every occurrence of a key in subst replaced by
// its mapped term, applied bottom-up. Bound variables that are themselves
// substitution keys are not renamed; callers substituting under binders must
// ensure capture-freedom (the preprocessor only substitutes free constants,
// which cannot be captured).
func (tm *TermManager) Substitute(t Term, subst map[Term]Term) Term {
	if len(subst) == 0 {
		return t
	}
	cache := make(map[*termData]Term)
	return tm.substitute(t, subst, cache)
}

func (tm *TermManager) substitute(t Term, subst map[Term]Term, cache map[*termData]Term) Term {
	if r, ok := subst[t]; ok {
		return r
	}
	if r, ok := cache[t.data]; ok {
		return r
	}
	if len(t.data.children) == 0 {
		cache[t.data] = t
		return t
	}
	// A binder shadows its own variable for the scope of its body.
	if t.Kind() == KindForall || t.Kind() == KindExists || t.Kind() == KindLambda {
		v := t.Child(0)
		if _, shadowed := subst[v]; shadowed {
			inner := make(map[Term]Term, len(subst)-1)
			for k, r := range subst {
				if !k.Equal(v) {
					inner[k] = r
				}
			}
			body := tm.Substitute(t.Child(1), inner)
			r := tm.rebuild(t, []Term{v, body})
			cache[t.data] = r
			return r
		}
	}
	children := make([]Term, len(t.data.children))
	for i := range t.data.children {
		children[i] = tm.substitute(Term{tm, t.data.children[i]}, subst, cache)
	}
	r := tm.rebuild(t, children)
	cache[t.data] = r
	return r
}

// contains reports whether needle occurs anywhere in t's DAG. Used by the
// variable-substitution pass's occur check.
func contains(t Term, needle Term) bool {
	seen := make(map[*termData]bool)
	var walk func(d *termData) bool
	walk = func(d *termData) bool {
		if d == needle.data {
			return true
		}
		if seen[d] {
			return false
		}
		seen[d] = true
		for _, c := range d.children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(t.data)
}

// visitDAG walks t's DAG post-order, calling fn once per distinct node.
func visitDAG(t Term, fn func(Term)) {
	seen := make(map[*termData]bool)
	var walk func(d *termData)
	walk = func(d *termData) {
		if seen[d] {
			return
		}
		seen[d] = true
		for _, c := range d.children {
			walk(c)
		}
		fn(Term{t.mgr, d})
	}
	walk(t.data)
}
