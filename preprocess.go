package bitwuzla

import (
	"sort"

	"github.com/rs/zerolog"
)

// Preprocessor drives the rewriter plus a set of semantics-preserving
// passes to fixed point over the assertions of each stack level. Each pass
// reports whether it changed anything; an iteration with no change ends the
// level. Derived substitutions are recorded per level and dropped on pop.
type Preprocessor struct {
	tm    *TermManager
	rw    *Rewriter
	opts  *Options
	stack *AssertionStack
	log   zerolog.Logger

	// substLevels[i] holds the constant substitutions derived while level i
	// was topmost; model extraction consults the merged view.
	substLevels []map[Term]Term
}

func NewPreprocessor(tm *TermManager, rw *Rewriter, opts *Options, stack *AssertionStack, bm *BacktrackManager, log zerolog.Logger) *Preprocessor {
	pp := &Preprocessor{
		tm:          tm,
		rw:          rw,
		opts:        opts,
		stack:       stack,
		log:         log,
		substLevels: []map[Term]Term{make(map[Term]Term)},
	}
	bm.Register(pp)
	return pp
}

func (pp *Preprocessor) OnPush(level int) {
	pp.substLevels = append(pp.substLevels, make(map[Term]Term))
}

func (pp *Preprocessor) OnPop(level int) {
	if len(pp.substLevels) > 1 {
		pp.substLevels = pp.substLevels[:len(pp.substLevels)-1]
	}
}

// Substitutions returns the merged constant-substitution map across all
// live levels, for model reconstruction.
func (pp *Preprocessor) Substitutions() map[Term]Term {
	merged := make(map[Term]Term)
	for _, m := range pp.substLevels {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// Process preprocesses every level in stack order to fixed point. It
// returns true when the terminator aborted the run.
func (pp *Preprocessor) Process(stop func() bool) bool {
	levels := make(map[int][]int)
	var order []int
	for i := 0; i < pp.stack.Len(); i++ {
		l := pp.stack.LevelOf(i)
		if _, ok := levels[l]; !ok {
			order = append(order, l)
		}
		levels[l] = append(levels[l], i)
	}
	sort.Ints(order)
	for _, l := range order {
		if pp.processLevel(l, levels[l], stop) {
			return true
		}
	}
	return false
}

func (pp *Preprocessor) processLevel(level int, idxs []int, stop func() bool) bool {
	cores := pp.opts.ProduceUnsatCores
	skeletonRan := false
	for iter := 0; ; iter++ {
		if stop != nil && stop() {
			return true
		}
		modified := pp.passRewrite(idxs)
		modified = pp.passElimLambda(idxs) || modified
		if pp.opts.Preprocess.VariableSubst && !cores {
			modified = pp.passVariableSubst(level, idxs) || modified
		}
		if pp.opts.Preprocess.EmbeddedConstr && !cores {
			modified = pp.passEmbeddedConstraints(idxs) || modified
		}
		if pp.opts.Preprocess.FlattenAnd {
			modified = pp.passFlattenAnd(idxs) || modified
		}
		if pp.opts.Preprocess.ContradictingAnds {
			modified = pp.passContradictingAnds(idxs) || modified
		}
		if pp.opts.Preprocess.SkeletonPreproc && !cores && !skeletonRan {
			modified = pp.passSkeleton(idxs) || modified
			skeletonRan = true
		}
		if pp.opts.Preprocess.Normalize {
			modified = pp.passNormalize(idxs) || modified
		}
		pp.passElimUninterpreted(level)
		if !modified {
			pp.log.Debug().Int("level", level).Int("iterations", iter+1).
				Msg("preprocessing reached fixed point")
			return false
		}
	}
}

func (pp *Preprocessor) replaceIfChanged(i int, t Term) bool {
	if t.Equal(pp.stack.Get(i)) {
		return false
	}
	pp.stack.Replace(i, t)
	return true
}

func (pp *Preprocessor) passRewrite(idxs []int) bool {
	mod := false
	for _, i := range idxs {
		mod = pp.replaceIfChanged(i, pp.rw.Rewrite(pp.stack.Get(i))) || mod
	}
	return mod
}

// transformDAG rebuilds t bottom-up, applying fn at every node.
func transformDAG(tm *TermManager, t Term, fn func(Term) Term) Term {
	cache := make(map[*termData]Term)
	var walk func(Term) Term
	walk = func(u Term) Term {
		if r, ok := cache[u.data]; ok {
			return r
		}
		children := make([]Term, u.NumChildren())
		for i := range children {
			children[i] = walk(u.Child(i))
		}
		r := fn(tm.rebuild(u, children))
		cache[u.data] = r
		return r
	}
	return walk(t)
}

func (pp *Preprocessor) passElimLambda(idxs []int) bool {
	mod := false
	for _, i := range idxs {
		t := transformDAG(pp.tm, pp.stack.Get(i), func(u Term) Term {
			if u.Kind() == KindApply && u.Child(0).Kind() == KindLambda {
				fn := u.Child(0)
				return pp.tm.Substitute(fn.Child(1), map[Term]Term{fn.Child(0): u.Child(1)})
			}
			return u
		})
		mod = pp.replaceIfChanged(i, t) || mod
	}
	return mod
}

// passVariableSubst detects equalities that pin a free constant to an
// expression and substitutes them throughout the level. The occur check
// keeps the substitution UNSAT-preserving.
func (pp *Preprocessor) passVariableSubst(level int, idxs []int) bool {
	active := pp.Substitutions()
	subst := make(map[Term]Term)
	for _, i := range idxs {
		t := pp.stack.Get(i)
		var c, rhs Term
		switch {
		case t.Kind() == KindEqual && t.Child(0).IsConstant():
			c, rhs = t.Child(0), t.Child(1)
		case t.Kind() == KindEqual && t.Child(1).IsConstant():
			c, rhs = t.Child(1), t.Child(0)
		case t.IsConstant() && t.Sort().IsBool():
			c, rhs = t, pp.tm.MkTrue()
		case t.Kind() == KindNot && t.Child(0).IsConstant():
			c, rhs = t.Child(0), pp.tm.MkFalse()
		default:
			continue
		}
		// A constant already pinned (here or at a lower level) must keep
		// its first binding; the equality then simplifies against it.
		if _, seen := subst[c]; seen {
			continue
		}
		if _, pinned := active[c]; pinned {
			continue
		}
		if contains(rhs, c) {
			continue
		}
		subst[c] = rhs
	}
	// Chase chains so substituting is idempotent within this pass, then
	// drop anything an indirect cycle folded back onto itself.
	for round := 0; round < len(subst); round++ {
		changed := false
		for c, r := range subst {
			nr := pp.tm.Substitute(r, subst)
			if !nr.Equal(r) {
				subst[c] = nr
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	for c, r := range subst {
		if contains(r, c) {
			delete(subst, c)
		}
	}
	for c, r := range subst {
		active[c] = r
		pp.substLevels[level][c] = r
	}
	if len(active) == 0 {
		return false
	}
	mod := false
	for _, i := range idxs {
		mod = pp.replaceIfChanged(i, pp.tm.Substitute(pp.stack.Get(i), active)) || mod
	}
	return mod
}

// passEmbeddedConstraints replaces subterm occurrences of asserted
// constraints (for instance inside ITE conditions) with true.
func (pp *Preprocessor) passEmbeddedConstraints(idxs []int) bool {
	asserted := make(map[*termData]bool)
	for _, i := range idxs {
		t := pp.stack.Get(i)
		if !t.IsValue() {
			asserted[t.data] = true
		}
	}
	mod := false
	for _, i := range idxs {
		root := pp.stack.Get(i)
		t := transformDAG(pp.tm, root, func(u Term) Term {
			if u.data != root.data && u.Sort().IsBool() && asserted[u.data] {
				return pp.tm.MkTrue()
			}
			return u
		})
		mod = pp.replaceIfChanged(i, t) || mod
	}
	return mod
}

func flattenAnd(tm *TermManager, t Term) Term {
	if t.Kind() != KindAnd {
		return t
	}
	var flat []Term
	var gather func(u Term)
	gather = func(u Term) {
		if u.Kind() == KindAnd {
			for _, c := range u.Children() {
				gather(c)
			}
			return
		}
		flat = append(flat, u)
	}
	gather(t)
	if len(flat) == t.NumChildren() {
		return t
	}
	return tm.MkAnd(flat...)
}

func (pp *Preprocessor) passFlattenAnd(idxs []int) bool {
	mod := false
	for _, i := range idxs {
		t := transformDAG(pp.tm, pp.stack.Get(i), func(u Term) Term {
			return flattenAnd(pp.tm, u)
		})
		mod = pp.replaceIfChanged(i, t) || mod
	}
	return mod
}

func (pp *Preprocessor) passContradictingAnds(idxs []int) bool {
	mod := false
	for _, i := range idxs {
		t := transformDAG(pp.tm, pp.stack.Get(i), func(u Term) Term {
			if u.Kind() != KindAnd {
				return u
			}
			present := make(map[*termData]bool, u.NumChildren())
			for _, c := range u.Children() {
				present[c.data] = true
			}
			for _, c := range u.Children() {
				if c.Kind() == KindNot && present[c.Child(0).data] {
					return pp.tm.MkFalse()
				}
			}
			return u
		})
		mod = pp.replaceIfChanged(i, t) || mod
	}
	return mod
}

// passSkeleton propagates top-level literals through the propositional
// skeleton of the other assertions. It runs once per level.
func (pp *Preprocessor) passSkeleton(idxs []int) bool {
	polarity := make(map[*termData]bool)
	for _, i := range idxs {
		t := pp.stack.Get(i)
		if t.Kind() == KindNot {
			polarity[t.Child(0).data] = false
		} else if !t.IsValue() {
			polarity[t.data] = true
		}
	}
	mod := false
	for _, i := range idxs {
		root := pp.stack.Get(i)
		skip := root.data
		if root.Kind() == KindNot {
			skip = root.Child(0).data
		}
		t := transformDAG(pp.tm, root, func(u Term) Term {
			if u.data == skip || !u.Sort().IsBool() {
				return u
			}
			if pol, ok := polarity[u.data]; ok {
				return pp.tm.MkBoolValue(pol)
			}
			return u
		})
		mod = pp.replaceIfChanged(i, t) || mod
	}
	return mod
}

// passNormalize regroups bit-vector add/mul chains: flatten, fold value
// operands, cancel additive inverses, and order the rest deterministically.
func (pp *Preprocessor) passNormalize(idxs []int) bool {
	mod := false
	for _, i := range idxs {
		t := transformDAG(pp.tm, pp.stack.Get(i), pp.normalizeNode)
		mod = pp.replaceIfChanged(i, t) || mod
	}
	return mod
}

func (pp *Preprocessor) normalizeNode(u Term) Term {
	kind := u.Kind()
	if kind != KindBVAdd && kind != KindBVMul {
		return u
	}
	tm := pp.tm
	var ops []Term
	var gather func(x Term)
	gather = func(x Term) {
		if x.Kind() == kind {
			for _, c := range x.Children() {
				gather(c)
			}
			return
		}
		ops = append(ops, x)
	}
	gather(u)
	acc := (*BitVector)(nil)
	var rest []Term
	for _, o := range ops {
		if v, ok := bvVal(o); ok {
			if acc == nil {
				acc = v
			} else if kind == KindBVAdd {
				acc = acc.Add(v)
			} else {
				acc = acc.Mul(v)
			}
			continue
		}
		rest = append(rest, o)
	}
	if kind == KindBVAdd {
		// Cancel x against (bvneg x) pairs.
		for changed := true; changed; {
			changed = false
			for a := 0; a < len(rest) && !changed; a++ {
				for b := a + 1; b < len(rest) && !changed; b++ {
					x, y := rest[a], rest[b]
					if (x.Kind() == KindBVNeg && x.Child(0).Equal(y)) ||
						(y.Kind() == KindBVNeg && y.Child(0).Equal(x)) {
						rest = append(append([]Term{}, rest[:a]...), rest[a+1:]...)
						rest = append(append([]Term{}, rest[:b-1]...), rest[b:]...)
						changed = true
					}
				}
			}
		}
	}
	sort.SliceStable(rest, func(a, b int) bool { return rest[a].id() < rest[b].id() })
	var out []Term
	if acc != nil {
		identity := acc.IsZero()
		if kind == KindBVMul {
			identity = acc.AsBigInt().Cmp(bigOne) == 0
			if acc.IsZero() {
				return tm.MkBVValue(acc)
			}
		}
		if !identity || len(rest) == 0 {
			out = append(out, tm.MkBVValue(acc))
		}
	}
	out = append(out, rest...)
	sort.SliceStable(out, func(a, b int) bool { return out[a].id() < out[b].id() })
	if len(out) == 0 {
		return tm.MkBVZero(u.Sort())
	}
	// Right-associated rebuild: every binary node then has its smaller-id
	// operand first, which the rewriter's commutative ordering leaves
	// alone, so normalize and rewrite agree on one normal form.
	r := out[len(out)-1]
	for i := len(out) - 2; i >= 0; i-- {
		if kind == KindBVAdd {
			r = tm.MkBVAdd(out[i], r)
		} else {
			r = tm.MkBVMul(out[i], r)
		}
	}
	return r
}

// passElimUninterpreted tracks which substituted-away constants no longer
// occur in any live assertion. Their nodes are reclaimable once no external
// handle remains; the substitution entries themselves are kept so model
// reconstruction can still answer get_value for them.
func (pp *Preprocessor) passElimUninterpreted(level int) {
	live := make(map[*termData]bool)
	for i := 0; i < pp.stack.Len(); i++ {
		visitDAG(pp.stack.Get(i), func(t Term) {
			if t.IsConstant() || t.IsVariable() {
				live[t.data] = true
			}
		})
	}
	eliminated := 0
	for c := range pp.substLevels[level] {
		if !live[c.data] {
			eliminated++
		}
	}
	if eliminated > 0 {
		pp.log.Trace().Int("level", level).Int("eliminated", eliminated).
			Msg("constants eliminated by substitution")
	}
}
