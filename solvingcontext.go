package bitwuzla

import (
	"github.com/go-air/gini/z"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/matthewsot/bitwuzla/internal/satsolver"
)

// Status is the result of a satisfiability check.
type Status int

const (
	// Unsatisfiable means the assertions admit no model.
	Unsatisfiable Status = -1
	// Unknown means the check was aborted or out of fragment.
	Unknown Status = 0
	// Satisfiable means a model was found.
	Satisfiable Status = 1
)

func (s Status) String() string {
	switch s {
	case Unsatisfiable:
		return "unsat"
	case Satisfiable:
		return "sat"
	default:
		return "unknown"
	}
}

// solveState is the internal check_sat state machine.
type solveState int

const (
	stateIdle solveState = iota
	statePreprocessing
	stateBitBlasting
	stateSatSolving
	stateCongruenceCheck
)

// Terminator is a caller-supplied predicate polled before every
// potentially long loop iteration; returning true aborts the operation
// with an Unknown result.
type Terminator func() bool

// SolvingContext is the solver facade: it owns the assertion stack,
// preprocessor, word-blaster, bit-blaster and congruence engine, and wires
// them into check_sat's solve loop.
type SolvingContext struct {
	tm   *TermManager
	opts Options
	log  zerolog.Logger

	bm    *BacktrackManager
	stack *AssertionStack
	view  *AssertionView
	rw    *Rewriter
	pp    *Preprocessor
	ce    *congruenceEngine
	qe    *quantifierEliminator

	terminator Terminator
	state      solveState

	numChecks     int
	last          Status
	reasonUnknown string

	// Model and core state from the most recent check.
	bb      *bitBlaster
	wb      *wordBlaster
	evalRW  *Rewriter
	core    []Term
	failed  []Term
	assumed []Term
}

// NewSolvingContext binds a copy of opts to a fresh context; later
// mutations of the caller's Options do not affect it.
func NewSolvingContext(tm *TermManager, opts Options) (*SolvingContext, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	bm := NewBacktrackManager()
	stack := NewAssertionStack(bm)
	sc := &SolvingContext{
		tm:    tm,
		opts:  opts,
		log:   zerolog.Nop(),
		bm:    bm,
		stack: stack,
		view:  NewAssertionView(stack, bm),
		rw:    NewRewriter(tm, opts.RewriteLevel),
		qe:    newQuantifierEliminator(tm),
		last:  Unknown,
	}
	sc.pp = NewPreprocessor(tm, sc.rw, &sc.opts, stack, bm, sc.log)
	sc.ce = newCongruenceEngine(tm, sc.log)
	return sc, nil
}

// SetLogger routes diagnostics to the given logger, filtered by the
// verbosity options.
func (sc *SolvingContext) SetLogger(base zerolog.Logger) {
	sc.log = contextLogger(&base, &sc.opts, uuid.NewString())
	sc.pp.log = sc.log
	sc.ce.log = sc.log
}

// SetTerminator installs the cancellation predicate.
func (sc *SolvingContext) SetTerminator(t Terminator) { sc.terminator = t }

// ReasonUnknown explains the most recent Unknown result.
func (sc *SolvingContext) ReasonUnknown() string { return sc.reasonUnknown }

// Options returns the bound configuration.
func (sc *SolvingContext) Options() Options { return sc.opts }

func (sc *SolvingContext) stop() bool {
	return sc.terminator != nil && sc.terminator()
}

// Assert appends a Boolean assertion to the current level.
func (sc *SolvingContext) Assert(t Term) (err error) {
	defer Recover(&err)
	if !t.valid() {
		usageErrorf("assert: invalid term")
	}
	if !t.Sort().IsBool() {
		usageErrorf("assert: expected Bool term, got sort %s", t.Sort())
	}
	sc.stack.Append(t)
	return nil
}

// Push opens n new assertion levels.
func (sc *SolvingContext) Push(n int) (err error) {
	defer Recover(&err)
	if n == 0 {
		return nil
	}
	if !sc.opts.Incremental {
		usageErrorf("push requires incremental mode")
	}
	for i := 0; i < n; i++ {
		sc.bm.Push()
	}
	return nil
}

// Pop discards the topmost n levels.
func (sc *SolvingContext) Pop(n int) (err error) {
	defer Recover(&err)
	if n == 0 {
		return nil
	}
	if !sc.opts.Incremental {
		usageErrorf("pop requires incremental mode")
	}
	if n > sc.bm.Level() {
		usageErrorf("pop of %d levels past root (level %d)", n, sc.bm.Level())
	}
	for i := 0; i < n; i++ {
		sc.bm.Pop()
	}
	return nil
}

func (sc *SolvingContext) unknown(reason string) Status {
	sc.reasonUnknown = reason
	sc.last = Unknown
	sc.state = stateIdle
	return Unknown
}

// CheckSat decides the conjunction of all assertions and the given
// assumptions.
func (sc *SolvingContext) CheckSat(assumptions ...Term) (res Status, err error) {
	defer Recover(&err)
	if len(assumptions) > 0 && !sc.opts.Incremental {
		usageErrorf("check_sat with assumptions requires incremental mode")
	}
	if sc.numChecks > 0 && !sc.opts.Incremental {
		usageErrorf("repeated check_sat requires incremental mode")
	}
	sc.numChecks++
	sc.reasonUnknown = ""
	sc.core, sc.failed = nil, nil
	sc.assumed = append([]Term{}, assumptions...)

	for {
		if i, ok := sc.view.Next(); ok {
			sc.log.Trace().Str("assertion", sc.stack.Original(i).String()).Msg("new assertion")
			continue
		}
		break
	}

	sc.state = statePreprocessing
	if sc.pp.Process(sc.stop) {
		return sc.unknown("terminator"), nil
	}

	sc.state = stateBitBlasting
	res, done := sc.solveCore(assumptions)
	if done {
		return res, nil
	}
	return sc.unknown(sc.reasonUnknown), nil
}

// solveCore runs bit-blasting and the SAT/congruence loop. It reports
// done=false with reasonUnknown set when the fragment is unsupported or
// the terminator tripped.
func (sc *SolvingContext) solveCore(assumptions []Term) (res Status, done bool) {
	defer func() {
		if r := recover(); r != nil {
			if ue, ok := r.(unsupportedError); ok {
				sc.log.Debug().Str("reason", ue.msg).Msg("out of fragment")
				sc.reasonUnknown = ue.msg
				res, done = Unknown, false
				return
			}
			panic(r)
		}
	}()

	wb := newWordBlaster(sc.tm)
	bb := newBitBlaster(sc.tm, satsolver.New(sc.opts.SATSolver.String()))

	prepare := func(t Term) Term {
		t = sc.qe.Eliminate(t, true)
		t = sc.rw.Rewrite(wb.Blast(t))
		return t
	}

	type actEntry struct {
		act      z.Lit
		original Term
	}
	var acts []actEntry
	for i := 0; i < sc.stack.Len(); i++ {
		t := prepare(sc.stack.Get(i))
		if containsQuantifier(t) {
			sc.reasonUnknown = "unsupported quantifier"
			return Unknown, false
		}
		if sc.opts.ProduceUnsatCores {
			acts = append(acts, actEntry{act: bb.AssertActivated(t), original: sc.stack.Original(i)})
		} else {
			bb.Assert(t)
		}
	}
	for _, side := range wb.SideConditions() {
		bb.Assert(sc.rw.Rewrite(side))
	}

	type assumpEntry struct {
		lit  z.Lit
		term Term
	}
	var assumps []assumpEntry
	for _, a := range assumptions {
		if !a.Sort().IsBool() {
			usageErrorf("assumption must be Bool, got sort %s", a.Sort())
		}
		t := prepare(a)
		lit := bb.encodeBool(bb.low.Rewrite(t))
		bb.flushCNF(lit)
		assumps = append(assumps, assumpEntry{lit: lit, term: a})
	}

	sc.state = stateSatSolving
	for round := 0; ; round++ {
		if sc.stop() {
			sc.reasonUnknown = "terminator"
			return Unknown, false
		}
		var assume []z.Lit
		for _, e := range acts {
			assume = append(assume, e.act)
		}
		for _, e := range assumps {
			assume = append(assume, e.lit)
		}
		r := bb.Solve(assume, sc.stop)
		switch r {
		case satsolver.Unknown:
			sc.reasonUnknown = "terminator"
			return Unknown, false
		case satsolver.Unsat:
			why := bb.sat.Why()
			failedSet := make(map[z.Lit]bool, len(why))
			for _, m := range why {
				failedSet[m] = true
			}
			for _, e := range acts {
				if failedSet[e.act] {
					sc.core = append(sc.core, e.original)
				}
			}
			for _, e := range assumps {
				if failedSet[e.lit] {
					sc.failed = append(sc.failed, e.term)
				}
			}
			sc.last = Unsatisfiable
			sc.state = stateIdle
			sc.log.Debug().Int("rounds", round+1).Msg("unsat")
			return Unsatisfiable, true
		case satsolver.Sat:
			sc.state = stateCongruenceCheck
			lemmas := sc.ce.Check(bb)
			if len(lemmas) == 0 {
				sc.bb, sc.wb = bb, wb
				sc.evalRW = NewRewriter(sc.tm, 1)
				sc.last = Satisfiable
				sc.state = stateIdle
				sc.log.Debug().Int("rounds", round+1).Msg("sat")
				return Satisfiable, true
			}
			for _, lemma := range lemmas {
				bb.Assert(sc.rw.Rewrite(lemma))
			}
			sc.state = stateSatSolving
		}
	}
}

// Simplify preprocesses the current assertions and reports Satisfiable if
// they reduce to true, Unsatisfiable if any reduces to false, Unknown
// otherwise.
func (sc *SolvingContext) Simplify() (res Status, err error) {
	defer Recover(&err)
	sc.state = statePreprocessing
	if sc.pp.Process(sc.stop) {
		sc.state = stateIdle
		sc.reasonUnknown = "terminator"
		return Unknown, nil
	}
	sc.state = stateIdle
	allTrue := true
	for i := 0; i < sc.stack.Len(); i++ {
		t := sc.stack.Get(i)
		if isFalse(t) {
			return Unsatisfiable, nil
		}
		if !isTrue(t) {
			allTrue = false
		}
	}
	if allTrue {
		return Satisfiable, nil
	}
	return Unknown, nil
}

// GetUnsatCore returns the subset of asserted formulas that participated
// in the most recent Unsatisfiable answer.
func (sc *SolvingContext) GetUnsatCore() (core []Term, err error) {
	defer Recover(&err)
	if !sc.opts.ProduceUnsatCores {
		usageErrorf("get_unsat_core requires the produce_unsat_cores option")
	}
	if sc.last != Unsatisfiable {
		usageErrorf("get_unsat_core requires an unsat result")
	}
	return append([]Term{}, sc.core...), nil
}

// GetUnsatAssumptions returns the failed assumptions of the most recent
// check_sat call.
func (sc *SolvingContext) GetUnsatAssumptions() (failed []Term, err error) {
	defer Recover(&err)
	if sc.last != Unsatisfiable {
		usageErrorf("get_unsat_assumptions requires an unsat result")
	}
	if len(sc.assumed) == 0 {
		usageErrorf("get_unsat_assumptions requires assumptions on the last check")
	}
	return append([]Term{}, sc.failed...), nil
}
