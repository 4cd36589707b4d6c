package bitwuzla

// BVSolverMode selects the BV decision procedure.
type BVSolverMode int

const (
	BVSolverBitblast BVSolverMode = iota
	BVSolverProp
	BVSolverPreprop
)

func (m BVSolverMode) String() string {
	switch m {
	case BVSolverBitblast:
		return "bitblast"
	case BVSolverProp:
		return "prop"
	case BVSolverPreprop:
		return "preprop"
	default:
		return "?"
	}
}

// SATSolverMode selects the embedded CDCL engine. Only the pure-Go gini
// backend is wired in-process; the named external engines are accepted and
// recorded so a configuration written for another build keeps validating,
// but they resolve to the same in-process port.
type SATSolverMode int

const (
	SATSolverGini SATSolverMode = iota
	SATSolverCadical
	SATSolverCryptominisat
	SATSolverKissat
	SATSolverLingeling
)

func (m SATSolverMode) String() string {
	switch m {
	case SATSolverGini:
		return "gini"
	case SATSolverCadical:
		return "cadical"
	case SATSolverCryptominisat:
		return "cryptominisat"
	case SATSolverKissat:
		return "kissat"
	case SATSolverLingeling:
		return "lingeling"
	default:
		return "?"
	}
}

// PropPathSel selects the propagation engine's path selection heuristic.
type PropPathSel int

const (
	PropPathEssential PropPathSel = iota
	PropPathRandom
)

// PropOptions tunes the propagation-based local search engine selected by
// BVSolver = prop/preprop. The knobs are recorded but not validated, and
// this build downgrades prop solving to bitblast.
type PropOptions struct {
	ConstBits           bool
	IneqBounds          bool
	NProps              uint64
	NUpdates            uint64
	PathSel             PropPathSel
	ProbPickInvValue    uint64
	ProbPickRandomInput uint64
	Sext                bool
	OptLtConcatSext     bool
}

// PreprocessOptions toggles individual preprocessing passes.
type PreprocessOptions struct {
	ContradictingAnds  bool
	ElimBVExtracts     bool
	EmbeddedConstr     bool
	FlattenAnd         bool
	Normalize          bool
	NormalizeShareAware bool
	SkeletonPreproc    bool
	VariableSubst      bool
	VariableSubstNormEq bool
	VariableSubstNormBVIneq bool
}

// Options is the configuration record bound to a SolvingContext at
// construction. The context copies it by value, so mutating an Options after
// NewSolvingContext does not affect the existing instance.
type Options struct {
	Incremental       bool
	ProduceModels     bool
	ProduceUnsatCores bool
	Seed              uint64
	Verbosity         uint64
	LogLevel          uint64
	BVSolver          BVSolverMode
	SATSolver         SATSolverMode
	RewriteLevel      uint64
	SMTCompMode       bool
	Prop              PropOptions
	Preprocess        PreprocessOptions
}

// DefaultOptions mirrors the solver's stock configuration: rewrite level 2,
// every preprocessing pass on, bitblast BV solving on the gini backend.
func DefaultOptions() Options {
	return Options{
		Incremental:   false,
		ProduceModels: true,
		RewriteLevel:  2,
		BVSolver:      BVSolverBitblast,
		SATSolver:     SATSolverGini,
		Prop: PropOptions{
			ConstBits: true,
			NProps:    0,
			NUpdates:  0,
			PathSel:   PropPathEssential,
		},
		Preprocess: PreprocessOptions{
			ContradictingAnds:   true,
			EmbeddedConstr:      true,
			FlattenAnd:          true,
			Normalize:           true,
			SkeletonPreproc:     true,
			VariableSubst:       true,
			VariableSubstNormEq: true,
		},
	}
}

// validate is called once when the options record is bound to a context.
func (o *Options) validate() error {
	if o.RewriteLevel > 2 {
		return newErr(UsageErrorKind, "rewrite_level must be 0..2, got %d", o.RewriteLevel)
	}
	if o.Verbosity > 4 {
		return newErr(UsageErrorKind, "verbosity must be 0..4, got %d", o.Verbosity)
	}
	switch o.BVSolver {
	case BVSolverBitblast, BVSolverProp, BVSolverPreprop:
	default:
		return newErr(UsageErrorKind, "unknown bv_solver mode %d", o.BVSolver)
	}
	switch o.SATSolver {
	case SATSolverGini, SATSolverCadical, SATSolverCryptominisat, SATSolverKissat, SATSolverLingeling:
	default:
		return newErr(UsageErrorKind, "unknown sat_solver mode %d", o.SATSolver)
	}
	return nil
}
