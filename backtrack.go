package bitwuzla

// Backtrackable is implemented by every component that caches per-level
// derived data (preprocessor substitutions, bit-blasting maps, the UF
// application set). Components register with the BacktrackManager and are
// notified around each push/pop so all caches stay level-consistent.
type Backtrackable interface {
	OnPush(level int)
	OnPop(level int)
}

// BacktrackManager tracks the assertion-stack level and fans push/pop
// notifications out to registered components, replacing the scope-guard
// pattern a RAII language would use here with an explicit registry.
type BacktrackManager struct {
	level      int
	components []Backtrackable
}

func NewBacktrackManager() *BacktrackManager {
	return &BacktrackManager{}
}

func (bm *BacktrackManager) Level() int { return bm.level }

// Register adds a component; it will see every subsequent push/pop.
func (bm *BacktrackManager) Register(c Backtrackable) {
	bm.components = append(bm.components, c)
}

func (bm *BacktrackManager) Push() {
	bm.level++
	for _, c := range bm.components {
		c.OnPush(bm.level)
	}
}

func (bm *BacktrackManager) Pop() {
	if bm.level == 0 {
		usageErrorf("pop past the root assertion level")
	}
	for _, c := range bm.components {
		c.OnPop(bm.level)
	}
	bm.level--
}

// assertion is one (level, term) pair on the stack. original is the term as
// the user asserted it, before any preprocessing replaced term; it is what
// unsat cores report.
type assertion struct {
	level    int
	term     Term
	original Term
}

// AssertionStack is the ordered sequence of (level, term) pairs behind a
// SolvingContext. Levels are non-decreasing; Push opens a new level, Pop
// discards every pair at the popped level.
type AssertionStack struct {
	entries []assertion
	bm      *BacktrackManager
}

func NewAssertionStack(bm *BacktrackManager) *AssertionStack {
	s := &AssertionStack{bm: bm}
	bm.Register(s)
	return s
}

func (s *AssertionStack) Len() int { return len(s.entries) }

func (s *AssertionStack) Append(t Term) {
	s.entries = append(s.entries, assertion{level: s.bm.Level(), term: t, original: t})
}

// Get and Original return the current (possibly preprocessed) and the
// as-asserted form of entry i.
func (s *AssertionStack) Get(i int) Term      { return s.entries[i].term }
func (s *AssertionStack) Original(i int) Term { return s.entries[i].original }
func (s *AssertionStack) LevelOf(i int) int   { return s.entries[i].level }

// Replace installs the preprocessed form of entry i, keeping its provenance.
func (s *AssertionStack) Replace(i int, t Term) {
	s.entries[i].term = t
}

func (s *AssertionStack) OnPush(level int) {}

func (s *AssertionStack) OnPop(level int) {
	n := len(s.entries)
	for n > 0 && s.entries[n-1].level >= level {
		n--
	}
	s.entries = s.entries[:n]
}

// AssertionView is a monotone cursor over an AssertionStack so the
// preprocessor can resume from where it left off instead of re-reading the
// whole stack on every check. The cursor rewinds on pop along with the
// entries it pointed past.
type AssertionView struct {
	stack *AssertionStack
	next  int
}

func NewAssertionView(stack *AssertionStack, bm *BacktrackManager) *AssertionView {
	v := &AssertionView{stack: stack}
	bm.Register(v)
	return v
}

// Next returns the index of the next unseen assertion and advances the
// cursor; ok is false when the view is exhausted.
func (v *AssertionView) Next() (int, bool) {
	if v.next >= v.stack.Len() {
		return 0, false
	}
	i := v.next
	v.next++
	return i, true
}

func (v *AssertionView) OnPush(level int) {}

func (v *AssertionView) OnPop(level int) {
	if v.next > v.stack.Len() {
		v.next = v.stack.Len()
	}
}
