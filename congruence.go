package bitwuzla

import (
	"strings"

	"github.com/rs/zerolog"
)

// congruenceEngine refines the uninterpreted-function abstraction after
// each SAT round. Every registered application (APPLY, and array SELECT,
// which the bit-blaster abstracts the same way) is grouped by its function
// symbol and the model values of its arguments; two applications in one
// group whose results disagree yield the lemma
//
//	(a1 = b1 ∧ ... ∧ an = bn) ⇒ f(a...) = f(b...)
//
// and another SAT round. Finite BV domains bound the number of distinct
// argument tuples, so the loop reaches a fixed point.
type congruenceEngine struct {
	tm  *TermManager
	log zerolog.Logger
}

func newCongruenceEngine(tm *TermManager, log zerolog.Logger) *congruenceEngine {
	return &congruenceEngine{tm: tm, log: log}
}

type appGroup struct {
	app    Term
	result Term
}

// Check returns the congruence lemmas violated by the current model; an
// empty result means the model is congruence-consistent.
func (ce *congruenceEngine) Check(bb *bitBlaster) []Term {
	groups := make(map[string]appGroup)
	var lemmas []Term
	for _, app := range bb.Apps() {
		fn := app.Child(0)
		var key strings.Builder
		key.WriteString(itoa(fn.id()))
		for i := 1; i < app.NumChildren(); i++ {
			key.WriteByte('|')
			key.WriteString(bb.appValue(app.Child(i)).String())
		}
		result := bb.appValue(app)
		prev, seen := groups[key.String()]
		if !seen {
			groups[key.String()] = appGroup{app: app, result: result}
			continue
		}
		if prev.result.Equal(result) {
			continue
		}
		lemmas = append(lemmas, ce.lemma(prev.app, app))
	}
	if len(lemmas) > 0 {
		ce.log.Debug().Int("lemmas", len(lemmas)).Msg("congruence conflicts found")
	}
	return lemmas
}

func (ce *congruenceEngine) lemma(a, b Term) Term {
	tm := ce.tm
	var eqs []Term
	for i := 1; i < a.NumChildren(); i++ {
		eqs = append(eqs, tm.MkEqual(a.Child(i), b.Child(i)))
	}
	ante := eqs[0]
	if len(eqs) > 1 {
		ante = tm.MkAnd(eqs...)
	}
	return tm.MkImplies(ante, tm.MkEqual(a, b))
}
