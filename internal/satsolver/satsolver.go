// Package satsolver defines the abstract port to the embedded CDCL engine
// and its default pure-Go backend. The port mirrors gini's incremental
// interface (Add with zero-terminated clauses, Assume/Solve/Why/Value), so
// the AIG layer's Tseitin encoding can stream clauses straight into any
// backend that speaks it.
package satsolver

import (
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Result is the three-valued outcome of a Solve call, following gini's
// 1/0/-1 convention.
type Result int

const (
	Unsat   Result = -1
	Unknown Result = 0
	Sat     Result = 1
)

// Port is the solver-side contract. All literal traffic uses gini's z.Lit
// representation so the AIG circuit and the SAT instance share one literal
// space and no translation maps are needed.
type Port interface {
	// Lit returns a fresh variable's positive literal.
	Lit() z.Lit
	// Add appends a literal to the current clause; z.LitNull ends it.
	Add(m z.Lit)
	// Assume adds assumptions for the next Solve only.
	Assume(ms ...z.Lit)
	// Solve runs the CDCL engine. A non-nil stop is polled about every
	// 10ms while the search runs, and a true stop aborts it with Unknown;
	// a nil stop solves to completion.
	Solve(stop func() bool) Result
	// Value reports the model value of m after a Sat result.
	Value(m z.Lit) bool
	// Why returns the failed assumptions after an Unsat result under
	// assumptions.
	Why() []z.Lit
}

// giniPort drives a gini.Gini instance. The stop predicate is polled via
// gini's asynchronous solve handle so cancellation latency is bounded by
// the poll interval, not by the full solve.
type giniPort struct {
	g *gini.Gini
}

// New returns the default backend. The name parameter is not used: every
// sat_solver mode resolves to the in-process engine in this build.
func New(name string) Port {
	return &giniPort{g: gini.New()}
}

func (p *giniPort) Lit() z.Lit         { return p.g.Lit() }
func (p *giniPort) Add(m z.Lit)        { p.g.Add(m) }
func (p *giniPort) Assume(ms ...z.Lit) { p.g.Assume(ms...) }

func (p *giniPort) Solve(stop func() bool) Result {
	if stop == nil {
		return Result(p.g.Solve())
	}
	h := p.g.GoSolve()
	for {
		if stop() {
			return Result(h.Stop())
		}
		if r, done := h.Test(); done {
			return Result(r)
		}
		r := h.Try(10 * time.Millisecond)
		if r != 0 {
			return Result(r)
		}
	}
}

func (p *giniPort) Value(m z.Lit) bool { return p.g.Value(m) }

func (p *giniPort) Why() []z.Lit { return p.g.Why(nil) }
