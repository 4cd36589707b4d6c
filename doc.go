// Package bitwuzla is a native Go SMT solver core for the theories of
// fixed-width bit-vectors, IEEE 754 floating-point arithmetic, arrays and
// uninterpreted functions.
//
// # Basic Usage
//
// Create a term manager and a solving context:
//
//	tm := bitwuzla.NewTermManager()
//	sc, _ := bitwuzla.NewSolvingContext(tm, bitwuzla.DefaultOptions())
//
// Create constants and constraints:
//
//	bv8 := tm.MkBVSort(8)
//	x := tm.MkConst(bv8, "x")
//	y := tm.MkConst(bv8, "y")
//	sc.Assert(tm.MkEqual(tm.MkBVAdd(x, y), tm.MkBVValueUint64(bv8, 10)))
//	sc.Assert(tm.MkBVUgt(x, y))
//
// Check satisfiability and read the model:
//
//	if r, _ := sc.CheckSat(); r == bitwuzla.Satisfiable {
//	    xVal, _ := sc.GetValue(x)
//	    fmt.Println("x =", xVal)
//	}
//
// # Architecture
//
// Assertions flow through a fixed-point preprocessing pipeline, the
// floating-point word-blaster, and the bit-blaster, which encodes the
// resulting bit-vector constraints as an And-Inverter Graph and Tseitin
// CNF for the embedded SAT engine. After each satisfying assignment the
// congruence engine checks every uninterpreted-function and array read
// under the model and refines the abstraction with lemmas until it is
// consistent.
//
// # Memory Management
//
// Sorts and terms are hash-consed by their TermManager and live for its
// lifetime; handles are cheap value types and two handles are equal
// exactly when their identifiers agree. A term manager must not be shared
// across goroutines running separate contexts.
package bitwuzla
