package bitwuzla

import (
	"fmt"
	"io"
)

// SMT-LIB v2 printing. Shared sub-DAGs encountered more than once inside an
// assertion are factored through let bindings; anonymous constants print as
// @bzla.const_<id> and variables as @bzla.var_<id>.

var smtOpNames = map[Kind]string{
	KindAnd: "and", KindOr: "or", KindNot: "not", KindImplies: "=>",
	KindIff: "=", KindXor: "xor", KindIte: "ite", KindEqual: "=",
	KindDistinct: "distinct",
	KindSelect:   "select", KindStore: "store",
	KindBVAdd: "bvadd", KindBVAnd: "bvand", KindBVAshr: "bvashr",
	KindBVComp: "bvcomp", KindBVConcat: "concat", KindBVDec: "bvdec",
	KindBVInc: "bvinc", KindBVMul: "bvmul", KindBVNand: "bvnand",
	KindBVNeg: "bvneg", KindBVNor: "bvnor", KindBVNot: "bvnot",
	KindBVOr: "bvor", KindBVRedand: "bvredand", KindBVRedor: "bvredor",
	KindBVRedxor: "bvredxor", KindBVRol: "bvrol", KindBVRor: "bvror",
	KindBVSaddo: "bvsaddo", KindBVSdiv: "bvsdiv", KindBVSdivo: "bvsdivo",
	KindBVSge: "bvsge", KindBVSgt: "bvsgt", KindBVShl: "bvshl",
	KindBVShr: "bvlshr", KindBVSle: "bvsle", KindBVSlt: "bvslt",
	KindBVSmod: "bvsmod", KindBVSmulo: "bvsmulo", KindBVSrem: "bvsrem",
	KindBVSsubo: "bvssubo", KindBVSub: "bvsub", KindBVUaddo: "bvuaddo",
	KindBVUdiv: "bvudiv", KindBVUge: "bvuge", KindBVUgt: "bvugt",
	KindBVUle: "bvule", KindBVUlt: "bvult", KindBVUmulo: "bvumulo",
	KindBVUrem: "bvurem", KindBVUsubo: "bvusubo", KindBVXnor: "bvxnor",
	KindBVXor: "bvxor",
	KindFPAbs: "fp.abs", KindFPAdd: "fp.add", KindFPDiv: "fp.div",
	KindFPEqual: "fp.eq", KindFPFma: "fp.fma", KindFPFp: "fp",
	KindFPGeq: "fp.geq", KindFPGt: "fp.gt", KindFPIsInf: "fp.isInfinite",
	KindFPIsNan: "fp.isNaN", KindFPIsNeg: "fp.isNegative",
	KindFPIsNormal: "fp.isNormal", KindFPIsPos: "fp.isPositive",
	KindFPIsSubnormal: "fp.isSubnormal", KindFPIsZero: "fp.isZero",
	KindFPLeq: "fp.leq", KindFPLt: "fp.lt", KindFPMax: "fp.max",
	KindFPMin: "fp.min", KindFPMul: "fp.mul", KindFPNeg: "fp.neg",
	KindFPRem: "fp.rem", KindFPRti: "fp.roundToIntegral",
	KindFPSqrt: "fp.sqrt", KindFPSub: "fp.sub",
}

type printer struct {
	tm  *TermManager
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// DumpFormula writes the asserted formulas in the given format ("smt2").
func (sc *SolvingContext) DumpFormula(w io.Writer, format string) (err error) {
	defer Recover(&err)
	if format != "smt2" {
		usageErrorf("unsupported dump format %q", format)
	}
	p := &printer{tm: sc.tm, w: w}
	p.printf("(set-logic ALL)\n")

	// Declarations, in first-occurrence order across all assertions.
	declared := make(map[*termData]bool)
	declaredSorts := make(map[*sortData]bool)
	for i := 0; i < sc.stack.Len(); i++ {
		visitDAG(sc.stack.Original(i), func(t Term) {
			if t.Sort().IsUninterpreted() && !declaredSorts[t.Sort().data] {
				declaredSorts[t.Sort().data] = true
				p.printf("(declare-sort %s 0)\n", t.Sort())
			}
			if !t.IsConstant() || declared[t.data] {
				return
			}
			declared[t.data] = true
			name := t.Symbol()
			if name == "" {
				name = sc.tm.anonName(t)
			}
			if t.Sort().IsFun() {
				p.printf("(declare-fun %s (", name)
				for j, d := range t.Sort().FunDomain() {
					if j > 0 {
						p.printf(" ")
					}
					p.printf("%s", d)
				}
				p.printf(") %s)\n", t.Sort().FunCodomain())
			} else {
				p.printf("(declare-const %s %s)\n", name, t.Sort())
			}
		})
	}

	for i := 0; i < sc.stack.Len(); i++ {
		p.printf("(assert ")
		p.printTermLet(sc.stack.Original(i))
		p.printf(")\n")
	}
	p.printf("(check-sat)\n")
	return p.err
}

// printTermLet prints t with let bindings for every non-leaf sub-DAG that
// occurs more than once.
func (p *printer) printTermLet(t Term) {
	counts := make(map[*termData]int)
	var order []Term
	seen := make(map[*termData]bool)
	var walk func(u Term)
	walk = func(u Term) {
		counts[u.data]++
		if seen[u.data] {
			return
		}
		seen[u.data] = true
		for _, c := range u.Children() {
			walk(c)
		}
		if u.NumChildren() > 0 {
			order = append(order, u)
		}
	}
	walk(t)

	names := make(map[*termData]string)
	n := 0
	for _, u := range order {
		if counts[u.data] > 1 && u.data != t.data {
			n++
			names[u.data] = "$e" + itoa(uint64(n))
		}
	}
	if n == 0 {
		p.printTerm(t, nil)
		return
	}
	// Bind in topological order via nested lets so later bindings can
	// reference earlier ones.
	opened := 0
	for _, u := range order {
		name, ok := names[u.data]
		if !ok {
			continue
		}
		p.printf("(let ((%s ", name)
		delete(names, u.data)
		p.printTerm(u, names)
		names[u.data] = name
		p.printf(")) ")
		opened++
	}
	p.printTerm(t, names)
	for i := 0; i < opened; i++ {
		p.printf(")")
	}
}

// printTerm prints t, substituting let names where bound.
func (p *printer) printTerm(t Term, names map[*termData]string) {
	if name, ok := names[t.data]; ok {
		p.printf("%s", name)
		return
	}
	tm := p.tm
	switch t.Kind() {
	case KindValue:
		p.printValue(t)
	case KindConstant, KindVariable:
		if t.Symbol() != "" {
			p.printf("%s", t.Symbol())
		} else {
			p.printf("%s", tm.anonName(t))
		}
	case KindForall, KindExists, KindLambda:
		word := map[Kind]string{KindForall: "forall", KindExists: "exists", KindLambda: "lambda"}[t.Kind()]
		v := t.Child(0)
		vname := v.Symbol()
		if vname == "" {
			vname = tm.anonName(v)
		}
		p.printf("(%s ((%s %s)) ", word, vname, v.Sort())
		p.printTerm(t.Child(1), names)
		p.printf(")")
	case KindApply:
		p.printf("(")
		for i, c := range t.Children() {
			if i > 0 {
				p.printf(" ")
			}
			p.printTerm(c, names)
		}
		p.printf(")")
	case KindConstArray:
		p.printf("((as const %s) ", t.Sort())
		p.printTerm(t.Child(0), names)
		p.printf(")")
	case KindBVExtract:
		p.printIndexed(t, "extract", names)
	case KindBVRepeat:
		p.printIndexed(t, "repeat", names)
	case KindBVRoli:
		p.printIndexed(t, "rotate_left", names)
	case KindBVRori:
		p.printIndexed(t, "rotate_right", names)
	case KindBVSignExtend:
		p.printIndexed(t, "sign_extend", names)
	case KindBVZeroExtend:
		p.printIndexed(t, "zero_extend", names)
	case KindFPToFPFromBV, KindFPToFPFromFP, KindFPToFPFromSBV:
		p.printIndexed(t, "to_fp", names)
	case KindFPToFPFromUBV:
		p.printIndexed(t, "to_fp_unsigned", names)
	case KindFPToSBV:
		p.printIndexed(t, "fp.to_sbv", names)
	case KindFPToUBV:
		p.printIndexed(t, "fp.to_ubv", names)
	default:
		name, ok := smtOpNames[t.Kind()]
		if !ok {
			internalErrorf("printer: no SMT-LIB name for kind %s", t.Kind())
		}
		p.printf("(%s", name)
		for _, c := range t.Children() {
			p.printf(" ")
			p.printTerm(c, names)
		}
		p.printf(")")
	}
}

func (p *printer) printIndexed(t Term, op string, names map[*termData]string) {
	p.printf("((_ %s", op)
	for _, ix := range t.Indices() {
		p.printf(" %s", itoa(uint64(ix)))
	}
	p.printf(")")
	for _, c := range t.Children() {
		p.printf(" ")
		p.printTerm(c, names)
	}
	p.printf(")")
}

func (p *printer) printValue(t Term) {
	v := t.Value()
	switch t.Sort().Kind() {
	case SortBool:
		if v.Bool() {
			p.printf("true")
		} else {
			p.printf("false")
		}
	case SortBV:
		p.printf("#b%s", v.BV().ToString(2))
	case SortRM:
		p.printf("%s", v.RM())
	case SortFP:
		fp := v.FP()
		p.printf("(fp #b%s #b%s #b%s)",
			fp.sign().ToString(2), fp.exponent().ToString(2),
			fp.trailingSignificand().ToString(2))
	default:
		internalErrorf("printer: value of sort %s", t.Sort())
	}
}
