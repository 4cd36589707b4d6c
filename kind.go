package bitwuzla

// Kind tags every Term. Dispatch throughout the package is a single switch
// over Kind rather than a virtual call per node, per spec.md's "polymorphism
// over kind" design note.
type Kind int

const (
	KindInvalid Kind = iota

	// Leaves.
	KindValue    // concrete BV/FP/RM/Bool payload
	KindConstant // free uninterpreted symbol
	KindVariable // bound symbol introduced by a binder

	// Boolean.
	KindAnd
	KindOr
	KindNot
	KindImplies
	KindIff
	KindXor
	KindIte
	KindEqual
	KindDistinct

	// Quantifiers, functions.
	KindForall
	KindExists
	KindLambda
	KindApply

	// Arrays.
	KindSelect
	KindStore
	KindConstArray

	// Bit-vector.
	KindBVAdd
	KindBVAnd
	KindBVAshr
	KindBVComp
	KindBVConcat
	KindBVDec
	KindBVInc
	KindBVMul
	KindBVNand
	KindBVNeg
	KindBVNor
	KindBVNot
	KindBVOr
	KindBVRedand
	KindBVRedor
	KindBVRedxor
	KindBVRol
	KindBVRor
	KindBVSaddo
	KindBVSdiv
	KindBVSdivo
	KindBVSge
	KindBVSgt
	KindBVShl
	KindBVShr
	KindBVSle
	KindBVSlt
	KindBVSmod
	KindBVSmulo
	KindBVSrem
	KindBVSsubo
	KindBVSub
	KindBVUaddo
	KindBVUdiv
	KindBVUge
	KindBVUgt
	KindBVUle
	KindBVUlt
	KindBVUmulo
	KindBVUrem
	KindBVUsubo
	KindBVXnor
	KindBVXor
	// Indexed BV.
	KindBVExtract    // indices [upper, lower]
	KindBVRepeat     // indices [n]
	KindBVRoli       // indices [n]
	KindBVRori       // indices [n]
	KindBVSignExtend // indices [n]
	KindBVZeroExtend // indices [n]

	// Floating-point.
	KindFPAbs
	KindFPAdd
	KindFPDiv
	KindFPEqual
	KindFPFma
	KindFPFp // pack sign/exp/sig
	KindFPGeq
	KindFPGt
	KindFPIsInf
	KindFPIsNan
	KindFPIsNeg
	KindFPIsNormal
	KindFPIsPos
	KindFPIsSubnormal
	KindFPIsZero
	KindFPLeq
	KindFPLt
	KindFPMax
	KindFPMin
	KindFPMul
	KindFPNeg
	KindFPRem
	KindFPRti
	KindFPSqrt
	KindFPSub
	KindFPToFPFromBV
	KindFPToFPFromFP
	KindFPToFPFromSBV
	KindFPToFPFromUBV
	KindFPToSBV // indices [width]
	KindFPToUBV // indices [width]

	kindCount
)

var kindNames = map[Kind]string{
	KindValue: "VALUE", KindConstant: "CONSTANT", KindVariable: "VARIABLE",
	KindAnd: "AND", KindOr: "OR", KindNot: "NOT", KindImplies: "IMPLIES",
	KindIff: "IFF", KindXor: "XOR", KindIte: "ITE", KindEqual: "EQUAL",
	KindDistinct: "DISTINCT",
	KindForall:   "FORALL", KindExists: "EXISTS", KindLambda: "LAMBDA", KindApply: "APPLY",
	KindSelect: "SELECT", KindStore: "STORE", KindConstArray: "CONST_ARRAY",
	KindBVAdd: "BV_ADD", KindBVAnd: "BV_AND", KindBVAshr: "BV_ASHR", KindBVComp: "BV_COMP",
	KindBVConcat: "BV_CONCAT", KindBVDec: "BV_DEC", KindBVInc: "BV_INC", KindBVMul: "BV_MUL",
	KindBVNand: "BV_NAND", KindBVNeg: "BV_NEG", KindBVNor: "BV_NOR", KindBVNot: "BV_NOT",
	KindBVOr: "BV_OR", KindBVRedand: "BV_REDAND", KindBVRedor: "BV_REDOR", KindBVRedxor: "BV_REDXOR",
	KindBVRol: "BV_ROL", KindBVRor: "BV_ROR", KindBVSaddo: "BV_SADDO", KindBVSdiv: "BV_SDIV",
	KindBVSdivo: "BV_SDIVO", KindBVSge: "BV_SGE", KindBVSgt: "BV_SGT", KindBVShl: "BV_SHL",
	KindBVShr: "BV_SHR", KindBVSle: "BV_SLE", KindBVSlt: "BV_SLT", KindBVSmod: "BV_SMOD",
	KindBVSmulo: "BV_SMULO", KindBVSrem: "BV_SREM", KindBVSsubo: "BV_SSUBO", KindBVSub: "BV_SUB",
	KindBVUaddo: "BV_UADDO", KindBVUdiv: "BV_UDIV", KindBVUge: "BV_UGE", KindBVUgt: "BV_UGT",
	KindBVUle: "BV_ULE", KindBVUlt: "BV_ULT", KindBVUmulo: "BV_UMULO", KindBVUrem: "BV_UREM",
	KindBVUsubo: "BV_USUBO", KindBVXnor: "BV_XNOR", KindBVXor: "BV_XOR",
	KindBVExtract: "BV_EXTRACT", KindBVRepeat: "BV_REPEAT", KindBVRoli: "BV_ROLI",
	KindBVRori: "BV_RORI", KindBVSignExtend: "BV_SIGN_EXTEND", KindBVZeroExtend: "BV_ZERO_EXTEND",
	KindFPAbs: "FP_ABS", KindFPAdd: "FP_ADD", KindFPDiv: "FP_DIV", KindFPEqual: "FP_EQUAL",
	KindFPFma: "FP_FMA", KindFPFp: "FP_FP", KindFPGeq: "FP_GEQ", KindFPGt: "FP_GT",
	KindFPIsInf: "FP_IS_INF", KindFPIsNan: "FP_IS_NAN", KindFPIsNeg: "FP_IS_NEG",
	KindFPIsNormal: "FP_IS_NORMAL", KindFPIsPos: "FP_IS_POS", KindFPIsSubnormal: "FP_IS_SUBNORMAL",
	KindFPIsZero: "FP_IS_ZERO", KindFPLeq: "FP_LEQ", KindFPLt: "FP_LT", KindFPMax: "FP_MAX",
	KindFPMin: "FP_MIN", KindFPMul: "FP_MUL", KindFPNeg: "FP_NEG", KindFPRem: "FP_REM",
	KindFPRti: "FP_RTI", KindFPSqrt: "FP_SQRT", KindFPSub: "FP_SUB",
	KindFPToFPFromBV: "FP_TO_FP_FROM_BV", KindFPToFPFromFP: "FP_TO_FP_FROM_FP",
	KindFPToFPFromSBV: "FP_TO_FP_FROM_SBV", KindFPToFPFromUBV: "FP_TO_FP_FROM_UBV",
	KindFPToSBV: "FP_TO_SBV", KindFPToUBV: "FP_TO_UBV",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "INVALID"
}

// isIndexed reports whether a Kind carries an index vector (extract bounds,
// repeat/extend counts, conversion target widths).
func (k Kind) isIndexed() bool {
	switch k {
	case KindBVExtract, KindBVRepeat, KindBVRoli, KindBVRori,
		KindBVSignExtend, KindBVZeroExtend, KindFPToSBV, KindFPToUBV:
		return true
	default:
		return false
	}
}
