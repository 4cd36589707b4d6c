package bitwuzla

import "fmt"

// SortKind tags a Sort's family.
type SortKind int

const (
	SortBool SortKind = iota
	SortBV
	SortFP
	SortRM
	SortArray
	SortFun
	SortUninterpreted
)

func (k SortKind) String() string {
	switch k {
	case SortBool:
		return "Bool"
	case SortBV:
		return "BitVec"
	case SortFP:
		return "FloatingPoint"
	case SortRM:
		return "RoundingMode"
	case SortArray:
		return "Array"
	case SortFun:
		return "Fun"
	case SortUninterpreted:
		return "Uninterpreted"
	default:
		return "?"
	}
}

// sortData is the immutable, hash-consed representation backing a Sort
// handle. Two Sort values compare equal (via Sort.Equal) iff their ids
// agree, which holds iff their structure agrees, per spec.md §3.
type sortData struct {
	id       uint64
	kind     SortKind
	bvWidth  uint32 // SortBV
	fpExp    uint32 // SortFP
	fpSig    uint32 // SortFP
	children []*sortData
	// SortUninterpreted
	name string
}

// Sort is an opaque handle to a hash-consed sortData. Handles carry no
// reference count; a sort stays alive as long as the TermManager that
// interned it.
type Sort struct {
	mgr  *TermManager
	data *sortData
}

func (s Sort) Kind() SortKind { return s.data.kind }
func (s Sort) id() uint64     { return s.data.id }

// Equal reports structural-equals-by-identifier equality, per spec.md §3.
func (s Sort) Equal(o Sort) bool { return s.data == o.data }

func (s Sort) IsBool() bool          { return s.data.kind == SortBool }
func (s Sort) IsBV() bool            { return s.data.kind == SortBV }
func (s Sort) IsFP() bool            { return s.data.kind == SortFP }
func (s Sort) IsRM() bool            { return s.data.kind == SortRM }
func (s Sort) IsArray() bool         { return s.data.kind == SortArray }
func (s Sort) IsFun() bool           { return s.data.kind == SortFun }
func (s Sort) IsUninterpreted() bool { return s.data.kind == SortUninterpreted }

// BVWidth returns the bit-width of a BV sort; panics (InternalError) on any
// other kind, since callers are expected to check Kind()/IsBV() first.
func (s Sort) BVWidth() uint32 {
	if s.data.kind != SortBV {
		internalErrorf("BVWidth() on non-BV sort %s", s.data.kind)
	}
	return s.data.bvWidth
}

// FPExpBits and FPSigBits return the (e, s) parameters of an FP sort.
func (s Sort) FPExpBits() uint32 {
	if s.data.kind != SortFP {
		internalErrorf("FPExpBits() on non-FP sort %s", s.data.kind)
	}
	return s.data.fpExp
}

func (s Sort) FPSigBits() uint32 {
	if s.data.kind != SortFP {
		internalErrorf("FPSigBits() on non-FP sort %s", s.data.kind)
	}
	return s.data.fpSig
}

// FPBVWidth is the width of the packed sign+exponent+significand encoding:
// 1 + e + (s - 1), the significand field excludes the implicit leading bit.
func (s Sort) FPBVWidth() uint32 {
	return 1 + s.FPExpBits() + s.FPSigBits() - 1
}

// ArrayIndex and ArrayElement return an Array sort's child sorts.
func (s Sort) ArrayIndex() Sort {
	if s.data.kind != SortArray {
		internalErrorf("ArrayIndex() on non-array sort %s", s.data.kind)
	}
	return Sort{s.mgr, s.data.children[0]}
}

func (s Sort) ArrayElement() Sort {
	if s.data.kind != SortArray {
		internalErrorf("ArrayElement() on non-array sort %s", s.data.kind)
	}
	return Sort{s.mgr, s.data.children[1]}
}

// FunDomain and FunCodomain return a function sort's argument and result
// sorts.
func (s Sort) FunDomain() []Sort {
	if s.data.kind != SortFun {
		internalErrorf("FunDomain() on non-fun sort %s", s.data.kind)
	}
	out := make([]Sort, len(s.data.children)-1)
	for i, c := range s.data.children[:len(s.data.children)-1] {
		out[i] = Sort{s.mgr, c}
	}
	return out
}

func (s Sort) FunCodomain() Sort {
	if s.data.kind != SortFun {
		internalErrorf("FunCodomain() on non-fun sort %s", s.data.kind)
	}
	return Sort{s.mgr, s.data.children[len(s.data.children)-1]}
}

func (s Sort) String() string {
	switch s.data.kind {
	case SortBool:
		return "Bool"
	case SortBV:
		return fmt.Sprintf("(_ BitVec %d)", s.data.bvWidth)
	case SortFP:
		return fmt.Sprintf("(_ FloatingPoint %d %d)", s.data.fpExp, s.data.fpSig)
	case SortRM:
		return "RoundingMode"
	case SortArray:
		return fmt.Sprintf("(Array %s %s)", s.ArrayIndex(), s.ArrayElement())
	case SortFun:
		dom := s.FunDomain()
		str := "("
		for i, d := range dom {
			if i > 0 {
				str += " "
			}
			str += d.String()
		}
		return str + ") -> " + s.FunCodomain().String()
	case SortUninterpreted:
		return s.data.name
	default:
		return "?"
	}
}

func sortHashKey(kind SortKind, width, e, sg uint32, children []*sortData, name string) uint64 {
	h := newStructHasher()
	h.writeUint64(uint64(kind))
	h.writeUint64(uint64(width))
	h.writeUint64(uint64(e))
	h.writeUint64(uint64(sg))
	for _, c := range children {
		h.writeUint64(c.id)
	}
	h.writeString(name)
	return h.sum()
}

func sortStructEqual(a *sortData, kind SortKind, width, e, sg uint32, children []*sortData, name string) bool {
	if a.kind != kind || a.bvWidth != width || a.fpExp != e || a.fpSig != sg || a.name != name {
		return false
	}
	if len(a.children) != len(children) {
		return false
	}
	for i := range children {
		if a.children[i] != children[i] {
			return false
		}
	}
	return true
}

func (tm *TermManager) internSort(kind SortKind, width, e, sg uint32, children []*sortData, name string) Sort {
	h := sortHashKey(kind, width, e, sg, children, name)
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for _, cand := range tm.sortTable[h] {
		if sortStructEqual(cand, kind, width, e, sg, children, name) {
			return Sort{tm, cand}
		}
	}
	tm.nextSortID++
	d := &sortData{
		id: tm.nextSortID, kind: kind, bvWidth: width, fpExp: e, fpSig: sg,
		children: children, name: name,
	}
	tm.sortTable[h] = append(tm.sortTable[h], d)
	return Sort{tm, d}
}

// MkBoolSort returns the Boolean sort.
func (tm *TermManager) MkBoolSort() Sort {
	return tm.internSort(SortBool, 0, 0, 0, nil, "")
}

// MkBVSort returns the bit-vector sort of the given width (w >= 1).
func (tm *TermManager) MkBVSort(width uint32) Sort {
	if width < 1 {
		typeErrorf("BV sort width must be >= 1, got %d", width)
	}
	return tm.internSort(SortBV, width, 0, 0, nil, "")
}

// MkFPSort returns the floating-point sort with e exponent bits and s
// significand bits (including the implicit leading bit); e >= 2, s >= 2.
func (tm *TermManager) MkFPSort(expBits, sigBits uint32) Sort {
	if expBits < 2 || sigBits < 2 {
		typeErrorf("FP sort requires exp_bits>=2 and sig_bits>=2, got (%d,%d)", expBits, sigBits)
	}
	return tm.internSort(SortFP, 0, expBits, sigBits, nil, "")
}

// MkRMSort returns the rounding-mode sort.
func (tm *TermManager) MkRMSort() Sort {
	return tm.internSort(SortRM, 0, 0, 0, nil, "")
}

// MkArraySort returns the array sort mapping index to element.
func (tm *TermManager) MkArraySort(index, element Sort) Sort {
	return tm.internSort(SortArray, 0, 0, 0, []*sortData{index.data, element.data}, "")
}

// MkFunSort returns the function sort domain -> codomain; domain must be
// non-empty.
func (tm *TermManager) MkFunSort(domain []Sort, codomain Sort) Sort {
	if len(domain) == 0 {
		typeErrorf("function sort requires at least one domain sort")
	}
	children := make([]*sortData, len(domain)+1)
	for i, d := range domain {
		children[i] = d.data
	}
	children[len(domain)] = codomain.data
	return tm.internSort(SortFun, 0, 0, 0, children, "")
}

// MkUninterpretedSort returns a fresh or previously-interned uninterpreted
// sort named sym. Two calls with the same sym return the same sort.
func (tm *TermManager) MkUninterpretedSort(sym string) Sort {
	return tm.internSort(SortUninterpreted, 0, 0, 0, nil, sym)
}
