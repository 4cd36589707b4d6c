package bitwuzla

import "strings"

// termData is the immutable, hash-consed representation backing a Term
// handle, mirroring sortData's shape: identity is structural, and two Terms
// compare equal (via Term.Equal) iff their ids agree.
type termData struct {
	id       uint64
	kind     Kind
	sort     *sortData
	children []*termData
	indices  []uint32
	symbol   string
	value    *valuePayload
}

// Term is an opaque, hash-consed handle into a TermManager's term DAG.
type Term struct {
	mgr  *TermManager
	data *termData
}

func (t Term) valid() bool { return t.data != nil }

func (t Term) Kind() Kind { return t.data.kind }
func (t Term) id() uint64 { return t.data.id }

// Equal reports structural-equals-by-identifier equality.
func (t Term) Equal(o Term) bool { return t.data == o.data }

func (t Term) Sort() Sort { return Sort{t.mgr, t.data.sort} }

// NumChildren and Child expose the term's operands, per spec.md's term DAG.
func (t Term) NumChildren() int { return len(t.data.children) }
func (t Term) Child(i int) Term {
	if i < 0 || i >= len(t.data.children) {
		internalErrorf("Child(%d) out of range (%d children)", i, len(t.data.children))
	}
	return Term{t.mgr, t.data.children[i]}
}

func (t Term) Children() []Term {
	out := make([]Term, len(t.data.children))
	for i, c := range t.data.children {
		out[i] = Term{t.mgr, c}
	}
	return out
}

// Indices returns the index vector of an indexed Kind (EXTRACT bounds,
// REPEAT/ROLI/RORI counts, extend/conversion widths); empty otherwise.
func (t Term) Indices() []uint32 { return t.data.indices }

// Symbol returns the name of a CONSTANT or VARIABLE term, or "" if it is
// anonymous or not a symbol-carrying kind.
func (t Term) Symbol() string { return t.data.symbol }

func (t Term) IsValue() bool    { return t.data.kind == KindValue }
func (t Term) IsConstant() bool { return t.data.kind == KindConstant }
func (t Term) IsVariable() bool { return t.data.kind == KindVariable }

// Value returns the concrete payload of a VALUE term; nil for any other
// kind.
func (t Term) Value() *valuePayload { return t.data.value }

func (t Term) String() string {
	switch t.data.kind {
	case KindValue:
		return t.data.value.String()
	case KindConstant, KindVariable:
		if t.data.symbol != "" {
			return t.data.symbol
		}
		return t.mgr.anonName(t)
	default:
		var b strings.Builder
		b.WriteByte('(')
		b.WriteString(t.data.kind.String())
		for _, ix := range t.data.indices {
			b.WriteByte(' ')
			writeUint32(&b, ix)
		}
		for _, c := range t.data.children {
			b.WriteByte(' ')
			b.WriteString((Term{t.mgr, c}).String())
		}
		b.WriteByte(')')
		return b.String()
	}
}

func writeUint32(b *strings.Builder, v uint32) {
	b.WriteString(itoa(uint64(v)))
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// anonName produces bitwuzla's anonymous-symbol naming convention for
// unnamed constants/variables, used by the printer and by String().
func (tm *TermManager) anonName(t Term) string {
	if t.data.kind == KindVariable {
		return "@bzla.var_" + itoa(t.data.id)
	}
	return "@bzla.const_" + itoa(t.data.id)
}
