package bitwuzla

import "fmt"

// valuePayload is the concrete constant carried by a VALUE term. Exactly one
// field is meaningful, selected by the term's Sort().Kind(); this mirrors
// borzacchiello-gosmt's tagged-constant representation rather than an
// interface{}, since the set of payload shapes is fixed and small.
type valuePayload struct {
	bv   *BitVector
	fp   *FloatingPoint
	rm   RoundingMode
	b    bool
	kind SortKind
}

func (v *valuePayload) String() string {
	switch v.kind {
	case SortBool:
		if v.b {
			return "true"
		}
		return "false"
	case SortBV:
		return v.bv.String()
	case SortFP:
		return v.fp.String()
	case SortRM:
		return v.rm.String()
	default:
		return fmt.Sprintf("<value:%s>", v.kind)
	}
}

// BV returns the BitVector payload; callers must check Sort().IsBV() first.
func (v *valuePayload) BV() *BitVector { return v.bv }

// FP returns the FloatingPoint payload; callers must check Sort().IsFP().
func (v *valuePayload) FP() *FloatingPoint { return v.fp }

// RM returns the RoundingMode payload; callers must check Sort().IsRM().
func (v *valuePayload) RM() RoundingMode { return v.rm }

// Bool returns the boolean payload; callers must check Sort().IsBool().
func (v *valuePayload) Bool() bool { return v.b }
