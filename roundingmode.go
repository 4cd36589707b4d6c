package bitwuzla

// RoundingMode is one of the five IEEE 754 rounding modes. The numeric
// encoding is fixed by spec.md §4.5 and must not be renumbered: it is the
// 3-bit pattern the FP word-blaster packs into BV circuits.
type RoundingMode uint8

const (
	RNE RoundingMode = 0 // round nearest, ties to even
	RNA RoundingMode = 1 // round nearest, ties away from zero
	RTN RoundingMode = 2 // round toward negative
	RTP RoundingMode = 3 // round toward positive
	RTZ RoundingMode = 4 // round toward zero
)

func (r RoundingMode) String() string {
	switch r {
	case RNE:
		return "RNE"
	case RNA:
		return "RNA"
	case RTN:
		return "RTN"
	case RTP:
		return "RTP"
	case RTZ:
		return "RTZ"
	default:
		return "?RM"
	}
}

// ParseRoundingMode accepts both the short names above and the SMT-LIB
// keyword forms (roundNearestTiesToEven, ...).
func ParseRoundingMode(s string) (RoundingMode, bool) {
	switch s {
	case "RNE", "roundNearestTiesToEven":
		return RNE, true
	case "RNA", "roundNearestTiesToAway":
		return RNA, true
	case "RTN", "roundTowardNegative":
		return RTN, true
	case "RTP", "roundTowardPositive":
		return RTP, true
	case "RTZ", "roundTowardZero":
		return RTZ, true
	default:
		return 0, false
	}
}
