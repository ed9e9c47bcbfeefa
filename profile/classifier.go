package profile

import "github.com/poiesic/respite/core"

// FlagCode builds the three-symbol screening code from the raw flags, one
// symbol per flag in fixed (depressive, anxiety, occupational) order:
// O for an elevated flag, X otherwise.
func FlagCode(depressive, anxiety, occupational bool) string {
	code := make([]byte, 3)
	for i, flag := range []bool{depressive, anxiety, occupational} {
		if flag {
			code[i] = 'O'
		} else {
			code[i] = 'X'
		}
	}
	return string(code)
}

// stressTable maps each screening code to its stress type. The table is
// written out in full rather than derived from bit arithmetic so that a
// change in flag order shows up as a visible diff, not a silent remap.
var stressTable = map[string]core.StressType{
	"XXX": core.StressCalm,
	"OXX": core.StressDepressive,
	"XOX": core.StressAnxious,
	"XXO": core.StressOccupational,
	"OOX": core.StressDepressiveAnxious,
	"OXO": core.StressDepressiveOccupational,
	"XOO": core.StressAnxiousOccupational,
	"OOO": core.StressCrisis,
}

// Classify maps the three screening flags to one of the eight stress types.
// The mapping is total: every flag combination has exactly one type, so
// Classify never fails.
func Classify(depressive, anxiety, occupational bool) core.StressType {
	return stressTable[FlagCode(depressive, anxiety, occupational)]
}
