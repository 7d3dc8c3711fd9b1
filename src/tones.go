package dtmfstream

/*------------------------------------------------------------------
 *
 * Purpose:   	Canonical DTMF frequencies and the key they map to.
 *
 * Description: A keypad press transmits one frequency from the "low"
 *		(row) group and one from the "high" (column) group at
 *		the same time.  Every low/high combination is a valid
 *		key, so the table below is total over the 4x4 grid.
 *
 * References:	ITU-T Recommendation Q.23.
 *
 *---------------------------------------------------------------*/

// Symbol is one decoded keypad character: 0-9, A-D, '*' or '#'.
// NoSymbol means no key was recognized.
type Symbol rune

const NoSymbol Symbol = 0

func (s Symbol) String() string {
	if s == NoSymbol {
		return "none"
	}

	return string(rune(s))
}

const NUM_TONES = 8

// The "low" group are the keypad row frequencies, the "high" group the
// column frequencies.  Each slice is ordered lowest to highest, and that
// order is load-bearing: ties in tone matching resolve to the earliest
// (lowest) frequency.
var (
	LOW_TONES  = [4]int{697, 770, 852, 941}
	HIGH_TONES = [4]int{1209, 1336, 1477, 1633}
)

// Row-major over LOW_TONES x HIGH_TONES.
var keypad = [4][4]Symbol{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// LookupSymbol maps a (low, high) frequency pair to its keypad symbol.
// Frequencies outside the canonical sets give NoSymbol.
func LookupSymbol(low int, high int) Symbol {
	var row = -1
	var col = -1

	for i, f := range LOW_TONES {
		if f == low {
			row = i
		}
	}

	for i, f := range HIGH_TONES {
		if f == high {
			col = i
		}
	}

	if row < 0 || col < 0 {
		return NoSymbol
	}

	return keypad[row][col]
}
