package dtmfstream

/*------------------------------------------------------------------
 *
 * Purpose:   	Reduce per-tone magnitudes to a single keypad symbol.
 *
 * Description: A valid press needs exactly one tone from each group.
 *		We take the strongest tone in each group and look the
 *		pair up in the keypad table.  If either group is silent
 *		there is no symbol this frame.
 *
 *		Ties within a group resolve to the lowest frequency.
 *		Real audio essentially never ties; synthetic test
 *		signals can.  Either way the rule is deterministic.
 *
 *---------------------------------------------------------------*/

// groupWinner returns the index of the strongest present tone, or -1
// if every tone in the group is absent.  Strict > keeps the earliest
// (lowest frequency) index on a tie.
func groupWinner(magnitudes [4]float64) int {
	var winner = -1
	var best = 0.0

	for i, m := range magnitudes {
		if m > best {
			winner = i
			best = m
		}
	}

	return winner
}

// matchTone maps the analyzer's magnitudes to this frame's raw symbol.
func matchTone(low [4]float64, high [4]float64) Symbol {
	var row = groupWinner(low)
	var col = groupWinner(high)

	if row < 0 || col < 0 {
		return NoSymbol
	}

	return LookupSymbol(LOW_TONES[row], HIGH_TONES[col])
}
