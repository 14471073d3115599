package tracefile

// ringWindow determines the live window of one per-core ring. The producer
// records no head pointer, so the window is inferred from entry contents:
// a slot with a zero timestamp was never written, and once the ring has
// wrapped the minimum timestamp marks where the live window begins.
//
// The returned window is first, first+1, ..., last modulo len(entries).
// ok is false when the ring holds no live entries.
func ringWindow(entries []Entry) (first, last int, ok bool) {
	filled := len(entries)
	for filled > 0 && entries[filled-1].Tsc == 0 {
		filled--
	}
	if filled == 0 || entries[0].Tsc == 0 {
		return 0, 0, false
	}

	if filled < len(entries) {
		// Never wrapped: the window is the filled prefix.
		return 0, filled - 1, true
	}

	// Full ring: the producer may have wrapped any number of times. The
	// oldest live entry is the minimum timestamp. Ties can only happen at
	// initialization; take the lowest index for the minimum and the
	// highest for the maximum so the window stays contiguous.
	for i := 1; i < len(entries); i++ {
		if entries[i].Tsc < entries[first].Tsc {
			first = i
		}
		if entries[i].Tsc >= entries[last].Tsc {
			last = i
		}
	}
	return first, last, true
}
