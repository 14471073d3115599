package tracefile

// objectStats assigns each object of one object type a dense creation
// ordinal and remembers its creation timestamp, so consumers get a compact
// identity and can compute object-local durations in one pass.
type objectStats struct {
	index   map[uint64]uint64
	start   map[uint64]uint64
	counter uint64
}

// record registers a new object lifetime. Re-recording an object id
// replaces its ordinal and start: identity is per-lifetime, not per-id.
func (s *objectStats) record(objectID, tsc uint64) {
	if s.index == nil {
		s.index = make(map[uint64]uint64)
		s.start = make(map[uint64]uint64)
	}
	s.index[objectID] = s.counter
	s.counter++
	s.start[objectID] = tsc
}

// lookup returns the ordinal and creation timestamp of an object, if its
// creation event was inside the parsed window.
func (s *objectStats) lookup(objectID uint64) (index, start uint64, ok bool) {
	start, ok = s.start[objectID]
	if !ok {
		return 0, 0, false
	}
	return s.index[objectID], start, true
}
