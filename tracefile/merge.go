package tracefile

import "sort"

// entryKey orders merged events: timestamp ascending, lcore as tiebreak.
type entryKey struct {
	tsc   uint64
	lcore uint16
}

func (k entryKey) less(o entryKey) bool {
	if k.tsc == o.tsc {
		return k.lcore < o.lcore
	}
	return k.tsc < o.tsc
}

// ringRef locates one live event inside its core's ring.
type ringRef struct {
	entry *Entry
	// index of the entry within the ring, needed to walk its spill buffers
	index int
}

// entryMap collects the live events of every selected core. A well-formed
// trace never repeats a key; if one does, the later insertion overwrites.
type entryMap map[entryKey]ringRef

// mergedEntry is one element of the sorted iteration order.
type mergedEntry struct {
	key entryKey
	ringRef
}

func (m entryMap) sorted() []mergedEntry {
	out := make([]mergedEntry, 0, len(m))
	for k, ref := range m {
		out = append(out, mergedEntry{key: k, ringRef: ref})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].key.less(out[j].key)
	})
	return out
}

// populate inserts every live event of one core into the merge map and
// raises the synchronized start offset to this core's oldest timestamp if
// it is the highest seen so far. Spill slots are skipped; they belong to
// the entry preceding them and are consumed during argument reassembly.
func (p *Parser) populate(lcore uint16, entries []Entry) {
	first, last, ok := ringWindow(entries)
	if !ok {
		return
	}

	if entries[first].Tsc > p.tscOffset {
		p.tscOffset = entries[first].Tsc
	}

	i := first
	for {
		e := &entries[i]
		if e.TpointID != SpillTpointID {
			p.entries[entryKey{tsc: e.Tsc, lcore: lcore}] = ringRef{entry: e, index: i}
		}
		if i == last {
			break
		}
		i++
		if i == len(entries) {
			i = 0
		}
	}
}
