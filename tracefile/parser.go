package tracefile

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/unix"
)

// AllLcores selects every per-core history in Opts.Lcore.
const AllLcores uint16 = MaxLcore

// Opts configures NewParser.
type Opts struct {
	// Mode selects the backing source type.
	Mode Mode
	// Filename is a filesystem path (ModeFile) or a shared-memory object
	// name (ModeSHM).
	Filename string
	// Lcore restricts parsing to a single core, or AllLcores.
	Lcore uint16
}

// Parser iterates one trace in global (tsc, lcore) order. It owns the file
// descriptor and the read-only mapping; every pointer handed out through
// ParsedEntry aliases the mapping and dies with Close.
//
// A Parser is not safe for concurrent use. Distinct parsers over the same
// file are independent.
type Parser struct {
	fd    int
	data  []byte
	flags *Flags

	tscOffset uint64
	entries   entryMap
	sorted    []mergedEntry
	pos       int

	// per-core entry slices, kept for spill-buffer walks during reassembly
	rings [MaxLcore][]Entry

	stats [maxObject]objectStats
}

// ParsedEntry is the record filled by Next. Entry points into the parser's
// mapping; the caller must not mutate it and must not use it after Close.
type ParsedEntry struct {
	Lcore uint16
	Entry *Entry
	// ObjectIndex and ObjectStart are math.MaxUint64 when the tracepoint
	// references an object whose creation event was not in the trace.
	ObjectIndex uint64
	ObjectStart uint64
	// Args holds the reassembled payload of each declared argument,
	// truncated to MaxArgSize bytes.
	Args [MaxArgCount][MaxArgSize]byte
}

// ArgBytes returns the declared bytes of argument i given its descriptor
// size, capped at the slot width.
func (pe *ParsedEntry) ArgBytes(i int, size uint8) []byte {
	return pe.Args[i][:min(int(size), MaxArgSize)]
}

// ArgUint64 decodes argument i as a little-endian integer. Int and Ptr
// arguments are at most 8 bytes wide.
func (pe *ParsedEntry) ArgUint64(i int) uint64 {
	return binary.LittleEndian.Uint64(pe.Args[i][:8])
}

// ArgString decodes argument i as a NUL-terminated string.
func (pe *ParsedEntry) ArgString(i int) string {
	return cstring(pe.Args[i][:])
}

// NewParser opens the trace source, maps it, reconstructs every selected
// per-core ring and builds the global iteration order. On failure every
// partially acquired resource is released.
func NewParser(opts *Opts) (*Parser, error) {
	if opts.Lcore > AllLcores {
		return nil, fmt.Errorf("%w: lcore %d", ErrInvalidMode, opts.Lcore)
	}

	p := &Parser{fd: -1, entries: make(entryMap)}

	fd, err := openSource(opts.Mode, opts.Filename)
	if err != nil {
		return nil, err
	}
	p.fd = fd

	data, err := mapTrace(fd)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.data = data
	p.flags = (*Flags)(unsafe.Pointer(&data[0]))

	if opts.Lcore == AllLcores {
		for lcore := uint16(0); lcore < MaxLcore; lcore++ {
			p.populateLcore(lcore)
		}
	} else {
		p.populateLcore(opts.Lcore)
	}

	p.sorted = p.entries.sorted()
	p.pos = 0

	log.Debug().
		Int("events", len(p.sorted)).
		Uint64("tscOffset", p.tscOffset).
		Msg("trace parsed")

	return p, nil
}

// history returns the per-core history at the given lcore.
func (p *Parser) history(lcore uint16) *History {
	off := flagsSize + uint64(lcore)*lcoreHistorySize(p.flags.NumEntries)
	return (*History)(unsafe.Pointer(&p.data[off]))
}

// historyEntries returns the ring slots following a history header.
func (p *Parser) historyEntries(h *History) []Entry {
	base := unsafe.Add(unsafe.Pointer(h), uintptr(historySize))
	return unsafe.Slice((*Entry)(base), p.flags.NumEntries)
}

func (p *Parser) populateLcore(lcore uint16) {
	h := p.history(lcore)
	if h.NumEntries == 0 {
		return
	}
	if h.NumEntries != p.flags.NumEntries {
		// The header capacity governs the file layout; a history that
		// disagrees cannot be addressed safely.
		maplog.Warn().
			Uint16("lcore", lcore).
			Uint64("have", h.NumEntries).
			Uint64("want", p.flags.NumEntries).
			Msg("skipping history with inconsistent capacity")
		return
	}

	entries := p.historyEntries(h)
	p.rings[lcore] = entries
	p.populate(lcore, entries)
}

// Next fills pe with the next entry in global order and advances the
// cursor. It returns false when the trace is exhausted, or when argument
// reassembly fails, in which case the failure is logged and the stream
// stays exhausted.
func (p *Parser) Next(pe *ParsedEntry) bool {
	if p.pos >= len(p.sorted) {
		return false
	}

	me := p.sorted[p.pos]
	e := me.entry
	pe.Lcore = me.key.lcore
	pe.Entry = e

	if e.TpointID >= MaxTpointID {
		parselog.SampledError("bad-tpoint-id").
			Uint16("tpointID", e.TpointID).
			Uint16("lcore", pe.Lcore).
			Msg("entry references tracepoint id outside descriptor table")
		return false
	}

	tpoint := &p.flags.Tpoint[e.TpointID]
	stats := &p.stats[tpoint.ObjectType]

	if tpoint.NewObject != 0 {
		stats.record(e.ObjectID, e.Tsc)
	}
	if tpoint.ObjectType != ObjectNone {
		index, start, ok := stats.lookup(e.ObjectID)
		if ok {
			pe.ObjectIndex = index
			pe.ObjectStart = start
		} else {
			pe.ObjectIndex = math.MaxUint64
			pe.ObjectStart = math.MaxUint64
		}
	}

	cursor := newArgCursor(p.rings[pe.Lcore], e, me.index)
	numArgs := min(int(tpoint.NumArgs), MaxArgCount)
	for i := 0; i < numArgs; i++ {
		if err := cursor.buildArg(int(tpoint.Args[i].Size), pe.Args[i][:]); err != nil {
			parselog.SampledErrorWithErr("build-arg", err).
				Uint16("tpointID", e.TpointID).
				Uint16("lcore", pe.Lcore).
				Uint64("tsc", e.Tsc).
				Msg("failed to parse tracepoint argument")
			return false
		}
	}

	p.pos++
	return true
}

// Flags exposes the tracepoint metadata of the mapped trace. The pointer
// is valid until Close.
func (p *Parser) Flags() *Flags {
	return p.flags
}

// TscOffset returns the synchronized start: the highest first timestamp
// across all selected cores. Events below it occurred before every core
// had started producing; filtering on it is the consumer's choice.
func (p *Parser) TscOffset() uint64 {
	return p.tscOffset
}

// EntryCount returns the number of live events in iteration order.
func (p *Parser) EntryCount() int {
	return len(p.sorted)
}

// TpointCount returns how many times a tracepoint fired on one core, from
// the per-history hit counters maintained by the producer.
func (p *Parser) TpointCount(lcore, tpointID uint16) uint64 {
	if lcore >= MaxLcore || tpointID >= MaxTpointID {
		return 0
	}
	return p.history(lcore).TpointCount[tpointID]
}

// Close unmaps the trace and closes the descriptor. It is idempotent and
// safe to call on a partially constructed parser.
func (p *Parser) Close() error {
	var err error
	if p.data != nil {
		err = unix.Munmap(p.data)
		p.data = nil
		p.flags = nil
	}
	if p.fd >= 0 {
		if cerr := unix.Close(p.fd); cerr != nil && err == nil {
			err = cerr
		}
		p.fd = -1
	}
	return err
}
