package tracefile

// Test-only builder for synthetic trace files. It assembles a full trace
// image in memory with the same unsafe views the parser uses, then writes
// it to a temp file.

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type traceBuilder struct {
	data  []byte
	flags *Flags
}

func newTraceBuilder(numEntries uint64) *traceBuilder {
	var f Flags
	f.NumEntries = numEntries

	b := &traceBuilder{data: make([]byte, historiesSize(&f))}
	b.flags = (*Flags)(unsafe.Pointer(&b.data[0]))
	b.flags.NumEntries = numEntries
	b.flags.TscRate = 1_000_000_000

	for lcore := uint16(0); lcore < MaxLcore; lcore++ {
		h := b.history(lcore)
		h.Lcore = uint64(lcore)
		h.NumEntries = numEntries
	}
	return b
}

func (b *traceBuilder) history(lcore uint16) *History {
	off := flagsSize + uint64(lcore)*lcoreHistorySize(b.flags.NumEntries)
	return (*History)(unsafe.Pointer(&b.data[off]))
}

func (b *traceBuilder) entries(lcore uint16) []Entry {
	base := unsafe.Add(unsafe.Pointer(b.history(lcore)), uintptr(historySize))
	return unsafe.Slice((*Entry)(base), b.flags.NumEntries)
}

// tpoint declares a tracepoint descriptor in the header.
func (b *traceBuilder) tpoint(id uint16, objectType uint8, newObject bool, argSizes ...uint8) {
	tp := &b.flags.Tpoint[id]
	copy(tp.Name[:], fmt.Sprintf("TP_%d", id))
	tp.TpointID = id
	tp.ObjectType = objectType
	if newObject {
		tp.NewObject = 1
	}
	tp.NumArgs = uint8(len(argSizes))
	for i, size := range argSizes {
		copy(tp.Args[i].Name[:], fmt.Sprintf("arg%d", i))
		tp.Args[i].Size = size
	}
}

// record writes one event into a ring slot.
func (b *traceBuilder) record(lcore uint16, idx int, tpointID uint16, tsc, objectID uint64) *Entry {
	e := &b.entries(lcore)[idx]
	e.Tsc = tsc
	e.TpointID = tpointID
	e.ObjectID = objectID
	if tpointID < MaxTpointID {
		b.history(lcore).TpointCount[tpointID]++
	}
	return e
}

// spill turns a ring slot into a spill continuation with the given owner
// timestamp.
func (b *traceBuilder) spill(lcore uint16, idx int, tsc uint64) *EntryBuffer {
	buf := (*EntryBuffer)(unsafe.Pointer(&b.entries(lcore)[idx]))
	buf.Tsc = tsc
	buf.TpointID = SpillTpointID
	return buf
}

// recordWithPayload writes an event plus however many spill slots its
// payload needs, and returns the index after the last slot written.
func (b *traceBuilder) recordWithPayload(lcore uint16, idx int, tpointID uint16, tsc, objectID uint64, payload []byte) int {
	e := b.record(lcore, idx, tpointID, tsc, objectID)
	n := copy(e.Args[:], payload)
	idx++
	for n < len(payload) {
		buf := b.spill(lcore, idx, tsc)
		n += copy(buf.Data[:], payload[n:])
		idx++
	}
	return idx
}

func (b *traceBuilder) write(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")
	require.NoError(t, os.WriteFile(path, b.data, 0o644))
	return path
}

// open writes the trace and returns a parser over it, closed with the test.
func (b *traceBuilder) open(t *testing.T, lcore uint16) *Parser {
	t.Helper()
	p, err := NewParser(&Opts{Mode: ModeFile, Filename: b.write(t), Lcore: lcore})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

// payloadBytes builds a deterministic payload pattern.
func payloadBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i*7 + 3)
	}
	return out
}
