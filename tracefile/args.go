package tracefile

import "unsafe"

// argCursor walks the argument payload of one entry. The entry itself is
// the first buffer; when a buffer runs out the cursor advances to the next
// ring slot, wrapping at the end of the ring, and validates that the slot
// is a spill continuation of the owning entry.
type argCursor struct {
	entries []Entry
	owner   *Entry
	index   int
	offset  int
}

func newArgCursor(entries []Entry, owner *Entry, index int) argCursor {
	// The first argument resides within the entry structure itself, so the
	// initial offset is adjusted to where Entry.Args lands in the buffer view.
	return argCursor{
		entries: entries,
		owner:   owner,
		index:   index,
		offset:  argStartOffset,
	}
}

func (c *argCursor) buffer() *EntryBuffer {
	return (*EntryBuffer)(unsafe.Pointer(&c.entries[c.index]))
}

// buildArg copies the next size payload bytes into out. Bytes beyond
// len(out) are consumed from the spill stream but not copied, so the
// cursor stays aligned for the following argument.
func (c *argCursor) buildArg(size int, out []byte) error {
	argoff := 0
	for argoff < size {
		if c.offset == bufferDataSize {
			c.index++
			if c.index == len(c.entries) {
				c.index = 0
			}
			buf := c.buffer()
			if buf.TpointID != SpillTpointID || buf.Tsc != c.owner.Tsc {
				return ErrSpillMismatch
			}
			c.offset = 0
		}

		buf := c.buffer()
		n := min(bufferDataSize-c.offset, size-argoff)
		if argoff < len(out) {
			copy(out[argoff:], buf.Data[c.offset:c.offset+n])
		}
		c.offset += n
		argoff += n
	}
	return nil
}
