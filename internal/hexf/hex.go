// Package hexf appends hex renderings of integers to byte buffers without
// intermediate allocations. Used on output paths that format many object
// ids and timestamps per event.
package hexf

var hextable = [16]byte{
	'0', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', 'a', 'b', 'c', 'd', 'e', 'f',
}

// AppendUint64 appends v in lowercase hex with leading zeroes trimmed.
func AppendUint64(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	var buf [16]byte
	i := len(buf)
	for v != 0 {
		i--
		buf[i] = hextable[v&0xf]
		v >>= 4
	}
	return append(dst, buf[i:]...)
}

// AppendUint64Padded appends v as 16 lowercase hex digits.
func AppendUint64Padded(dst []byte, v uint64) []byte {
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = hextable[v&0xf]
		v >>= 4
	}
	return append(dst, buf[:]...)
}

// AppendUint64Prefixed appends v as "0x" plus trimmed lowercase hex.
func AppendUint64Prefixed(dst []byte, v uint64) []byte {
	dst = append(dst, '0', 'x')
	return AppendUint64(dst, v)
}

// AppendBytes appends the hex encoding of src.
func AppendBytes(dst, src []byte) []byte {
	for _, b := range src {
		dst = append(dst, hextable[b>>4], hextable[b&0xf])
	}
	return dst
}

// Uint64 returns v as a "0x"-prefixed trimmed hex string.
func Uint64(v uint64) string {
	return string(AppendUint64Prefixed(make([]byte, 0, 18), v))
}
