package hexf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendUint64(t *testing.T) {
	for _, v := range []uint64{0, 1, 0xf, 0x10, 0xdeadbeef, 1<<64 - 1} {
		got := string(AppendUint64(nil, v))
		assert.Equal(t, fmt.Sprintf("%x", v), got, "value %d", v)
	}
}

func TestAppendUint64Padded(t *testing.T) {
	for _, v := range []uint64{0, 1, 0xdeadbeef, 1<<64 - 1} {
		got := string(AppendUint64Padded(nil, v))
		assert.Equal(t, fmt.Sprintf("%016x", v), got, "value %d", v)
	}
}

func TestAppendUint64Prefixed(t *testing.T) {
	assert.Equal(t, "0xdead", string(AppendUint64Prefixed(nil, 0xdead)))
	assert.Equal(t, "0x0", string(AppendUint64Prefixed(nil, 0)))
}

func TestAppendBytes(t *testing.T) {
	src := []byte{0x00, 0x7f, 0xff}
	assert.Equal(t, "007fff", string(AppendBytes(nil, src)))
}

func TestUint64(t *testing.T) {
	assert.Equal(t, "0x2a", Uint64(42))
}
