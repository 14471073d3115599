package tracefile

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mode selects how the trace source is opened.
type Mode int

const (
	// ModeFile opens a regular trace file from the filesystem.
	ModeFile Mode = iota
	// ModeSHM opens a named POSIX shared-memory object, typically one a
	// live producer is still writing. The mapping is read-only, so the
	// parser sees a racing but safe snapshot.
	ModeSHM
)

// POSIX shared memory objects are files under /dev/shm on Linux.
const shmDir = "/dev/shm"

func openSource(mode Mode, filename string) (int, error) {
	var path string
	switch mode {
	case ModeFile:
		path = filename
	case ModeSHM:
		path = filepath.Join(shmDir, strings.TrimLeft(filename, "/"))
	default:
		return -1, fmt.Errorf("%w: mode %d", ErrInvalidMode, mode)
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("%w: %s: %v", ErrSourceOpen, path, err)
	}
	return fd, nil
}

// mapTrace maps the whole trace read-only. The total size is a function of
// fields inside the header, so mapping happens in two phases: first just
// the header to learn the per-core ring capacity, then the full range.
func mapTrace(fd int) ([]byte, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceStat, err)
	}
	if uint64(st.Size) < flagsSize {
		return nil, ErrTruncatedHeader
	}

	hdr, err := unix.Mmap(fd, 0, int(flagsSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMapFailed, err)
	}
	total := historiesSize((*Flags)(unsafe.Pointer(&hdr[0])))
	if err := unix.Munmap(hdr); err != nil {
		maplog.Warn().Err(err).Msg("unmapping trace header failed")
	}

	if uint64(st.Size) < total {
		return nil, fmt.Errorf("%w: have %d bytes, header describes %d",
			ErrTruncatedFile, st.Size, total)
	}

	data, err := unix.Mmap(fd, 0, int(total), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	return data, nil
}
