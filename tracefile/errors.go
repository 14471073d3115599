package tracefile

import "errors"

// Errors reported while opening or iterating a trace. Open failures wrap
// these sentinels with the OS detail attached; match with errors.Is.
var (
	// ErrInvalidMode is returned for an unrecognized Opts.Mode or an
	// out-of-range lcore selector.
	ErrInvalidMode = errors.New("tracefile: invalid parser options")
	// ErrSourceOpen is returned when the backing file or shared-memory
	// object cannot be opened.
	ErrSourceOpen = errors.New("tracefile: could not open trace source")
	// ErrSourceStat is returned when the source size cannot be queried.
	ErrSourceStat = errors.New("tracefile: could not stat trace source")
	// ErrTruncatedHeader is returned when the source is smaller than the
	// trace header.
	ErrTruncatedHeader = errors.New("tracefile: source smaller than trace header")
	// ErrTruncatedFile is returned when the source is smaller than the
	// total size described by its header.
	ErrTruncatedFile = errors.New("tracefile: source smaller than size described by header")
	// ErrMapFailed is returned when the OS refuses the read-only mapping.
	ErrMapFailed = errors.New("tracefile: mapping trace source failed")
	// ErrSpillMismatch is reported when argument reassembly reaches a slot
	// that is not a spill continuation of the owning entry.
	ErrSpillMismatch = errors.New("tracefile: spill buffer does not match owning entry")
)
