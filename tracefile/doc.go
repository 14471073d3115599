// Package tracefile parses binary trace files produced by a multi-core
// runtime. A trace file holds a self-describing header followed by one
// ring-buffer history per logical core; each history is a fixed-size array
// of 32-byte entries, where oversized argument payloads spill into the
// slots that follow the owning entry.
//
// The parser memory-maps the file read-only, reconstructs the live window
// of every ring, merges all cores into a single (tsc, lcore) ordered
// stream, and reassembles fragmented arguments on the fly.
//
// Basic usage:
//
//	p, err := tracefile.NewParser(&tracefile.Opts{
//	    Mode:     tracefile.ModeFile,
//	    Filename: "app.trace",
//	    Lcore:    tracefile.AllLcores,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	var pe tracefile.ParsedEntry
//	for p.Next(&pe) {
//	    // pe.Entry points into the mapping and is only valid until Close.
//	}
package tracefile
