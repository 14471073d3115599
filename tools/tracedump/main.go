// tracedump reads a trace file (or a live shared-memory trace) and prints
// one JSON object per parsed entry.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	plog "github.com/phuslu/log"

	"github.com/tekert/gotracefile/internal/hexf"
	"github.com/tekert/gotracefile/tracefile"
)

// dumpArg is the rendered form of one tracepoint argument.
type dumpArg struct {
	Name  string
	Value any
}

// dumpEntry is the rendered form of one parsed entry.
type dumpEntry struct {
	Lcore       uint16
	Tsc         uint64
	Tpoint      string
	TpointID    uint16
	ObjectID    string `json:",omitempty"`
	ObjectIndex uint64 `json:",omitempty"`
	ObjectStart uint64 `json:",omitempty"`
	Args        []dumpArg
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		file  string
		shm   string
		lcore int
		count int
		debug bool
	)

	flag.StringVar(&file, "file", "", "Path to a trace file to read.")
	flag.StringVar(&shm, "shm", "", "Name of a shared-memory trace object to read.")
	flag.IntVar(&lcore, "lcore", -1, "Restrict output to one logical core (-1 for all).")
	flag.IntVar(&count, "count", 0, "Stop after printing this many entries (0 for all).")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Dump a binary trace as JSON lines, one object per event.")
		fmt.Fprintln(os.Stderr, "Specify exactly one of -file or -shm.")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if (file == "") == (shm == "") {
		flag.Usage()
		return fmt.Errorf("specify exactly one of -file or -shm")
	}

	if debug {
		tracefile.SetLogLevelsAll(plog.DebugLevel)
	}

	opts := tracefile.Opts{
		Mode:     tracefile.ModeFile,
		Filename: file,
		Lcore:    tracefile.AllLcores,
	}
	if shm != "" {
		opts.Mode = tracefile.ModeSHM
		opts.Filename = shm
	}
	if lcore >= 0 {
		opts.Lcore = uint16(lcore)
	}

	p, err := tracefile.NewParser(&opts)
	if err != nil {
		return err
	}
	defer p.Close()

	flags := p.Flags()
	fmt.Fprintf(os.Stderr, "entries: %d, tsc offset: %d, tsc rate: %d Hz\n",
		p.EntryCount(), p.TscOffset(), flags.TscRate)

	enc := json.NewEncoder(os.Stdout)
	printed := 0

	var pe tracefile.ParsedEntry
	for p.Next(&pe) {
		tpoint := &flags.Tpoint[pe.Entry.TpointID]

		de := dumpEntry{
			Lcore:    pe.Lcore,
			Tsc:      pe.Entry.Tsc,
			Tpoint:   tpoint.NameString(),
			TpointID: pe.Entry.TpointID,
		}
		if tpoint.ObjectType != tracefile.ObjectNone {
			de.ObjectID = hexf.Uint64(pe.Entry.ObjectID)
			de.ObjectIndex = pe.ObjectIndex
			de.ObjectStart = pe.ObjectStart
		}
		de.Args = renderArgs(&pe, tpoint)

		if err := enc.Encode(&de); err != nil {
			return err
		}

		printed++
		if count > 0 && printed >= count {
			break
		}
	}
	return nil
}

func renderArgs(pe *tracefile.ParsedEntry, tpoint *tracefile.Tpoint) []dumpArg {
	args := make([]dumpArg, 0, tpoint.NumArgs)
	for i := 0; i < int(tpoint.NumArgs); i++ {
		desc := &tpoint.Args[i]
		arg := dumpArg{Name: desc.NameString()}

		switch desc.Type {
		case tracefile.ArgTypeStr:
			arg.Value = pe.ArgString(i)
		case tracefile.ArgTypePtr:
			arg.Value = hexf.Uint64(pe.ArgUint64(i))
		default:
			arg.Value = pe.ArgUint64(i)
		}
		args = append(args, arg)
	}
	return args
}
