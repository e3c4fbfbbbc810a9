package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/alexhholmes/ptsim"
)

var (
	errUnknownCommand  = errors.New("unknown command")
	errMissingArgument = errors.New("missing argument")
)

// command describes one simulator command: the bit width of each numeric
// argument and the action to run once they are parsed.
type command struct {
	args []int
	run  func(m *ptsim.MMU, w io.Writer, args []uint64) error
}

var commands = map[string]command{
	"np": {args: []int{8, 8}, run: func(m *ptsim.MMU, _ io.Writer, a []uint64) error {
		return m.CreateProcess(ptsim.PID(a[0]), int(a[1]))
	}},
	"pfm": {run: func(m *ptsim.MMU, w io.Writer, _ []uint64) error {
		return printFreeMap(w, m.BitmapSnapshot())
	}},
	"ppt": {args: []int{8}, run: func(m *ptsim.MMU, w io.Writer, a []uint64) error {
		pid := ptsim.PID(a[0])
		entries, err := m.TableEntries(pid)
		if err != nil {
			return err
		}
		return printPageTable(w, pid, entries)
	}},
	"kp": {args: []int{8}, run: func(m *ptsim.MMU, _ io.Writer, a []uint64) error {
		return m.TerminateProcess(ptsim.PID(a[0]))
	}},
	"lb": {args: []int{8, 16}, run: func(m *ptsim.MMU, w io.Writer, a []uint64) error {
		acc, err := m.LoadByte(ptsim.PID(a[0]), ptsim.VirtAddr(a[1]))
		if err != nil {
			return err
		}
		return printAccess(w, "Load", acc)
	}},
	// The stored value is truncated to a byte, so 300 stores 44.
	"sb": {args: []int{8, 16, 32}, run: func(m *ptsim.MMU, w io.Writer, a []uint64) error {
		acc, err := m.StoreByte(ptsim.PID(a[0]), ptsim.VirtAddr(a[1]), byte(a[2]))
		if err != nil {
			return err
		}
		return printAccess(w, "Store", acc)
	}},
}

// dispatcher consumes command words left to right. Errors are reported and
// do not stop the run, except a missing argument: the words that follow can
// no longer be told apart from commands.
type dispatcher struct {
	mmu    *ptsim.MMU
	out    io.Writer
	errOut io.Writer
	failed bool
}

func (d *dispatcher) run(words []string) {
	for i := 0; i < len(words); {
		name := words[i]
		i++

		cmd, ok := commands[name]
		if !ok {
			d.report(name, errUnknownCommand)
			continue
		}
		if i+len(cmd.args) > len(words) {
			d.report(name, fmt.Errorf("%w: want %d, got %d", errMissingArgument, len(cmd.args), len(words)-i))
			return
		}

		raw := words[i : i+len(cmd.args)]
		i += len(cmd.args)

		vals, err := parseArgs(raw, cmd.args)
		if err != nil {
			d.report(name, err)
			continue
		}
		if err := cmd.run(d.mmu, d.out, vals); err != nil {
			d.report(name, err)
		}
	}
}

func (d *dispatcher) report(name string, err error) {
	d.failed = true
	fmt.Fprintf(d.errOut, "ptsim: %s: %v\n", name, err)
}

func parseArgs(raw []string, bits []int) ([]uint64, error) {
	vals := make([]uint64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseUint(s, 0, bits[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}
