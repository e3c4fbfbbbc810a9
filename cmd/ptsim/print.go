package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexhholmes/ptsim"
)

const freeMapWidth = 16

func printFreeMap(w io.Writer, used []bool) error {
	var b strings.Builder
	b.WriteString("--- PAGE FREE MAP ---\n")
	for i, u := range used {
		if u {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
		if (i+1)%freeMapWidth == 0 {
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func printPageTable(w io.Writer, pid ptsim.PID, entries []ptsim.Mapping) error {
	var b strings.Builder
	fmt.Fprintf(&b, "--- PROCESS %d PAGE TABLE ---\n", pid)
	for _, e := range entries {
		fmt.Fprintf(&b, "%02x -> %02x\n", e.Virtual, e.Physical)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// printAccess writes the load/store trace line; addresses are decimal.
func printAccess(w io.Writer, op string, acc ptsim.Access) error {
	_, err := fmt.Fprintf(w, "%s proc %d: %d => %d, value=%d\n",
		op, acc.PID, acc.Virtual, acc.Physical, acc.Value)
	return err
}
