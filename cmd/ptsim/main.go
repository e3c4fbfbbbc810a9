// Command ptsim runs a sequence of page table simulator commands.
//
//	ptsim [flags] command...
//
// Commands:
//
//	np pid count       create process pid with count data pages
//	pfm                print the physical page free map
//	ppt pid            print the page table of pid
//	kp pid             terminate pid
//	lb pid addr        load the byte at virtual address addr of pid
//	sb pid addr val    store val at virtual address addr of pid
//
// Numbers may be given in decimal or with a 0x prefix. A failing command is
// reported on stderr and the remaining commands still run.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexhholmes/ptsim"
	"github.com/alexhholmes/ptsim/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ptsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logKind := fs.String("log", "none", "lifecycle logging to stderr: none, zap or logrus")
	tlbSize := fs.Int("tlb", ptsim.DefaultOptions().TLBSize(), "translation cache entries, 0 disables it")
	useMMap := fs.Bool("mmap", false, "back physical memory with an anonymous mapping")
	rollback := fs.Bool("rollback", false, "release pages of a process whose creation ran out of memory")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: ptsim commands")
		return 1
	}

	log, flush, err := newLogger(*logKind, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ptsim: %v\n", err)
		return 2
	}
	defer flush()

	opts := []ptsim.Option{ptsim.WithLogger(log), ptsim.WithTLBSize(*tlbSize)}
	if *useMMap {
		opts = append(opts, ptsim.WithMMap())
	}
	if *rollback {
		opts = append(opts, ptsim.WithRollback())
	}

	mmu, err := ptsim.Open(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "ptsim: %v\n", err)
		return 1
	}
	defer mmu.Close()

	d := &dispatcher{mmu: mmu, out: stdout, errOut: stderr}
	d.run(fs.Args())
	if d.failed {
		return 1
	}
	return 0
}

func newLogger(kind string, w io.Writer) (ptsim.Logger, func(), error) {
	switch kind {
	case "none", "":
		return ptsim.DiscardLogger{}, func() {}, nil
	case "zap":
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(w),
			zapcore.InfoLevel,
		)
		z := zap.New(core)
		return logger.NewZap(z), func() { _ = z.Sync() }, nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		return logger.NewLogrus(l), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown logger %q", kind)
	}
}
