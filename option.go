package ptsim

// Backing selects where physical memory is allocated
type Backing int

const (
	// BackingHeap allocates physical memory as an ordinary Go byte slice.
	BackingHeap Backing = iota

	// BackingMMap allocates physical memory as an anonymous private mapping
	// outside the Go heap. Falls back to the heap on platforms without mmap.
	BackingMMap
)

// Options configures MMU behavior.
type Options struct {
	logger   Logger
	backing  Backing
	tlbSize  int  // Cached translations. 0 disables the TLB.
	rollback bool // Release pages of a process whose creation failed.
}

// DefaultOptions returns the configuration matching the reference simulator:
// heap memory, no rollback on failed creation, and a small TLB.
//
// goland:noinspection GoUnusedExportedFunction
func DefaultOptions() Options {
	return Options{
		logger:  DiscardLogger{},
		backing: BackingHeap,
		tlbSize: 16,
	}
}

// Option configures MMU options using the functional options pattern.
type Option func(*Options)

// WithLogger sets the logger that receives process lifecycle events.
// A nil logger discards everything.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		if l == nil {
			l = DiscardLogger{}
		}
		opts.logger = l
	}
}

// WithTLBSize sets how many translations are cached. 0 disables caching;
// every translation then walks the page table.
//
//goland:noinspection GoUnusedExportedFunction
func WithTLBSize(n int) Option {
	return func(opts *Options) {
		opts.tlbSize = max(n, 0)
	}
}

// WithMMap backs physical memory with an anonymous memory mapping.
//
//goland:noinspection GoUnusedExportedFunction
func WithMMap() Option {
	return func(opts *Options) {
		opts.backing = BackingMMap
	}
}

// WithRollback makes CreateProcess release every page it obtained when it
// runs out of memory part way through. Without it the partial allocation
// stays in place, owned by the process, until TerminateProcess.
//
//goland:noinspection GoUnusedExportedFunction
func WithRollback() Option {
	return func(opts *Options) {
		opts.rollback = true
	}
}

// TLBSize returns the configured number of cached translations
func (o Options) TLBSize() int {
	return o.tlbSize
}
