// Package halcyon implements the read path of a sandboxed guest kernel:
// the syscall entry points that move bytes from open file-like objects
// into a guest process's address space, under three calling conventions
// (single-buffer read, scatter read, positioned read).
//
// Guest-supplied addresses and lengths are untrusted. Every transfer goes
// through a validated usermem.Buffer, and blocking-mode objects suspend
// the calling thread through the sched package until data is available.
package halcyon

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/halcyonos/halcyon/usermem"
)

// DefaultVectorCeiling is the defensive cap on scatter vector entries per
// call. An arbitrary pain threshold, not a semantic limit: counts above it
// fault rather than size a kernel allocation.
const DefaultVectorCeiling = 1 << 20

// Kernel carries the configuration shared by its processes.
type Kernel struct {
	log           zerolog.Logger
	vectorCeiling int32
	vectorBudget  uint64
	nextPID       atomic.Int32
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger routes kernel debug tracing to log. The default discards it.
func WithLogger(log zerolog.Logger) Option {
	return func(k *Kernel) {
		k.log = log
	}
}

// WithVectorCeiling overrides DefaultVectorCeiling.
func WithVectorCeiling(n int32) Option {
	return func(k *Kernel) {
		k.vectorCeiling = n
	}
}

// WithVectorBudget caps the kernel-side bytes a single scatter read may
// spend on its private copy of the vector. Requests under the ceiling but
// over this budget fail with errno.ENOMEM. The default budget admits any
// vector the ceiling admits.
func WithVectorBudget(bytes uint64) Option {
	return func(k *Kernel) {
		k.vectorBudget = bytes
	}
}

// NewKernel returns a Kernel with the given options applied.
func NewKernel(opts ...Option) *Kernel {
	k := &Kernel{
		log:           zerolog.Nop(),
		vectorCeiling: DefaultVectorCeiling,
		vectorBudget:  DefaultVectorCeiling * usermem.IovecSize,
	}

	for _, f := range opts {
		f(k)
	}

	return k
}
