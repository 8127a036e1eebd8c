package halcyon

import (
	"github.com/rs/zerolog"

	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/internal/descriptor"
	"github.com/halcyonos/halcyon/internal/locking"
	"github.com/halcyonos/halcyon/sched"
	"github.com/halcyonos/halcyon/usermem"
	"github.com/halcyonos/halcyon/vfs"
)

// FileEntry maps a descriptor to an open file description.
type FileEntry struct {
	// Name is a label for tracing; it has no path semantics.
	Name string

	// Description is always non-nil.
	Description vfs.Description
}

// FileTable is a specialization of the descriptor.Table type used to map
// file descriptors to file entries. Descriptors are allocated lowest-first.
type FileTable = descriptor.Table[int32, *FileEntry]

// Process is one guest process: its address space, its descriptor table,
// and the coarse lock serializing its syscalls.
type Process struct {
	kernel *Kernel
	pid    int32
	log    zerolog.Logger

	as *usermem.AddressSpace

	// bigLock is held for the full duration of every syscall on this
	// process, including across blocking suspension. fds is guarded by it.
	bigLock *locking.BigLock
	fds     FileTable
}

// NewProcess creates a process with a zeroed address space of memSize bytes.
func (k *Kernel) NewProcess(memSize uint32) *Process {
	pid := k.nextPID.Add(1)
	return &Process{
		kernel:  k,
		pid:     pid,
		log:     k.log.With().Int32("pid", pid).Logger(),
		as:      usermem.NewAddressSpace(memSize),
		bigLock: locking.NewBigLock(),
	}
}

// PID returns the process identifier.
func (p *Process) PID() int32 {
	return p.pid
}

// AddressSpace returns the process's guest memory.
func (p *Process) AddressSpace() *usermem.AddressSpace {
	return p.as
}

// NewThread returns a new thread context for issuing syscalls on this
// process.
func (p *Process) NewThread() *sched.Thread {
	return sched.NewThread()
}

// Open inserts a description into the table and returns its descriptor.
// The result must be released with Close.
func (p *Process) Open(name string, d vfs.Description) (int32, errno.Errno) {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	fd, ok := p.fds.Insert(&FileEntry{Name: name, Description: d})
	if !ok {
		return 0, errno.EMFILE
	}
	return fd, errno.ESUCCESS
}

// OpenAt inserts a description at the given descriptor, overwriting any
// previous entry, as dup2 does.
func (p *Process) OpenAt(fd int32, name string, d vfs.Description) errno.Errno {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	if !p.fds.InsertAt(&FileEntry{Name: name, Description: d}, fd) {
		return errno.EBADF
	}
	return errno.ESUCCESS
}

// Lookup returns the entry for fd, if any.
func (p *Process) Lookup(fd int32) (*FileEntry, bool) {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	return p.fds.Lookup(fd)
}

// Close drops fd from the table and closes its description.
func (p *Process) Close(fd int32) errno.Errno {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	fe, ok := p.fds.Lookup(fd)
	if !ok {
		return errno.EBADF
	}
	p.fds.Delete(fd)
	return fe.Description.Close()
}

// Release closes every open description. The process is not reusable
// afterwards.
func (p *Process) Release() (err error) {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	p.fds.Range(func(fd int32, fe *FileEntry) bool {
		if errc := fe.Description.Close(); errc != errno.ESUCCESS {
			err = errc // last non-zero errno wins
		}
		return true
	})
	p.fds.Reset()
	return err
}
