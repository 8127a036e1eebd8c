// Package vfs defines the open file description abstraction the read path
// operates on, and the concrete kinds shipped with the kernel.
package vfs

import (
	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/sched"
	"github.com/halcyonos/halcyon/usermem"
)

// Description is one open file-like object as seen by the syscall layer.
// It is shared by every descriptor that refers to it, including dup'd
// descriptors, and is only borrowed by a syscall for the duration of one
// call.
//
// Implementations should embed UnimplementedDescription for forward
// compatibility.
//
// # Errors
//
// All methods that can fail return an errno.Errno, which is zero on
// success. Errors from Read and Pread pass through the syscall layer to
// the caller unchanged.
type Description interface {
	// Readable returns true if the description was opened for reading.
	Readable() bool

	// IsDirectory returns true if the description denotes a directory.
	// Directories are never byte-readable through the read path.
	IsDirectory() bool

	// Blocking returns true when a read with no data available should
	// suspend the calling thread instead of failing with errno.EAGAIN.
	Blocking() bool

	// Seekable returns true if the object supports positioned reads.
	Seekable() bool

	// CanRead returns true when a read can proceed without blocking.
	CanRead() bool

	// Read transfers bytes into dst from the object's sequential cursor,
	// if it keeps one, and returns the count transferred. Zero with no
	// error is end of data.
	Read(dst usermem.Buffer) (n int, errno errno.Errno)

	// Pread transfers bytes into dst from the given byte offset. It must
	// not perturb the sequential cursor used by Read.
	//
	// Only called on seekable descriptions; others return errno.ESPIPE.
	Pread(dst usermem.Buffer, off int64) (n int, errno errno.Errno)

	// ReadQueue returns the queue a thread blocks on while waiting for
	// this object to become readable. Producers wake it with
	// sched.WakeRead. May be nil for objects that never block.
	ReadQueue() *sched.Queue

	// Close releases the object once the last descriptor drops it.
	Close() errno.Errno
}

// UnimplementedDescription is a Description that grants no capabilities
// and fails every transfer with errno.ENOSYS. Embed it to keep concrete
// kinds compiling as the interface grows.
type UnimplementedDescription struct{}

var _ Description = UnimplementedDescription{}

func (UnimplementedDescription) Readable() bool    { return false }
func (UnimplementedDescription) IsDirectory() bool { return false }
func (UnimplementedDescription) Blocking() bool    { return false }
func (UnimplementedDescription) Seekable() bool    { return false }
func (UnimplementedDescription) CanRead() bool     { return false }

func (UnimplementedDescription) Read(usermem.Buffer) (int, errno.Errno) {
	return 0, errno.ENOSYS
}

func (UnimplementedDescription) Pread(usermem.Buffer, int64) (int, errno.Errno) {
	return 0, errno.ENOSYS
}

// ReadQueue returns nil: an object with no capabilities never blocks.
func (UnimplementedDescription) ReadQueue() *sched.Queue { return nil }

func (UnimplementedDescription) Close() errno.Errno { return errno.ESUCCESS }
