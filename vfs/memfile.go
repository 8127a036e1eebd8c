package vfs

import (
	"sync"

	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/sched"
	"github.com/halcyonos/halcyon/usermem"
)

// MemFile is a regular file kind backed by kernel memory. It is seekable
// and always readable, so reads on it never suspend even in blocking mode.
//
// The sequential cursor is guarded by its own lock, serializing concurrent
// Read calls from threads sharing the description. Pread never touches the
// cursor.
type MemFile struct {
	UnimplementedDescription

	mu     sync.Mutex // guards data and cursor
	data   []byte
	cursor int64
	queue  sched.Queue
}

var _ Description = (*MemFile)(nil)

// NewMemFile returns a MemFile holding a copy of data, cursor at zero.
func NewMemFile(data []byte) *MemFile {
	f := &MemFile{data: make([]byte, len(data))}
	copy(f.data, data)
	return f
}

func (f *MemFile) Readable() bool { return true }
func (f *MemFile) Blocking() bool { return true }
func (f *MemFile) Seekable() bool { return true }

// CanRead always returns true: end of file is reported as a zero-byte
// read, not by blocking.
func (f *MemFile) CanRead() bool { return true }

func (f *MemFile) Read(dst usermem.Buffer) (int, errno.Errno) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor >= int64(len(f.data)) {
		return 0, errno.ESUCCESS // end of file
	}
	n := dst.CopyOut(f.data[f.cursor:])
	f.cursor += int64(n)
	return n, errno.ESUCCESS
}

func (f *MemFile) Pread(dst usermem.Buffer, off int64) (int, errno.Errno) {
	if off < 0 {
		return 0, errno.EINVAL
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if off >= int64(len(f.data)) {
		return 0, errno.ESUCCESS
	}
	return dst.CopyOut(f.data[off:]), errno.ESUCCESS
}

// Cursor returns the sequential read position.
func (f *MemFile) Cursor() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Size returns the current file size.
func (f *MemFile) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.data))
}

// Append grows the file with b. Kernel-side producer, not a guest write.
func (f *MemFile) Append(b []byte) {
	f.mu.Lock()
	f.data = append(f.data, b...)
	f.mu.Unlock()
	f.queue.Broadcast(sched.WakeRead)
}

func (f *MemFile) ReadQueue() *sched.Queue { return &f.queue }

func (f *MemFile) Close() errno.Errno { return errno.ESUCCESS }
