package vfs

import (
	"sync"

	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/sched"
	"github.com/halcyonos/halcyon/usermem"
)

// Pipe is the read end of a byte stream. It is not seekable, and in
// blocking mode (the default) a read with no buffered bytes suspends the
// calling thread until a writer produces data or closes the write end.
type Pipe struct {
	UnimplementedDescription

	mu          sync.Mutex
	buf         []byte
	blocking    bool
	writeClosed bool

	readers sched.Queue
}

var _ Description = (*Pipe)(nil)

// NewPipe returns an empty pipe in blocking mode.
func NewPipe() *Pipe {
	return &Pipe{blocking: true}
}

func (p *Pipe) Readable() bool { return true }

func (p *Pipe) Blocking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocking
}

// SetBlocking switches the pipe between blocking and non-blocking reads.
func (p *Pipe) SetBlocking(blocking bool) {
	p.mu.Lock()
	p.blocking = blocking
	p.mu.Unlock()
}

// CanRead returns true when bytes are buffered, or when the write end is
// closed and a read would report end of stream without blocking.
func (p *Pipe) CanRead() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf) > 0 || p.writeClosed
}

func (p *Pipe) Read(dst usermem.Buffer) (int, errno.Errno) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) == 0 {
		if p.writeClosed {
			return 0, errno.ESUCCESS // end of stream
		}
		return 0, errno.EAGAIN
	}
	n := dst.CopyOut(p.buf)
	p.buf = p.buf[:copy(p.buf, p.buf[n:])]
	return n, errno.ESUCCESS
}

// Pread is rejected: a pipe has no byte offsets.
func (p *Pipe) Pread(usermem.Buffer, int64) (int, errno.Errno) {
	return 0, errno.ESPIPE
}

// Write appends b to the pipe and wakes every blocked reader. It fails
// with errno.EPIPE after CloseWrite. This is the kernel-side producer
// used by embedders; the guest-facing write path is out of scope.
func (p *Pipe) Write(b []byte) (int, errno.Errno) {
	p.mu.Lock()
	if p.writeClosed {
		p.mu.Unlock()
		return 0, errno.EPIPE
	}
	p.buf = append(p.buf, b...)
	p.mu.Unlock()
	p.readers.Broadcast(sched.WakeRead)
	return len(b), errno.ESUCCESS
}

// CloseWrite closes the write end. Blocked readers wake and observe end
// of stream once the buffer drains.
func (p *Pipe) CloseWrite() {
	p.mu.Lock()
	p.writeClosed = true
	p.mu.Unlock()
	p.readers.Broadcast(sched.WakeRead)
}

// Buffered returns the number of bytes waiting to be read.
func (p *Pipe) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

func (p *Pipe) ReadQueue() *sched.Queue { return &p.readers }

func (p *Pipe) Close() errno.Errno {
	p.CloseWrite()
	p.mu.Lock()
	p.buf = nil
	p.mu.Unlock()
	return errno.ESUCCESS
}
