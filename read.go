package halcyon

import (
	"math"

	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/sched"
	"github.com/halcyonos/halcyon/usermem"
	"github.com/halcyonos/halcyon/vfs"
)

// readableDescription resolves fd into a description eligible for reading.
// Pure lookup and classification; no side effects.
func (p *Process) readableDescription(fd int32) (vfs.Description, errno.Errno) {
	p.bigLock.AssertHeld()
	fe, ok := p.fds.Lookup(fd)
	if !ok {
		return nil, errno.EBADF
	}
	d := fe.Description
	if !d.Readable() {
		return nil, errno.EBADF
	}
	if d.IsDirectory() {
		return nil, errno.EISDIR
	}
	return d, errno.ESUCCESS
}

// awaitReadable suspends t until d reports data, when d is in blocking
// mode and has none. Interruption aborts the wait with errno.EINTR and is
// terminal for the call; a wake without the read flag is a spurious wake
// and reports errno.EAGAIN.
func awaitReadable(t *sched.Thread, d vfs.Description) errno.Errno {
	if !d.Blocking() {
		return errno.ESUCCESS
	}
	if d.CanRead() {
		return errno.ESUCCESS
	}
	// Await re-checks CanRead after registering on the queue, so a
	// producer landing between the check above and the park is seen.
	reason, interrupted := t.Await(d.ReadQueue(), d.CanRead)
	if interrupted {
		return errno.EINTR
	}
	if reason&sched.WakeRead == 0 {
		return errno.EAGAIN
	}
	// TODO: surface sched.WakeException once a producer raises it.
	return errno.ESUCCESS
}

// Read transfers up to size bytes from fd into guest memory at addr and
// returns the count transferred. A zero size succeeds immediately without
// validating addr.
func (p *Process) Read(t *sched.Thread, fd int32, addr, size uint32) (int, errno.Errno) {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	if size == 0 {
		return 0, errno.ESUCCESS
	}
	if size > math.MaxInt32 {
		return 0, errno.EINVAL
	}
	p.log.Debug().Int32("fd", fd).Uint32("addr", addr).Uint32("size", size).Msg("read")
	d, errc := p.readableDescription(fd)
	if errc != errno.ESUCCESS {
		return 0, errc
	}
	if errc := awaitReadable(t, d); errc != errno.ESUCCESS {
		return 0, errc
	}
	buf, ok := p.as.Buffer(addr, size)
	if !ok {
		return 0, errno.EFAULT
	}
	n, errc := d.Read(buf)
	if errc != errno.ESUCCESS {
		return 0, errc
	}
	return n, errno.ESUCCESS
}

// Readv transfers bytes from fd into the iovCount guest buffers described
// by the scatter vector at iovAddr, servicing entries strictly in the
// supplied order, and returns the total count transferred.
//
// The vector is copied into kernel memory once, up front, and the sum of
// its lengths must not exceed the maximum signed 32 bit value.
//
// Availability is re-checked before each entry, so a blocking-mode call
// may suspend several times. Partial effects on error: when an interior
// entry fails, bytes already delivered to prior entries stay delivered,
// but the returned count is discarded in favor of the error.
func (p *Process) Readv(t *sched.Thread, fd int32, iovAddr uint32, iovCount int32) (int, errno.Errno) {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	if iovCount < 0 {
		return 0, errno.EINVAL
	}

	// Arbitrary pain threshold.
	if iovCount > p.kernel.vectorCeiling {
		return 0, errno.EFAULT
	}
	if uint64(iovCount)*usermem.IovecSize > p.kernel.vectorBudget {
		return 0, errno.ENOMEM
	}
	p.log.Debug().Int32("fd", fd).Uint32("iov", iovAddr).Int32("count", iovCount).Msg("readv")

	vecs, ok := p.as.ReadIovecs(iovAddr, iovCount)
	if !ok {
		return 0, errno.EFAULT
	}

	var totalLength uint64
	for _, vec := range vecs {
		totalLength += uint64(vec.Len)
		if totalLength > math.MaxInt32 {
			return 0, errno.EINVAL
		}
	}

	d, errc := p.readableDescription(fd)
	if errc != errno.ESUCCESS {
		return 0, errc
	}

	nread := 0
	for _, vec := range vecs {
		if errc := awaitReadable(t, d); errc != errno.ESUCCESS {
			return 0, errc
		}
		buf, ok := p.as.Buffer(vec.Base, vec.Len)
		if !ok {
			return 0, errno.EFAULT
		}
		n, errc := d.Read(buf)
		if errc != errno.ESUCCESS {
			return 0, errc
		}
		nread += n
	}

	return nread, errno.ESUCCESS
}

// Pread transfers up to size bytes from fd at the given byte offset into
// guest memory at addr, leaving any sequential cursor untouched. It fails
// with errno.EINVAL on objects that are not seekable.
func (p *Process) Pread(t *sched.Thread, fd int32, addr, size uint32, offset int64) (int, errno.Errno) {
	p.bigLock.Lock()
	defer p.bigLock.Unlock()
	if size == 0 {
		return 0, errno.ESUCCESS
	}
	if size > math.MaxInt32 {
		return 0, errno.EINVAL
	}
	if offset < 0 {
		return 0, errno.EINVAL
	}
	p.log.Debug().Int32("fd", fd).Uint32("addr", addr).Uint32("size", size).Int64("offset", offset).Msg("pread")
	d, errc := p.readableDescription(fd)
	if errc != errno.ESUCCESS {
		return 0, errc
	}
	if !d.Seekable() {
		return 0, errno.EINVAL
	}
	if errc := awaitReadable(t, d); errc != errno.ESUCCESS {
		return 0, errc
	}
	buf, ok := p.as.Buffer(addr, size)
	if !ok {
		return 0, errno.EFAULT
	}
	n, errc := d.Pread(buf, offset)
	if errc != errno.ESUCCESS {
		return 0, errc
	}
	return n, errno.ESUCCESS
}
