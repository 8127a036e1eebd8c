// Package errno defines the error codes the kernel reports to callers.
package errno

import "fmt"

// Errno is a type representing kernel error codes and implementing the
// error interface. Zero is success and is never a valid error value.
type Errno uint32

func (err Errno) Error() string {
	if int(err) < len(errnoToString) {
		return errnoToString[err]
	}
	return fmt.Sprintf("errno(%d)", uint32(err))
}

// Name returns the symbolic name of this code, e.g. "EBADF".
func (err Errno) Name() string {
	return err.Error()
}

// Error codes returned by syscall entry points.
//
// The numbering is internal to this kernel: callers compare against these
// constants, not against any host errno values.
const (
	ESUCCESS Errno = 0
	EAGAIN   Errno = 1 /* Data not ready, try again */
	EBADF    Errno = 2 /* Bad file descriptor */
	EFAULT   Errno = 3 /* Bad address */
	EINTR    Errno = 4 /* Interrupted syscall */
	EINVAL   Errno = 5 /* Invalid argument */
	EIO      Errno = 6 /* I/O error */
	EISDIR   Errno = 7 /* Is a directory */
	EMFILE   Errno = 8 /* Too many open descriptions */
	ENOMEM   Errno = 9  /* Out of memory */
	ENOSYS   Errno = 10 /* Operation not implemented */
	EPIPE    Errno = 11
	ESPIPE   Errno = 12 /* Illegal seek */
)

var errnoToString = [...]string{
	"ESUCCESS",
	"EAGAIN",
	"EBADF",
	"EFAULT",
	"EINTR",
	"EINVAL",
	"EIO",
	"EISDIR",
	"EMFILE",
	"ENOMEM",
	"ENOSYS",
	"EPIPE",
	"ESPIPE",
}
