package vfs

import (
	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/usermem"
)

// Dir is a directory kind. It carries the readable flag, as a directory
// opened for reading does, but the resolver rejects it before any byte
// transfer.
type Dir struct {
	UnimplementedDescription
}

var _ Description = Dir{}

func (Dir) Readable() bool    { return true }
func (Dir) IsDirectory() bool { return true }
func (Dir) Seekable() bool    { return true }

// Read never runs through the syscall layer; kept as a backstop.
func (Dir) Read(usermem.Buffer) (int, errno.Errno) {
	return 0, errno.EISDIR
}

func (Dir) Pread(usermem.Buffer, int64) (int, errno.Errno) {
	return 0, errno.EISDIR
}

// ZeroDevice is a character device kind producing an endless stream of
// zero bytes. It never blocks and has no notion of a byte offset.
type ZeroDevice struct {
	UnimplementedDescription
}

var _ Description = ZeroDevice{}

func (ZeroDevice) Readable() bool { return true }
func (ZeroDevice) CanRead() bool  { return true }

func (ZeroDevice) Read(dst usermem.Buffer) (int, errno.Errno) {
	b := dst.Bytes()
	for i := range b {
		b[i] = 0
	}
	return len(b), errno.ESUCCESS
}

func (ZeroDevice) Pread(usermem.Buffer, int64) (int, errno.Errno) {
	return 0, errno.ESPIPE
}
