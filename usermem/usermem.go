// Package usermem guards access to untrusted guest memory.
//
// Syscall entry points receive raw (address, length) pairs from the guest.
// Nothing dereferences those directly: a range must first be turned into a
// Buffer, which fails construction when any part of the range falls outside
// the guest address space.
package usermem

import "encoding/binary"

// IovecSize is the wire size of one scatter vector entry in guest memory:
// a 32 bit base address followed by a 32 bit length, little-endian.
const IovecSize = 8

// IoVec is one scatter vector entry, already copied out of guest memory.
type IoVec struct {
	Base uint32
	Len  uint32
}

// AddressSpace is the bounded, byte-addressable memory of one process.
// Address zero is the start of the space; there is no hole at zero.
type AddressSpace struct {
	data []byte
}

// NewAddressSpace allocates a zeroed address space of the given byte size.
func NewAddressSpace(size uint32) *AddressSpace {
	return &AddressSpace{data: make([]byte, size)}
}

// Size returns the byte size of the space.
func (as *AddressSpace) Size() uint32 {
	return uint32(len(as.data))
}

// ValidRange returns true if [addr, addr+length) lies entirely inside the
// space. The length is taken as uint64 so that addr+length cannot wrap.
func (as *AddressSpace) ValidRange(addr uint32, length uint64) bool {
	return uint64(addr)+length <= uint64(len(as.data))
}

// Buffer validates [addr, addr+length) and returns a Buffer window over it.
// The second result is false when the range is not valid guest memory; the
// caller reports that as a fault.
func (as *AddressSpace) Buffer(addr, length uint32) (Buffer, bool) {
	if !as.ValidRange(addr, uint64(length)) {
		return Buffer{}, false
	}
	return Buffer{data: as.data[addr : uint64(addr)+uint64(length)]}, true
}

// ReadIovecs copies count scatter vector entries starting at addr out of
// guest memory in one bulk transfer. It returns false when the source range
// is not valid guest memory; no partial copy is observable.
func (as *AddressSpace) ReadIovecs(addr uint32, count int32) ([]IoVec, bool) {
	if count < 0 || !as.ValidRange(addr, uint64(count)*IovecSize) {
		return nil, false
	}
	vecs := make([]IoVec, count)
	for i := range vecs {
		off := uint64(addr) + uint64(i)*IovecSize
		vecs[i] = IoVec{
			Base: binary.LittleEndian.Uint32(as.data[off:]),
			Len:  binary.LittleEndian.Uint32(as.data[off+4:]),
		}
	}
	return vecs, true
}

// CopyOut copies src into guest memory at addr, returning false when the
// destination range is not valid. Used by kernel-side producers and tests.
func (as *AddressSpace) CopyOut(addr uint32, src []byte) bool {
	if !as.ValidRange(addr, uint64(len(src))) {
		return false
	}
	copy(as.data[addr:], src)
	return true
}

// CopyIn returns a copy of length bytes of guest memory at addr, or false
// when the source range is not valid.
func (as *AddressSpace) CopyIn(addr, length uint32) ([]byte, bool) {
	if !as.ValidRange(addr, uint64(length)) {
		return nil, false
	}
	out := make([]byte, length)
	copy(out, as.data[addr:])
	return out, true
}

// PutIovec writes one scatter vector entry into guest memory at addr, in
// wire format. Returns false when the destination range is not valid.
func (as *AddressSpace) PutIovec(addr uint32, iov IoVec) bool {
	if !as.ValidRange(addr, IovecSize) {
		return false
	}
	binary.LittleEndian.PutUint32(as.data[addr:], iov.Base)
	binary.LittleEndian.PutUint32(as.data[addr+4:], iov.Len)
	return true
}

// Buffer is a validated window over guest memory, good for exactly one
// kernel-to-guest transfer. It must not outlive the syscall that made it.
type Buffer struct {
	data []byte
}

// Len returns the byte length of the window.
func (b Buffer) Len() int {
	return len(b.data)
}

// Bytes exposes the window for a Description to fill directly.
func (b Buffer) Bytes() []byte {
	return b.data
}

// CopyOut copies src into the window, returning the number of bytes copied.
// Copies are truncated to the window, never faulting.
func (b Buffer) CopyOut(src []byte) int {
	return copy(b.data, src)
}
