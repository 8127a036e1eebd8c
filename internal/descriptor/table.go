// Package descriptor provides a dense table of items keyed by small
// non-negative integers, used to implement file descriptor tables.
package descriptor

import "math/bits"

// Table is a data structure mapping 32 bit descriptors to items.
//
// # Negative keys are invalid.
//
// Negative keys pose a risk of using them as indexes into internal slices,
// causing panics. To prevent this, the methods of Table reject negative
// keys.
//
// # The zero value of Table is an empty table.
//
// Keys are allocated lowest-first from a bitmask of used slots, which
// matches POSIX descriptor allocation order.
type Table[Key ~int32, Item any] struct {
	masks []uint64
	items []Item
}

// Len returns the number of items stored in the table.
func (t *Table[Key, Item]) Len() (n int) {
	for _, mask := range t.masks {
		n += bits.OnesCount64(mask)
	}
	return n
}

// grow ensures the table has capacity for at least n more items.
func (t *Table[Key, Item]) grow(n int) {
	total := len(t.items) + n
	items := make([]Item, total)
	copy(items, t.items)
	masks := make([]uint64, (total+63)/64)
	copy(masks, t.masks)
	t.items = items
	t.masks = masks
}

// Insert inserts the given item to the table, returning the key that it was
// assigned to. The method fails if the table has no free slot left, which
// only happens once every valid 32 bit key is in use.
func (t *Table[Key, Item]) Insert(item Item) (key Key, ok bool) {
	offset := 0
insert:
	// Note: this loop could be made a lot more efficient using vectorized
	// operations: 256 bits vector registers would yield a theoretical 4x
	// speed up (e.g. using AVX2).
	for index, mask := range t.masks[offset:] {
		if ^mask != 0 { // not all bits are set
			shift := bits.TrailingZeros64(^mask)
			index += offset
			key = Key(index)*64 + Key(shift)
			t.items[key] = item
			t.masks[index] = mask | uint64(1<<shift)
			return key, key >= 0
		}
	}

	offset = len(t.masks)
	n := 2 * len(t.masks)
	if n == 0 {
		n = 1
	}

	t.grow(n*64 - len(t.items))
	goto insert
}

// Lookup returns the item associated with the given key (may be nil).
func (t *Table[Key, Item]) Lookup(key Key) (item Item, found bool) {
	if key < 0 { // invalid key
		return
	}
	if i := int(key); i >= 0 && i < len(t.items) {
		index := uint(key) / 64
		shift := uint(key) % 64
		if (t.masks[index] & (1 << shift)) != 0 {
			item, found = t.items[i], true
		}
	}
	return
}

// InsertAt inserts the given item at the desired key location, overwriting
// any previous item stored at that key. It returns false if the desired key
// is out of valid range.
func (t *Table[Key, Item]) InsertAt(item Item, key Key) bool {
	if key < 0 { // invalid key
		return false
	}
	if int(key) >= len(t.items) {
		t.grow(int(key) + 1 - len(t.items))
	}
	index := uint(key) / 64
	shift := uint(key) % 64
	t.masks[index] |= 1 << shift
	t.items[key] = item
	return true
}

// Delete deletes the item stored at the given key from the table.
func (t *Table[Key, Item]) Delete(key Key) {
	if key < 0 { // invalid key
		return
	}
	if index, shift := key/64, key%64; int(index) < len(t.masks) {
		mask := t.masks[index]
		if (mask & (1 << shift)) != 0 {
			var zero Item
			t.items[key] = zero
			t.masks[index] = mask & ^uint64(1<<shift)
		}
	}
}

// Range calls f for each item and its associated key in the table. The
// function f might return false to interupt the iteration.
func (t *Table[Key, Item]) Range(f func(Key, Item) bool) {
	for i, mask := range t.masks {
		if mask == 0 {
			continue
		}
		for j := Key(0); j < 64; j++ {
			if (mask & (1 << j)) == 0 {
				continue
			}
			if key := Key(i)*64 + j; !f(key, t.items[key]) {
				return
			}
		}
	}
}

// Reset clears the content of the table.
func (t *Table[Key, Item]) Reset() {
	for i := range t.masks {
		t.masks[i] = 0
	}
	var zero Item
	for i := range t.items {
		t.items[i] = zero
	}
}
