package stockpile

import (
	"fmt"
	"unsafe"
)

// zeroSlot backs the pointers handed out for zero-size component slots. The
// address is valid and non-nil but carries no data.
var zeroSlot byte

// column is type-erased, densely packed storage for one component type's
// values across all rows of one archetype. The buffer holds count*size raw
// bytes; ticks runs parallel to the occupied slots.
//
// Indices are caller contracts, checked only while Config debug checks are
// on. All raw byte movement funnels through the three slot primitives
// (copyIn, moveSlot, destroySlot); nothing else touches the buffer.
type column struct {
	data  []byte
	ticks []ComponentTicks
	desc  ComponentDescriptor
	count int
}

func newColumn(desc ComponentDescriptor) *column {
	return &column{desc: desc}
}

func (c *column) len() int {
	return c.count
}

func (c *column) size() int {
	return int(c.desc.Size)
}

func (c *column) boundsCheck(i int) {
	if Config.debugChecks && (i < 0 || i >= c.count) {
		panic(fmt.Sprintf("stockpile: column index %d out of range (len %d)", i, c.count))
	}
}

// ptr returns the address of slot i. Zero-size types yield a shared
// sentinel address that must never be read through.
func (c *column) ptr(i int) unsafe.Pointer {
	c.boundsCheck(i)
	size := c.size()
	if size == 0 {
		return unsafe.Pointer(&zeroSlot)
	}
	return unsafe.Pointer(&c.data[i*size])
}

func (c *column) ticksAt(i int) *ComponentTicks {
	c.boundsCheck(i)
	return &c.ticks[i]
}

// copyIn overwrites slot i with the bytes at src. Slot primitive.
func (c *column) copyIn(i int, src unsafe.Pointer) {
	size := c.size()
	if size == 0 {
		return
	}
	copy(c.data[i*size:(i+1)*size], unsafe.Slice((*byte)(src), size))
}

// moveSlot copies slot from's bytes into slot to. Slot primitive.
func (c *column) moveSlot(to, from int) {
	size := c.size()
	if size == 0 || to == from {
		return
	}
	copy(c.data[to*size:(to+1)*size], c.data[from*size:(from+1)*size])
}

// destroySlot runs the destructor, if any, over the value in slot i. Slot
// primitive. Zero-size values still get their destructor invoked once.
func (c *column) destroySlot(i int) {
	if c.desc.Drop == nil {
		return
	}
	c.desc.Drop(c.ptr(i))
}

// copyOut copies slot i's bytes to dst, which must have room for the
// component size.
func (c *column) copyOut(i int, dst unsafe.Pointer) {
	c.boundsCheck(i)
	size := c.size()
	if size == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), size), c.data[i*size:(i+1)*size])
}

// push appends a new slot holding a copy of the value at src. The source
// must be a live instance of the column's component type; the archetype
// guarantees this by keying columns by TypeID.
func (c *column) push(src unsafe.Pointer, ticks ComponentTicks) {
	size := c.size()
	if size > 0 {
		c.data = extendByteSlice(c.data, size)
	}
	c.ticks = append(c.ticks, ticks)
	c.count++
	if size > 0 {
		c.copyIn(c.count-1, src)
	}
}

// allocateNext appends an uninitialized slot and returns its address for
// the caller to fill directly. Used by transfers to avoid an intermediate
// copy.
func (c *column) allocateNext(ticks ComponentTicks) unsafe.Pointer {
	size := c.size()
	if size > 0 {
		c.data = extendByteSlice(c.data, size)
	}
	c.ticks = append(c.ticks, ticks)
	c.count++
	return c.ptr(c.count - 1)
}

// swapRemove destroys the value at i, moves the last slot into its place,
// and shrinks the column by one.
func (c *column) swapRemove(i int) {
	c.boundsCheck(i)
	c.destroySlot(i)
	c.removeSlot(i)
}

// swapRemoveNoDrop removes slot i without running the destructor: the
// value's ownership has moved elsewhere (a transfer, or a caller taking the
// value out-of-band).
func (c *column) swapRemoveNoDrop(i int) {
	c.boundsCheck(i)
	c.removeSlot(i)
}

func (c *column) removeSlot(i int) {
	last := c.count - 1
	c.moveSlot(i, last)
	c.ticks[i] = c.ticks[last]
	c.ticks = c.ticks[:last]
	if size := c.size(); size > 0 {
		c.data = c.data[:last*size]
	}
	c.count = last
}

// drop destroys every live slot exactly once and releases the buffer. The
// column must not be used afterwards.
func (c *column) drop() {
	if c.desc.Drop != nil {
		for i := 0; i < c.count; i++ {
			c.destroySlot(i)
		}
	}
	c.data = nil
	c.ticks = nil
	c.count = 0
}

// extendByteSlice grows b by n bytes, doubling capacity on reallocation.
// The new bytes are uninitialized from the column's point of view: callers
// either copyIn over them or hand the slot address out via allocateNext.
func extendByteSlice(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b[:len(b)+n]
	}
	newCap := max(2*cap(b), len(b)+n)
	grown := make([]byte, len(b)+n, newCap)
	copy(grown, b)
	return grown
}
