package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// buffer is a growable GL buffer object whose prefix survives reallocation.
type buffer struct {
	id       uint32
	capacity int // bytes allocated
	size     int // bytes holding uploaded data
}

// growth decides the capacity needed to hold need bytes. It returns the
// current capacity unchanged when no reallocation is required.
func growth(capacity, need int) (newCapacity int, realloc bool) {
	if need <= capacity {
		return capacity, false
	}
	return max(need, capacity*2), true
}

// write stores data so that the buffer holds keep bytes of its existing
// contents followed by data. keep is clamped to what was uploaded before.
// It reports whether the buffer object was replaced.
func (b *buffer) write(data unsafe.Pointer, keep, length int) (replaced bool) {
	keep = min(keep, b.size)
	need := keep + length

	if newCap, realloc := growth(b.capacity, need); realloc {
		var id uint32
		gl.GenBuffers(1, &id)
		gl.BindBuffer(gl.COPY_WRITE_BUFFER, id)
		gl.BufferData(gl.COPY_WRITE_BUFFER, newCap, nil, gl.DYNAMIC_DRAW)

		if b.id != 0 {
			if keep > 0 {
				gl.BindBuffer(gl.COPY_READ_BUFFER, b.id)
				gl.CopyBufferSubData(gl.COPY_READ_BUFFER, gl.COPY_WRITE_BUFFER, 0, 0, keep)
				gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
			}
			gl.DeleteBuffers(1, &b.id)
		}
		gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

		b.id = id
		b.capacity = newCap
		replaced = true
	}

	if length > 0 {
		gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
		gl.BufferSubData(gl.COPY_WRITE_BUFFER, keep, length, data)
		gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	}
	b.size = need
	return replaced
}

func (b *buffer) release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
	}
	b.id, b.capacity, b.size = 0, 0, 0
}
