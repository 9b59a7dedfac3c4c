// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import (
	"io"
	"math"
)

// readUint reads an n-byte unsigned integer from the head of the buffer. A
// direct typed load is used when the value fits entirely within the head
// segment; otherwise it is assembled byte-by-byte across the segment
// boundary, which produces identical bytes either way (spec.md §4.5).
func (b *Buffer) readUint(n int, littleEndian bool) (uint64, error) {
	if int64(n) > b.size {
		return 0, io.EOF
	}

	var v uint64
	s := b.head
	if s.len() >= n {
		d := s.data[s.pos : s.pos+n]
		if littleEndian {
			for i := n - 1; i >= 0; i-- {
				v = v<<8 | uint64(d[i])
			}
		} else {
			for i := 0; i < n; i++ {
				v = v<<8 | uint64(d[i])
			}
		}
		s.pos += n
	} else {
		buf := make([]byte, n)
		for i := 0; i < n; i++ {
			c, err := b.ReadByte()
			if err != nil {
				return 0, io.EOF
			}
			buf[i] = c
		}
		if littleEndian {
			for i := n - 1; i >= 0; i-- {
				v = v<<8 | uint64(buf[i])
			}
		} else {
			for i := 0; i < n; i++ {
				v = v<<8 | uint64(buf[i])
			}
		}
		b.popHeadIfEmpty()
		return v, nil
	}
	b.size -= int64(n)
	b.popHeadIfEmpty()
	return v, nil
}

func (b *Buffer) writeUint(n int, littleEndian bool, v uint64) {
	seg := b.writableSegment(n)
	if seg.writable() >= n {
		d := seg.data[seg.limit : seg.limit+n]
		if littleEndian {
			for i := 0; i < n; i++ {
				d[i] = byte(v)
				v >>= 8
			}
		} else {
			for i := n - 1; i >= 0; i-- {
				d[i] = byte(v)
				v >>= 8
			}
		}
		seg.limit += n
		b.size += int64(n)
		return
	}
	// minCapacity request exceeded what a single fresh segment offers only
	// when n > segment capacity, which never happens for n <= 8; fall back
	// to per-byte writes defensively.
	buf := make([]byte, n)
	vv := v
	if littleEndian {
		for i := 0; i < n; i++ {
			buf[i] = byte(vv)
			vv >>= 8
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			buf[i] = byte(vv)
			vv >>= 8
		}
	}
	_, _ = b.Write(buf)
}

// ReadShort reads a big-endian int16.
func (b *Buffer) ReadShort() (int16, error) {
	v, err := b.readUint(2, false)
	return int16(v), err
}

// ReadShortLe reads a little-endian int16.
func (b *Buffer) ReadShortLe() (int16, error) {
	v, err := b.readUint(2, true)
	return int16(v), err
}

// WriteShort appends a big-endian int16.
func (b *Buffer) WriteShort(v int16) { b.writeUint(2, false, uint64(uint16(v))) }

// WriteShortLe appends a little-endian int16.
func (b *Buffer) WriteShortLe(v int16) { b.writeUint(2, true, uint64(uint16(v))) }

// ReadInt reads a big-endian int32.
func (b *Buffer) ReadInt() (int32, error) {
	v, err := b.readUint(4, false)
	return int32(v), err
}

// ReadIntLe reads a little-endian int32.
func (b *Buffer) ReadIntLe() (int32, error) {
	v, err := b.readUint(4, true)
	return int32(v), err
}

// WriteInt appends a big-endian int32.
func (b *Buffer) WriteInt(v int32) { b.writeUint(4, false, uint64(uint32(v))) }

// WriteIntLe appends a little-endian int32.
func (b *Buffer) WriteIntLe(v int32) { b.writeUint(4, true, uint64(uint32(v))) }

// ReadLong reads a big-endian int64.
func (b *Buffer) ReadLong() (int64, error) {
	v, err := b.readUint(8, false)
	return int64(v), err
}

// ReadLongLe reads a little-endian int64.
func (b *Buffer) ReadLongLe() (int64, error) {
	v, err := b.readUint(8, true)
	return int64(v), err
}

// WriteLong appends a big-endian int64.
func (b *Buffer) WriteLong(v int64) { b.writeUint(8, false, uint64(v)) }

// WriteLongLe appends a little-endian int64.
func (b *Buffer) WriteLongLe(v int64) { b.writeUint(8, true, uint64(v)) }

// ReadFloat reads a big-endian float32. The conversion goes through a
// bit-exact uint32 reinterpretation, so NaN bit patterns round-trip
// unchanged.
func (b *Buffer) ReadFloat() (float32, error) {
	v, err := b.readUint(4, false)
	return math.Float32frombits(uint32(v)), err
}

// ReadFloatLe reads a little-endian float32.
func (b *Buffer) ReadFloatLe() (float32, error) {
	v, err := b.readUint(4, true)
	return math.Float32frombits(uint32(v)), err
}

// WriteFloat appends a big-endian float32.
func (b *Buffer) WriteFloat(v float32) { b.writeUint(4, false, uint64(math.Float32bits(v))) }

// WriteFloatLe appends a little-endian float32.
func (b *Buffer) WriteFloatLe(v float32) { b.writeUint(4, true, uint64(math.Float32bits(v))) }

// ReadDouble reads a big-endian float64.
func (b *Buffer) ReadDouble() (float64, error) {
	v, err := b.readUint(8, false)
	return math.Float64frombits(v), err
}

// ReadDoubleLe reads a little-endian float64.
func (b *Buffer) ReadDoubleLe() (float64, error) {
	v, err := b.readUint(8, true)
	return math.Float64frombits(v), err
}

// WriteDouble appends a big-endian float64.
func (b *Buffer) WriteDouble(v float64) { b.writeUint(8, false, math.Float64bits(v)) }

// WriteDoubleLe appends a little-endian float64.
func (b *Buffer) WriteDoubleLe(v float64) { b.writeUint(8, true, math.Float64bits(v)) }
