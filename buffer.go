// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import "io"

// Source is the read side of the core I/O abstraction: it moves at most
// maxBytes into dest, returning the count moved, -1 on exhaustion (when
// maxBytes > 0), or a non-nil error.
type Source interface {
	ReadAtMostTo(dest *Buffer, maxBytes int64) (int64, error)
	Close() error
}

// Sink is the write side: it removes exactly byteCount bytes from the head
// of src and accepts them. The name mirrors io.ReaderFrom.ReadFrom rather
// than io.Writer.Write because Buffer also implements io.Writer directly,
// over a plain []byte, and Go does not allow overloading Write by argument
// type.
type Sink interface {
	WriteFrom(src *Buffer, byteCount int64) error
	Flush() error
	Close() error
}

// Buffer is an ordered, possibly empty, doubly-linked list of segments plus
// a running size. It is simultaneously a Source and a Sink: the head
// segment holds the oldest bytes, the tail the newest (spec.md §3, C4).
//
// The zero value is not ready to use; construct with NewBuffer.
type Buffer struct {
	head, tail *Segment
	size       int64
	pool       *SegmentPool
}

// NewBuffer returns an empty Buffer drawing segments from DefaultPool.
func NewBuffer() *Buffer {
	return &Buffer{pool: DefaultPool}
}

// NewBufferWithPool returns an empty Buffer drawing segments from pool.
func NewBufferWithPool(pool *SegmentPool) *Buffer {
	if pool == nil {
		pool = DefaultPool
	}
	return &Buffer{pool: pool}
}

// Size returns the number of readable bytes currently buffered.
func (b *Buffer) Size() int64 { return b.size }

// Exhausted reports whether the buffer currently holds no readable bytes.
func (b *Buffer) Exhausted() bool { return b.size == 0 }

func (b *Buffer) appendSegment(seg *Segment) {
	if b.tail == nil {
		b.head = seg
		b.tail = seg
		return
	}
	_ = b.tail.push(seg)
	b.tail = seg
}

// writableSegment returns a tail segment with at least minCapacity writable
// bytes, allocating a fresh one from the pool when the current tail is
// absent, shared, or too full. The returned segment is always safe to
// write into directly.
func (b *Buffer) writableSegment(minCapacity int) *Segment {
	if b.tail != nil && !b.tail.shared() && b.tail.writable() >= minCapacity {
		return b.tail
	}
	seg := b.pool.take()
	b.appendSegment(seg)
	return seg
}

// popHeadIfEmpty unlinks and recycles fully consumed head segments while
// more than one segment remains. A lone empty segment left behind once the
// buffer holds no bytes is recycled too, leaving head and tail nil.
func (b *Buffer) popHeadIfEmpty() {
	for b.head != nil && b.head.len() == 0 && b.head != b.tail {
		old := b.head
		b.head = old.pop()
		b.pool.recycle(old)
	}
	if b.head != nil && b.head.len() == 0 && b.head == b.tail && b.size == 0 {
		b.pool.recycle(b.head)
		b.head = nil
		b.tail = nil
	}
}

// WriteFrom moves exactly n bytes from the head of src to the tail of b.
// Whole segments change owners without copying payload. A partial head
// segment is copied into b's tail when that tail has room; otherwise it is
// split, and the moved prefix shares the backing array instead of copying
// it when it is at least splitCopyThreshold bytes long.
func (b *Buffer) WriteFrom(src *Buffer, n int64) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	if n > src.size {
		return ErrInvalidArgument
	}
	if n == 0 {
		return nil
	}
	remaining := n
	for remaining > 0 {
		s := src.head
		segLen := int64(s.len())
		switch {
		case segLen <= remaining:
			src.head = s.pop()
			if src.head == nil {
				src.tail = nil
			}
			b.appendSegment(s)
			remaining -= segLen
		default:
			if b.tail != nil {
				if b.tail.shared() {
					b.tail.detach(b.pool)
				}
				if err := s.writeTo(b.tail, int(remaining)); err == nil {
					remaining = 0
					break
				}
			}
			prefix, err := s.split(b.pool, int(remaining))
			if err != nil {
				return err
			}
			b.appendSegment(prefix)
			remaining = 0
		}
	}
	src.size -= n
	b.size += n
	src.popHeadIfEmpty()
	return nil
}

// ReadAtMostTo moves at most maxBytes from b's head into dest, returning
// the number of bytes moved, or -1 when b is empty and maxBytes > 0.
func (b *Buffer) ReadAtMostTo(dest *Buffer, maxBytes int64) (int64, error) {
	if maxBytes < 0 {
		return 0, ErrInvalidArgument
	}
	if maxBytes == 0 {
		return 0, nil
	}
	if b.size == 0 {
		return -1, nil
	}
	n := maxBytes
	if n > b.size {
		n = b.size
	}
	if err := dest.WriteFrom(b, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close is a no-op: a Buffer has no upstream or downstream resource.
func (b *Buffer) Close() error { return nil }

// Flush is a no-op for the same reason as Close.
func (b *Buffer) Flush() error { return nil }

// Clear discards all buffered bytes, recycling every segment.
func (b *Buffer) Clear() {
	b.pool.recycleChain(b.head)
	b.head = nil
	b.tail = nil
	b.size = 0
}

// Skip discards n bytes from the head, freeing whole segments as they
// empty. It fails with io.EOF, leaving the buffer unchanged, if n exceeds
// Size.
func (b *Buffer) Skip(n int64) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	if n > b.size {
		return io.EOF
	}
	remaining := n
	for remaining > 0 {
		s := b.head
		l := int64(s.len())
		if l <= remaining {
			b.head = s.pop()
			if b.head == nil {
				b.tail = nil
			}
			b.pool.recycle(s)
			remaining -= l
		} else {
			s.pos += int(remaining)
			remaining = 0
		}
	}
	b.size -= n
	return nil
}

// Get returns the byte at logical offset pos without consuming it.
func (b *Buffer) Get(pos int64) (byte, error) {
	if pos < 0 || pos >= b.size {
		return 0, ErrOutOfRange
	}
	offset := pos
	for s := b.head; s != nil; s = s.next {
		l := int64(s.len())
		if offset < l {
			return s.data[s.pos+int(offset)], nil
		}
		offset -= l
	}
	return 0, ErrOutOfRange
}

// IndexOf scans [from, to) for the first occurrence of needle, returning
// its absolute logical offset, or -1 if it is not present in that window.
// to of -1 means "to the end of the buffer". The scan is a linear walk
// across segments; it does not preprocess needle (spec.md §9, Open
// Question ii).
func (b *Buffer) IndexOf(needle byte, from, to int64) (int64, error) {
	if from < 0 {
		return 0, ErrInvalidArgument
	}
	if to < 0 {
		to = b.size
	}
	if to > b.size {
		to = b.size
	}
	if from >= to {
		return -1, nil
	}

	offset := int64(0)
	pos := from
	s := b.head
	for s != nil && offset+int64(s.len()) <= from {
		offset += int64(s.len())
		s = s.next
	}
	for s != nil && pos < to {
		local := int(pos - offset)
		limit := s.len()
		if rem := to - offset; rem < int64(limit) {
			limit = int(rem)
		}
		for i := local; i < limit; i++ {
			if s.data[s.pos+i] == needle {
				return offset + int64(i), nil
			}
		}
		offset += int64(s.len())
		pos = offset
		s = s.next
	}
	return -1, nil
}

// Copy returns an independent Buffer referencing the same underlying
// segment byte arrays via CopyTracker. Both buffers behave as if each owned
// the data; a write to either one's shared tail triggers detach.
func (b *Buffer) Copy() *Buffer {
	nb := &Buffer{pool: b.pool, size: b.size}
	var prev *Segment
	for s := b.head; s != nil; s = s.next {
		c := s.sharedCopy()
		if prev == nil {
			nb.head = c
		} else {
			_ = prev.push(c)
		}
		prev = c
	}
	nb.tail = prev
	return nb
}

// Snapshot is an immutable byte-string view of a Buffer's contents at the
// moment it was taken, backed by copy-on-write segments rather than a
// contiguous copy.
type Snapshot struct {
	data *Buffer
}

// TakeSnapshot captures b's current contents without copying payload bytes.
// Subsequent writes to b do not affect the snapshot: they detach instead of
// mutating the segments the snapshot still references.
func (b *Buffer) TakeSnapshot() *Snapshot {
	return &Snapshot{data: b.Copy()}
}

// Len returns the snapshot's byte length.
func (s *Snapshot) Len() int64 { return s.data.size }

// Bytes materializes the snapshot into a single contiguous, independently
// owned slice.
func (s *Snapshot) Bytes() []byte {
	tmp := s.data.Copy()
	out := make([]byte, tmp.size)
	_, _ = io.ReadFull(tmp, out)
	return out
}

// NewSource returns a fresh, independently consumable Source over the
// snapshot's bytes; consuming it never affects the snapshot or any other
// source derived from it.
func (s *Snapshot) NewSource() Source {
	return s.data.Copy()
}

// Read implements io.Reader, consuming up to len(p) bytes.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.size == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && b.head != nil {
		s := b.head
		c := copy(p[n:], s.data[s.pos:s.limit])
		s.pos += c
		n += c
		if s.len() == 0 {
			b.head = s.pop()
			if b.head == nil {
				b.tail = nil
			}
			b.pool.recycle(s)
		}
	}
	b.size -= int64(n)
	return n, nil
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	seg := b.writableSegment(1)
	seg.data[seg.limit] = c
	seg.limit++
	b.size++
	return nil
}

// ReadByte implements io.ByteReader.
func (b *Buffer) ReadByte() (byte, error) {
	if b.size == 0 {
		return 0, io.EOF
	}
	s := b.head
	c := s.data[s.pos]
	s.pos++
	b.size--
	if s.len() == 0 {
		b.head = s.pop()
		if b.head == nil {
			b.tail = nil
		}
		b.pool.recycle(s)
	}
	return c, nil
}

// Write implements io.Writer, appending all of p.
func (b *Buffer) Write(p []byte) (int, error) {
	off := 0
	for off < len(p) {
		seg := b.writableSegment(1)
		n := copy(seg.data[seg.limit:], p[off:])
		seg.limit += n
		off += n
		b.size += int64(n)
	}
	return len(p), nil
}

// WriteTo implements io.WriterTo, draining b's entire contents into w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for b.head != nil {
		s := b.head
		n, err := w.Write(s.data[s.pos:s.limit])
		s.pos += n
		total += int64(n)
		b.size -= int64(n)
		if s.len() == 0 {
			b.head = s.pop()
			if b.head == nil {
				b.tail = nil
			}
			b.pool.recycle(s)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom implements io.ReaderFrom, appending everything r produces.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		seg := b.writableSegment(1)
		n, err := r.Read(seg.data[seg.limit:])
		seg.limit += n
		b.size += int64(n)
		total += int64(n)
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}
