// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

// ReadUnsafe exposes the head segment's readable window directly to fn,
// without copying, and advances the buffer by whatever fn reports it
// consumed. fn must return a value in [0, len(data)]; anything else fails
// with ErrOutOfRange and leaves the buffer unchanged.
//
// The slice passed to fn aliases pool-owned memory and is invalid the
// moment fn returns; callers must not retain it (spec.md §4.8, C9).
func (b *Buffer) ReadUnsafe(fn func(data []byte) (consumed int)) (int, error) {
	if b.size == 0 {
		return 0, nil
	}
	s := b.head
	view := s.data[s.pos:s.limit]
	consumed := fn(view)
	if consumed < 0 || consumed > len(view) {
		return 0, ErrOutOfRange
	}
	if consumed == 0 {
		return 0, nil
	}
	if err := b.Skip(int64(consumed)); err != nil {
		return 0, err
	}
	return consumed, nil
}

// WriteUnsafe exposes at least minCapacity writable bytes of the tail
// segment directly to fn, without copying, and advances the buffer by
// whatever fn reports it produced. fn must return a value in
// [0, len(data)]; anything else fails with ErrOutOfRange and leaves the
// buffer unchanged.
//
// The slice passed to fn aliases pool-owned memory and is invalid the
// moment fn returns; callers must not retain it. A shared tail segment is
// never written into: a fresh segment is appended instead.
func (b *Buffer) WriteUnsafe(minCapacity int, fn func(data []byte) (produced int)) (int, error) {
	if minCapacity < 0 {
		return 0, ErrInvalidArgument
	}
	seg := b.writableSegment(minCapacity)
	if seg.shared() {
		seg.detach(b.pool)
	}
	view := seg.data[seg.limit:]
	produced := fn(view)
	if produced < 0 || produced > len(view) {
		return 0, ErrOutOfRange
	}
	seg.limit += produced
	b.size += int64(produced)
	return produced, nil
}
