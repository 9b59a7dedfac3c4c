// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

// PeekSource is a non-consuming Source backed by a BufferedSource's internal
// buffer plus a private offset. Reading through it never advances the
// BufferedSource it was created from; refilling upstream to satisfy a read
// past the currently buffered bytes does make those bytes visible to the
// originating BufferedSource too, since they share the same underlying
// buffer (spec.md §4.7, C7).
type PeekSource struct {
	bs     *BufferedSource
	offset int64
	closed bool
}

// ReadAtMostTo copies up to maxBytes starting at the peek cursor into dest,
// without consuming them from the underlying BufferedSource.
func (p *PeekSource) ReadAtMostTo(dest *Buffer, maxBytes int64) (int64, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if maxBytes < 0 {
		return 0, ErrInvalidArgument
	}
	if maxBytes == 0 {
		return 0, nil
	}
	for p.bs.buf.Size() <= p.offset {
		ok, err := p.bs.Request(p.offset + 1)
		if err != nil {
			return 0, err
		}
		if !ok {
			return -1, nil
		}
	}
	avail := p.bs.buf.Size() - p.offset
	n := maxBytes
	if n > avail {
		n = avail
	}

	snap := p.bs.buf.Copy()
	if err := snap.Skip(p.offset); err != nil {
		return 0, err
	}
	if err := dest.WriteFrom(snap, n); err != nil {
		return 0, err
	}
	p.offset += n
	return n, nil
}

// Close marks the peek source unusable. It does not close the underlying
// BufferedSource.
func (p *PeekSource) Close() error {
	p.closed = true
	return nil
}
