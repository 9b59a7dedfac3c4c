// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

// BufferedSink wraps a RawSink and amortizes writes to it through an
// internal Buffer, adding the full primitive write vocabulary plus
// emit/flush/close semantics (spec.md §4.6, C6).
//
// State machine: Open -> Closed via Close, which is idempotent.
type BufferedSink struct {
	buf    *Buffer
	dst    RawSink
	closed bool
}

// NewBufferedSink wraps dst.
func NewBufferedSink(dst RawSink) *BufferedSink {
	return &BufferedSink{buf: NewBuffer(), dst: dst}
}

// hintEmit drains every segment that is completely filled (limit ==
// capacity) downstream, leaving a partial tail buffered in memory
// (spec.md §4.6). It never blocks the caller on an empty buffer.
func (s *BufferedSink) hintEmit() error {
	var complete int64
	for seg := s.buf.head; seg != nil; seg = seg.next {
		if seg.limit != len(seg.data) {
			break
		}
		complete += int64(seg.len())
	}
	if complete == 0 {
		return nil
	}
	return s.dst.WriteFrom(s.buf, complete)
}

// Emit forces every currently buffered byte downstream immediately.
func (s *BufferedSink) Emit() error {
	if s.closed {
		return ErrClosed
	}
	if s.buf.Size() == 0 {
		return nil
	}
	return s.dst.WriteFrom(s.buf, s.buf.Size())
}

// Flush emits everything buffered here, then flushes downstream.
func (s *BufferedSink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.Emit(); err != nil {
		return err
	}
	return s.dst.Flush()
}

// Close flushes (best effort) then closes downstream exactly once. A flush
// failure is returned to the caller, but downstream is still closed.
func (s *BufferedSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	flushErr := s.flushLocked()
	closeErr := s.dst.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// flushLocked is Flush's body without the closed-state guard, used once by
// Close after closed has already been set to true.
func (s *BufferedSink) flushLocked() error {
	if s.buf.Size() > 0 {
		if err := s.dst.WriteFrom(s.buf, s.buf.Size()); err != nil {
			return err
		}
	}
	return s.dst.Flush()
}

// WriteFrom removes exactly byteCount bytes from the head of src and
// buffers them, emitting opportunistically.
func (s *BufferedSink) WriteFrom(src *Buffer, byteCount int64) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.buf.WriteFrom(src, byteCount); err != nil {
		return err
	}
	return s.hintEmit()
}

// Write implements io.Writer over the buffered sink.
func (s *BufferedSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n, _ := s.buf.Write(p)
	if err := s.hintEmit(); err != nil {
		return n, err
	}
	return n, nil
}

// WriteByte buffers a single byte.
func (s *BufferedSink) WriteByte(c byte) error {
	if s.closed {
		return ErrClosed
	}
	_ = s.buf.WriteByte(c)
	return s.hintEmit()
}

// WriteShort buffers a big-endian int16.
func (s *BufferedSink) WriteShort(v int16) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteShort(v)
	return s.hintEmit()
}

// WriteShortLe buffers a little-endian int16.
func (s *BufferedSink) WriteShortLe(v int16) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteShortLe(v)
	return s.hintEmit()
}

// WriteInt buffers a big-endian int32.
func (s *BufferedSink) WriteInt(v int32) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteInt(v)
	return s.hintEmit()
}

// WriteIntLe buffers a little-endian int32.
func (s *BufferedSink) WriteIntLe(v int32) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteIntLe(v)
	return s.hintEmit()
}

// WriteLong buffers a big-endian int64.
func (s *BufferedSink) WriteLong(v int64) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteLong(v)
	return s.hintEmit()
}

// WriteLongLe buffers a little-endian int64.
func (s *BufferedSink) WriteLongLe(v int64) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteLongLe(v)
	return s.hintEmit()
}

// WriteFloat buffers a big-endian float32.
func (s *BufferedSink) WriteFloat(v float32) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteFloat(v)
	return s.hintEmit()
}

// WriteDouble buffers a big-endian float64.
func (s *BufferedSink) WriteDouble(v float64) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteDouble(v)
	return s.hintEmit()
}

// WriteString transcodes s to UTF-8 and buffers it.
func (s *BufferedSink) WriteString(str string) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteString(str)
	return s.hintEmit()
}

// WriteDecimalLong buffers the ASCII decimal representation of v.
func (s *BufferedSink) WriteDecimalLong(v int64) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteDecimalLong(v)
	return s.hintEmit()
}

// WriteHexadecimalUnsignedLong buffers the lowercase hexadecimal
// representation of v.
func (s *BufferedSink) WriteHexadecimalUnsignedLong(v uint64) error {
	if s.closed {
		return ErrClosed
	}
	s.buf.WriteHexadecimalUnsignedLong(v)
	return s.hintEmit()
}
