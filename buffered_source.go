// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import "io"

// refillChunk is how many bytes a BufferedSource asks its upstream for on
// each fill.
const refillChunk = defaultSegmentSize

// BufferedSource wraps a RawSource and amortizes reads from it through an
// internal Buffer, adding require/request/peek and the full primitive
// read vocabulary (spec.md §4.6).
//
// State machine: Open -> Closed via Close, which is idempotent. Every other
// operation on a Closed BufferedSource fails with ErrClosed without
// touching the upstream RawSource.
type BufferedSource struct {
	buf    *Buffer
	src    RawSource
	closed bool
}

// NewBufferedSource wraps src.
func NewBufferedSource(src RawSource) *BufferedSource {
	return &BufferedSource{buf: NewBuffer(), src: src}
}

// fill asks upstream for one more chunk and returns upstream's result as
// is: a count of -1 (with a nil error) when upstream is exhausted, and a
// non-nil error only when upstream itself fails. Ordinary short reads are
// not an error.
func (s *BufferedSource) fill() (int64, error) {
	return s.src.ReadAtMostTo(s.buf, refillChunk)
}

// Require ensures at least n bytes are available in the internal buffer,
// refilling from upstream as needed, failing with io.EOF if upstream is
// exhausted first.
func (s *BufferedSource) Require(n int64) error {
	if s.closed {
		return ErrClosed
	}
	if n < 0 {
		return ErrInvalidArgument
	}
	for s.buf.Size() < n {
		cnt, err := s.fill()
		if err != nil {
			return err
		}
		if cnt == -1 {
			return io.EOF
		}
	}
	return nil
}

// Request is Require but reports insufficiency as (false, nil) instead of
// an error.
func (s *BufferedSource) Request(n int64) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if n < 0 {
		return false, ErrInvalidArgument
	}
	for s.buf.Size() < n {
		cnt, err := s.fill()
		if err != nil {
			return false, err
		}
		if cnt == -1 {
			return false, nil
		}
	}
	return true, nil
}

// ReadAtMostTo implements Source, draining the internal buffer first and
// refilling it from upstream at most once per call when empty.
func (s *BufferedSource) ReadAtMostTo(dest *Buffer, maxBytes int64) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if maxBytes < 0 {
		return 0, ErrInvalidArgument
	}
	if maxBytes == 0 {
		return 0, nil
	}
	if s.buf.Size() == 0 {
		cnt, err := s.fill()
		if err != nil {
			return 0, err
		}
		if cnt == -1 {
			return -1, nil
		}
	}
	return s.buf.ReadAtMostTo(dest, maxBytes)
}

// IndexOf extends the internal buffer from upstream, probing after each
// refill, until needle is found, the window [from, to) is exhausted, or
// upstream reaches EOF. to < 0 means unbounded.
func (s *BufferedSource) IndexOf(needle byte, from, to int64) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if from < 0 {
		return 0, ErrInvalidArgument
	}
	for {
		limit := to
		if limit < 0 || limit > s.buf.Size() {
			limit = s.buf.Size()
		}
		if from < limit {
			if idx, err := s.buf.IndexOf(needle, from, limit); err != nil {
				return 0, err
			} else if idx != -1 {
				return idx, nil
			}
		}
		if to >= 0 && s.buf.Size() >= to {
			return -1, nil
		}
		cnt, err := s.fill()
		if err != nil {
			return 0, err
		}
		if cnt == -1 {
			return -1, nil
		}
	}
}

// Peek returns a fresh Source that reads from a copy-on-write snapshot of
// the underlying buffer without consuming it. If the peek source reads
// past currently buffered bytes it refills from upstream, and those bytes
// become visible to this BufferedSource too.
func (s *BufferedSource) Peek() Source {
	return &PeekSource{bs: s}
}

// Close flushes no state (a source has none to flush) but closes upstream
// exactly once.
func (s *BufferedSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}

// ReadByte reads one byte, refilling from upstream if necessary.
func (s *BufferedSource) ReadByte() (byte, error) {
	if err := s.Require(1); err != nil {
		return 0, err
	}
	return s.buf.ReadByte()
}

// ReadShort reads a big-endian int16.
func (s *BufferedSource) ReadShort() (int16, error) {
	if err := s.Require(2); err != nil {
		return 0, err
	}
	return s.buf.ReadShort()
}

// ReadShortLe reads a little-endian int16.
func (s *BufferedSource) ReadShortLe() (int16, error) {
	if err := s.Require(2); err != nil {
		return 0, err
	}
	return s.buf.ReadShortLe()
}

// ReadInt reads a big-endian int32.
func (s *BufferedSource) ReadInt() (int32, error) {
	if err := s.Require(4); err != nil {
		return 0, err
	}
	return s.buf.ReadInt()
}

// ReadIntLe reads a little-endian int32.
func (s *BufferedSource) ReadIntLe() (int32, error) {
	if err := s.Require(4); err != nil {
		return 0, err
	}
	return s.buf.ReadIntLe()
}

// ReadLong reads a big-endian int64.
func (s *BufferedSource) ReadLong() (int64, error) {
	if err := s.Require(8); err != nil {
		return 0, err
	}
	return s.buf.ReadLong()
}

// ReadLongLe reads a little-endian int64.
func (s *BufferedSource) ReadLongLe() (int64, error) {
	if err := s.Require(8); err != nil {
		return 0, err
	}
	return s.buf.ReadLongLe()
}

// ReadFloat reads a big-endian float32.
func (s *BufferedSource) ReadFloat() (float32, error) {
	if err := s.Require(4); err != nil {
		return 0, err
	}
	return s.buf.ReadFloat()
}

// ReadDouble reads a big-endian float64.
func (s *BufferedSource) ReadDouble() (float64, error) {
	if err := s.Require(8); err != nil {
		return 0, err
	}
	return s.buf.ReadDouble()
}

// Skip discards n bytes, refilling from upstream as needed.
func (s *BufferedSource) Skip(n int64) error {
	if err := s.Require(n); err != nil {
		return err
	}
	return s.buf.Skip(n)
}

// ReadString decodes exactly byteCount bytes as UTF-8, refilling from
// upstream as needed.
func (s *BufferedSource) ReadString(byteCount int64) (string, error) {
	if err := s.Require(byteCount); err != nil {
		return "", err
	}
	return s.buf.ReadString(byteCount)
}

// ReadLine returns the bytes up to the next '\n', refilling from upstream
// until a terminator is found or upstream reaches EOF.
func (s *BufferedSource) ReadLine() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	for {
		idx, err := s.buf.IndexOf('\n', 0, -1)
		if err != nil {
			return "", err
		}
		if idx != -1 {
			return s.buf.ReadLine()
		}
		cnt, err := s.fill()
		if err != nil {
			return "", err
		}
		if cnt == -1 {
			if s.buf.Size() == 0 {
				return "", io.EOF
			}
			return s.buf.ReadLine()
		}
	}
}

// ReadLineStrict is ReadLine but fails instead of returning a partial line
// when no terminator appears within the first limit bytes.
func (s *BufferedSource) ReadLineStrict(limit int64) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	for {
		to := limit
		if to > s.buf.Size() {
			to = s.buf.Size()
		}
		idx, err := s.buf.IndexOf('\n', 0, to)
		if err != nil {
			return "", err
		}
		if idx != -1 {
			return s.buf.ReadLineStrict(limit)
		}
		if s.buf.Size() >= limit {
			return s.buf.ReadLineStrict(limit)
		}
		cnt, err := s.fill()
		if err != nil {
			return "", err
		}
		if cnt == -1 {
			return s.buf.ReadLineStrict(limit)
		}
	}
}

// ReadDecimalLong parses a signed decimal integer, refilling from upstream
// while the last buffered byte still looks like part of a number.
func (s *BufferedSource) ReadDecimalLong() (int64, error) {
	if err := s.extendWhileDigitRun(); err != nil {
		return 0, err
	}
	return s.buf.ReadDecimalLong()
}

// ReadHexadecimalUnsignedLong parses an unsigned hexadecimal integer,
// refilling from upstream while the last buffered byte still looks like
// part of a number.
func (s *BufferedSource) ReadHexadecimalUnsignedLong() (uint64, error) {
	if err := s.extendWhileDigitRun(); err != nil {
		return 0, err
	}
	return s.buf.ReadHexadecimalUnsignedLong()
}

// extendWhileDigitRun refills the internal buffer until its tail byte is no
// longer a plausible continuation of a number, or upstream is exhausted, or
// a generous cap is hit. It fails only with ErrClosed or an upstream error;
// a malformed number is left for the caller's own parse to report.
func (s *BufferedSource) extendWhileDigitRun() error {
	if s.closed {
		return ErrClosed
	}
	const cap = 32
	for s.buf.Size() < cap {
		if s.buf.Size() > 0 {
			c, _ := s.buf.Get(s.buf.Size() - 1)
			if _, ok := hexDigitValue(c); !ok && c != '+' && c != '-' {
				break
			}
		}
		cnt, err := s.fill()
		if err != nil {
			return err
		}
		if cnt == -1 {
			break
		}
	}
	return nil
}

// ReadCodePointValue reads one UTF-8 scalar, refilling from upstream as
// needed to assemble a multi-byte sequence.
func (s *BufferedSource) ReadCodePointValue() (rune, error) {
	if err := s.Require(1); err != nil {
		return 0, err
	}
	// A UTF-8 sequence is at most 4 bytes; best-effort top-up without
	// failing if upstream is short (ReadCodePointValue on Buffer copes with
	// however many bytes are actually available).
	_, _ = s.Request(4)
	return s.buf.ReadCodePointValue()
}
