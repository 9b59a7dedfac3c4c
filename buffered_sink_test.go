// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet_test

import (
	"testing"

	oc "code.hybscloud.com/octet"
)

// recordingSink is a RawSink that appends everything written to it into an
// in-memory log, mirroring the teacher's wouldBlockWriter-style fakes.
type recordingSink struct {
	written     []byte
	flushCount  int
	closeCount  int
	failWriteAt int // if > 0, the call index at which WriteFrom fails
	calls       int
}

func (s *recordingSink) WriteFrom(src *oc.Buffer, byteCount int64) error {
	s.calls++
	if s.failWriteAt > 0 && s.calls == s.failWriteAt {
		_ = src.Skip(byteCount)
		return oc.ErrInvalidArgument
	}
	buf := make([]byte, byteCount)
	if _, err := src.Read(buf); err != nil {
		return err
	}
	s.written = append(s.written, buf...)
	return nil
}

func (s *recordingSink) Flush() error {
	s.flushCount++
	return nil
}

func (s *recordingSink) Close() error {
	s.closeCount++
	return nil
}

func TestBufferedSink_WriteThenFlush(t *testing.T) {
	dst := &recordingSink{}
	bs := oc.NewBufferedSink(dst)

	if err := bs.WriteString("hello"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := bs.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if string(dst.written) != "hello" {
		t.Fatalf("downstream got %q, want hello", dst.written)
	}
	if dst.flushCount != 1 {
		t.Fatalf("flushCount = %d, want 1", dst.flushCount)
	}
}

func TestBufferedSink_EmitsCompleteSegmentsButKeepsPartialTail(t *testing.T) {
	dst := &recordingSink{}
	bs := oc.NewBufferedSink(dst)

	big := make([]byte, 9000) // fills one 8192-byte segment, spills 808 into a second
	for i := range big {
		big[i] = 'z'
	}
	if _, err := bs.Write(big); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(dst.written) != 8192 {
		t.Fatalf("expected the one complete segment (8192 bytes) emitted opportunistically, got %d", len(dst.written))
	}

	if err := bs.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(dst.written) != len(big) {
		t.Fatalf("expected the partial tail flushed on Flush, downstream has %d of %d bytes", len(dst.written), len(big))
	}
}

func TestBufferedSink_CloseIsIdempotentAndFlushes(t *testing.T) {
	dst := &recordingSink{}
	bs := oc.NewBufferedSink(dst)
	_ = bs.WriteString("final")

	if err := bs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if string(dst.written) != "final" {
		t.Fatalf("downstream got %q, want final", dst.written)
	}
	if dst.closeCount != 1 {
		t.Fatalf("closeCount = %d, want 1", dst.closeCount)
	}
	if err := bs.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
	if dst.closeCount != 1 {
		t.Fatalf("closeCount after second Close = %d, want still 1", dst.closeCount)
	}
}

func TestBufferedSink_CloseStillClosesDownstreamOnFlushError(t *testing.T) {
	dst := &recordingSink{failWriteAt: 1}
	bs := oc.NewBufferedSink(dst)
	_ = bs.WriteString("x")

	err := bs.Close()
	if err == nil {
		t.Fatalf("expected the flush failure to be surfaced")
	}
	if dst.closeCount != 1 {
		t.Fatalf("downstream should still be closed despite the flush error, closeCount=%d", dst.closeCount)
	}
}

func TestBufferedSink_WriteAfterCloseFails(t *testing.T) {
	dst := &recordingSink{}
	bs := oc.NewBufferedSink(dst)
	_ = bs.Close()
	if err := bs.WriteString("x"); err != oc.ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
