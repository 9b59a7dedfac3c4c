// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package compress

import "code.hybscloud.com/octet"

// CompressingSink wraps a downstream RawSink with a Compressor, buffering
// plaintext input and compressed output internally.
type CompressingSink struct {
	dst    octet.RawSink
	codec  Compressor
	input  *octet.Buffer
	output *octet.Buffer
	closed bool
}

// NewCompressingSink returns a CompressingSink that compresses everything
// written to it with codec before forwarding to dst.
func NewCompressingSink(dst octet.RawSink, codec Compressor) *CompressingSink {
	return &CompressingSink{
		dst:    dst,
		codec:  codec,
		input:  octet.NewBuffer(),
		output: octet.NewBuffer(),
	}
}

// WriteFrom moves byteCount bytes from the head of src into the sink,
// compresses whatever of it the codec consumes, and forwards any resulting
// compressed bytes downstream immediately.
func (s *CompressingSink) WriteFrom(src *octet.Buffer, byteCount int64) error {
	if s.closed {
		return octet.ErrClosed
	}
	if err := s.input.WriteFrom(src, byteCount); err != nil {
		return err
	}
	if err := s.codec.Compress(s.input, s.output); err != nil {
		return err
	}
	if s.output.Size() == 0 {
		return nil
	}
	return s.dst.WriteFrom(s.output, s.output.Size())
}

// Flush drains any buffered output and flushes downstream. It does not
// finalize the compressed stream; call Close for that.
func (s *CompressingSink) Flush() error {
	if s.closed {
		return octet.ErrClosed
	}
	if s.output.Size() > 0 {
		if err := s.dst.WriteFrom(s.output, s.output.Size()); err != nil {
			return err
		}
	}
	return s.dst.Flush()
}

// Close calls Finish on the codec until it produces no more bytes, drains
// and forwards each round, closes the codec, then closes downstream. Any of
// the three steps may fail; the first error encountered is returned, but
// every later step still runs.
func (s *CompressingSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for {
		more, err := s.codec.Finish(s.output)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}
		if s.output.Size() > 0 {
			if err := s.dst.WriteFrom(s.output, s.output.Size()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if !more {
			break
		}
	}
	if err := s.codec.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.dst.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
