// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package compress

import "code.hybscloud.com/octet"

// refillChunk bounds how much compressed input DecompressingSource pulls
// from upstream on each retry.
const refillChunk = 8192

// DecompressingSource wraps an upstream RawSource with a Decompressor,
// buffering compressed input internally.
type DecompressingSource struct {
	src   octet.RawSource
	codec Decompressor
	input *octet.Buffer
}

// NewDecompressingSource returns a DecompressingSource that decompresses
// everything read from src with codec.
func NewDecompressingSource(src octet.RawSource, codec Decompressor) *DecompressingSource {
	return &DecompressingSource{src: src, codec: codec, input: octet.NewBuffer()}
}

// ReadAtMostTo decompresses into sink, refilling its compressed input
// buffer from upstream as needed. It fails with a *CompressionError if
// upstream reaches end of stream before the codec considers the stream
// logically finished. maxBytes only distinguishes a zero-byte request: a
// call appends all plaintext the codec produces from the input it holds,
// which can exceed maxBytes.
func (s *DecompressingSource) ReadAtMostTo(sink *octet.Buffer, maxBytes int64) (int64, error) {
	if maxBytes < 0 {
		return 0, octet.ErrInvalidArgument
	}
	if maxBytes == 0 {
		return 0, nil
	}
	for {
		before := sink.Size()
		if err := s.codec.Decompress(s.input, sink); err != nil {
			return 0, err
		}
		if n := sink.Size() - before; n > 0 {
			return n, nil
		}
		if s.codec.IsFinished() {
			return -1, nil
		}
		n, err := s.src.ReadAtMostTo(s.input, refillChunk)
		if err != nil {
			return 0, err
		}
		if n == -1 {
			return 0, newCompressionError("readAtMostTo", "upstream ended before compressed stream finished")
		}
	}
}

// Close closes the upstream source. The codec itself is not closed here;
// callers that own the codec should close it explicitly once done.
func (s *DecompressingSource) Close() error {
	return s.src.Close()
}
