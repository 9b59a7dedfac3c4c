// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package compress_test

import (
	"testing"

	"code.hybscloud.com/octet"
	"code.hybscloud.com/octet/compress"
)

func TestGzip_EmptyInputStillProducesValidHeaderAndTrailer(t *testing.T) {
	codec := compress.NewGzipCodec()
	c, err := codec.NewCompressor(compress.DefaultCompression)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	out := drainCompressor(t, c, nil, compress.DefaultCompression)

	raw := make([]byte, out.Size())
	_, _ = out.Copy().Read(raw)
	if len(raw) < 18 {
		t.Fatalf("gzip stream too short: %d bytes", len(raw))
	}
	if raw[0] != 0x1F || raw[1] != 0x8B {
		t.Fatalf("magic bytes = %x %x, want 1f 8b", raw[0], raw[1])
	}
	trailer := raw[len(raw)-8:]
	crc := uint32(trailer[0]) | uint32(trailer[1])<<8 | uint32(trailer[2])<<16 | uint32(trailer[3])<<24
	isize := uint32(trailer[4]) | uint32(trailer[5])<<8 | uint32(trailer[6])<<16 | uint32(trailer[7])<<24
	if crc != 0 {
		t.Fatalf("crc32 = %d, want 0 for empty input", crc)
	}
	if isize != 0 {
		t.Fatalf("isize = %d, want 0 for empty input", isize)
	}
}

func TestGzip_RoundTrip(t *testing.T) {
	codec := compress.NewGzipCodec()
	input := []byte("The quick brown fox jumps over the lazy dog. The quick brown fox jumps again.")

	c, err := codec.NewCompressor(compress.DefaultCompression)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	compressed := drainCompressor(t, c, input, compress.DefaultCompression)

	d, err := codec.NewDecompressor()
	if err != nil {
		t.Fatalf("NewDecompressor: %v", err)
	}
	out := drainDecompressor(t, d, compressed)

	got := make([]byte, out.Size())
	_, _ = out.Read(got)
	if string(got) != string(input) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestGzip_InvalidHeaderFails(t *testing.T) {
	codec := compress.NewGzipCodec()
	d, err := codec.NewDecompressor()
	if err != nil {
		t.Fatalf("NewDecompressor: %v", err)
	}
	bad := octet.NewBuffer()
	_, _ = bad.Write([]byte{0x00, 0x00, 0x08, 0x00, 0, 0, 0, 0, 0, 0xFF})
	out := octet.NewBuffer()
	if err := d.Decompress(bad, out); err == nil {
		t.Fatalf("expected an error for an invalid gzip header")
	} else if _, ok := err.(*compress.CompressionError); !ok {
		t.Fatalf("err type = %T, want *compress.CompressionError", err)
	}
}

func TestGzip_CompressedSmallerThanInputForRepetitiveText(t *testing.T) {
	codec := compress.NewGzipCodec()
	input := make([]byte, 0, 2048)
	for i := 0; i < 32; i++ {
		input = append(input, []byte("abcdefghijklmnopqrstuvwxyz012345")...)
	}
	c, _ := codec.NewCompressor(compress.DefaultCompression)
	compressed := drainCompressor(t, c, input, compress.DefaultCompression)
	if compressed.Size() >= int64(len(input)) {
		t.Fatalf("compressed size %d should be smaller than input size %d", compressed.Size(), len(input))
	}
}
