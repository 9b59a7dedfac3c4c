// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package compress provides a pluggable streaming compress/decompress
// pipeline over octet.Buffer: a Codec SPI plus DEFLATE and gzip
// implementations backed by klauspost/compress, and CompressingSink /
// DecompressingSource wrappers that bolt a codec onto a RawSink / RawSource.
package compress

import (
	"fmt"

	"go.uber.org/zap"

	"code.hybscloud.com/octet"
)

// Level is a DEFLATE compression level in 0..9.
type Level int

// Named compression levels, matching the conventional DEFLATE scale.
const (
	NoCompression      Level = 0
	BestSpeed          Level = 1
	DefaultCompression Level = 6
	BestCompression    Level = 9
)

func (l Level) validate() error {
	if l < 0 || l > 9 {
		return octet.ErrInvalidArgument
	}
	return nil
}

// CompressionError reports a failure specific to the codec pipeline:
// truncated input, a corrupt trailer, or a malformed container header.
// It is a distinct type (not a sentinel) so callers can carry structured
// context via errors.As.
type CompressionError struct {
	Op     string
	Reason string
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("octet/compress: %s: %s", e.Op, e.Reason)
}

func newCompressionError(op, reason string) *CompressionError {
	return &CompressionError{Op: op, Reason: reason}
}

// Compressor consumes plaintext from src and appends compressed bytes to
// sink. It may buffer internally and is not required to consume all of src
// in one call. Finish flushes any residual state and trailer bytes; it is
// called repeatedly until it reports no more output, then Close releases
// resources.
type Compressor interface {
	Compress(src, sink *octet.Buffer) error
	Finish(sink *octet.Buffer) (more bool, err error)
	Close() error
}

// Decompressor consumes compressed bytes from src and appends plaintext to
// sink. IsFinished reports whether the stream has reached its logical end
// (e.g. the DEFLATE final-block bit, or the gzip trailer).
type Decompressor interface {
	Decompress(src, sink *octet.Buffer) error
	IsFinished() bool
	Close() error
}

// Codec is a factory of Compressor/Decompressor pairs for one wire format.
// Implementations produce a fresh instance per stream so that multiple
// streams can run concurrently without sharing state.
type Codec interface {
	NewCompressor(level Level) (Compressor, error)
	NewDecompressor() (Decompressor, error)
}

// Options configures logging for codec instances created by a Codec.
type Options struct {
	Logger *zap.Logger
}

var defaultOptions = Options{Logger: zap.NewNop()}

// Option configures a Codec at construction time.
type Option func(*Options)

// WithLogger overrides the no-op default logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func resolveOptions(opts []Option) Options {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
