// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package compress

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"

	"code.hybscloud.com/octet"
)

// deflateCodec builds raw RFC 1951 DEFLATE compressor/decompressor pairs
// backed by klauspost/compress/flate.
type deflateCodec struct {
	opts Options
}

// NewDeflateCodec returns a Codec producing raw DEFLATE streams, with no
// container framing.
func NewDeflateCodec(opts ...Option) Codec {
	return &deflateCodec{opts: resolveOptions(opts)}
}

func (c *deflateCodec) NewCompressor(level Level) (Compressor, error) {
	if err := level.validate(); err != nil {
		return nil, err
	}
	out := &sinkWriter{}
	fw, err := flate.NewWriter(out, int(level))
	if err != nil {
		return nil, newCompressionError("newCompressor", err.Error())
	}
	id := uuid.New()
	return &deflateCompressor{
		fw:     fw,
		out:    out,
		logger: c.opts.Logger.With(zap.String("stream_id", id.String())),
	}, nil
}

func (c *deflateCodec) NewDecompressor() (Decompressor, error) {
	id := uuid.New()
	d := &deflateDecompressor{
		logger: c.opts.Logger.With(zap.String("stream_id", id.String())),
	}
	d.cond = sync.NewCond(&d.mu)
	return d, nil
}

// sinkWriter is an io.Writer whose target octet.Buffer is swapped out on
// every Compress/Finish call, letting a single long-lived flate.Writer
// always append to whichever sink the caller currently passed in.
type sinkWriter struct {
	buf *octet.Buffer
}

func (w *sinkWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

type deflateCompressor struct {
	fw     *flate.Writer
	out    *sinkWriter
	closed bool
	logger *zap.Logger
}

// Compress drains every byte currently buffered in src through the flate
// writer into sink. Consuming everything available is a valid subset of
// "not necessarily all" and keeps the call synchronous and simple.
func (c *deflateCompressor) Compress(src, sink *octet.Buffer) error {
	if src.Size() == 0 {
		return nil
	}
	c.out.buf = sink
	if _, err := io.Copy(c.fw, src); err != nil {
		return newCompressionError("compress", err.Error())
	}
	return nil
}

// Finish closes the flate stream on its first call, writing the final
// block, and reports false on every subsequent call.
func (c *deflateCompressor) Finish(sink *octet.Buffer) (bool, error) {
	if c.closed {
		return false, nil
	}
	before := sink.Size()
	c.out.buf = sink
	if err := c.fw.Close(); err != nil {
		return false, newCompressionError("finish", err.Error())
	}
	c.closed = true
	return sink.Size() > before, nil
}

func (c *deflateCompressor) Close() error { return nil }

// deflateDecompressor drives a single long-lived flate.Reader from a
// background goroutine, so its Huffman/LZ77 window state survives across
// Decompress calls instead of being thrown away and rebuilt each time.
// flate.Reader has no API for pausing mid-block and resuming later: once its
// underlying reader reports any error, including one that only means "no
// more input is available yet", the decoder latches that error permanently.
// So the underlying reader handed to flate here (feedReader) never reports
// an error for mere exhaustion — it blocks on a condition variable until
// Decompress supplies more bytes, is told to stop, or the stream genuinely
// ends. Decompress itself never blocks: it appends newly available bytes to
// the shared queue and waits only until the pump has drained everything it
// can with what is currently queued.
type deflateDecompressor struct {
	logger *zap.Logger

	mu   sync.Mutex
	cond *sync.Cond

	fr      io.ReadCloser
	started bool

	pending         []byte // compressed bytes not yet consumed by the pump
	pos             int
	waitingForInput bool // pump has drained pending[pos:] and is parked
	out             []byte // decoded bytes not yet claimed by Decompress
	finished        bool
	failed          error
	stopped         bool // Close was called; pump should unwind
}

// feedReader is the io.Reader + io.ByteReader the pump's flate.Reader reads
// from. Implementing ByteReader keeps flate from wrapping it in a bufio
// buffer, which would read ahead speculatively and swallow bytes (such as a
// gzip trailer) that belong to whatever follows the DEFLATE stream.
type feedReader struct{ d *deflateDecompressor }

func (r feedReader) ReadByte() (byte, error) {
	d := r.d
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.pos >= len(d.pending) {
		if d.stopped {
			return 0, io.EOF
		}
		d.waitingForInput = true
		d.cond.Broadcast()
		d.cond.Wait()
	}
	d.waitingForInput = false
	b := d.pending[d.pos]
	d.pos++
	return b, nil
}

func (r feedReader) Read(p []byte) (int, error) {
	d := r.d
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.pos >= len(d.pending) {
		if d.stopped {
			return 0, io.EOF
		}
		d.waitingForInput = true
		d.cond.Broadcast()
		d.cond.Wait()
	}
	d.waitingForInput = false
	n := copy(p, d.pending[d.pos:])
	d.pos += n
	return n, nil
}

// pump runs the flate reader to completion, one Read call at a time,
// appending decoded output to d.out and recording the terminal state. It
// exits once the stream finishes, fails, or the decompressor is closed.
func (d *deflateDecompressor) pump() {
	var buf [4096]byte
	for {
		n, err := d.fr.Read(buf[:])
		d.mu.Lock()
		if n > 0 {
			d.out = append(d.out, buf[:n]...)
		}
		if err != nil {
			if d.stopped {
				// shutting down; don't conflate with a genuine end of stream
			} else if err == io.EOF {
				d.finished = true
			} else {
				d.failed = err
			}
			d.cond.Broadcast()
			d.mu.Unlock()
			return
		}
		d.cond.Broadcast()
		d.mu.Unlock()
	}
}

// Decompress appends every byte currently buffered in src to the pump's
// input queue, waits until the pump has consumed as much of it as it
// currently can, then forwards whatever plaintext the pump produced to
// sink. If the stream finishes partway through the bytes handed over (e.g.
// a gzip trailer immediately follows the DEFLATE payload in the same
// buffer), the unconsumed remainder is written back to src untouched.
func (d *deflateDecompressor) Decompress(src, sink *octet.Buffer) error {
	d.mu.Lock()
	if d.failed != nil {
		err := d.failed
		d.mu.Unlock()
		return newCompressionError("decompress", err.Error())
	}
	if d.finished {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	n := src.Size()
	var data []byte
	if n > 0 {
		data = make([]byte, n)
		if _, err := io.ReadFull(src, data); err != nil {
			return newCompressionError("decompress", err.Error())
		}
	}

	if !d.started {
		d.started = true
		d.pending = data
		d.fr = flate.NewReader(feedReader{d})
		go d.pump()
	} else if len(data) > 0 {
		d.mu.Lock()
		d.pending = append(d.pending[d.pos:], data...)
		d.pos = 0
		d.waitingForInput = false
		d.cond.Broadcast()
		d.mu.Unlock()
	}

	d.mu.Lock()
	for !d.waitingForInput && d.failed == nil && !d.finished {
		d.cond.Wait()
	}
	var leftover []byte
	if d.finished && d.pos < len(d.pending) {
		leftover = append([]byte(nil), d.pending[d.pos:]...)
		d.pending = nil
		d.pos = 0
	}
	out := d.out
	d.out = nil
	failed := d.failed
	finished := d.finished
	d.mu.Unlock()

	if len(out) > 0 {
		_, _ = sink.Write(out)
	}
	if finished && len(leftover) > 0 {
		_, _ = src.Write(leftover)
	}
	if failed != nil {
		return newCompressionError("decompress", failed.Error())
	}
	return nil
}

func (d *deflateDecompressor) IsFinished() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finished
}

func (d *deflateDecompressor) Close() error {
	d.mu.Lock()
	d.stopped = true
	d.cond.Broadcast()
	d.mu.Unlock()
	if d.fr == nil {
		return nil
	}
	return d.fr.Close()
}
