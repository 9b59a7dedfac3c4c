// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package compress

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"code.hybscloud.com/octet"
)

const (
	gzipMagic1  = 0x1F
	gzipMagic2  = 0x8B
	gzipMethod  = 0x08
	gzipFlagRsv = 0xE0 // reserved bits 5-7, must be zero
	flagFTEXT   = 0x01
	flagFHCRC   = 0x02
	flagFEXTRA  = 0x04
	flagFNAME   = 0x08
	flagFCOMMENT = 0x10
)

// gzipCodec builds RFC 1952 gzip compressor/decompressor pairs layering a
// fixed 10-byte header and an 8-byte CRC32/ISIZE trailer around a raw
// DEFLATE payload (see deflateCodec).
type gzipCodec struct {
	opts Options
}

// NewGzipCodec returns a Codec producing gzip container streams.
func NewGzipCodec(opts ...Option) Codec {
	return &gzipCodec{opts: resolveOptions(opts)}
}

func (c *gzipCodec) NewCompressor(level Level) (Compressor, error) {
	if err := level.validate(); err != nil {
		return nil, err
	}
	inner, err := (&deflateCodec{opts: c.opts}).NewCompressor(level)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	return &gzipCompressor{
		inner:  inner.(*deflateCompressor),
		level:  level,
		crc:    crc32.NewIEEE(),
		logger: c.opts.Logger.With(zap.String("stream_id", id.String())),
	}, nil
}

func (c *gzipCodec) NewDecompressor() (Decompressor, error) {
	inner, err := (&deflateCodec{opts: c.opts}).NewDecompressor()
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	return &gzipDecompressor{
		inner:     inner.(*deflateDecompressor),
		hcrcLeft:  -1,
		extraLeft: -1,
		logger:    c.opts.Logger.With(zap.String("stream_id", id.String())),
	}, nil
}

type gzipCompressor struct {
	inner          *deflateCompressor
	level          Level
	crc            hash.Hash32
	isize          uint64
	headerWritten  bool
	trailerWritten bool
	finished       bool
	logger         *zap.Logger
}

func writeGzipHeader(sink *octet.Buffer, level Level) {
	_ = sink.WriteByte(gzipMagic1)
	_ = sink.WriteByte(gzipMagic2)
	_ = sink.WriteByte(gzipMethod)
	_ = sink.WriteByte(0x00) // FLG: no optional fields
	sink.WriteIntLe(0)       // MTIME = 0, per spec.md §9 Open Question iii
	var xfl byte
	switch level {
	case BestCompression:
		xfl = 2
	case BestSpeed:
		xfl = 4
	}
	_ = sink.WriteByte(xfl)
	_ = sink.WriteByte(0xFF) // OS = unknown
}

func (c *gzipCompressor) Compress(src, sink *octet.Buffer) error {
	if !c.headerWritten {
		writeGzipHeader(sink, c.level)
		c.headerWritten = true
	}
	if src.Size() == 0 {
		return nil
	}
	n := src.Size()
	data := make([]byte, n)
	if _, err := io.ReadFull(src, data); err != nil {
		return newCompressionError("compress", err.Error())
	}
	c.crc.Write(data)
	c.isize += uint64(len(data))

	tmp := octet.NewBuffer()
	_, _ = tmp.Write(data)
	return c.inner.Compress(tmp, sink)
}

// Finish drains the inner DEFLATE stream first, then appends the CRC32 and
// ISIZE trailer once that drain reports no further bytes. Like the inner
// codec, it keeps reporting true until both stages have nothing left.
func (c *gzipCompressor) Finish(sink *octet.Buffer) (bool, error) {
	if c.finished {
		return false, nil
	}
	if !c.headerWritten {
		writeGzipHeader(sink, c.level)
		c.headerWritten = true
	}
	more, err := c.inner.Finish(sink)
	if err != nil {
		return false, err
	}
	if more {
		return true, nil
	}
	if !c.trailerWritten {
		var trailer [8]byte
		binary.LittleEndian.PutUint32(trailer[0:4], c.crc.Sum32())
		binary.LittleEndian.PutUint32(trailer[4:8], uint32(c.isize))
		_, _ = sink.Write(trailer[:])
		c.trailerWritten = true
		return true, nil
	}
	c.finished = true
	return false, nil
}

func (c *gzipCompressor) Close() error { return c.inner.Close() }

// gzip decode phases, advanced strictly in order.
const (
	phaseFixedHeader = iota
	phaseExtra
	phaseName
	phaseComment
	phaseHCRC
	phasePayload
	phaseTrailer
	phaseDone
)

type gzipDecompressor struct {
	inner      *deflateDecompressor
	phase      int
	headerBuf  []byte
	flg        byte
	extraLeft  int
	hcrcLeft   int
	crc        hash.Hash32
	isize      uint64
	trailerBuf []byte
	finished   bool
	logger     *zap.Logger
}

func consumeUntilNul(src *octet.Buffer) bool {
	for src.Size() > 0 {
		c, _ := src.ReadByte()
		if c == 0 {
			return true
		}
	}
	return false
}

// Decompress advances the gzip decode state machine as far as currently
// available input in src allows, appending any decoded plaintext to sink.
// It returns without error (and without progress) when it needs more input
// than src currently holds; the caller is expected to refill src and call
// again, per the DecompressingSource contract.
func (d *gzipDecompressor) Decompress(src, sink *octet.Buffer) error {
	for {
		switch d.phase {
		case phaseFixedHeader:
			for len(d.headerBuf) < 10 && src.Size() > 0 {
				c, _ := src.ReadByte()
				d.headerBuf = append(d.headerBuf, c)
			}
			if len(d.headerBuf) < 10 {
				return nil
			}
			if d.headerBuf[0] != gzipMagic1 || d.headerBuf[1] != gzipMagic2 {
				return newCompressionError("decompress", "bad gzip magic")
			}
			if d.headerBuf[2] != gzipMethod {
				return newCompressionError("decompress", "unsupported compression method")
			}
			d.flg = d.headerBuf[3]
			if d.flg&gzipFlagRsv != 0 {
				return newCompressionError("decompress", "reserved gzip flag bits set")
			}
			d.phase = phaseExtra

		case phaseExtra:
			if d.flg&flagFEXTRA == 0 {
				d.phase = phaseName
				continue
			}
			if d.extraLeft < 0 {
				if src.Size() < 2 {
					return nil
				}
				lo, _ := src.ReadByte()
				hi, _ := src.ReadByte()
				d.extraLeft = int(lo) | int(hi)<<8
			}
			for d.extraLeft > 0 && src.Size() > 0 {
				_, _ = src.ReadByte()
				d.extraLeft--
			}
			if d.extraLeft > 0 {
				return nil
			}
			d.phase = phaseName

		case phaseName:
			if d.flg&flagFNAME == 0 {
				d.phase = phaseComment
				continue
			}
			if !consumeUntilNul(src) {
				return nil
			}
			d.phase = phaseComment

		case phaseComment:
			if d.flg&flagFCOMMENT == 0 {
				d.phase = phaseHCRC
				continue
			}
			if !consumeUntilNul(src) {
				return nil
			}
			d.phase = phaseHCRC

		case phaseHCRC:
			if d.flg&flagFHCRC == 0 {
				d.phase = phasePayload
				d.crc = crc32.NewIEEE()
				continue
			}
			if d.hcrcLeft < 0 {
				d.hcrcLeft = 2
			}
			for d.hcrcLeft > 0 && src.Size() > 0 {
				_, _ = src.ReadByte()
				d.hcrcLeft--
			}
			if d.hcrcLeft > 0 {
				return nil
			}
			d.phase = phasePayload
			d.crc = crc32.NewIEEE()

		case phasePayload:
			local := octet.NewBuffer()
			if err := d.inner.Decompress(src, local); err != nil {
				return err
			}
			if local.Size() > 0 {
				data := make([]byte, local.Size())
				n := local.Size()
				if _, err := io.ReadFull(local.Copy(), data); err != nil {
					return newCompressionError("decompress", err.Error())
				}
				d.crc.Write(data)
				d.isize += uint64(len(data))
				if err := sink.WriteFrom(local, n); err != nil {
					return newCompressionError("decompress", err.Error())
				}
			}
			if d.inner.IsFinished() {
				d.phase = phaseTrailer
				continue
			}
			return nil

		case phaseTrailer:
			for len(d.trailerBuf) < 8 && src.Size() > 0 {
				c, _ := src.ReadByte()
				d.trailerBuf = append(d.trailerBuf, c)
			}
			if len(d.trailerBuf) < 8 {
				return nil
			}
			wantCRC := binary.LittleEndian.Uint32(d.trailerBuf[0:4])
			wantISize := binary.LittleEndian.Uint32(d.trailerBuf[4:8])
			if wantCRC != d.crc.Sum32() {
				return newCompressionError("decompress", "crc32 mismatch")
			}
			if wantISize != uint32(d.isize) {
				return newCompressionError("decompress", "isize mismatch")
			}
			d.phase = phaseDone
			d.finished = true
			return nil

		default: // phaseDone
			return nil
		}
	}
}

func (d *gzipDecompressor) IsFinished() bool { return d.finished }

func (d *gzipDecompressor) Close() error { return d.inner.Close() }
