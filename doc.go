// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package octet provides a segmented, pool-recycled byte buffer that doubles
// as both an append-only sink and a consumable source, the primitive
// read/write layer built on top of it (integers, floats, big-/little-endian,
// decimal and hexadecimal text, UTF-8), buffered wrappers over arbitrary raw
// byte streams, and a non-consuming peek view.
//
// Semantics and design:
//   - Segments: fixed-capacity byte chunks (Segment) are linked into a deque
//     (Buffer) and recycled through a process-wide SegmentPool. Sharing
//     between buffers is copy-on-write, tracked per segment by a CopyTracker.
//   - Buffer as deque: Buffer is simultaneously a Source and a Sink. Moving
//     bytes between buffers never copies payload when a whole segment can
//     simply change owners; a partial segment is copied into the
//     destination's tail when it has room, and otherwise split.
//   - Buffered I/O: BufferedSource and BufferedSink amortize calls to an
//     underlying RawSource/RawSink through an internal Buffer, with explicit
//     require/request/peek/emit/flush semantics.
//   - No implicit blocking model: all I/O here is synchronous. A call blocks
//     exactly as long as the underlying RawSource/RawSink blocks; the core
//     adds no polling or retry loop of its own.
//
// The streaming compression pipeline (DEFLATE/gzip) lives in the sibling
// package code.hybscloud.com/octet/compress; an optional registry of
// non-UTF-8 text encodings lives in code.hybscloud.com/octet/charset.
package octet
