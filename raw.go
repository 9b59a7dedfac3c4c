// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

// RawSource is the minimal external collaborator a BufferedSource adapts:
// an OS file handle, a socket, stdio, or any other raw byte producer.
//
// ReadAtMostTo appends at most maxBytes to dest and returns the number of
// bytes appended, -1 on end of stream, or an error. maxBytes == 0 must
// return 0 without touching dest. A RawSource never blocks except as its
// own backing transport blocks; it adds no retry loop of its own.
type RawSource interface {
	ReadAtMostTo(dest *Buffer, maxBytes int64) (int64, error)
	Close() error
}

// RawSink is the minimal external collaborator a BufferedSink adapts. Write
// removes exactly byteCount bytes from the head of src and delivers them.
// Close is idempotent and flushes or fails.
type RawSink interface {
	WriteFrom(src *Buffer, byteCount int64) error
	Flush() error
	Close() error
}
