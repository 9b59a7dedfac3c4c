// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import "go.uber.org/zap"

// Logging in this package is opt-in and silent by default (zap.NewNop()).
// Nothing on a successful primitive read/write path logs; the only event
// logged is one an operator can't otherwise observe: a pool shard dropping
// a segment because its byte budget is full. See WithLogger.

// segmentFields builds the structured fields shared by every pool/buffer
// log line that reports on a specific segment.
func segmentFields(seg *Segment) []zap.Field {
	return []zap.Field{
		zap.Int("readable", seg.len()),
		zap.Int("capacity", len(seg.data)),
		zap.Bool("shared", seg.shared()),
	}
}
