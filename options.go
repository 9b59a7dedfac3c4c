// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import "go.uber.org/zap"

// Options configures a SegmentPool.
type Options struct {
	// SegmentSize is the fixed capacity of each segment's backing array.
	SegmentSize int

	// ShardCount overrides the number of tier-2 shards. Zero selects the
	// next power of two at or above GOMAXPROCS, bounded by maxShards.
	ShardCount int

	// ShardByteBudget caps the cumulative bytes a single tier-2 shard may
	// hold before recycle starts dropping segments instead of caching them.
	ShardByteBudget int

	// Logger receives diagnostic events (pool shard overflow). The zero
	// value behaves as zap.NewNop().
	Logger *zap.Logger
}

var defaultOptions = Options{
	SegmentSize:     defaultSegmentSize,
	ShardByteBudget: defaultShardByteBudget,
	Logger:          zap.NewNop(),
}

// Option configures a SegmentPool constructed by NewSegmentPool.
type Option func(*Options)

// WithSegmentSize sets the fixed capacity of each pooled segment.
func WithSegmentSize(n int) Option {
	return func(o *Options) { o.SegmentSize = n }
}

// WithPoolShards overrides the tier-2 shard count.
func WithPoolShards(n int) Option {
	return func(o *Options) { o.ShardCount = n }
}

// WithShardByteBudget sets the per-shard cumulative byte cap.
func WithShardByteBudget(n int) Option {
	return func(o *Options) { o.ShardByteBudget = n }
}

// WithLogger attaches a *zap.Logger for pool diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
