// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// defaultShardByteBudget is the cumulative byte cap of a single tier-2 shard
// (spec.md §4.2).
const defaultShardByteBudget = 65536

// maxShards bounds the number of tier-2 shards regardless of GOMAXPROCS, so
// a pool never allocates an unreasonable number of stacks on very large
// machines.
const maxShards = 64

// poolStats holds the cumulative counters exposed by SegmentPool.Stats, a
// SPEC_FULL addition for operational visibility (not part of spec.md's
// pooling contract itself).
type poolStats struct {
	takes    atomic.Int64
	recycles atomic.Int64
	allocs   atomic.Int64
	drops    atomic.Int64
}

// Stats is a point-in-time snapshot of a SegmentPool's activity.
type Stats struct {
	Takes    int64
	Recycles int64
	Allocs   int64
	Drops    int64
}

// shard is one tier-2 free-list stack: a lock-free Treiber stack of segments
// bounded by a cumulative byte budget.
type shard struct {
	head  atomic.Pointer[Segment]
	bytes atomic.Int64
	cap   int64
}

func (sh *shard) push(seg *Segment) bool {
	size := int64(len(seg.data))
	for {
		used := sh.bytes.Load()
		if used+size > sh.cap {
			return false
		}
		old := sh.head.Load()
		seg.next = old
		if sh.head.CompareAndSwap(old, seg) {
			sh.bytes.Add(size)
			return true
		}
	}
}

func (sh *shard) pop() *Segment {
	for {
		old := sh.head.Load()
		if old == nil {
			return nil
		}
		next := old.next
		if sh.head.CompareAndSwap(old, next) {
			old.next = nil
			sh.bytes.Add(-int64(len(old.data)))
			return old
		}
	}
}

// SegmentPool is a two-tier free list of segments: tier 1 is a bank of
// single-slot caches (the idiomatic Go stand-in for a per-thread list —
// the runtime exposes no thread/goroutine identity to hash on, so slots are
// selected by an atomic round-robin counter instead), tier 2 is an array of
// independent byte-budgeted lock-free stacks. It makes no ordering
// guarantees across callers and is safe for concurrent take/recycle
// (spec.md §4.2, §5).
type SegmentPool struct {
	segmentSize int

	tier1 []atomic.Pointer[Segment]
	tier2 []*shard

	next atomic.Uint64

	logger *zap.Logger
	stats  poolStats
}

// NewSegmentPool constructs a pool. Most callers should use the package-
// level DefaultPool instead; NewSegmentPool exists for tests and for
// callers that want isolated pools (e.g. per-tenant byte budgets).
func NewSegmentPool(opts ...Option) *SegmentPool {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}

	shards := o.ShardCount
	if shards <= 0 {
		n := runtime.GOMAXPROCS(0)
		if n < 1 {
			n = 1
		}
		shards = nextPow2(n)
	}
	if shards > maxShards {
		shards = maxShards
	}

	p := &SegmentPool{
		segmentSize: o.SegmentSize,
		tier1:       make([]atomic.Pointer[Segment], shards),
		tier2:       make([]*shard, shards),
		logger:      o.Logger,
	}
	for i := range p.tier2 {
		p.tier2[i] = &shard{cap: int64(o.ShardByteBudget)}
	}
	return p
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (p *SegmentPool) index() int {
	i := p.next.Add(1)
	return int(i) % len(p.tier1)
}

// take returns a segment with pos == limit == 0, either recycled or freshly
// allocated.
func (p *SegmentPool) take() *Segment {
	i := p.index()
	if seg := p.tier1[i].Swap(nil); seg != nil {
		p.stats.takes.Add(1)
		return seg
	}
	if seg := p.tier2[i].pop(); seg != nil {
		p.stats.takes.Add(1)
		return seg
	}
	p.stats.takes.Add(1)
	p.stats.allocs.Add(1)
	return newSegment(p.segmentSize)
}

// recycle clears seg and returns it to the pool. If seg's backing array is
// still shared by another owner, only this owner's reference is released;
// the array itself stays alive for the remaining sharer(s).
func (p *SegmentPool) recycle(seg *Segment) {
	seg.pos = 0
	seg.limit = 0
	seg.prev = nil
	seg.next = nil

	if remaining := seg.tracker.release(); remaining > 0 {
		return
	}
	seg.tracker.reset()
	p.stats.recycles.Add(1)

	i := p.index()
	if p.tier1[i].CompareAndSwap(nil, seg) {
		return
	}
	if p.tier2[i].push(seg) {
		return
	}
	p.stats.drops.Add(1)
	if p.logger != nil {
		fields := append([]zap.Field{zap.Int("shard", i)}, segmentFields(seg)...)
		p.logger.Debug("segment pool shard over budget, dropping segment", fields...)
	}
}

// recycleChain recycles every segment reachable from head via next links.
func (p *SegmentPool) recycleChain(head *Segment) {
	for head != nil {
		next := head.next
		head.prev = nil
		head.next = nil
		p.recycle(head)
		head = next
	}
}

// Stats returns a snapshot of this pool's cumulative counters.
func (p *SegmentPool) Stats() Stats {
	return Stats{
		Takes:    p.stats.takes.Load(),
		Recycles: p.stats.recycles.Load(),
		Allocs:   p.stats.allocs.Load(),
		Drops:    p.stats.drops.Load(),
	}
}

// reset drops every cached segment. It exists solely so tests can start
// from a deterministic, empty pool (spec.md §9: "a test-only hook to reset
// the pool may be exposed for determinism").
func (p *SegmentPool) reset() {
	for i := range p.tier1 {
		p.tier1[i].Store(nil)
	}
	for _, sh := range p.tier2 {
		for sh.pop() != nil {
		}
	}
}

// DefaultPool is the process-wide segment pool used by Buffer values
// created with NewBuffer. The segment pool is the only piece of global
// mutable state in this package (spec.md §9).
var DefaultPool = NewSegmentPool()
