// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

// defaultSegmentSize is the recommended fixed capacity of a Segment's
// backing array (spec.md §3).
const defaultSegmentSize = 8192

// splitCopyThreshold is the boundary below which Segment.split copies bytes
// instead of sharing the backing array through a CopyTracker. Long-lived
// slivers of a shared array pin the whole 8 KiB array in memory, so small
// splits are copied outright (spec.md §4.1).
const splitCopyThreshold = 1024

// Segment is a fixed-capacity byte chunk with a readable window [pos, limit)
// and a writable window [limit, capacity). It is linked into at most one
// doubly-linked Buffer list at a time.
type Segment struct {
	data []byte

	pos   int
	limit int

	prev, next *Segment

	tracker *CopyTracker
}

func newSegment(size int) *Segment {
	return &Segment{data: make([]byte, size), tracker: newCopyTracker()}
}

// len returns the number of readable bytes currently held by the segment.
func (s *Segment) len() int { return s.limit - s.pos }

// writable returns the number of bytes that can still be appended after limit.
func (s *Segment) writable() int { return len(s.data) - s.limit }

// shared reports whether this segment's backing array is aliased by another
// segment via CopyTracker.
func (s *Segment) shared() bool { return s.tracker.shared() }

// push links other as this segment's immediate successor. Both segments
// must be list singletons: this must currently be a tail (next == nil) and
// other must be completely unlinked (prev == nil && next == nil).
func (s *Segment) push(other *Segment) error {
	if s.next != nil {
		return ErrOutOfRange
	}
	if other.prev != nil || other.next != nil {
		return ErrOutOfRange
	}
	s.next = other
	other.prev = s
	return nil
}

// pop unlinks this segment from its list and returns its former successor,
// or nil if it had none.
func (s *Segment) pop() *Segment {
	next := s.next
	prev := s.prev
	if prev != nil {
		prev.next = next
	}
	if next != nil {
		next.prev = prev
	}
	s.prev = nil
	s.next = nil
	return next
}

// sharedCopy returns a new, unlinked Segment that shares this segment's
// backing array with the same readable window, incrementing the tracker.
func (s *Segment) sharedCopy() *Segment {
	s.tracker.acquire()
	return &Segment{data: s.data, pos: s.pos, limit: s.limit, tracker: s.tracker}
}

// detach gives this segment a private copy of its readable bytes if the
// backing array is currently shared, using a fresh segment's array drawn
// from pool. It is a no-op if the segment is already unshared. Reads never
// require detach; only a write path that targets a shared segment does.
func (s *Segment) detach(pool *SegmentPool) {
	if !s.shared() {
		return
	}
	fresh := pool.take()
	n := copy(fresh.data[s.pos:], s.data[s.pos:s.limit])
	_ = n
	s.tracker.release()
	s.data = fresh.data
	s.tracker = fresh.tracker
	// fresh itself is never linked or recycled: its array and tracker were
	// harvested in place above, and its Segment shell is garbage from here.
}

// split partitions the readable range into two segments whose concatenation
// equals the original: the returned prefix segment holds exactly count
// readable bytes, and s is mutated in place to hold the remaining suffix.
// Above splitCopyThreshold the prefix shares the backing array via
// sharedCopy (no payload copy); below it, bytes are copied into a segment
// drawn from pool to avoid a long-lived sliver pinning a whole array.
func (s *Segment) split(pool *SegmentPool, count int) (*Segment, error) {
	r := s.len()
	if count <= 0 || count >= r {
		return nil, ErrOutOfRange
	}
	var prefix *Segment
	if count >= splitCopyThreshold {
		prefix = s.sharedCopy()
		prefix.limit = prefix.pos + count
	} else {
		prefix = pool.take()
		copy(prefix.data, s.data[s.pos:s.pos+count])
		prefix.pos = 0
		prefix.limit = count
	}
	s.pos += count
	return prefix, nil
}

// compactSelf shifts this segment's readable bytes to the front of its
// backing array, freeing trailing capacity. The segment must be unshared.
func (s *Segment) compactSelf() {
	if s.pos == 0 {
		return
	}
	n := copy(s.data, s.data[s.pos:s.limit])
	s.pos = 0
	s.limit = n
}

// compact moves this segment's readable bytes into prev's tail and clears
// this segment (pos advanced to limit) so the caller can pop and recycle
// it. It returns false, doing nothing, when either segment is shared or
// prev lacks the writable room.
func (s *Segment) compact(prev *Segment) bool {
	if s.shared() || prev.shared() {
		return false
	}
	r := s.len()
	if r == 0 {
		return true
	}
	if prev.writable() < r {
		return false
	}
	copy(prev.data[prev.limit:], s.data[s.pos:s.limit])
	prev.limit += r
	s.pos = s.limit
	return true
}

// writeTo moves count readable bytes from this segment's head into other's
// tail. If other lacks sufficient trailing capacity but has enough total
// capacity once its already-consumed prefix is reclaimed, it is compacted
// in place first. other must be unshared; callers detach before calling.
func (s *Segment) writeTo(other *Segment, count int) error {
	if count <= 0 || count > s.len() {
		return ErrOutOfRange
	}
	if other.shared() {
		return ErrOutOfRange
	}
	if other.writable() < count {
		other.compactSelf()
		if other.writable() < count {
			return ErrOutOfRange
		}
	}
	copy(other.data[other.limit:], s.data[s.pos:s.pos+count])
	other.limit += count
	s.pos += count
	return nil
}
