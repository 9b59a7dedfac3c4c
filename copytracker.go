// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package octet

import "sync/atomic"

// CopyTracker is a small shared reference counter that lets more than one
// Segment view the same underlying byte array. It is created with count 1
// (unshared); acquire is called once per additional sharer (copy()/peek()/
// sharedCopy()), release once per sharer that writes or drops its view. A
// tracker whose count has dropped back to 1 behaves as unshared again.
type CopyTracker struct {
	count atomic.Int32
}

func newCopyTracker() *CopyTracker {
	t := &CopyTracker{}
	t.count.Store(1)
	return t
}

// acquire registers one more owner and returns the new count.
func (t *CopyTracker) acquire() int32 {
	return t.count.Add(1)
}

// release removes one owner and returns the remaining count. Callers must
// stop using the associated byte array once the remaining count reaches 0.
func (t *CopyTracker) release() int32 {
	return t.count.Add(-1)
}

// shared reports whether more than one owner currently views the array.
func (t *CopyTracker) shared() bool {
	return t.count.Load() > 1
}

// reset returns the tracker to the unshared state, for reuse by a recycled
// segment that the pool is about to hand to a new, sole owner.
func (t *CopyTracker) reset() {
	t.count.Store(1)
}
