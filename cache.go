// ./cache.go
package spkeph

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheCapacity bounds the hop cache when the configuration does
// not set one.
const defaultCacheCapacity = 4096

// hopKey identifies one memoized hop evaluation.
type hopKey struct {
	body   Body
	center Body
	et     float64 // TDB seconds past J2000
}

// hopCache memoizes hop states so overlapping chain resolutions share
// work. Hop evaluation is pure, so the cache's only correctness
// obligation is not to corrupt storage under concurrent access: two
// racing misses on one key may both compute and either insert may win.
// The LRU bound keeps memory flat across long runs over many epochs.
type hopCache struct {
	entries *lru.Cache[hopKey, StateVector]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// newHopCache builds a cache bounded to capacity entries (the default
// capacity if non-positive).
func newHopCache(capacity int) (*hopCache, error) {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	entries, err := lru.New[hopKey, StateVector](capacity)
	if err != nil {
		return nil, err
	}
	return &hopCache{entries: entries}, nil
}

// getOrCompute returns the cached state for key, computing and storing
// it on a miss. The returned flag reports whether the lookup was a hit.
func (c *hopCache) getOrCompute(key hopKey, compute func() (StateVector, error)) (StateVector, bool, error) {
	if st, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return st, true, nil
	}
	c.misses.Add(1)
	st, err := compute()
	if err != nil {
		// Failures are definitive for the loaded kernel set but cheap
		// to rediscover; only successes occupy cache slots.
		return StateVector{}, false, err
	}
	c.entries.Add(key, st)
	return st, false, nil
}

// len returns the current entry count.
func (c *hopCache) len() int {
	return c.entries.Len()
}

// stats returns the lifetime hit and miss counts.
func (c *hopCache) stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
