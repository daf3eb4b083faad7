// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchdb

import (
	"sync"

	"github.com/btcsuite/btcbranch/branchscript"
	"github.com/decred/dcrd/lru"
)

// setCache keeps recently used decoded branch sets in memory.  The recency of
// the script hashes is tracked by an lru.Cache while the sets themselves live
// in a map.  Sets whose hash fell out of the lru cache are dropped from the
// map on lookup and by a sweep once the map holds twice the limit.
type setCache struct {
	mtx   sync.Mutex
	keys  lru.Cache
	sets  map[string]*branchscript.BranchSet
	limit uint
}

// newSetCache returns an empty cache holding up to limit sets.
func newSetCache(limit uint) *setCache {
	return &setCache{
		keys:  lru.NewCache(limit),
		sets:  make(map[string]*branchscript.BranchSet),
		limit: limit,
	}
}

// add caches set under key and marks it most recently used.
func (c *setCache) add(key string, set *branchscript.BranchSet) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.limit == 0 {
		return
	}

	c.keys.Add(key)
	c.sets[key] = set

	if uint(len(c.sets)) > 2*c.limit {
		c.sweep()
	}
}

// sweep drops every set whose key was evicted.  Surviving keys are touched
// by the check, so it only runs once per limit insertions.
//
// This function MUST be called with the cache lock held.
func (c *setCache) sweep() {
	for key := range c.sets {
		if !c.keys.Contains(key) {
			delete(c.sets, key)
		}
	}
}

// lookup returns the set cached under key, if any, and marks it most
// recently used.
func (c *setCache) lookup(key string) (*branchscript.BranchSet, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	set, ok := c.sets[key]
	if !ok {
		return nil, false
	}
	if !c.keys.Contains(key) {
		delete(c.sets, key)
		return nil, false
	}
	return set, true
}

// contains reports whether a set is cached under key without changing its
// recency.
func (c *setCache) contains(key string) bool {
	c.mtx.Lock()
	_, ok := c.sets[key]
	c.mtx.Unlock()
	return ok
}

// delete removes the set cached under key.
func (c *setCache) delete(key string) {
	c.mtx.Lock()
	c.keys.Delete(key)
	delete(c.sets, key)
	c.mtx.Unlock()
}

// len returns the number of sets held in memory.
func (c *setCache) len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.sets)
}
