// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

/*
Package cache provides a generic, thread-safe LRU cache with TTL expiry.

The recommendation engine uses it to memoize ranked product lists per
(model version, user, n). Keys embed the model version, and the engine clears
the cache whenever a new model is published, so a cached list never outlives
the model that produced it.

# Usage

	c := cache.NewLRU[[]recommend.Recommendation](1024, 10*time.Minute)

	if recs, ok := c.Get(key); ok {
	    return recs
	}
	recs := rank()
	c.Add(key, recs)

# Behavior

  - Get, Add and Remove are O(1) (hashmap plus doubly linked list)
  - Adding beyond capacity evicts the least recently used entry
  - Expired entries are dropped lazily on Get, or in bulk by CleanupExpired
  - Stats reports hits, misses, evictions and the current size

Cached values are returned as stored. Callers that hand values to code which
may mutate them should store and return copies.
*/
package cache
