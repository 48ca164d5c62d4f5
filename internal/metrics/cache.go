// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/buyonix-recommender/internal/cache"
)

// CacheCollector exports the counters of an in-memory cache. The stats
// function is called on every scrape.
type CacheCollector struct {
	stats func() cache.Stats

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	size      *prometheus.Desc
}

var _ prometheus.Collector = (*CacheCollector)(nil)

// NewCacheCollector creates a collector whose series carry cache=name.
func NewCacheCollector(name string, stats func() cache.Stats) *CacheCollector {
	labels := prometheus.Labels{"cache": name}
	return &CacheCollector{
		stats:     stats,
		hits:      prometheus.NewDesc("cache_hits_total", "Total number of cache hits", nil, labels),
		misses:    prometheus.NewDesc("cache_misses_total", "Total number of cache misses", nil, labels),
		evictions: prometheus.NewDesc("cache_evictions_total", "Total number of capacity evictions", nil, labels),
		size:      prometheus.NewDesc("cache_entries", "Current number of cache entries", nil, labels),
	}
}

func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.size
}

func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
}
