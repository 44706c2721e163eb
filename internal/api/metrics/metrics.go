// Package metrics defines and registers all custom Prometheus metrics for the
// newsroom API. It is the single source of truth for metric names, labels,
// and help strings.
//
// The package-level collectors register with the default registry on import.
// Cache collectors are registered explicitly with RegisterCache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campuspress/newsroom/internal/pkg/cache"
)

const namespace = "newsroom"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionResolutionsTotal counts resolved sessions.
// Label:
//   - outcome: "no_cookie", "invalid_token", "legacy_admin", "degraded",
//     "authenticated", "user_deleted" or "error"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of session resolutions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthorizationDecisionsTotal counts post mutation decisions.
// Labels:
//   - action: "edit" or "delete"
//   - reason: "privileged", "admin_flag", "owner", "not_owner", "not_found", "no_owner",
//     "lookup_failed" or "anonymous"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of post authorization decisions, by action and reason.",
	},
	[]string{"action", "reason"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitChecksTotal counts rate limit checks.
// Labels:
//   - prefix: the quota partition (e.g. "login", "register", "auth")
//   - result: "allowed", "rejected" or "error" (store failure, request let through)
var RateLimitChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_checks_total",
		Help:      "Total number of rate limit checks, by prefix and result.",
	},
	[]string{"prefix", "result"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

type cacheCollector struct {
	stats     func() cache.Stats
	size      *prometheus.Desc
	capacity  *prometheus.Desc
	requests  *prometheus.Desc
	evictions *prometheus.Desc
}

func newCacheCollector(name string, stats func() cache.Stats) *cacheCollector {
	labels := prometheus.Labels{"cache": name}
	return &cacheCollector{
		stats: stats,
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Current number of cache entries, expired or not.",
			nil, labels,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "capacity"),
			"Maximum number of cache entries before eviction.",
			nil, labels,
		),
		requests: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "requests_total"),
			"Total number of cache reads, by result (hit/miss).",
			[]string{"result"}, labels,
		),
		evictions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "evictions_total"),
			"Total number of capacity evictions.",
			nil, labels,
		),
	}
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.requests
	ch <- c.evictions
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.MaxSize))
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
}

// RegisterCache exposes the stats of a named cache on reg. Each name may be
// registered once per registry.
func RegisterCache(reg prometheus.Registerer, name string, stats func() cache.Stats) error {
	return reg.Register(newCacheCollector(name, stats))
}
