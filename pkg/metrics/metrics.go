package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MemoryHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilemap_memory_hits_total",
		Help: "Total number of tile lookups served by a resident entry",
	})

	MemoryMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilemap_memory_misses_total",
		Help: "Total number of tile lookups that created a new entry",
	})

	DiskHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilemap_disk_hits_total",
		Help: "Total number of tiles decoded from the disk store",
	})

	DiskMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilemap_disk_misses_total",
		Help: "Total number of disk store misses, including malformed entries",
	})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tilemap_upstream_requests_total",
		Help: "Total number of upstream tile requests",
	}, []string{"server"})

	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tilemap_upstream_latency_seconds",
		Help:    "Latency of upstream tile fetches in seconds",
		Buckets: prometheus.DefBuckets,
	})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tilemap_fetch_errors_total",
		Help: "Total number of tiles that ended in the error state",
	}, []string{"server"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tilemap_fetch_queue_depth",
		Help: "Number of tiles waiting for the fetch worker",
	})

	Renders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilemap_renders_total",
		Help: "Total number of composited renders",
	})

	RenderLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tilemap_render_latency_seconds",
		Help:    "Latency of composited renders in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

var (
	RedisOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation"})

	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	}, []string{"operation"})
)
