package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of product listings served from cache",
	})

	CatalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total number of product listings loaded from the database",
	})

	CatalogCacheErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_errors_total",
		Help: "Total number of catalog cache failures",
	}, []string{"op"})

	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of add-to-cart operations",
	})

	PurchasesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchases_completed_total",
		Help: "Total number of completed purchases",
	})

	PurchasesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_rejected_total",
		Help: "Total number of rejected checkouts",
	}, []string{"reason"})

	PurchaseSaveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "purchase_save_latency_seconds",
		Help:    "Latency of saving a purchase and its stock updates",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
