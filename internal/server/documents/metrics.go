package documents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "damprah_document_uploads_total",
		Help: "Document uploads by result.",
	}, []string{"result"})

	deletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "damprah_document_deletes_total",
		Help: "Document deletions by result.",
	}, []string{"result"})

	signedURLCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "damprah_signed_url_cache_hits_total",
		Help: "Signed URL cache hits.",
	})

	signedURLCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "damprah_signed_url_cache_misses_total",
		Help: "Signed URL cache misses.",
	})
)
