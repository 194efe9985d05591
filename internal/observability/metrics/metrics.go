package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline aggregates the ingestion counters exported on /metrics.
type Pipeline struct {
	RecordsScanned  *prometheus.CounterVec
	RecordsInserted *prometheus.CounterVec
	RecordsUpdated  *prometheus.CounterVec
	RecordsSkipped  *prometheus.CounterVec
	BatchesFlushed  *prometheus.CounterVec
	ImageFallbacks  prometheus.Counter
	ImageUploads    prometheus.Counter
}

// NewPipeline registers the ingestion metrics on reg. A nil registerer falls
// back to the default registry.
func NewPipeline(reg prometheus.Registerer) (*Pipeline, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Pipeline{
		RecordsScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promosync_records_scanned_total",
			Help: "Raw records pulled from a source.",
		}, []string{"source"}),
		RecordsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promosync_records_inserted_total",
			Help: "Canonical products inserted.",
		}, []string{"source"}),
		RecordsUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promosync_records_updated_total",
			Help: "Canonical products updated in place.",
		}, []string{"source"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promosync_records_skipped_total",
			Help: "Records skipped, by reason.",
		}, []string{"source", "reason"}),
		BatchesFlushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promosync_batches_flushed_total",
			Help: "Batches handed to the persistence engine.",
		}, []string{"source"}),
		ImageFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promosync_image_fallbacks_total",
			Help: "Image resolutions that failed, including negative-cache hits.",
		}),
		ImageUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "promosync_image_uploads_total",
			Help: "Images uploaded to the asset store.",
		}),
	}

	collectors := []prometheus.Collector{
		p.RecordsScanned,
		p.RecordsInserted,
		p.RecordsUpdated,
		p.RecordsSkipped,
		p.BatchesFlushed,
		p.ImageFallbacks,
		p.ImageUploads,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return p, nil
}
