package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

var (
	// Выданные значения по бэкенду и исходу.
	SequenceAllocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seq_allocations_total",
			Help: "Total number of sequence allocations by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	SequenceRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seq_allocation_retries_total",
			Help: "Allocation attempts repeated after a conflict",
		},
		[]string{"backend"},
	)

	SequenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seq_allocation_duration_seconds",
			Help:    "Allocation latency including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	AttachmentUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_uploads_total",
			Help: "Attachment version uploads by outcome",
		},
		[]string{"outcome"},
	)

	AttachmentUploadAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attachment_upload_attempts_total",
			Help: "Upload transactions started, including retried ones",
		},
	)
)
