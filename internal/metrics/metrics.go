package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpnow_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpnow_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpnow_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpnow_messages_posted_total",
			Help: "Total messages posted",
		},
		[]string{"type"}, // narrator, chara, ooc, image
	)

	MessagesEdited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpnow_messages_edited_total",
			Help: "Total successful message edits",
		},
	)

	EditsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpnow_edits_rejected_total",
			Help: "Total rejected message edits",
		},
		[]string{"reason"}, // "not_found" or "bad_secret"
	)

	CharasCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpnow_charas_created_total",
			Help: "Total charas created",
		},
	)

	// Stream metrics
	StreamConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rpnow_stream_connections",
			Help: "Currently open websocket subscriptions",
		},
	)

	StreamEventsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpnow_stream_events_sent_total",
			Help: "Total events broadcast to subscribers",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpnow_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
