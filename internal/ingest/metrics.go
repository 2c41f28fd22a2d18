package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_ingested_messages_total",
		Help: "Number of chat comments accepted by the ingestion adapter.",
	})

	// stage: normalize | persist | connect
	ingestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_ingest_errors_total",
		Help: "Number of chat comments or sessions that failed during ingestion.",
	}, []string{"stage"})

	activityUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_activity_users",
		Help: "Number of users currently held in the activity snapshot.",
	})
)
