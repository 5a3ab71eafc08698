// Package metrics exposes Prometheus counters for the webhook flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesTotal counts routed inbound messages by resolved intent.
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chamabot_messages_total",
		Help: "Inbound webhook messages by resolved intent.",
	}, []string{"intent"})

	// ContributionsRecorded counts ledger inserts from recognized payment messages.
	ContributionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamabot_contributions_recorded_total",
		Help: "Contributions inserted into the ledger.",
	})

	// RemindersSent counts outbound reminder messages.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamabot_reminders_sent_total",
		Help: "Reminder messages handed to the outbound channel.",
	})

	// AssistantFailures counts degraded assistant replies.
	AssistantFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chamabot_assistant_failures_total",
		Help: "Language-model capability faults surfaced to members.",
	})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
