package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MessagesTotal        *prometheus.CounterVec
	ReportsTotal         *prometheus.CounterVec
	StorageFailuresTotal prometheus.Counter
	LedgerPairings       prometheus.Gauge
	RegistryParticipants prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		MessagesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brewbot_messages_total",
			Help: "Total number of ingested channel messages by outcome",
		}, []string{"outcome"}),
		ReportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brewbot_reports_total",
			Help: "Total number of report requests by result",
		}, []string{"result"}),
		StorageFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brewbot_storage_failures_total",
			Help: "Total number of storage failures across ingestion and reporting",
		}),
		LedgerPairings: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "brewbot_ledger_pairings",
			Help: "Current number of recorded pairing events",
		}),
		RegistryParticipants: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "brewbot_registry_participants",
			Help: "Current number of participants in the identity registry",
		}),
	}
}

func (m *Metrics) ObserveMessage(outcome string) {
	m.MessagesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReport(result string) {
	m.ReportsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStorageFailure() {
	m.StorageFailuresTotal.Inc()
}

func (m *Metrics) SetLedgerPairings(count int64) {
	m.LedgerPairings.Set(float64(count))
}

func (m *Metrics) SetRegistryParticipants(count int) {
	m.RegistryParticipants.Set(float64(count))
}
