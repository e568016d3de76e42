// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package moderation

import "github.com/prometheus/client_golang/prometheus"

// Metrics contains Prometheus metrics for the moderation client.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	RetriesTotal  prometheus.Counter
}

// NewMetrics creates and registers moderation metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "askboard_moderation_requests_total",
				Help: "Total number of moderation calls by outcome",
			},
			[]string{"outcome"},
		),
		RetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "askboard_moderation_retries_total",
				Help: "Total number of moderation attempt retries",
			},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RetriesTotal)

	return m
}

func (m *Metrics) recordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}
