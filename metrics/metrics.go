// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes prometheus instrumentation for the statement
// table, shared table, and proposer so an operator can observe quorum
// progress and misbehavior without reading logs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every counter and gauge this module registers.
type Metrics struct {
	StatementsImported   *prometheus.CounterVec
	MisbehaviorDetected  *prometheus.CounterVec
	CandidatesIncludable prometheus.Counter
	ShardsFilled         prometheus.Gauge
	ProposalsBaked       prometheus.Counter
	ProposalsEvaluated   *prometheus.CounterVec
	BakeDuration         prometheus.Histogram
}

// New constructs and registers every metric against reg. Registration
// errors from a partially-initialized previous call are not recoverable
// here; callers register once per process.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StatementsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_agreement_statements_imported_total",
			Help: "Signed statements accepted by the statement table, by kind",
		}, []string{"kind"}),
		MisbehaviorDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_agreement_misbehavior_detected_total",
			Help: "Misbehavior evidence recorded by the statement table, by kind",
		}, []string{"kind"}),
		CandidatesIncludable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candidate_agreement_candidates_includable_total",
			Help: "Candidates that reached both the validity and availability quorum",
		}),
		ShardsFilled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "candidate_agreement_shards_filled",
			Help: "Shards with a recorded candidate in the current slot",
		}),
		ProposalsBaked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candidate_agreement_proposals_baked_total",
			Help: "Blocks baked by the local proposer",
		}),
		ProposalsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_agreement_proposals_evaluated_total",
			Help: "Proposals evaluated, partitioned by accept/reject outcome",
		}, []string{"outcome"}),
		BakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "candidate_agreement_bake_duration_seconds",
			Help:    "Time spent baking a block, from BuildBlock to Bake()",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		m.StatementsImported,
		m.MisbehaviorDetected,
		m.CandidatesIncludable,
		m.ShardsFilled,
		m.ProposalsBaked,
		m.ProposalsEvaluated,
		m.BakeDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
