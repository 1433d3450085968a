// Package metrics defines and registers the custom Prometheus metrics of the
// vidtube API. It is the single source of truth for metric names, labels and
// help strings. All collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidtube"

// ── Relation metrics ─────────────────────────────────────────────────────────

// RelationTogglesTotal counts toggles of likes and subscriptions.
// Labels:
//   - kind: the relation kind (e.g. "likes-video", "subscribes-to")
//   - result: "on" when the relation is active afterwards, "off" otherwise
var RelationTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relation_toggles_total",
		Help:      "Total number of relation toggles, by kind and resulting state.",
	},
	[]string{"kind", "result"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthEventsTotal counts session lifecycle events.
// Labels:
//   - event: "register", "login", "refresh" or "logout"
//   - result: "success" or "failure"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event and result.",
	},
	[]string{"event", "result"},
)

// OwnershipDenialsTotal counts requests rejected with 403.
// Label:
//   - resource: first path segment after /api/v1 (e.g. "comments", "videos")
var OwnershipDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denials_total",
		Help:      "Total number of requests denied because the actor does not own the resource.",
	},
	[]string{"resource"},
)

// ── Dashboard metrics ────────────────────────────────────────────────────────

// ChannelStatsDuration measures how long computing a channel's stats takes.
var ChannelStatsDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "channel_stats_duration_seconds",
		Help:      "Duration of channel statistics aggregation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// Result maps an error to the "success"/"failure" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Toggled maps a relation state to the "on"/"off" label value.
func Toggled(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
