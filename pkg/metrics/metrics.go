// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxline_triggers_total",
		Help: "Trigger resolutions by outcome.",
	}, []string{"trigger_type", "result"})

	ExecutionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxline_executions_started_total",
		Help: "Graph executions started.",
	})

	NodesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxline_nodes_executed_total",
		Help: "Node executions by node type.",
	}, []string{"node_type"})

	NodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxline_node_failures_total",
		Help: "Node executions that failed and halted their traversal.",
	}, []string{"label"})
)
