// Package workflow contains the graph execution engine: it walks a matched
// workflow's node/edge graph from its trigger node, interpolating node
// config, evaluating condition branches, and dispatching action nodes.
package workflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxline/voxline/pkg/conditions"
	"github.com/voxline/voxline/pkg/metrics"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/otelhelper"
	"github.com/voxline/voxline/pkg/registry"
	"github.com/voxline/voxline/pkg/variables"
)

// DefaultPace is the delay inserted between node executions so large
// linear graphs yield to other pending work instead of spinning.
const DefaultPace = 100 * time.Millisecond

type Executor struct {
	registry *registry.Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	pace     time.Duration
}

func NewExecutor(registry *registry.Registry, logger *slog.Logger, tracer trace.Tracer) *Executor {
	return &Executor{
		registry: registry,
		logger:   logger.With("module", "workflow_executor"),
		tracer:   tracer,
		pace:     DefaultPace,
	}
}

// WithPace overrides the inter-node delay; mainly for tests.
func (e *Executor) WithPace(pace time.Duration) *Executor {
	e.pace = pace

	return e
}

// Run walks the graph until a terminal node, an unroutable edge, or a
// failed action. It never returns an error: every failure inside a
// traversal is logged and contained per the engine's fail-soft policy.
func (e *Executor) Run(ctx context.Context, wf *models.Workflow, ectx *models.ExecutionContext) {
	logger := e.logger.With(
		"workflow_id", wf.ID,
		"execution_id", ectx.ID,
		"trigger_type", ectx.Trigger.Type,
	)

	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
			attribute.String(otelhelper.WorkflowIDKey, wf.ID),
			attribute.String(otelhelper.ExecutionIDKey, ectx.ID),
		)
		defer span.End()
	}

	node := wf.TriggerNode(ectx.Trigger.Type)
	if node == nil {
		logger.Warn("workflow has no trigger node, nothing to execute")

		return
	}

	metrics.ExecutionsStarted.Inc()
	logger.Info("starting graph traversal", "start_node", node.ID)

	for node != nil {
		if ctx.Err() != nil {
			logger.Warn("traversal cancelled", "node_id", node.ID)

			return
		}

		next := e.executeNode(ctx, wf, node, ectx, logger)
		if next == nil {
			break
		}

		node = wf.NodeByID(next.Target)
		if node == nil {
			logger.Warn("edge target does not exist, halting traversal",
				"edge_id", next.ID, "target", next.Target)

			return
		}

		if !e.sleep(ctx) {
			return
		}
	}

	logger.Info("graph traversal finished")
}

// executeNode runs one node and returns the edge to follow, or nil to
// halt.
func (e *Executor) executeNode(ctx context.Context, wf *models.Workflow, node *models.WorkflowNode, ectx *models.ExecutionContext, logger *slog.Logger) *models.WorkflowEdge {
	logger = logger.With("node_id", node.ID, "node_type", string(node.Type), "node_label", node.Label)
	metrics.NodesExecuted.WithLabelValues(string(node.Type)).Inc()

	// Handlers always see already-interpolated config values.
	config, _ := variables.ResolveObject(node.Config, ectx).(map[string]any)

	switch node.Type {
	case models.NodeTypeTrigger:
		return firstEdge(wf, node.ID)

	case models.NodeTypeCondition:
		result := e.evaluateCondition(config, ectx, logger)
		logger.Debug("condition evaluated", "result", result)

		return e.routeCondition(wf, node, result, logger)

	case models.NodeTypeAction, models.NodeTypeIntegration:
		if !e.runAction(ctx, node, config, ectx, logger) {
			return nil
		}

		return firstEdge(wf, node.ID)

	default:
		logger.Warn("unknown node type, halting traversal")

		return nil
	}
}

func (e *Executor) evaluateCondition(config map[string]any, ectx *models.ExecutionContext, logger *slog.Logger) bool {
	raw, ok := config["condition"]
	if !ok {
		logger.Warn("condition node has no condition config, treating as false")

		return false
	}

	var cfg models.ConditionConfig
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		logger.Warn("malformed condition config, treating as false", "error", err)

		return false
	}

	return conditions.Evaluate(&cfg, ectx)
}

// routeCondition picks the outgoing edge for a branch result: labeled
// yes/no (or true/false) edges match case-insensitively; exactly two
// unlabeled edges fall back to positional order with a warning; anything
// else halts the traversal at this node rather than guessing.
func (e *Executor) routeCondition(wf *models.Workflow, node *models.WorkflowNode, result bool, logger *slog.Logger) *models.WorkflowEdge {
	edges := wf.OutgoingEdges(node.ID)
	if len(edges) == 0 {
		return nil
	}

	want := "no"
	if result {
		want = "yes"
	}

	unlabeled := 0

	for _, edge := range edges {
		label := strings.ToLower(strings.TrimSpace(edge.Label))
		if label == "" {
			unlabeled++

			continue
		}

		if label == want || label == boolLabel(result) {
			return edge
		}
	}

	if unlabeled == 2 && len(edges) == 2 {
		logger.Warn("condition edges are unlabeled, using positional fallback; label edges yes/no explicitly")

		if result {
			return edges[0]
		}

		return edges[1]
	}

	logger.Warn("no edge matches condition result, halting traversal", "result", result, "edges", len(edges))

	return nil
}

// runAction reports whether traversal should advance past this node.
func (e *Executor) runAction(ctx context.Context, node *models.WorkflowNode, config map[string]any, ectx *models.ExecutionContext, logger *slog.Logger) bool {
	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.node",
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeLabelKey, node.Label),
		)
		defer span.End()
	}

	action, err := e.registry.CreateAction(node.Label, config)
	if err != nil {
		logger.Error("failed to create action, halting traversal", "error", err)
		metrics.NodeFailures.WithLabelValues(node.Label).Inc()

		return false
	}

	if err := action.Execute(ctx, ectx, logger); err != nil {
		logger.Error("action failed, halting traversal", "error", err)
		metrics.NodeFailures.WithLabelValues(node.Label).Inc()

		return false
	}

	return true
}

func (e *Executor) sleep(ctx context.Context) bool {
	if e.pace <= 0 {
		return true
	}

	select {
	case <-time.After(e.pace):
		return true
	case <-ctx.Done():
		return false
	}
}

// firstEdge follows only the first outgoing edge. Multiple edges from a
// non-condition node are NOT fan-out: there is no parallel traversal, and
// the remaining edges are ignored. Keep it that way.
func firstEdge(wf *models.Workflow, nodeID string) *models.WorkflowEdge {
	edges := wf.OutgoingEdges(nodeID)
	if len(edges) == 0 {
		return nil
	}

	return edges[0]
}

func boolLabel(result bool) string {
	if result {
		return "true"
	}

	return "false"
}
