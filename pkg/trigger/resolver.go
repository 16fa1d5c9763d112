// Package trigger resolves inbound events against the active workflow set
// and starts graph executions. It owns the business-hours gate and the
// after-hours auto-reply decision.
package trigger

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxline/voxline/pkg/hours"
	"github.com/voxline/voxline/pkg/metrics"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/otelhelper"
	"github.com/voxline/voxline/pkg/persistence"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/session"
	"github.com/voxline/voxline/pkg/workflow"
)

// ResultKind tags the outcome of trigger resolution.
type ResultKind string

const (
	ResultNoWorkflow ResultKind = "no_workflow"
	ResultSkipped    ResultKind = "skipped"
	ResultStarted    ResultKind = "started"
)

// AfterHoursReply is the auto-reply decision attached to a skipped result.
type AfterHoursReply struct {
	ShouldReply bool
	Message     string
}

// Result describes what trigger resolution did with an event.
type Result struct {
	Kind        ResultKind
	Reason      string
	WorkflowID  string
	ExecutionID string
	Open        bool
	AfterHours  *AfterHoursReply
}

const defaultAfterHoursMessage = "Thanks for reaching out! We're currently closed, but we'll get back to you during business hours."

// escalationPattern spots messages that ask for a person. Matched
// case-insensitively against the inbound text when the tenant replies
// only on escalation.
var escalationPattern = regexp.MustCompile(`(?i)(agent|human|representative|call me|phone call|call back)`)

// ResourceLoader assembles the read-only tenant resources (persona, agent,
// documents, numbers, integrations) referenced by an execution. A nil
// loader leaves the resources empty.
type ResourceLoader interface {
	Load(ctx context.Context, tenantID, workflowID string) (models.Resources, error)
}

type Resolver struct {
	persistence persistence.Persistence
	sessions    session.Store
	executor    *workflow.Executor
	collab      *protocol.Collaborators
	resources   ResourceLoader
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

func NewResolver(p persistence.Persistence, sessions session.Store, executor *workflow.Executor, collab *protocol.Collaborators, logger *slog.Logger) *Resolver {
	return &Resolver{
		persistence: p,
		sessions:    sessions,
		executor:    executor,
		collab:      collab,
		logger:      logger.With("module", "trigger_resolver"),
		now:         time.Now,
	}
}

// WithResources attaches a resource loader.
func (r *Resolver) WithResources(loader ResourceLoader) *Resolver {
	r.resources = loader

	return r
}

// WithTracer attaches a tracer for per-trigger spans.
func (r *Resolver) WithTracer(tracer trace.Tracer) *Resolver {
	r.tracer = tracer

	return r
}

// WithClock overrides the wall clock; for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now

	return r
}

// Trigger resolves one inbound event. It never returns an error: lookup
// failures resolve to no_workflow and execution failures are contained by
// the executor, so bus handlers always get a result to log.
func (r *Resolver) Trigger(ctx context.Context, triggerType string, payload map[string]any) *Result {
	logger := r.logger.With("trigger_type", triggerType)

	if r.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, r.tracer, "trigger.resolve",
			attribute.String(otelhelper.TriggerTypeKey, triggerType),
		)
		defer span.End()
	}

	tenantID, _ := payload["tenantId"].(string)
	destination, _ := payload["to"].(string)

	wf, err := r.persistence.Workflows().FindActive(ctx, tenantID, triggerType, destination)
	if err != nil {
		if !persistence.IsWorkflowNotFound(err) {
			logger.Error("workflow lookup failed", "error", err)
		}

		metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultNoWorkflow)).Inc()

		return &Result{Kind: ResultNoWorkflow, Reason: "no active workflow matches"}
	}

	logger = logger.With("workflow_id", wf.ID, "tenant_id", wf.TenantID)

	tenant := r.loadTenant(ctx, wf.TenantID, logger)
	schedule, timezone := hours.Effective(nil, wf, tenant)
	open := len(schedule) == 0 || hours.IsOpen(schedule, timezone, r.now())
	bypass, _ := payload["bypassBusinessHours"].(bool)

	if triggerType == models.TriggerIncomingMessage && !open && !bypass {
		logger.Info("outside business hours, skipping workflow")
		metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultSkipped)).Inc()

		return &Result{
			Kind:       ResultSkipped,
			Reason:     "outside business hours",
			WorkflowID: wf.ID,
			Open:       false,
			AfterHours: r.afterHoursReply(tenant, payload),
		}
	}

	ectx := r.buildContext(ctx, wf, triggerType, payload, open, bypass)
	logger = logger.With("execution_id", ectx.ID)

	if triggerType == models.TriggerIncomingCall {
		if err := r.answerCall(ctx, wf, ectx, logger); err != nil {
			logger.Error("voice call setup failed", "error", err)
			metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultSkipped)).Inc()

			return &Result{Kind: ResultSkipped, Reason: "call setup failed", WorkflowID: wf.ID, Open: open}
		}
	}

	metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultStarted)).Inc()
	r.executor.Run(ctx, wf, ectx)

	return &Result{
		Kind:        ResultStarted,
		WorkflowID:  wf.ID,
		ExecutionID: ectx.ID,
		Open:        open,
	}
}

// TriggerWorkflow starts a specific workflow directly, used by schedule
// ticks and manual runs where matching already happened upstream. The
// business-hours gate does not apply here.
func (r *Resolver) TriggerWorkflow(ctx context.Context, workflowID, triggerType string, payload map[string]any) *Result {
	logger := r.logger.With("trigger_type", triggerType, "workflow_id", workflowID)

	wf, err := r.persistence.Workflows().GetByID(ctx, workflowID)
	if err != nil {
		if !persistence.IsWorkflowNotFound(err) {
			logger.Error("workflow lookup failed", "error", err)
		}

		metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultNoWorkflow)).Inc()

		return &Result{Kind: ResultNoWorkflow, Reason: "workflow not found"}
	}

	if wf.Status != models.WorkflowStatusActive {
		metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultSkipped)).Inc()

		return &Result{Kind: ResultSkipped, Reason: "workflow is not active", WorkflowID: wf.ID}
	}

	if wf.TriggerNode(triggerType) == nil {
		logger.Warn("workflow has no trigger node")
		metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultSkipped)).Inc()

		return &Result{Kind: ResultSkipped, Reason: "workflow has no trigger node", WorkflowID: wf.ID}
	}

	ectx := r.buildContext(ctx, wf, triggerType, payload, true, false)

	metrics.TriggersTotal.WithLabelValues(triggerType, string(ResultStarted)).Inc()
	r.executor.Run(ctx, wf, ectx)

	return &Result{Kind: ResultStarted, WorkflowID: wf.ID, ExecutionID: ectx.ID, Open: true}
}

// afterHoursReply decides whether a closed tenant sends an auto-reply for
// this message. An unset mode replies to everything.
func (r *Resolver) afterHoursReply(tenant *models.Tenant, payload map[string]any) *AfterHoursReply {
	mode := models.AfterHoursAlways
	message := defaultAfterHoursMessage

	if tenant != nil {
		if tenant.AfterHoursMode != "" {
			mode = tenant.AfterHoursMode
		}

		if tenant.AfterHoursMessage != "" {
			message = tenant.AfterHoursMessage
		}
	}

	if mode == models.AfterHoursOnlyOnEscalation {
		text, _ := payload["text"].(string)
		if !escalationPattern.MatchString(text) {
			return &AfterHoursReply{ShouldReply: false}
		}
	}

	return &AfterHoursReply{ShouldReply: true, Message: message}
}

func (r *Resolver) buildContext(ctx context.Context, wf *models.Workflow, triggerType string, payload map[string]any, open, bypass bool) *models.ExecutionContext {
	ectx := models.NewExecutionContext(uuid.NewString(), wf.ID, wf.TenantID, models.TriggerInfo{
		Type:    triggerType,
		Payload: payload,
	})
	ectx.BypassBusinessHours = bypass
	ectx.Variables.Global["isOpenNow"] = open

	if from, ok := payload["from"].(string); ok {
		ectx.Customer["phone"] = from
	}

	if name, ok := payload["customerName"].(string); ok {
		ectx.Customer["name"] = name
	}

	if email, ok := payload["customerEmail"].(string); ok {
		ectx.Customer["email"] = email
	}

	if conversationID, ok := payload["conversationId"].(string); ok {
		ectx.Conversation["id"] = conversationID
		ectx.Conversation["status"] = string(models.ConversationStatusOpen)
	}

	if callID, ok := payload["callId"].(string); ok {
		ectx.Call["id"] = callID
		ectx.Call["from"], _ = payload["from"].(string)
		ectx.Call["to"], _ = payload["to"].(string)
	}

	if r.resources != nil {
		resources, err := r.resources.Load(ctx, wf.TenantID, wf.ID)
		if err != nil {
			r.logger.Warn("resource load failed, continuing without resources", "error", err)
		} else {
			ectx.Resources = resources
		}
	}

	return ectx
}

func (r *Resolver) loadTenant(ctx context.Context, tenantID string, logger *slog.Logger) *models.Tenant {
	tenant, err := r.persistence.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		if !persistence.IsTenantNotFound(err) {
			logger.Warn("tenant lookup failed", "error", err)
		}

		return nil
	}

	return tenant
}
