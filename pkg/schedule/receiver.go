// Package schedule runs cron entries for workflows with a Scheduled
// trigger node and publishes schedule.tick events onto the bus.
package schedule

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/voxline/voxline/pkg/eventbus"
	"github.com/voxline/voxline/pkg/events"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/persistence"
)

type Receiver struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	logger      *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID // workflow ID -> entry
}

func NewReceiver(p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger) *Receiver {
	return &Receiver{
		persistence: p,
		publisher:   publisher,
		logger:      logger.With("module", "schedule_receiver"),
		cron:        cron.New(),
		entries:     make(map[string]cron.EntryID),
	}
}

// Start loads the active scheduled workflows and begins ticking. Call
// Refresh after workflow changes to pick up new schedules.
func (r *Receiver) Start(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil {
		return err
	}

	r.cron.Start()

	return nil
}

// Refresh reconciles cron entries against the current active workflow set.
func (r *Receiver) Refresh(ctx context.Context) error {
	workflows, err := r.persistence.Workflows().ListActive(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)

	for _, wf := range workflows {
		expression := scheduleExpression(wf)
		if expression == "" {
			continue
		}

		seen[wf.ID] = true

		if _, exists := r.entries[wf.ID]; exists {
			continue
		}

		entryID, err := r.cron.AddFunc(expression, r.tick(ctx, wf.ID, wf.TenantID))
		if err != nil {
			r.logger.Warn("invalid cron expression, skipping workflow",
				"workflow_id", wf.ID, "expression", expression, "error", err)

			continue
		}

		r.entries[wf.ID] = entryID
		r.logger.Info("scheduled workflow registered", "workflow_id", wf.ID, "expression", expression)
	}

	for workflowID, entryID := range r.entries {
		if !seen[workflowID] {
			r.cron.Remove(entryID)
			delete(r.entries, workflowID)
		}
	}

	return nil
}

func (r *Receiver) tick(ctx context.Context, workflowID, tenantID string) func() {
	return func() {
		event := events.ScheduleTick{
			BaseEvent:  events.NewBaseEvent(events.ScheduleTickEvent, tenantID),
			WorkflowID: workflowID,
		}

		if err := r.publisher.Publish(ctx, workflowID, event); err != nil {
			r.logger.Error("failed to publish schedule tick", "workflow_id", workflowID, "error", err)
		}
	}
}

func (r *Receiver) Stop() {
	<-r.cron.Stop().Done()
}

// scheduleExpression reads the cron expression from the workflow's
// Scheduled trigger node, or "" when the workflow is not time-based.
func scheduleExpression(wf *models.Workflow) string {
	for _, node := range wf.Nodes {
		if node.Type != models.NodeTypeTrigger || node.Label != models.TriggerScheduled {
			continue
		}

		if expression, ok := node.Config["cron"].(string); ok {
			return expression
		}
	}

	return ""
}
