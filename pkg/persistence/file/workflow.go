package file

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/persistence"
)

const workflowKind = "workflows"

type WorkflowRepository struct {
	store *Persistence
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := r.store.read(workflowKind, id, &workflow, persistence.ErrWorkflowNotFound); err != nil {
		return nil, err
	}

	return &workflow, nil
}

func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	if err := r.store.validate.Struct(workflow); err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}

	return r.store.write(workflowKind, workflow.ID, workflow)
}

func (r *WorkflowRepository) ListActive(ctx context.Context) ([]*models.Workflow, error) {
	payloads, err := r.store.list(workflowKind)
	if err != nil {
		return nil, err
	}

	var active []*models.Workflow

	for _, payload := range payloads {
		var workflow models.Workflow
		if err := json.Unmarshal(payload, &workflow); err != nil {
			return nil, fmt.Errorf("failed to decode workflow: %w", err)
		}

		if workflow.Status == models.WorkflowStatusActive {
			active = append(active, &workflow)
		}
	}

	return active, nil
}

// FindActive implements the matching order of the trigger resolver: an
// active workflow explicitly linked to the destination number wins, else
// the most-recently-updated active workflow carrying the trigger type.
func (r *WorkflowRepository) FindActive(ctx context.Context, tenantID, triggerType, destinationNumber string) (*models.Workflow, error) {
	candidates, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var latest *models.Workflow

	for _, workflow := range candidates {
		if tenantID != "" && workflow.TenantID != tenantID {
			continue
		}

		if !workflow.HasTriggerType(triggerType) {
			continue
		}

		if destinationNumber != "" && workflow.LinkedToNumber(destinationNumber) {
			return workflow, nil
		}

		if latest == nil || workflow.UpdatedAt.After(latest.UpdatedAt) {
			latest = workflow
		}
	}

	if latest == nil {
		return nil, persistence.ErrWorkflowNotFound
	}

	return latest, nil
}
