package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/persistence"
)

func seedWorkflow(id, tenantID string, status models.WorkflowStatus, triggerLabel string, updatedAt time.Time, numbers ...string) *models.Workflow {
	return &models.Workflow{
		ID:       id,
		TenantID: tenantID,
		Name:     "Workflow " + id,
		Status:   status,
		Nodes: []*models.WorkflowNode{
			{ID: "t", Type: models.NodeTypeTrigger, Label: triggerLabel},
		},
		PhoneNumberIDs: numbers,
		UpdatedAt:      updatedAt,
	}
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	ctx := context.Background()
	wf := seedWorkflow("wf-1", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingMessage, time.Now())

	require.NoError(t, store.Workflows().Save(ctx, wf))

	loaded, err := store.Workflows().GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Workflow wf-1", loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, models.NodeTypeTrigger, loaded.Nodes[0].Type)
}

func TestWorkflowRepository_GetMissing(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	_, err := store.Workflows().GetByID(context.Background(), "nope")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_SaveRejectsInvalid(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	wf := seedWorkflow("wf-1", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingMessage, time.Now())
	wf.Name = "ab" // below the minimum length

	assert.Error(t, store.Workflows().Save(context.Background(), wf))
}

func TestWorkflowRepository_ListActiveFiltersStatus(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, store.Workflows().Save(ctx, seedWorkflow("wf-1", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingMessage, time.Now())))
	require.NoError(t, store.Workflows().Save(ctx, seedWorkflow("wf-2", "tenant-1", models.WorkflowStatusDraft, models.TriggerIncomingMessage, time.Now())))
	require.NoError(t, store.Workflows().Save(ctx, seedWorkflow("wf-3", "tenant-1", models.WorkflowStatusArchived, models.TriggerIncomingMessage, time.Now())))

	active, err := store.Workflows().ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "wf-1", active[0].ID)
}

func TestFindActive_MostRecentlyUpdatedWins(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	ctx := context.Background()
	older := seedWorkflow("wf-old", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingMessage, time.Now().Add(-time.Hour))
	newer := seedWorkflow("wf-new", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingMessage, time.Now())

	require.NoError(t, store.Workflows().Save(ctx, older))
	require.NoError(t, store.Workflows().Save(ctx, newer))

	found, err := store.Workflows().FindActive(ctx, "tenant-1", models.TriggerIncomingMessage, "")
	require.NoError(t, err)
	assert.Equal(t, "wf-new", found.ID)
}

func TestFindActive_NumberLinkedWorkflowWins(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	ctx := context.Background()
	linked := seedWorkflow("wf-linked", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingCall, time.Now().Add(-time.Hour), "num-1")
	recent := seedWorkflow("wf-recent", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingCall, time.Now())

	require.NoError(t, store.Workflows().Save(ctx, linked))
	require.NoError(t, store.Workflows().Save(ctx, recent))

	found, err := store.Workflows().FindActive(ctx, "tenant-1", models.TriggerIncomingCall, "num-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-linked", found.ID)
}

func TestFindActive_FiltersTenantAndTriggerType(t *testing.T) {
	store := NewPersistence(t.TempDir())
	defer store.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, store.Workflows().Save(ctx, seedWorkflow("wf-msg", "tenant-1", models.WorkflowStatusActive, models.TriggerIncomingMessage, time.Now())))
	require.NoError(t, store.Workflows().Save(ctx, seedWorkflow("wf-other", "tenant-2", models.WorkflowStatusActive, models.TriggerIncomingCall, time.Now())))

	_, err := store.Workflows().FindActive(ctx, "tenant-1", models.TriggerIncomingCall, "")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	found, err := store.Workflows().FindActive(ctx, "", models.TriggerIncomingCall, "")
	require.NoError(t, err)
	assert.Equal(t, "wf-other", found.ID)
}
