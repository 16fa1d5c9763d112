package registry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/voxline/pkg/actions/reply"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

func TestCreateAction_UnknownLabel(t *testing.T) {
	reg := NewRegistry(slog.Default())

	_, err := reg.CreateAction("Nope", nil)
	assert.Error(t, err)
}

func TestCreateAction_ValidatesSchema(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.Register(reply.NewFactory(models.ActionSendReply, &protocol.Collaborators{}))

	// Missing the required message field.
	_, err := reg.CreateAction(models.ActionSendReply, map[string]any{})
	assert.Error(t, err)

	// Wrong type for message.
	_, err = reg.CreateAction(models.ActionSendReply, map[string]any{"message": 42})
	assert.Error(t, err)

	action, err := reg.CreateAction(models.ActionSendReply, map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestNewDefaultRegistry_CoversActionCatalog(t *testing.T) {
	reg := NewDefaultRegistry(slog.Default(), &protocol.Collaborators{})

	labels := reg.Labels()

	for _, label := range []string{
		models.ActionSendReply,
		models.ActionSendSMS,
		models.ActionSetVariable,
		models.ActionAIGenerate,
		models.ActionSendEmail,
		models.ActionAssignAgent,
		models.ActionEndChat,
		models.ActionEndCall,
		models.ActionCreateCalendarEvent,
		models.ActionCRMSearchContact,
		models.ActionCRMCreateContact,
		models.ActionCRMUpdateContact,
		models.ActionCRMGetContact,
		models.ActionCRMLogActivity,
		models.ActionGmailSend,
		models.ActionDriveUpload,
		models.ActionSheetsAppend,
	} {
		assert.Contains(t, labels, label)
	}
}
