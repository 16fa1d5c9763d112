package registry

import (
	"log/slog"

	"github.com/voxline/voxline/pkg/actions/aigenerate"
	"github.com/voxline/voxline/pkg/actions/assign"
	"github.com/voxline/voxline/pkg/actions/calendar"
	"github.com/voxline/voxline/pkg/actions/crm"
	"github.com/voxline/voxline/pkg/actions/email"
	"github.com/voxline/voxline/pkg/actions/endcall"
	"github.com/voxline/voxline/pkg/actions/endchat"
	"github.com/voxline/voxline/pkg/actions/google"
	"github.com/voxline/voxline/pkg/actions/reply"
	"github.com/voxline/voxline/pkg/actions/setvariable"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

// NewDefaultRegistry registers every built-in action label against the
// given collaborators.
func NewDefaultRegistry(logger *slog.Logger, collab *protocol.Collaborators) *Registry {
	r := NewRegistry(logger)

	r.Register(reply.NewFactory(models.ActionSendReply, collab))
	r.Register(reply.NewFactory(models.ActionSendSMS, collab))
	r.Register(setvariable.NewFactory())
	r.Register(aigenerate.NewFactory(collab))
	r.Register(email.NewFactory(collab))
	r.Register(assign.NewFactory())
	r.Register(endchat.NewFactory(collab))
	r.Register(endcall.NewFactory(collab))
	r.Register(calendar.NewFactory(collab))

	for _, label := range []string{
		models.ActionCRMSearchContact,
		models.ActionCRMCreateContact,
		models.ActionCRMUpdateContact,
		models.ActionCRMGetContact,
		models.ActionCRMLogActivity,
	} {
		r.Register(crm.NewFactory(label, collab))
	}

	for _, label := range []string{
		models.ActionGmailSend,
		models.ActionDriveUpload,
		models.ActionSheetsAppend,
	} {
		r.Register(google.NewFactory(label, collab))
	}

	return r
}
