// Package assign holds the Assign Agent action node. Routing inbound work
// to a live agent queue is not wired yet; the node is an extension point
// so existing graphs keep a stable label.
package assign

import (
	"context"
	"log/slog"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

type Action struct{}

func (a *Action) Execute(_ context.Context, _ *models.ExecutionContext, logger *slog.Logger) error {
	logger.Info("Assign Agent is not implemented yet, passing through")

	return nil
}

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Label() string { return models.ActionAssignAgent }

func (f *Factory) Schema() map[string]any { return nil }

func (f *Factory) Create(_ map[string]any) (protocol.Action, error) {
	return &Action{}, nil
}
