package protocol

import (
	"context"
	"log/slog"

	"github.com/voxline/voxline/pkg/models"
)

// Action is one executable node behavior. Execute receives the node config
// already interpolated against the execution context. Returned errors are
// logged by the engine and swallowed; traversal does not advance past a
// failed node.
type Action interface {
	Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error
}

// ActionFactory creates action instances from node config and describes
// the config schema for validation.
type ActionFactory interface {
	// Create builds an action from the interpolated node config.
	Create(config map[string]any) (Action, error)

	// Label returns the node label this factory serves.
	Label() string

	// Schema returns the JSON schema for the node config.
	Schema() map[string]any
}
