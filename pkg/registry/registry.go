// Package registry maps node labels to action factories and validates
// node configs against each factory's schema before instantiation.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/voxline/voxline/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) Register(factory protocol.ActionFactory) {
	r.factories[factory.Label()] = factory
}

// Labels returns the registered node labels.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.factories))
	for label := range r.factories {
		labels = append(labels, label)
	}

	return labels
}

// CreateAction validates the interpolated config against the factory's
// schema and builds the action.
func (r *Registry) CreateAction(label string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.factories[label]
	if !ok {
		return nil, fmt.Errorf("action label %q not registered", label)
	}

	if schema := factory.Schema(); schema != nil {
		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(schema),
			gojsonschema.NewGoLoader(config),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to validate config for %q: %w", label, err)
		}

		if !result.Valid() {
			return nil, fmt.Errorf("invalid config for %q: %v", label, result.Errors())
		}
	}

	return factory.Create(config)
}
