// Package setvariable implements the Set Variable action node, writing
// into the execution's workflow variable namespace.
package setvariable

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/variables"
)

type Config struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

type Action struct {
	config Config
}

func (a *Action) Execute(_ context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	variables.Set("variables.workflow."+a.config.Key, a.config.Value, ectx)

	logger.Debug("set workflow variable", "key", a.config.Key)

	return nil
}

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Label() string { return models.ActionSetVariable }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":   map[string]any{"type": "string", "minLength": 1},
			"value": map[string]any{},
		},
		"required": []any{"key"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode Set Variable config: %w", err)
	}

	return &Action{config: cfg}, nil
}
