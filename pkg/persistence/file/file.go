// Package file implements persistence over JSON documents on disk. It
// backs local development and the test suite; production deployments plug
// their own Persistence implementation.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/voxline/voxline/pkg/persistence"
)

type Persistence struct {
	root     string
	validate *validator.Validate

	workflows     *WorkflowRepository
	tenants       *TenantRepository
	agents        *AgentRepository
	conversations *ConversationRepository
}

// NewPersistence creates a file store rooted at dataPath.
func NewPersistence(dataPath string) *Persistence {
	p := &Persistence{
		root:     dataPath,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	p.workflows = &WorkflowRepository{store: p}
	p.tenants = &TenantRepository{store: p}
	p.agents = &AgentRepository{store: p}
	p.conversations = &ConversationRepository{store: p}

	return p
}

func (p *Persistence) Workflows() persistence.WorkflowRepository { return p.workflows }

func (p *Persistence) Tenants() persistence.TenantRepository { return p.tenants }

func (p *Persistence) Agents() persistence.AgentRepository { return p.agents }

func (p *Persistence) Conversations() persistence.ConversationRepository { return p.conversations }

func (p *Persistence) HealthCheck(_ context.Context) error {
	info, err := os.Stat(p.root)
	if err != nil {
		return fmt.Errorf("data path unavailable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", p.root)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error { return nil }

func (p *Persistence) dir(kind string) string {
	return filepath.Join(p.root, kind)
}

func (p *Persistence) write(kind, id string, value any) error {
	dir := p.dir(kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", kind, err)
	}

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
	}

	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", kind, id, err)
	}

	return nil
}

func (p *Persistence) read(kind, id string, out any, notFound error) error {
	payload, err := os.ReadFile(filepath.Join(p.dir(kind), id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return notFound
	}

	if err != nil {
		return fmt.Errorf("failed to read %s %s: %w", kind, id, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", kind, id, err)
	}

	return nil
}

func (p *Persistence) list(kind string) ([][]byte, error) {
	entries, err := os.ReadDir(p.dir(kind))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	var payloads [][]byte

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		payload, err := os.ReadFile(filepath.Join(p.dir(kind), entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		payloads = append(payloads, payload)
	}

	return payloads, nil
}
