// Package session stores per-call conversational state shared across the
// asynchronous events of a voice call. Stores are injectable and carry an
// explicit eviction policy: entries expire after a TTL if the call never
// ends cleanly.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/voxline/voxline/pkg/models"
)

// ErrNotFound is returned when no session exists for a call ID.
var ErrNotFound = errors.New("session not found")

// DefaultTTL bounds how long an abandoned session survives.
const DefaultTTL = 4 * time.Hour

// Store is the call-identifier-keyed session table. Each call's entry is
// only ever touched by the single logical task handling that call's
// events.
type Store interface {
	Get(ctx context.Context, callID string) (*models.SessionState, error)
	Put(ctx context.Context, state *models.SessionState) error
	Delete(ctx context.Context, callID string) error
	Close() error
}
