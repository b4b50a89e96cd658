// Package events publishes devotee lifecycle events to Kafka. Emission is
// best-effort: a broker outage must never fail the request that triggered
// the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Ramsey-B/tulsi/pkg/models"
)

const (
	EventDevoteeCreated  = "devotee.created"
	EventDevoteeUpdated  = "devotee.updated"
	EventDevoteeDeleted  = "devotee.deleted"
	EventDevoteesPurged  = "devotees.purged"
	EventImportCompleted = "import.completed"
)

// DevoteeEvent is the payload for single-devotee lifecycle events.
type DevoteeEvent struct {
	EventType string          `json:"event_type"`
	DevoteeID string          `json:"devotee_id"`
	Nakshatra string          `json:"nakshatra"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// PurgeEvent is the payload for an administrative delete-by-nakshatra.
type PurgeEvent struct {
	EventType string    `json:"event_type"`
	Nakshatra string    `json:"nakshatra"`
	Deleted   int64     `json:"deleted"`
	Timestamp time.Time `json:"timestamp"`
}

// ImportEvent is the payload for a completed bulk import.
type ImportEvent struct {
	EventType  string    `json:"event_type"`
	Filename   string    `json:"filename"`
	Created    int       `json:"created"`
	Duplicates int       `json:"duplicates"`
	Invalid    int       `json:"invalid"`
	Timestamp  time.Time `json:"timestamp"`
}

// Emitter publishes lifecycle events. Implementations must not block request
// handling on broker failures.
type Emitter interface {
	DevoteeCreated(ctx context.Context, devotee *models.Devotee)
	DevoteeUpdated(ctx context.Context, devotee *models.Devotee)
	DevoteeDeleted(ctx context.Context, devotee *models.Devotee)
	DevoteesPurged(ctx context.Context, nakshatra string, deleted int64)
	ImportCompleted(ctx context.Context, filename string, summary models.ImportSummary)
	Close() error
}

// NoopEmitter drops every event. Used when Kafka is disabled.
type NoopEmitter struct{}

func (NoopEmitter) DevoteeCreated(context.Context, *models.Devotee) {}

func (NoopEmitter) DevoteeUpdated(context.Context, *models.Devotee) {}

func (NoopEmitter) DevoteeDeleted(context.Context, *models.Devotee) {}

func (NoopEmitter) DevoteesPurged(context.Context, string, int64) {}

func (NoopEmitter) ImportCompleted(context.Context, string, models.ImportSummary) {}

func (NoopEmitter) Close() error { return nil }
