// Package events delivers mitigation decisions to registered observers.
//
// Delivery is synchronous and in registration order. A failing or
// panicking observer is logged and skipped; it never blocks delivery to
// the remaining observers or aborts the mitigation pipeline.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasim21-maker/synapse-framework/internal/types"
)

// EventType classifies a mitigation event for downstream consumers
type EventType string

const (
	// EventMitigationTriggered indicates a throttle, brake, rebalance or alert decision
	EventMitigationTriggered EventType = "mitigation_triggered"
	// EventComponentQuarantined indicates a component was isolated
	EventComponentQuarantined EventType = "component_quarantined"
	// EventComponentRestored indicates a component left quarantine
	EventComponentRestored EventType = "component_restored"
)

// Event wraps one MitigationResult for broadcast
type Event struct {
	// ID is a unique identifier for this event
	ID string `json:"id"`
	// Type is the event classification derived from the result's action
	Type EventType `json:"type"`
	// Timestamp is when the event was created
	Timestamp time.Time `json:"timestamp"`
	// Result is the mitigation decision being broadcast
	Result types.MitigationResult `json:"result"`
}

// NewMitigationEvent creates an event for a mitigation result, deriving
// the event type from the result's action.
func NewMitigationEvent(result types.MitigationResult) *Event {
	evtType := EventMitigationTriggered
	if result.Action == types.ActionQuarantine {
		evtType = EventComponentQuarantined
	}
	// Restoration is reported as an alert carrying a restored status;
	// detect it from the details map written by the pruning controller.
	if status, ok := result.Details["status"].(string); ok && status == "restored" {
		evtType = EventComponentRestored
	}

	return &Event{
		ID:        uuid.New().String(),
		Type:      evtType,
		Timestamp: time.Now(),
		Result:    result,
	}
}
