// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"sales_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Call Log Domain Events
// =============================================================================

// CallLogged is published after a call log is stored and its client patched.
type CallLogged struct {
	BaseEvent
	CallLogID        uuid.UUID  `json:"callLogId"`
	AgentID          uuid.UUID  `json:"agentId"`
	ClientID         uuid.UUID  `json:"clientId"`
	Outcome          string     `json:"outcome"`
	FollowUpRequired bool       `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate,omitempty"`
}

func (e CallLogged) EventName() string { return "calllogs.call.logged" }

// ClientStageChanged is published when a call outcome moves a client to a
// different pipeline stage.
type ClientStageChanged struct {
	BaseEvent
	ClientID  uuid.UUID `json:"clientId"`
	AgentID   uuid.UUID `json:"agentId"`
	CallLogID uuid.UUID `json:"callLogId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Outcome   string    `json:"outcome"`
}

func (e ClientStageChanged) EventName() string { return "clients.stage.changed" }
