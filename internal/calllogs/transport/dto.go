package transport

import (
	"time"

	"github.com/google/uuid"
)

// DealInfo carries contract details captured on a call.
type DealInfo struct {
	DealValue    *float64   `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
	ContractTerm *string    `json:"contractTerm,omitempty" validate:"omitempty,max=100"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	RenewalDate  *time.Time `json:"renewalDate,omitempty"`
}

// CreateCallLogRequest contains data for logging a call.
type CreateCallLogRequest struct {
	ClientID         string     `json:"client" validate:"required,uuid"`
	CallType         string     `json:"callType" validate:"required,oneof=outbound inbound follow-up demo proposal negotiation closing"`
	Subject          string     `json:"subject" validate:"required,max=200"`
	Outcome          string     `json:"outcome" validate:"required,oneof=qualified proposal-sent negotiation closed-won closed-lost no-answer voicemail callback-requested not-interested"`
	Duration         int        `json:"duration" validate:"gte=0"`
	Status           string     `json:"status" validate:"omitempty,oneof=open in-progress closed"`
	Notes            string     `json:"notes" validate:"required"`
	DealInfo         *DealInfo  `json:"dealInfo,omitempty"`
	FollowUpRequired bool       `json:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate,omitempty"`
	FollowUpNotes    string     `json:"followUpNotes" validate:"max=1000"`
	CallDate         *time.Time `json:"callDate,omitempty"`
	ClosedDate       *time.Time `json:"closedDate,omitempty"`
}

// UpdateCallLogRequest contains data for a partial call log update.
// Client may be repeated but not changed.
type UpdateCallLogRequest struct {
	ClientID         *string    `json:"client,omitempty" validate:"omitempty,uuid"`
	CallType         *string    `json:"callType,omitempty" validate:"omitempty,oneof=outbound inbound follow-up demo proposal negotiation closing"`
	Subject          *string    `json:"subject,omitempty" validate:"omitempty,min=1,max=200"`
	Outcome          *string    `json:"outcome,omitempty" validate:"omitempty,oneof=qualified proposal-sent negotiation closed-won closed-lost no-answer voicemail callback-requested not-interested"`
	Duration         *int       `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Status           *string    `json:"status,omitempty" validate:"omitempty,oneof=open in-progress closed"`
	Notes            *string    `json:"notes,omitempty" validate:"omitempty,min=1"`
	DealInfo         *DealInfo  `json:"dealInfo,omitempty"`
	FollowUpRequired *bool      `json:"followUpRequired,omitempty"`
	FollowUpDate     *time.Time `json:"followUpDate,omitempty"`
	FollowUpNotes    *string    `json:"followUpNotes,omitempty" validate:"omitempty,max=1000"`
	CallDate         *time.Time `json:"callDate,omitempty"`
	ClosedDate       *time.Time `json:"closedDate,omitempty"`
}

// ClientSummary is the client shown next to a call.
type ClientSummary struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Company         string    `json:"company,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	ReferenceNumber string    `json:"referenceNumber,omitempty"`
}

// AgentSummary is the agent shown next to a call.
type AgentSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CallLogResponse represents a call log in API responses.
type CallLogResponse struct {
	ID               uuid.UUID      `json:"id"`
	AgentID          uuid.UUID      `json:"agentId"`
	ClientID         uuid.UUID      `json:"clientId"`
	Client           *ClientSummary `json:"client,omitempty"`
	Agent            *AgentSummary  `json:"agent,omitempty"`
	CallType         string         `json:"callType"`
	Subject          string         `json:"subject"`
	Outcome          string         `json:"outcome"`
	Duration         int            `json:"duration"`
	Status           string         `json:"status"`
	Notes            string         `json:"notes"`
	DealInfo         *DealInfo      `json:"dealInfo,omitempty"`
	FollowUpRequired bool           `json:"followUpRequired"`
	FollowUpDate     *time.Time     `json:"followUpDate,omitempty"`
	FollowUpNotes    string         `json:"followUpNotes"`
	CallDate         time.Time      `json:"callDate"`
	ClosedDate       *time.Time     `json:"closedDate,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
