package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CallLog is one recorded interaction between an agent and a client.
type CallLog struct {
	ID               uuid.UUID
	AgentID          uuid.UUID
	ClientID         uuid.UUID
	CallType         string
	Subject          string
	Outcome          string
	Duration         int
	Status           string
	Notes            string
	DealValue        *float64
	ContractTerm     *string
	DealStartDate    *time.Time
	DealRenewalDate  *time.Time
	FollowUpRequired bool
	FollowUpDate     *time.Time
	FollowUpNotes    string
	CallDate         time.Time
	ClosedDate       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ClientSummary is the slice of a client shown next to its calls.
type ClientSummary struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Company         string
	Phone           string
	ReferenceNumber string
}

// AgentSummary is the slice of an agent shown next to their calls.
type AgentSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// CallLogDetail is a call log joined with its client and agent.
// Client is nil when the client row no longer exists.
type CallLogDetail struct {
	CallLog
	Client *ClientSummary
	Agent  *AgentSummary
}

// CreateParams contains parameters for creating a call log.
type CreateParams struct {
	AgentID          uuid.UUID
	ClientID         uuid.UUID
	CallType         string
	Subject          string
	Outcome          string
	Duration         int
	Status           string
	Notes            string
	DealValue        *float64
	ContractTerm     *string
	DealStartDate    *time.Time
	DealRenewalDate  *time.Time
	FollowUpRequired bool
	FollowUpDate     *time.Time
	FollowUpNotes    string
	CallDate         time.Time
	ClosedDate       *time.Time
}

// UpdateParams contains parameters for a partial update. Nil fields keep
// their stored value.
type UpdateParams struct {
	ID               uuid.UUID
	AgentID          uuid.UUID
	CallType         *string
	Subject          *string
	Outcome          *string
	Duration         *int
	Status           *string
	Notes            *string
	DealValue        *float64
	ContractTerm     *string
	DealStartDate    *time.Time
	DealRenewalDate  *time.Time
	FollowUpRequired *bool
	FollowUpDate     *time.Time
	FollowUpNotes    *string
	CallDate         *time.Time
	ClosedDate       *time.Time
}

// CallLogReader provides read operations scoped to the owning agent.
type CallLogReader interface {
	ListForAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]CallLogDetail, error)
	ListForClient(ctx context.Context, clientID, agentID uuid.UUID, limit int) ([]CallLogDetail, error)
	GetByID(ctx context.Context, id, agentID uuid.UUID) (CallLogDetail, error)
	// GetByIDUnscoped is for background jobs that act on behalf of the system.
	GetByIDUnscoped(ctx context.Context, id uuid.UUID) (CallLogDetail, error)
}

// CallLogWriter provides write operations scoped to the owning agent.
type CallLogWriter interface {
	Create(ctx context.Context, params CreateParams) (CallLog, error)
	Update(ctx context.Context, params UpdateParams) (CallLog, error)
	Delete(ctx context.Context, id, agentID uuid.UUID) error
	DeleteByClient(ctx context.Context, clientID, agentID uuid.UUID) (int64, error)
}

// Repository combines all call log operations.
type Repository interface {
	CallLogReader
	CallLogWriter
}
