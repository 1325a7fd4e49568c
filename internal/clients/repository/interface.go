package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/pipeline"
)

// Client is a lead or contact owned by one agent.
type Client struct {
	ID                     uuid.UUID
	AgentID                uuid.UUID
	FirstName              string
	LastName               string
	Email                  string
	Phone                  string
	PhoneNormalized        string
	JobTitle               string
	Company                string
	Industry               string
	CompanySize            string
	Website                string
	Street                 string
	City                   string
	State                  string
	ZipCode                string
	Country                string
	ReferenceNumber        string
	OpportunityStage       pipeline.Stage
	DealValue              float64
	Probability            int
	ExpectedCloseDate      *time.Time
	ClosedDate             *time.Time
	LastContactDate        *time.Time
	NextFollowUpDate       *time.Time
	LeadSource             string
	PreferredContactMethod string
	Notes                  string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CreateParams contains parameters for creating a client.
type CreateParams struct {
	AgentID                uuid.UUID
	FirstName              string
	LastName               string
	Email                  string
	Phone                  string
	PhoneNormalized        string
	JobTitle               string
	Company                string
	Industry               string
	CompanySize            string
	Website                string
	Street                 string
	City                   string
	State                  string
	ZipCode                string
	Country                string
	ReferenceNumber        string
	OpportunityStage       pipeline.Stage
	DealValue              float64
	Probability            int
	ExpectedCloseDate      *time.Time
	NextFollowUpDate       *time.Time
	LeadSource             string
	PreferredContactMethod string
	Notes                  string
}

// UpdateParams contains parameters for a partial update. Nil fields keep
// their stored value.
type UpdateParams struct {
	ID                     uuid.UUID
	AgentID                uuid.UUID
	FirstName              *string
	LastName               *string
	Email                  *string
	Phone                  *string
	PhoneNormalized        *string
	JobTitle               *string
	Company                *string
	Industry               *string
	CompanySize            *string
	Website                *string
	Street                 *string
	City                   *string
	State                  *string
	ZipCode                *string
	Country                *string
	ReferenceNumber        *string
	OpportunityStage       *pipeline.Stage
	DealValue              *float64
	Probability            *int
	ExpectedCloseDate      *time.Time
	ClosedDate             *time.Time
	NextFollowUpDate       *time.Time
	LeadSource             *string
	PreferredContactMethod *string
	Notes                  *string
}

// ClientReader provides read operations scoped to the owning agent.
type ClientReader interface {
	List(ctx context.Context, agentID uuid.UUID) ([]Client, error)
	GetByID(ctx context.Context, id, agentID uuid.UUID) (Client, error)
	Search(ctx context.Context, agentID uuid.UUID, query, normalizedPhone string) ([]Client, error)
}

// ClientWriter provides write operations scoped to the owning agent.
type ClientWriter interface {
	Create(ctx context.Context, params CreateParams) (Client, error)
	Update(ctx context.Context, params UpdateParams) (Client, error)
	Delete(ctx context.Context, id, agentID uuid.UUID) error
}

// StageStore is the narrow view the call log service uses to apply outcomes.
type StageStore interface {
	GetStage(ctx context.Context, id, agentID uuid.UUID) (pipeline.Stage, error)
	ApplyStagePatch(ctx context.Context, id, agentID uuid.UUID, patch pipeline.ClientPatch) error
}

// Repository combines all client repository operations.
type Repository interface {
	ClientReader
	ClientWriter
	StageStore
}
