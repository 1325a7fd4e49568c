package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sales_crm_backend/internal/pipeline"
)

// Agent is an agent profile as shown on the stats pages.
type Agent struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Phone      string
	Department string
	HireDate   time.Time
	Role       string
	IsActive   bool
}

// CallClient is the client joined onto a recent call. It is nil when the
// client no longer exists.
type CallClient struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Company   string
	Phone     string
}

// RecentCall is a call row for the stats pages.
type RecentCall struct {
	ID       uuid.UUID
	CallType string
	Subject  string
	Outcome  string
	Status   string
	Duration int
	CallDate time.Time
	Client   *CallClient
}

// ClientRow is the client projection used by the stats pages.
type ClientRow struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Company          string
	Email            string
	Phone            string
	OpportunityStage pipeline.Stage
	DealValue        float64
	CreatedAt        time.Time
}

// Reader provides the aggregate reads. Every per-agent read is independent;
// no two of them share a snapshot.
type Reader interface {
	CountClientsByStage(ctx context.Context, agentID uuid.UUID) (map[pipeline.Stage]int, error)
	SumDealValue(ctx context.Context, agentID uuid.UUID, stages []pipeline.Stage) (float64, error)
	// CountCalls counts the agent's calls, only those on or after since when it is set.
	CountCalls(ctx context.Context, agentID uuid.UUID, since *time.Time) (int, error)
	RecentCalls(ctx context.Context, agentID uuid.UUID, limit int) ([]RecentCall, error)
	// ListClients returns clients newest first; limit <= 0 returns all of them.
	ListClients(ctx context.Context, agentID uuid.UUID, limit int) ([]ClientRow, error)
	ListActiveAgents(ctx context.Context) ([]Agent, error)
	GetAgent(ctx context.Context, id uuid.UUID) (Agent, error)
}
