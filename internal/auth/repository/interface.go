package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Agent roles.
const (
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// Agent is a sales representative account.
type Agent struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Department   string
	HireDate     time.Time
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains parameters for creating an agent.
type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Department   string
	HireDate     *time.Time
	Role         string
}

// AgentReader looks agents up.
type AgentReader interface {
	GetByEmail(ctx context.Context, email string) (Agent, error)
	GetByID(ctx context.Context, id uuid.UUID) (Agent, error)
}

// AgentWriter provisions agents.
type AgentWriter interface {
	Create(ctx context.Context, params CreateParams) (Agent, error)
}

// Repository combines all agent operations.
type Repository interface {
	AgentReader
	AgentWriter
}
