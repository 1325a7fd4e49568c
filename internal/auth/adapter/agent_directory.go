// Package adapter exposes auth data to other modules through the narrow
// interfaces those modules define.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"sales_crm_backend/internal/auth/repository"
	"sales_crm_backend/internal/scheduler"
)

// AgentDirectory resolves agent contact details for reminder emails.
type AgentDirectory struct {
	repo repository.AgentReader
}

// NewAgentDirectory creates a directory over the agents repository.
func NewAgentDirectory(repo repository.AgentReader) *AgentDirectory {
	return &AgentDirectory{repo: repo}
}

// GetAgentContact implements scheduler.AgentDirectory.
func (a *AgentDirectory) GetAgentContact(ctx context.Context, agentID uuid.UUID) (scheduler.AgentContact, error) {
	agent, err := a.repo.GetByID(ctx, agentID)
	if err != nil {
		return scheduler.AgentContact{}, err
	}
	return scheduler.AgentContact{
		Name:     agent.Name,
		Email:    agent.Email,
		IsActive: agent.IsActive,
	}, nil
}

var _ scheduler.AgentDirectory = (*AgentDirectory)(nil)
