package transport

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest contains agent credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token and the agent it was issued to.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Agent     AgentResponse `json:"agent"`
}

// CreateAgentRequest provisions an agent. It is also the shape of one entry
// in an import file.
type CreateAgentRequest struct {
	Name       string     `json:"name" yaml:"name" validate:"required,max=100"`
	Email      string     `json:"email" yaml:"email" validate:"required,email"`
	Password   string     `json:"password" yaml:"password" validate:"required,strongpassword"`
	Phone      string     `json:"phone" yaml:"phone" validate:"max=40"`
	Department string     `json:"department" yaml:"department" validate:"max=100"`
	HireDate   *time.Time `json:"hireDate,omitempty" yaml:"hireDate,omitempty"`
	Role       string     `json:"role" yaml:"role" validate:"omitempty,oneof=agent admin"`
}

// AgentResponse is an agent profile without credentials.
type AgentResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	HireDate   time.Time `json:"hireDate"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ImportResult reports what an agent import did.
type ImportResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}
