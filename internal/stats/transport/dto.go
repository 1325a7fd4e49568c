package transport

import (
	"time"

	"github.com/google/uuid"
)

// CallClient is the client shown next to a recent call.
type CallClient struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone,omitempty"`
}

// RecentCall is a call on the dashboard or agent detail page.
type RecentCall struct {
	ID       uuid.UUID   `json:"id"`
	CallType string      `json:"callType"`
	Subject  string      `json:"subject"`
	Outcome  string      `json:"outcome"`
	Status   string      `json:"status"`
	Duration int         `json:"duration"`
	CallDate time.Time   `json:"callDate"`
	Client   *CallClient `json:"client,omitempty"`
}

// ClientSummary is a client projection on the stats pages.
type ClientSummary struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Company          string     `json:"company"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	OpportunityStage string     `json:"opportunityStage"`
	DealValue        float64    `json:"dealValue"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// DashboardStats is the caller's own pipeline summary.
type DashboardStats struct {
	TotalClients     int             `json:"totalClients"`
	LeadClients      int             `json:"leadClients"`
	QualifiedClients int             `json:"qualifiedClients"`
	ClosedWonClients int             `json:"closedWonClients"`
	CallsThisMonth   int             `json:"callsThisMonth"`
	ConversionRate   float64         `json:"conversionRate"`
	TotalRevenue     float64         `json:"totalRevenue"`
	PipelineValue    float64         `json:"pipelineValue"`
	RecentCalls      []RecentCall    `json:"recentCalls"`
	RecentClients    []ClientSummary `json:"recentClients"`
}

// AgentProfile is the public part of an agent.
type AgentProfile struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	HireDate   time.Time `json:"hireDate"`
}

// RollupStats are the per-agent numbers on the team overview.
type RollupStats struct {
	TotalClients     int     `json:"totalClients"`
	ClosedWonClients int     `json:"closedWonClients"`
	TotalCalls       int     `json:"totalCalls"`
	ConversionRate   float64 `json:"conversionRate"`
	TotalRevenue     float64 `json:"totalRevenue"`
}

// AgentRollup is one row of the team overview.
type AgentRollup struct {
	AgentProfile
	Stats RollupStats `json:"stats"`
}

// StageCounts holds one count per pipeline stage.
type StageCounts struct {
	Lead        int `json:"lead"`
	Qualified   int `json:"qualified"`
	Proposal    int `json:"proposal"`
	Negotiation int `json:"negotiation"`
	ClosedWon   int `json:"closedWon"`
	ClosedLost  int `json:"closedLost"`
}

// AgentDetailStats are the numbers on one agent's detail page.
type AgentDetailStats struct {
	TotalClients   int         `json:"totalClients"`
	TotalCalls     int         `json:"totalCalls"`
	ClientsByStage StageCounts `json:"clientsByStage"`
	ConversionRate float64     `json:"conversionRate"`
	TotalRevenue   float64     `json:"totalRevenue"`
	PipelineValue  float64     `json:"pipelineValue"`
}

// AgentDetail is one agent with their pipeline and latest calls.
type AgentDetail struct {
	Agent       AgentProfile     `json:"agent"`
	Stats       AgentDetailStats `json:"stats"`
	Clients     []ClientSummary  `json:"clients"`
	RecentCalls []RecentCall     `json:"recentCalls"`
}
