package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/internal/stats/repository"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

type storedClient struct {
	agentID   uuid.UUID
	stage     pipeline.Stage
	dealValue float64
	createdAt time.Time
}

type storedCall struct {
	agentID  uuid.UUID
	callDate time.Time
}

type memoryReader struct {
	mu       sync.Mutex
	agents   []repository.Agent
	clients  []storedClient
	calls    []storedCall
	failWith error
	since    []*time.Time
}

func (m *memoryReader) CountClientsByStage(_ context.Context, agentID uuid.UUID) (map[pipeline.Stage]int, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	counts := make(map[pipeline.Stage]int)
	for _, c := range m.clients {
		if c.agentID == agentID {
			counts[c.stage]++
		}
	}
	return counts, nil
}

func (m *memoryReader) SumDealValue(_ context.Context, agentID uuid.UUID, stages []pipeline.Stage) (float64, error) {
	total := 0.0
	for _, c := range m.clients {
		if c.agentID != agentID {
			continue
		}
		for _, s := range stages {
			if c.stage == s {
				total += c.dealValue
			}
		}
	}
	return total, nil
}

func (m *memoryReader) CountCalls(_ context.Context, agentID uuid.UUID, since *time.Time) (int, error) {
	m.mu.Lock()
	m.since = append(m.since, since)
	m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c.agentID == agentID && (since == nil || !c.callDate.Before(*since)) {
			n++
		}
	}
	return n, nil
}

func (m *memoryReader) RecentCalls(_ context.Context, agentID uuid.UUID, limit int) ([]repository.RecentCall, error) {
	out := make([]repository.RecentCall, 0)
	for _, c := range m.calls {
		if c.agentID == agentID && len(out) < limit {
			out = append(out, repository.RecentCall{
				ID:       uuid.New(),
				CallDate: c.callDate,
				Client:   &repository.CallClient{FirstName: "Jane", Phone: "555"},
			})
		}
	}
	return out, nil
}

func (m *memoryReader) ListClients(_ context.Context, agentID uuid.UUID, limit int) ([]repository.ClientRow, error) {
	out := make([]repository.ClientRow, 0)
	for _, c := range m.clients {
		if c.agentID != agentID {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, repository.ClientRow{ID: uuid.New(), OpportunityStage: c.stage, DealValue: c.dealValue, CreatedAt: c.createdAt})
	}
	return out, nil
}

func (m *memoryReader) ListActiveAgents(context.Context) ([]repository.Agent, error) {
	return m.agents, nil
}

func (m *memoryReader) GetAgent(_ context.Context, id uuid.UUID) (repository.Agent, error) {
	for _, a := range m.agents {
		if a.ID == id {
			return a, nil
		}
	}
	return repository.Agent{}, apperr.NotFound("Agent not found")
}

func (m *memoryReader) addClients(agentID uuid.UUID, stage pipeline.Stage, n int, value float64) {
	for i := 0; i < n; i++ {
		m.clients = append(m.clients, storedClient{agentID: agentID, stage: stage, dealValue: value})
	}
}

func newTestService(reader repository.Reader, now time.Time, loc *time.Location) *Service {
	svc := New(reader, loc, logger.Discard())
	svc.SetClock(func() time.Time { return now })
	return svc
}

func TestConversionRate(t *testing.T) {
	tests := []struct {
		closedWon int
		total     int
		want      float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 8, 12.5},
		{5, 5, 100},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, conversionRate(tc.closedWon, tc.total), "%d/%d", tc.closedWon, tc.total)
	}
}

func TestStartOfMonthUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on June 1st is still May 31st in New York.
	now := time.Date(2026, 6, 1, 2, 0, 0, 0, time.UTC)

	assert.True(t, startOfMonth(now, time.UTC).Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, startOfMonth(now, ny).Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, ny)))
}

func TestDashboardWithNoClients(t *testing.T) {
	svc := newTestService(&memoryReader{}, time.Now(), time.UTC)

	got, err := svc.DashboardStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Zero(t, got.TotalClients)
	assert.Zero(t, got.ConversionRate)
	assert.Zero(t, got.TotalRevenue)
	assert.NotNil(t, got.RecentCalls)
	assert.NotNil(t, got.RecentClients)
}

func TestDashboardRevenueAndPipeline(t *testing.T) {
	agentID := uuid.New()
	other := uuid.New()
	reader := &memoryReader{}
	reader.addClients(agentID, pipeline.StageClosedWon, 1, 5000)
	reader.addClients(agentID, pipeline.StageClosedWon, 1, 2500)
	reader.addClients(agentID, pipeline.StageLead, 2, 100)
	reader.addClients(agentID, pipeline.StageNegotiation, 1, 900)
	reader.addClients(agentID, pipeline.StageClosedLost, 1, 7000)
	reader.addClients(other, pipeline.StageClosedWon, 3, 10000)

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	reader.calls = []storedCall{
		{agentID: agentID, callDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{agentID: agentID, callDate: time.Date(2026, 6, 14, 9, 0, 0, 0, time.UTC)},
		{agentID: agentID, callDate: time.Date(2026, 5, 31, 23, 59, 0, 0, time.UTC)},
		{agentID: other, callDate: time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)},
	}

	got, err := newTestService(reader, now, time.UTC).DashboardStats(context.Background(), agentID)
	require.NoError(t, err)

	assert.Equal(t, 6, got.TotalClients)
	assert.Equal(t, 2, got.LeadClients)
	assert.Equal(t, 0, got.QualifiedClients)
	assert.Equal(t, 2, got.ClosedWonClients)
	assert.Equal(t, 7500.0, got.TotalRevenue)
	assert.Equal(t, 1100.0, got.PipelineValue)
	assert.Equal(t, 2, got.CallsThisMonth)
	assert.Equal(t, 33.3, got.ConversionRate)
	assert.Len(t, got.RecentCalls, 3)
	assert.Len(t, got.RecentClients, 5)
	assert.Equal(t, "555", got.RecentCalls[0].Client.Phone)
}

func TestAllAgentsKeepsListingOrder(t *testing.T) {
	reader := &memoryReader{}
	for _, name := range []string{"Ada", "Bea", "Cyd", "Dee", "Eve", "Fay"} {
		reader.agents = append(reader.agents, repository.Agent{ID: uuid.New(), Name: name})
	}
	reader.addClients(reader.agents[1].ID, pipeline.StageClosedWon, 1, 400)
	reader.addClients(reader.agents[1].ID, pipeline.StageLead, 3, 50)
	reader.calls = []storedCall{{agentID: reader.agents[1].ID}, {agentID: reader.agents[1].ID}}

	got, err := newTestService(reader, time.Now(), time.UTC).AllAgentsStats(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 6)

	for i, a := range reader.agents {
		assert.Equal(t, a.Name, got[i].Name)
	}
	assert.Equal(t, 4, got[1].Stats.TotalClients)
	assert.Equal(t, 1, got[1].Stats.ClosedWonClients)
	assert.Equal(t, 2, got[1].Stats.TotalCalls)
	assert.Equal(t, 400.0, got[1].Stats.TotalRevenue)
	assert.Equal(t, 25.0, got[1].Stats.ConversionRate)
	assert.Zero(t, got[0].Stats.ConversionRate)

	for _, since := range reader.since {
		assert.Nil(t, since, "rollup counts all calls")
	}
}

func TestAllAgentsStoreFailure(t *testing.T) {
	reader := &memoryReader{
		agents:   []repository.Agent{{ID: uuid.New(), Name: "Ada"}},
		failWith: errors.New("connection refused"),
	}

	_, err := newTestService(reader, time.Now(), time.UTC).AllAgentsStats(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindDependency))
}

func TestAgentStatsUnknownAgent(t *testing.T) {
	_, err := newTestService(&memoryReader{}, time.Now(), time.UTC).AgentStats(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAgentStatsCountsEveryStage(t *testing.T) {
	agent := repository.Agent{ID: uuid.New(), Name: "Ada", Department: "Sales"}
	reader := &memoryReader{agents: []repository.Agent{agent}}
	for i, stage := range pipeline.AllStages {
		reader.addClients(agent.ID, stage, i+1, 10)
	}
	for i := 0; i < 12; i++ {
		reader.calls = append(reader.calls, storedCall{agentID: agent.ID})
	}

	got, err := newTestService(reader, time.Now(), time.UTC).AgentStats(context.Background(), agent.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ada", got.Agent.Name)
	assert.Equal(t, 21, got.Stats.TotalClients)
	assert.Equal(t, 1, got.Stats.ClientsByStage.Lead)
	assert.Equal(t, 2, got.Stats.ClientsByStage.Qualified)
	assert.Equal(t, 3, got.Stats.ClientsByStage.Proposal)
	assert.Equal(t, 4, got.Stats.ClientsByStage.Negotiation)
	assert.Equal(t, 5, got.Stats.ClientsByStage.ClosedWon)
	assert.Equal(t, 6, got.Stats.ClientsByStage.ClosedLost)
	assert.Equal(t, 23.8, got.Stats.ConversionRate)
	assert.Equal(t, 12, got.Stats.TotalCalls)
	assert.Len(t, got.Clients, 21)
	assert.Len(t, got.RecentCalls, agentRecentLimit)
	assert.Empty(t, got.RecentCalls[0].Client.Phone)
	assert.Nil(t, got.Clients[0].CreatedAt)
}

func TestExportAgentsWorkbook(t *testing.T) {
	reader := &memoryReader{agents: []repository.Agent{
		{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Department: "Sales"},
		{ID: uuid.New(), Name: "Bea", Email: "bea@example.com", Department: "Enterprise"},
	}}
	reader.addClients(reader.agents[0].ID, pipeline.StageClosedWon, 2, 1500)

	data, err := newTestService(reader, time.Now(), time.UTC).ExportAgentsStats(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Agents")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, []string{"Ada", "ada@example.com", "Sales", "2", "2", "0", "100", "3000"}, rows[1])
	assert.Equal(t, "Bea", rows[2][0])
}
