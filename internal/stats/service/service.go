// Package service computes pipeline and activity statistics. All figures are
// read fresh on every call; reads within one request do not share a snapshot
// and may observe slightly different points in time.
package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sales_crm_backend/internal/exports"
	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/internal/stats/repository"
	"sales_crm_backend/internal/stats/transport"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/logger"
)

const (
	dashboardRecentLimit = 5
	agentRecentLimit     = 10
	agentFanOut          = 4
	msgStatsFailed       = "failed to load stats"
)

var closedWonOnly = []pipeline.Stage{pipeline.StageClosedWon}

// Service provides the aggregation reads.
type Service struct {
	repo repository.Reader
	loc  *time.Location
	now  func() time.Time
	log  *logger.Logger
}

// New creates a stats service. loc is the time zone that "this month" is
// measured in.
func New(repo repository.Reader, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now, log: log}
}

// SetClock replaces the clock used for the month boundary.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// DashboardStats summarizes the agent's own pipeline.
func (s *Service) DashboardStats(ctx context.Context, agentID uuid.UUID) (transport.DashboardStats, error) {
	counts, err := s.repo.CountClientsByStage(ctx, agentID)
	if err != nil {
		return transport.DashboardStats{}, storeError(err)
	}
	revenue, err := s.repo.SumDealValue(ctx, agentID, closedWonOnly)
	if err != nil {
		return transport.DashboardStats{}, storeError(err)
	}
	pipelineValue, err := s.repo.SumDealValue(ctx, agentID, pipeline.OpenStages)
	if err != nil {
		return transport.DashboardStats{}, storeError(err)
	}

	monthStart := startOfMonth(s.now(), s.loc)
	callsThisMonth, err := s.repo.CountCalls(ctx, agentID, &monthStart)
	if err != nil {
		return transport.DashboardStats{}, storeError(err)
	}
	recentCalls, err := s.repo.RecentCalls(ctx, agentID, dashboardRecentLimit)
	if err != nil {
		return transport.DashboardStats{}, storeError(err)
	}
	recentClients, err := s.repo.ListClients(ctx, agentID, dashboardRecentLimit)
	if err != nil {
		return transport.DashboardStats{}, storeError(err)
	}

	total := sumCounts(counts)
	closedWon := counts[pipeline.StageClosedWon]
	return transport.DashboardStats{
		TotalClients:     total,
		LeadClients:      counts[pipeline.StageLead],
		QualifiedClients: counts[pipeline.StageQualified],
		ClosedWonClients: closedWon,
		CallsThisMonth:   callsThisMonth,
		ConversionRate:   conversionRate(closedWon, total),
		TotalRevenue:     revenue,
		PipelineValue:    pipelineValue,
		RecentCalls:      toRecentCalls(recentCalls),
		RecentClients:    toClientSummaries(recentClients, true),
	}, nil
}

// AllAgentsStats computes the rollup for every active agent. Each agent is
// an independent unit of reads; results keep the agent listing order.
func (s *Service) AllAgentsStats(ctx context.Context) ([]transport.AgentRollup, error) {
	agents, err := s.repo.ListActiveAgents(ctx)
	if err != nil {
		return nil, storeError(err)
	}

	results := make([]transport.AgentRollup, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(agentFanOut)

	for i, agent := range agents {
		g.Go(func() error {
			stats, err := s.rollup(gctx, agent.ID)
			if err != nil {
				return err
			}
			results[i] = transport.AgentRollup{AgentProfile: toProfile(agent), Stats: stats}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.WithContext(ctx).Error("agent rollup failed", "error", err)
		return nil, storeError(err)
	}
	return results, nil
}

func (s *Service) rollup(ctx context.Context, agentID uuid.UUID) (transport.RollupStats, error) {
	counts, err := s.repo.CountClientsByStage(ctx, agentID)
	if err != nil {
		return transport.RollupStats{}, err
	}
	calls, err := s.repo.CountCalls(ctx, agentID, nil)
	if err != nil {
		return transport.RollupStats{}, err
	}
	revenue, err := s.repo.SumDealValue(ctx, agentID, closedWonOnly)
	if err != nil {
		return transport.RollupStats{}, err
	}

	total := sumCounts(counts)
	closedWon := counts[pipeline.StageClosedWon]
	return transport.RollupStats{
		TotalClients:     total,
		ClosedWonClients: closedWon,
		TotalCalls:       calls,
		ConversionRate:   conversionRate(closedWon, total),
		TotalRevenue:     revenue,
	}, nil
}

// AgentStats returns one agent's detail page.
func (s *Service) AgentStats(ctx context.Context, agentID uuid.UUID) (transport.AgentDetail, error) {
	agent, err := s.repo.GetAgent(ctx, agentID)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}

	counts, err := s.repo.CountClientsByStage(ctx, agentID)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}
	calls, err := s.repo.CountCalls(ctx, agentID, nil)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}
	revenue, err := s.repo.SumDealValue(ctx, agentID, closedWonOnly)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}
	pipelineValue, err := s.repo.SumDealValue(ctx, agentID, pipeline.OpenStages)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}
	clients, err := s.repo.ListClients(ctx, agentID, 0)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}
	recent, err := s.repo.RecentCalls(ctx, agentID, agentRecentLimit)
	if err != nil {
		return transport.AgentDetail{}, storeError(err)
	}

	total := sumCounts(counts)
	return transport.AgentDetail{
		Agent: toProfile(agent),
		Stats: transport.AgentDetailStats{
			TotalClients: total,
			TotalCalls:   calls,
			ClientsByStage: transport.StageCounts{
				Lead:        counts[pipeline.StageLead],
				Qualified:   counts[pipeline.StageQualified],
				Proposal:    counts[pipeline.StageProposal],
				Negotiation: counts[pipeline.StageNegotiation],
				ClosedWon:   counts[pipeline.StageClosedWon],
				ClosedLost:  counts[pipeline.StageClosedLost],
			},
			ConversionRate: conversionRate(counts[pipeline.StageClosedWon], total),
			TotalRevenue:   revenue,
			PipelineValue:  pipelineValue,
		},
		Clients:     toClientSummaries(clients, false),
		RecentCalls: withoutPhone(toRecentCalls(recent)),
	}, nil
}

// ExportAgentsStats renders the team rollup as an XLSX workbook.
func (s *Service) ExportAgentsStats(ctx context.Context) ([]byte, error) {
	rollups, err := s.AllAgentsStats(ctx)
	if err != nil {
		return nil, err
	}

	sheet := exports.Sheet{
		Name: "Agents",
		Headers: []string{
			"Name", "Email", "Department", "Total Clients", "Closed Won",
			"Total Calls", "Conversion Rate (%)", "Total Revenue",
		},
	}
	for _, r := range rollups {
		sheet.Rows = append(sheet.Rows, []any{
			r.Name, r.Email, r.Department, r.Stats.TotalClients, r.Stats.ClosedWonClients,
			r.Stats.TotalCalls, r.Stats.ConversionRate, r.Stats.TotalRevenue,
		})
	}

	data, err := exports.Workbook(sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render export", err)
	}
	return data, nil
}

// conversionRate is closedWon as a percentage of total, rounded to one
// decimal. Zero clients yields zero.
func conversionRate(closedWon, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(closedWon)/float64(total)*1000) / 10
}

func startOfMonth(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

func sumCounts(counts map[pipeline.Stage]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func storeError(err error) error {
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Dependency(msgStatsFailed, err)
}
