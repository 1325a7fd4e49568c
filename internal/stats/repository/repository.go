package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/platform/apperr"
)

const agentNotFoundMessage = "Agent not found"

const countByStageQuery = `
	SELECT opportunity_stage, COUNT(*)
	FROM clients
	WHERE agent_id = $1
	GROUP BY opportunity_stage`

const sumDealValueQuery = `
	SELECT COALESCE(SUM(deal_value), 0)::float8
	FROM clients
	WHERE agent_id = $1 AND opportunity_stage = ANY($2)`

const countCallsQuery = `
	SELECT COUNT(*)
	FROM call_logs
	WHERE agent_id = $1 AND ($2::timestamptz IS NULL OR call_date >= $2)`

const recentCallsQuery = `
	SELECT cl.id, cl.call_type, cl.subject, cl.outcome, cl.status, cl.duration, cl.call_date,
		c.id, c.first_name, c.last_name, c.company, c.phone
	FROM call_logs cl
	LEFT JOIN clients c ON c.id = cl.client_id
	WHERE cl.agent_id = $1
	ORDER BY cl.call_date DESC
	LIMIT $2`

const listClientsQuery = `
	SELECT id, first_name, last_name, company, email, phone, opportunity_stage, deal_value::float8, created_at
	FROM clients
	WHERE agent_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

const agentColumns = `id, name, email, phone, department, hire_date, role, is_active`

const listActiveAgentsQuery = `
	SELECT ` + agentColumns + `
	FROM agents
	WHERE role = 'agent' AND is_active
	ORDER BY name`

const getAgentQuery = `
	SELECT ` + agentColumns + `
	FROM agents
	WHERE id = $1`

// Repo implements Reader with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Reader = (*Repo)(nil)

func (r *Repo) CountClientsByStage(ctx context.Context, agentID uuid.UUID) (map[pipeline.Stage]int, error) {
	rows, err := r.pool.Query(ctx, countByStageQuery, agentID)
	if err != nil {
		return nil, fmt.Errorf("count clients by stage: %w", err)
	}
	defer rows.Close()

	counts := make(map[pipeline.Stage]int, len(pipeline.AllStages))
	for rows.Next() {
		var (
			stage string
			n     int
		)
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		counts[pipeline.Stage(stage)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage counts: %w", err)
	}
	return counts, nil
}

func (r *Repo) SumDealValue(ctx context.Context, agentID uuid.UUID, stages []pipeline.Stage) (float64, error) {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}

	var total float64
	if err := r.pool.QueryRow(ctx, sumDealValueQuery, agentID, names).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum deal value: %w", err)
	}
	return total, nil
}

func (r *Repo) CountCalls(ctx context.Context, agentID uuid.UUID, since *time.Time) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, countCallsQuery, agentID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count calls: %w", err)
	}
	return n, nil
}

func (r *Repo) RecentCalls(ctx context.Context, agentID uuid.UUID, limit int) ([]RecentCall, error) {
	rows, err := r.pool.Query(ctx, recentCallsQuery, agentID, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent calls: %w", err)
	}
	defer rows.Close()

	items := make([]RecentCall, 0)
	for rows.Next() {
		var (
			call      RecentCall
			clientID  *uuid.UUID
			firstName *string
			lastName  *string
			company   *string
			phone     *string
		)
		if err := rows.Scan(
			&call.ID, &call.CallType, &call.Subject, &call.Outcome, &call.Status, &call.Duration, &call.CallDate,
			&clientID, &firstName, &lastName, &company, &phone,
		); err != nil {
			return nil, fmt.Errorf("scan recent call: %w", err)
		}
		if clientID != nil {
			call.Client = &CallClient{
				ID:        *clientID,
				FirstName: deref(firstName),
				LastName:  deref(lastName),
				Company:   deref(company),
				Phone:     deref(phone),
			}
		}
		items = append(items, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent calls: %w", err)
	}
	return items, nil
}

func (r *Repo) ListClients(ctx context.Context, agentID uuid.UUID, limit int) ([]ClientRow, error) {
	rows, err := r.pool.Query(ctx, listClientsQuery, agentID, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("list agent clients: %w", err)
	}
	defer rows.Close()

	items := make([]ClientRow, 0)
	for rows.Next() {
		var row ClientRow
		var stage string
		if err := rows.Scan(
			&row.ID, &row.FirstName, &row.LastName, &row.Company, &row.Email, &row.Phone,
			&stage, &row.DealValue, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan agent client: %w", err)
		}
		row.OpportunityStage = pipeline.Stage(stage)
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent clients: %w", err)
	}
	return items, nil
}

func (r *Repo) ListActiveAgents(ctx context.Context) ([]Agent, error) {
	rows, err := r.pool.Query(ctx, listActiveAgentsQuery)
	if err != nil {
		return nil, fmt.Errorf("list active agents: %w", err)
	}
	defer rows.Close()

	items := make([]Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return items, nil
}

func (r *Repo) GetAgent(ctx context.Context, id uuid.UUID) (Agent, error) {
	a, err := scanAgent(r.pool.QueryRow(ctx, getAgentQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, apperr.NotFound(agentNotFoundMessage)
	}
	return a, err
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Department, &a.HireDate, &a.Role, &a.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, err
		}
		return Agent{}, fmt.Errorf("scan agent: %w", err)
	}
	return a, nil
}

func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
