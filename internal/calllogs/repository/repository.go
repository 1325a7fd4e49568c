package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales_crm_backend/platform/apperr"
)

const callLogNotFoundMessage = "Call log not found"

const callLogColumns = `
	cl.id, cl.agent_id, cl.client_id, cl.call_type, cl.subject, cl.outcome, cl.duration, cl.status, cl.notes,
	cl.deal_value, cl.contract_term, cl.deal_start_date, cl.deal_renewal_date,
	cl.follow_up_required, cl.follow_up_date, cl.follow_up_notes, cl.call_date, cl.closed_date,
	cl.created_at, cl.updated_at`

const detailColumns = callLogColumns + `,
	c.id, c.first_name, c.last_name, c.company, c.phone, c.reference_number,
	a.id, a.name, a.email`

const detailJoins = `
	FROM call_logs cl
	LEFT JOIN clients c ON c.id = cl.client_id
	LEFT JOIN agents a ON a.id = cl.agent_id`

const listForAgentQuery = `SELECT` + detailColumns + detailJoins + `
	WHERE cl.agent_id = $1
	ORDER BY cl.call_date DESC, cl.created_at DESC
	LIMIT $2`

const listForClientQuery = `SELECT` + detailColumns + detailJoins + `
	WHERE cl.client_id = $1 AND cl.agent_id = $2
	ORDER BY cl.call_date DESC, cl.created_at DESC
	LIMIT $3`

const getByIDQuery = `SELECT` + detailColumns + detailJoins + `
	WHERE cl.id = $1 AND cl.agent_id = $2`

const getByIDUnscopedQuery = `SELECT` + detailColumns + detailJoins + `
	WHERE cl.id = $1`

const insertQuery = `
	WITH cl AS (
		INSERT INTO call_logs (
			id, agent_id, client_id, call_type, subject, outcome, duration, status, notes,
			deal_value, contract_term, deal_start_date, deal_renewal_date,
			follow_up_required, follow_up_date, follow_up_notes, call_date, closed_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING *
	)
	SELECT` + callLogColumns + ` FROM cl`

const updateQuery = `
	WITH cl AS (
		UPDATE call_logs SET
			call_type = COALESCE($3, call_type),
			subject = COALESCE($4, subject),
			outcome = COALESCE($5, outcome),
			duration = COALESCE($6, duration),
			status = COALESCE($7, status),
			notes = COALESCE($8, notes),
			deal_value = COALESCE($9, deal_value),
			contract_term = COALESCE($10, contract_term),
			deal_start_date = COALESCE($11, deal_start_date),
			deal_renewal_date = COALESCE($12, deal_renewal_date),
			follow_up_required = COALESCE($13, follow_up_required),
			follow_up_date = COALESCE($14, follow_up_date),
			follow_up_notes = COALESCE($15, follow_up_notes),
			call_date = COALESCE($16, call_date),
			closed_date = COALESCE($17, closed_date),
			updated_at = now()
		WHERE id = $1 AND agent_id = $2
		RETURNING *
	)
	SELECT` + callLogColumns + ` FROM cl`

const deleteQuery = `DELETE FROM call_logs WHERE id = $1 AND agent_id = $2`

const deleteByClientQuery = `DELETE FROM call_logs WHERE client_id = $1 AND agent_id = $2`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new call logs repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListForAgent returns the agent's calls, newest first.
func (r *Repo) ListForAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]CallLogDetail, error) {
	rows, err := r.pool.Query(ctx, listForAgentQuery, agentID, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("list call logs for agent: %w", err)
	}
	defer rows.Close()

	return scanDetails(rows)
}

// ListForClient returns the agent's calls against one client, newest first.
func (r *Repo) ListForClient(ctx context.Context, clientID, agentID uuid.UUID, limit int) ([]CallLogDetail, error) {
	rows, err := r.pool.Query(ctx, listForClientQuery, clientID, agentID, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("list call logs for client: %w", err)
	}
	defer rows.Close()

	return scanDetails(rows)
}

// GetByID retrieves a call log owned by agentID.
func (r *Repo) GetByID(ctx context.Context, id, agentID uuid.UUID) (CallLogDetail, error) {
	detail, err := scanDetail(r.pool.QueryRow(ctx, getByIDQuery, id, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CallLogDetail{}, apperr.NotFound(callLogNotFoundMessage)
		}
		return CallLogDetail{}, fmt.Errorf("get call log: %w", err)
	}
	return detail, nil
}

// GetByIDUnscoped retrieves a call log regardless of owner.
func (r *Repo) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (CallLogDetail, error) {
	detail, err := scanDetail(r.pool.QueryRow(ctx, getByIDUnscopedQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CallLogDetail{}, apperr.NotFound(callLogNotFoundMessage)
		}
		return CallLogDetail{}, fmt.Errorf("get call log: %w", err)
	}
	return detail, nil
}

// Create inserts a call log.
func (r *Repo) Create(ctx context.Context, params CreateParams) (CallLog, error) {
	cl, err := scanCallLog(r.pool.QueryRow(ctx, insertQuery,
		uuid.New(), params.AgentID, params.ClientID, params.CallType, params.Subject, params.Outcome,
		params.Duration, params.Status, params.Notes,
		params.DealValue, params.ContractTerm, params.DealStartDate, params.DealRenewalDate,
		params.FollowUpRequired, params.FollowUpDate, params.FollowUpNotes, params.CallDate, params.ClosedDate,
	))
	if err != nil {
		return CallLog{}, fmt.Errorf("create call log: %w", err)
	}
	return cl, nil
}

// Update applies a partial update to a call log owned by params.AgentID.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (CallLog, error) {
	cl, err := scanCallLog(r.pool.QueryRow(ctx, updateQuery,
		params.ID, params.AgentID, params.CallType, params.Subject, params.Outcome,
		params.Duration, params.Status, params.Notes,
		params.DealValue, params.ContractTerm, params.DealStartDate, params.DealRenewalDate,
		params.FollowUpRequired, params.FollowUpDate, params.FollowUpNotes, params.CallDate, params.ClosedDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CallLog{}, apperr.NotFound(callLogNotFoundMessage)
		}
		return CallLog{}, fmt.Errorf("update call log: %w", err)
	}
	return cl, nil
}

// Delete removes a call log owned by agentID.
func (r *Repo) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, deleteQuery, id, agentID)
	if err != nil {
		return fmt.Errorf("delete call log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(callLogNotFoundMessage)
	}
	return nil
}

// DeleteByClient removes every call the agent logged against clientID.
func (r *Repo) DeleteByClient(ctx context.Context, clientID, agentID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, deleteByClientQuery, clientID, agentID)
	if err != nil {
		return 0, fmt.Errorf("delete call logs for client: %w", err)
	}
	return result.RowsAffected(), nil
}

// limitArg maps a non-positive limit to NULL, which LIMIT treats as no limit.
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

func callLogDest(cl *CallLog) []any {
	return []any{
		&cl.ID, &cl.AgentID, &cl.ClientID, &cl.CallType, &cl.Subject, &cl.Outcome, &cl.Duration, &cl.Status, &cl.Notes,
		&cl.DealValue, &cl.ContractTerm, &cl.DealStartDate, &cl.DealRenewalDate,
		&cl.FollowUpRequired, &cl.FollowUpDate, &cl.FollowUpNotes, &cl.CallDate, &cl.ClosedDate,
		&cl.CreatedAt, &cl.UpdatedAt,
	}
}

func scanCallLog(row pgx.Row) (CallLog, error) {
	var cl CallLog
	if err := row.Scan(callLogDest(&cl)...); err != nil {
		return CallLog{}, err
	}
	return cl, nil
}

func scanDetail(row pgx.Row) (CallLogDetail, error) {
	var d CallLogDetail
	var clientID, agentID *uuid.UUID
	var firstName, lastName, company, phone, reference *string
	var agentName, agentEmail *string

	dest := append(callLogDest(&d.CallLog),
		&clientID, &firstName, &lastName, &company, &phone, &reference,
		&agentID, &agentName, &agentEmail,
	)
	if err := row.Scan(dest...); err != nil {
		return CallLogDetail{}, err
	}

	if clientID != nil {
		d.Client = &ClientSummary{
			ID:              *clientID,
			FirstName:       deref(firstName),
			LastName:        deref(lastName),
			Company:         deref(company),
			Phone:           deref(phone),
			ReferenceNumber: deref(reference),
		}
	}
	if agentID != nil {
		d.Agent = &AgentSummary{ID: *agentID, Name: deref(agentName), Email: deref(agentEmail)}
	}
	return d, nil
}

func scanDetails(rows pgx.Rows) ([]CallLogDetail, error) {
	results := make([]CallLogDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan call log: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call logs: %w", err)
	}
	return results, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
