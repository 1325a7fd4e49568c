package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales_crm_backend/internal/pipeline"
	"sales_crm_backend/platform/apperr"
)

const clientNotFoundMessage = "Client not found"

const clientColumns = `
	id, agent_id, first_name, last_name, email, phone, phone_normalized, job_title,
	company, industry, company_size, website, street, city, state, zip_code, country,
	reference_number, opportunity_stage, deal_value, probability,
	expected_close_date, closed_date, last_contact_date, next_follow_up_date,
	lead_source, preferred_contact_method, notes, created_at, updated_at`

const listQuery = `SELECT` + clientColumns + `
	FROM clients
	WHERE agent_id = $1
	ORDER BY created_at DESC`

const getByIDQuery = `SELECT` + clientColumns + `
	FROM clients
	WHERE id = $1 AND agent_id = $2`

const searchQuery = `SELECT` + clientColumns + `
	FROM clients
	WHERE agent_id = $1
	  AND (first_name ILIKE $2
	    OR last_name ILIKE $2
	    OR phone ILIKE $2
	    OR reference_number ILIKE $2
	    OR ($3 <> '' AND phone_normalized = $3))
	ORDER BY created_at DESC`

const insertQuery = `
	INSERT INTO clients (
		id, agent_id, first_name, last_name, email, phone, phone_normalized, job_title,
		company, industry, company_size, website, street, city, state, zip_code, country,
		reference_number, opportunity_stage, deal_value, probability,
		expected_close_date, next_follow_up_date, lead_source, preferred_contact_method, notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		$18, $19, $20, $21, $22, $23, $24, $25, $26)
	RETURNING` + clientColumns

const updateQuery = `
	UPDATE clients SET
		first_name = COALESCE($3, first_name),
		last_name = COALESCE($4, last_name),
		email = COALESCE($5, email),
		phone = COALESCE($6, phone),
		phone_normalized = COALESCE($7, phone_normalized),
		job_title = COALESCE($8, job_title),
		company = COALESCE($9, company),
		industry = COALESCE($10, industry),
		company_size = COALESCE($11, company_size),
		website = COALESCE($12, website),
		street = COALESCE($13, street),
		city = COALESCE($14, city),
		state = COALESCE($15, state),
		zip_code = COALESCE($16, zip_code),
		country = COALESCE($17, country),
		reference_number = COALESCE($18, reference_number),
		opportunity_stage = COALESCE($19, opportunity_stage),
		deal_value = COALESCE($20, deal_value),
		probability = COALESCE($21, probability),
		expected_close_date = COALESCE($22, expected_close_date),
		closed_date = COALESCE($23, closed_date),
		next_follow_up_date = COALESCE($24, next_follow_up_date),
		lead_source = COALESCE($25, lead_source),
		preferred_contact_method = COALESCE($26, preferred_contact_method),
		notes = COALESCE($27, notes),
		updated_at = now()
	WHERE id = $1 AND agent_id = $2
	RETURNING` + clientColumns

const deleteQuery = `DELETE FROM clients WHERE id = $1 AND agent_id = $2`

const getStageQuery = `SELECT opportunity_stage FROM clients WHERE id = $1 AND agent_id = $2`

const applyStagePatchQuery = `
	UPDATE clients SET
		last_contact_date = $3,
		opportunity_stage = COALESCE($4, opportunity_stage),
		closed_date = COALESCE($5, closed_date),
		deal_value = COALESCE($6, deal_value),
		updated_at = now()
	WHERE id = $1 AND agent_id = $2`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new clients repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List retrieves the agent's clients, newest first.
func (r *Repo) List(ctx context.Context, agentID uuid.UUID) ([]Client, error) {
	rows, err := r.pool.Query(ctx, listQuery, agentID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// GetByID retrieves a client owned by agentID.
func (r *Repo) GetByID(ctx context.Context, id, agentID uuid.UUID) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, getByIDQuery, id, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Search matches query as a literal, case-insensitive substring of the
// name, phone and reference number fields. A non-empty normalizedPhone also
// matches clients whose normalized phone equals it exactly.
func (r *Repo) Search(ctx context.Context, agentID uuid.UUID, query, normalizedPhone string) ([]Client, error) {
	rows, err := r.pool.Query(ctx, searchQuery, agentID, containsPattern(query), normalizedPhone)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// Create inserts a client.
func (r *Repo) Create(ctx context.Context, p CreateParams) (Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx, insertQuery,
		uuid.New(), p.AgentID, p.FirstName, p.LastName, p.Email, p.Phone, p.PhoneNormalized, p.JobTitle,
		p.Company, p.Industry, p.CompanySize, p.Website, p.Street, p.City, p.State, p.ZipCode, p.Country,
		p.ReferenceNumber, string(p.OpportunityStage), p.DealValue, p.Probability,
		p.ExpectedCloseDate, p.NextFollowUpDate, p.LeadSource, p.PreferredContactMethod, p.Notes,
	))
	if err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// Update applies a partial update to a client owned by p.AgentID.
func (r *Repo) Update(ctx context.Context, p UpdateParams) (Client, error) {
	var stage *string
	if p.OpportunityStage != nil {
		s := string(*p.OpportunityStage)
		stage = &s
	}

	c, err := scanClient(r.pool.QueryRow(ctx, updateQuery,
		p.ID, p.AgentID, p.FirstName, p.LastName, p.Email, p.Phone, p.PhoneNormalized, p.JobTitle,
		p.Company, p.Industry, p.CompanySize, p.Website, p.Street, p.City, p.State, p.ZipCode, p.Country,
		p.ReferenceNumber, stage, p.DealValue, p.Probability,
		p.ExpectedCloseDate, p.ClosedDate, p.NextFollowUpDate, p.LeadSource, p.PreferredContactMethod, p.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

// Delete removes a client owned by agentID. Call logs are not touched here.
func (r *Repo) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, deleteQuery, id, agentID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

// GetStage reads the client's current pipeline stage.
func (r *Repo) GetStage(ctx context.Context, id, agentID uuid.UUID) (pipeline.Stage, error) {
	var stage string
	if err := r.pool.QueryRow(ctx, getStageQuery, id, agentID).Scan(&stage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(clientNotFoundMessage)
		}
		return "", fmt.Errorf("get client stage: %w", err)
	}
	return pipeline.Stage(stage), nil
}

// ApplyStagePatch writes the fields a call outcome changes.
func (r *Repo) ApplyStagePatch(ctx context.Context, id, agentID uuid.UUID, patch pipeline.ClientPatch) error {
	var stage *string
	if patch.Stage != nil {
		s := string(*patch.Stage)
		stage = &s
	}

	result, err := r.pool.Exec(ctx, applyStagePatchQuery,
		id, agentID, patch.LastContactDate, stage, patch.ClosedDate, patch.DealValue,
	)
	if err != nil {
		return fmt.Errorf("apply client stage patch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that treats the input literally.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	var stage string
	err := row.Scan(
		&c.ID, &c.AgentID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.PhoneNormalized, &c.JobTitle,
		&c.Company, &c.Industry, &c.CompanySize, &c.Website, &c.Street, &c.City, &c.State, &c.ZipCode, &c.Country,
		&c.ReferenceNumber, &stage, &c.DealValue, &c.Probability,
		&c.ExpectedCloseDate, &c.ClosedDate, &c.LastContactDate, &c.NextFollowUpDate,
		&c.LeadSource, &c.PreferredContactMethod, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Client{}, err
	}
	c.OpportunityStage = pipeline.Stage(stage)
	return c, nil
}

func scanClients(rows pgx.Rows) ([]Client, error) {
	results := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return results, nil
}
