package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales_crm_backend/platform/apperr"
)

const (
	agentNotFoundMessage = "Agent not found"
	emailTakenMessage    = "an agent with this email already exists"
	uniqueViolation      = "23505"
)

const agentColumns = `id, name, email, password_hash, phone, department, hire_date, role, is_active, created_at, updated_at`

const getByEmailQuery = `
	SELECT ` + agentColumns + `
	FROM agents
	WHERE lower(email) = lower($1)`

const getByIDQuery = `
	SELECT ` + agentColumns + `
	FROM agents
	WHERE id = $1`

const insertQuery = `
	INSERT INTO agents (id, name, email, password_hash, phone, department, hire_date, role)
	VALUES ($1, $2, lower($3), $4, $5, $6, COALESCE($7, now()), $8)
	RETURNING ` + agentColumns

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agents repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) GetByEmail(ctx context.Context, email string) (Agent, error) {
	a, err := scanAgent(r.pool.QueryRow(ctx, getByEmailQuery, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, apperr.NotFound(agentNotFoundMessage)
	}
	if err != nil {
		return Agent{}, fmt.Errorf("get agent by email: %w", err)
	}
	return a, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	a, err := scanAgent(r.pool.QueryRow(ctx, getByIDQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, apperr.NotFound(agentNotFoundMessage)
	}
	if err != nil {
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

func (r *Repo) Create(ctx context.Context, p CreateParams) (Agent, error) {
	a, err := scanAgent(r.pool.QueryRow(ctx, insertQuery,
		uuid.New(), p.Name, p.Email, p.PasswordHash, p.Phone, p.Department, p.HireDate, p.Role,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Agent{}, apperr.Conflict(emailTakenMessage)
		}
		return Agent{}, fmt.Errorf("insert agent: %w", err)
	}
	return a, nil
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Phone, &a.Department,
		&a.HireDate, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
