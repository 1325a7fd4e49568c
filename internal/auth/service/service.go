package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"sales_crm_backend/internal/auth/password"
	"sales_crm_backend/internal/auth/repository"
	"sales_crm_backend/internal/auth/token"
	"sales_crm_backend/internal/auth/transport"
	"sales_crm_backend/platform/apperr"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"
)

const (
	defaultDepartment     = "Sales"
	msgInvalidCredentials = "invalid credentials"
	msgInactive           = "agent account is inactive"
	msgAgentStoreFailure  = "agent store unavailable"
)

// Service provides agent login and provisioning.
type Service struct {
	repo   repository.Repository
	issuer *token.Issuer
	val    *validator.Validator
	log    *logger.Logger
}

// New creates an auth service. val must have the auth rules registered.
func New(repo repository.Repository, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		issuer: token.NewIssuer(cfg.GetJWTAccessSecret(), cfg.GetAccessTokenTTL()),
		val:    val,
		log:    log,
	}
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	email := NormalizeEmail(req.Email)

	agent, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.LoginResponse{}, apperr.Dependency(msgAgentStoreFailure, err)
	}

	if err := password.Compare(agent.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !agent.IsActive {
		s.log.AuthEvent("login", email, false, "inactive")
		return transport.LoginResponse{}, apperr.Forbidden(msgInactive)
	}

	signed, expiresAt, err := s.issuer.Issue(agent.ID, []string{agent.Role})
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "failed to issue token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return transport.LoginResponse{Token: signed, ExpiresAt: expiresAt, Agent: toResponse(agent)}, nil
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, agentID uuid.UUID) (transport.AgentResponse, error) {
	agent, err := s.repo.GetByID(ctx, agentID)
	if err != nil {
		return transport.AgentResponse{}, storeError(err)
	}
	return toResponse(agent), nil
}

// GetAgent returns an agent profile for other modules.
func (s *Service) GetAgent(ctx context.Context, agentID uuid.UUID) (transport.AgentResponse, error) {
	return s.Me(ctx, agentID)
}

// CreateAgent validates and stores a new agent.
func (s *Service) CreateAgent(ctx context.Context, req transport.CreateAgentRequest) (transport.AgentResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = NormalizeEmail(req.Email)
	if err := s.val.Struct(req); err != nil {
		return transport.AgentResponse{}, apperr.Validation(validator.Message(err))
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.AgentResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	params := repository.CreateParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Department:   strings.TrimSpace(req.Department),
		HireDate:     req.HireDate,
		Role:         req.Role,
	}
	if params.Department == "" {
		params.Department = defaultDepartment
	}
	if params.Role == "" {
		params.Role = repository.RoleAgent
	}

	agent, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.AgentResponse{}, storeError(err)
	}

	s.log.WithContext(ctx).Info("agent created", "id", agent.ID, "role", agent.Role)
	return toResponse(agent), nil
}

// ImportAgents creates each agent in order. Agents whose email already
// exists are skipped; any other failure stops the import and returns what
// was done so far.
func (s *Service) ImportAgents(ctx context.Context, reqs []transport.CreateAgentRequest) (transport.ImportResult, error) {
	result := transport.ImportResult{Created: []string{}, Skipped: []string{}}
	for _, req := range reqs {
		agent, err := s.CreateAgent(ctx, req)
		switch {
		case err == nil:
			result.Created = append(result.Created, agent.Email)
		case apperr.Is(err, apperr.KindConflict):
			result.Skipped = append(result.Skipped, NormalizeEmail(req.Email))
		default:
			return result, err
		}
	}
	return result, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toResponse(a repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		Department: a.Department,
		HireDate:   a.HireDate,
		Role:       a.Role,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
	}
}

func storeError(err error) error {
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Dependency(msgAgentStoreFailure, err)
}
