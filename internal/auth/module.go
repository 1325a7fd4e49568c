// Package auth provides the authentication bounded context module.
package auth

import (
	"sales_crm_backend/internal/auth/adapter"
	"sales_crm_backend/internal/auth/handler"
	"sales_crm_backend/internal/auth/repository"
	"sales_crm_backend/internal/auth/service"
	authvalidator "sales_crm_backend/internal/auth/validator"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates the auth module and registers its validation rules on val.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, cfg, val, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for provisioning.
func (m *Module) Service() *service.Service {
	return m.service
}

// AgentDirectory returns the agent lookup used by reminder jobs.
func (m *Module) AgentDirectory() *adapter.AgentDirectory {
	return adapter.NewAgentDirectory(m.repo)
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.POST("/login", ctx.LoginRateLimit, m.handler.Login)

	ctx.Protected.GET("/auth/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
