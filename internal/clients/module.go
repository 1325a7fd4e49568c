// Package clients provides the client (lead/contact) bounded context module.
package clients

import (
	"sales_crm_backend/internal/clients/handler"
	"sales_crm_backend/internal/clients/repository"
	"sales_crm_backend/internal/clients/service"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the clients bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates the clients module. The call log store is supplied
// after the call logs module exists, see SetCallLogStore.
func NewModule(pool *pgxpool.Pool, phoneRegion string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, nil, phoneRegion, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// StageStore returns the narrow store used by the call logs module.
func (m *Module) StageStore() repository.StageStore {
	return m.repo
}

// SetCallLogStore wires the call log view used for the detail page and the
// delete cascade.
func (m *Module) SetCallLogStore(store service.CallLogStore) {
	m.service.SetCallLogStore(store)
}

// RegisterRoutes mounts client routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/clients")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/search/:query", m.handler.Search)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
