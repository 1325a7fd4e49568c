// Package stats provides the dashboard and team statistics module.
package stats

import (
	"time"

	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/internal/stats/handler"
	"sales_crm_backend/internal/stats/repository"
	"sales_crm_backend/internal/stats/service"
	"sales_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the stats module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the stats module. loc is the time zone months are
// counted in.
func NewModule(pool *pgxpool.Pool, loc *time.Location, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), loc, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "stats"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts stats routes. Cross-agent views sit under the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/stats/dashboard", m.handler.Dashboard)

	admin := ctx.Admin.Group("/stats/agents")
	admin.GET("", m.handler.AllAgents)
	admin.GET("/export", m.handler.ExportAgents)
	admin.GET("/:id", m.handler.Agent)
}

var _ apphttp.Module = (*Module)(nil)
