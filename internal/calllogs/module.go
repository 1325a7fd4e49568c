// Package calllogs provides the call log bounded context module.
// Logging a call can move the client along the sales pipeline.
package calllogs

import (
	"context"

	"sales_crm_backend/internal/calllogs/handler"
	"sales_crm_backend/internal/calllogs/repository"
	"sales_crm_backend/internal/calllogs/service"
	"sales_crm_backend/internal/events"
	apphttp "sales_crm_backend/internal/http"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the call logs bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	service   *service.Service
	repo      repository.Repository
	log       *logger.Logger
	reminders service.FollowUpScheduler
}

// NewModule creates and initializes the call logs module with all its dependencies.
func NewModule(pool *pgxpool.Pool, clients service.ClientStageStore, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, clients, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calllogs"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the client cascade.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// SetScheduler wires background jobs: reconciling failed client patches and
// follow-up reminders.
func (m *Module) SetScheduler(reconciler service.StageReconcileScheduler, reminders service.FollowUpScheduler) {
	m.service.SetReconcileScheduler(reconciler)
	m.reminders = reminders
}

// RegisterRoutes mounts call log routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/calllogs")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/client/:clientId", m.handler.ListByClient)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to call log domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CallLogged{}.EventName(), m)
	bus.Subscribe(events.ClientStageChanged{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CallLogged:
		return m.scheduleFollowUp(ctx, e)
	case events.ClientStageChanged:
		m.log.WithContext(ctx).StageTransition(e.ClientID.String(), e.CallLogID.String(), e.From, e.To, e.Outcome)
		return nil
	default:
		return nil
	}
}

func (m *Module) scheduleFollowUp(ctx context.Context, e events.CallLogged) error {
	if m.reminders == nil || !e.FollowUpRequired || e.FollowUpDate == nil {
		return nil
	}
	return m.reminders.ScheduleFollowUpReminder(ctx, e.CallLogID, e.AgentID, *e.FollowUpDate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
