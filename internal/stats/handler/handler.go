package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sales_crm_backend/internal/exports"
	"sales_crm_backend/internal/stats/service"
	"sales_crm_backend/platform/httpkit"
)

const (
	msgInvalidAgentID = "invalid agent id"
	exportFilename    = "agents-stats.xlsx"
)

// Handler handles HTTP requests for statistics.
type Handler struct {
	svc *service.Service
}

// New creates a new stats handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Dashboard returns the caller's own numbers.
// GET /api/v1/stats/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.DashboardStats(c.Request.Context(), identity.AgentID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AllAgents returns the team rollup.
// GET /api/v1/admin/stats/agents
func (h *Handler) AllAgents(c *gin.Context) {
	result, err := h.svc.AllAgentsStats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OKList(c, result, len(result))
}

// Agent returns one agent's detail page.
// GET /api/v1/admin/stats/agents/:id
func (h *Handler) Agent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidAgentID, nil)
		return
	}

	result, err := h.svc.AgentStats(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ExportAgents downloads the team rollup as a spreadsheet.
// GET /api/v1/admin/stats/agents/export
func (h *Handler) ExportAgents(c *gin.Context) {
	data, err := h.svc.ExportAgentsStats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, exports.ContentTypeXLSX, data)
}
