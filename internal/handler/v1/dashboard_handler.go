package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/service"
)

type DashboardHandler struct {
	dashSvc *service.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(dashSvc *service.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashSvc: dashSvc, log: log}
}

func (h *DashboardHandler) View(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	view, err := h.dashSvc.View(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, view)
}
