package handler

import (
	"net/http"

	"leadhub/internal/apierror"
	"leadhub/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ svc service.StatsService }

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

// Summary godoc
// @Summary  Lead funnel summary
// @Tags     stats
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} dto.StatsResponse
// @Router   /v1/stats/summary [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not compute stats"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
