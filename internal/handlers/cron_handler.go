package handlers

import (
	"net/http"

	"fashun-backend/internal/dto"
	"fashun-backend/internal/recovery"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CronHandler struct {
	svc *recovery.Service
	log *zap.Logger
}

func NewCronHandler(svc *recovery.Service, log *zap.Logger) *CronHandler {
	return &CronHandler{svc: svc, log: log}
}

// AbandonedCartRecovery godoc
// @Summary Trigger an abandoned-cart recovery sweep
// @Description Intended for external cron platforms; protected by CRON_SECRET bearer token
// @Tags cron
// @Produce json
// @Security CronSecret
// @Success 200 {object} dto.SweepResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /cron/abandoned-cart-recovery [get]
func (h *CronHandler) AbandonedCartRecovery(c *gin.Context) {
	res, err := h.svc.Sweep(c.Request.Context())
	if err != nil {
		h.log.Error("recovery sweep failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.SweepResponse{
		Success:    true,
		TotalCarts: res.Total,
		Results: dto.SweepReport{
			Triggered: res.Triggered,
			Failed:    res.Failed,
			Errors:    res.Errors,
		},
	})
}
