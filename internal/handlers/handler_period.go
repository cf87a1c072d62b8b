package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

// periodHandler handles HTTP requests related to financial periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

// createPeriod godoc
// @Summary Create a financial period
// @Description Opens a new non-overlapping period window
// @Tags periods
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Period overlaps an existing one"
// @Router /workplaces/{workplaceID}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplaceID")

	req := dto.CreatePeriodRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), workplaceID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create period")
		return
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a period by id
// @Tags periods
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Router /workplaces/{workplaceID}/periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), c.Param("workplaceID"), c.Param("periodID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List periods of a workplace
// @Tags periods
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Success 200 {object} dto.ListPeriodsResponse
// @Router /workplaces/{workplaceID}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("workplaceID"), userID)
	if err != nil {
		respondError(c, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ListPeriodsResponse{Periods: dto.ToPeriodResponses(periods)})
}

// closePeriod godoc
// @Summary Close an open period
// @Description Fails while the period still contains unposted journals
// @Tags periods
// @Param workplaceID path string true "Workplace ID"
// @Param periodID path string true "Period ID"
// @Success 204 "Period closed"
// @Failure 409 {object} map[string]string "Unposted journals remain or period is not open"
// @Router /workplaces/{workplaceID}/periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	h.transition(c, h.periodService.ClosePeriod, "Failed to close period")
}

// reopenPeriod godoc
// @Summary Reopen a closed period
// @Description LOCKED periods can never be reopened
// @Tags periods
// @Param workplaceID path string true "Workplace ID"
// @Param periodID path string true "Period ID"
// @Success 204 "Period reopened"
// @Router /workplaces/{workplaceID}/periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	h.transition(c, h.periodService.ReopenPeriod, "Failed to reopen period")
}

// lockPeriod godoc
// @Summary Permanently lock a closed period
// @Tags periods
// @Param workplaceID path string true "Workplace ID"
// @Param periodID path string true "Period ID"
// @Success 204 "Period locked"
// @Router /workplaces/{workplaceID}/periods/{periodID}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.transition(c, h.periodService.LockPeriod, "Failed to lock period")
}

type periodTransition func(ctx context.Context, workplaceID, periodID, requestingUserID string) error

func (h *periodHandler) transition(c *gin.Context, fn periodTransition, fallbackMsg string) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), c.Param("workplaceID"), c.Param("periodID"), userID); err != nil {
		respondError(c, err, fallbackMsg)
		return
	}
	c.Status(http.StatusNoContent)
}

// registerPeriodRoutes registers period specific routes
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)
	periods := group.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
	}
}
