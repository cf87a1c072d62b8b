package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

// workplaceHandler handles HTTP requests related to workplaces.
type workplaceHandler struct {
	workplaceService portssvc.WorkplaceSvcFacade
}

func newWorkplaceHandler(workplaceService portssvc.WorkplaceSvcFacade) *workplaceHandler {
	return &workplaceHandler{workplaceService: workplaceService}
}

// createWorkplace godoc
// @Summary Create a workplace
// @Description Creates a tenant workplace; the creator becomes its ADMIN
// @Tags workplaces
// @Accept json
// @Produce json
// @Param workplace body dto.CreateWorkplaceRequest true "Workplace details"
// @Success 201 {object} dto.WorkplaceResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /workplaces [post]
func (h *workplaceHandler) createWorkplace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateWorkplaceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWorkplace", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	workplace, err := h.workplaceService.CreateWorkplace(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create workplace")
		return
	}

	logger.Info("Workplace created", slog.String("workplace_id", workplace.WorkplaceID))
	c.JSON(http.StatusCreated, dto.ToWorkplaceResponse(workplace))
}

// listWorkplaces godoc
// @Summary List workplaces of the authenticated user
// @Tags workplaces
// @Produce json
// @Success 200 {object} dto.ListWorkplacesResponse
// @Router /workplaces [get]
func (h *workplaceHandler) listWorkplaces(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workplaces, err := h.workplaceService.ListWorkplaces(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list workplaces")
		return
	}
	c.JSON(http.StatusOK, dto.ListWorkplacesResponse{Workplaces: dto.ToWorkplaceResponses(workplaces)})
}

// addUserToWorkplace godoc
// @Summary Add or update a user's membership in a workplace
// @Tags workplaces
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param membership body dto.AddUserToWorkplaceRequest true "Membership details"
// @Success 204 "Membership saved"
// @Failure 403 {object} map[string]string "Admin role required"
// @Router /workplaces/{workplaceID}/users [post]
func (h *workplaceHandler) addUserToWorkplace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplaceID")

	req := dto.AddUserToWorkplaceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.workplaceService.AddUserToWorkplace(c.Request.Context(), workplaceID, req, userID); err != nil {
		respondError(c, err, "Failed to add user to workplace")
		return
	}

	logger.Info("User added to workplace",
		slog.String("workplace_id", workplaceID),
		slog.String("target_user_id", req.UserID))
	c.Status(http.StatusNoContent)
}

// registerWorkplaceRoutes registers workplace routes and every
// workplace-scoped resource beneath them.
func registerWorkplaceRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newWorkplaceHandler(services.Workplace)

	workplaces := group.Group("/workplaces")
	{
		workplaces.POST("", h.createWorkplace)
		workplaces.GET("", h.listWorkplaces)
	}

	scoped := workplaces.Group("/:workplaceID")
	{
		scoped.POST("/users", h.addUserToWorkplace)

		registerAccountRoutes(scoped, services.Account)
		registerPeriodRoutes(scoped, services.Period)
		RegisterJournalRoutes(scoped, services.Journal, services.Posting, services.Reversal)
		registerLedgerRoutes(scoped, services.Ledger)
		registerApprovalRoutes(scoped, services.Approval)
	}
}
