package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

// journalHandler handles HTTP requests driving the journal entry lifecycle.
type journalHandler struct {
	journalService  portssvc.JournalSvcFacade
	postingService  portssvc.PostingSvcFacade
	reversalService portssvc.ReversalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvcFacade, reversalService portssvc.ReversalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService:  journalService,
		postingService:  postingService,
		reversalService: reversalService,
	}
}

// createJournal godoc
// @Summary Create a draft journal entry
// @Description Validates the double-entry invariant and persists the journal as DRAFT
// @Tags journals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journal body dto.CreateJournalRequest true "Journal with lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Unbalanced or malformed journal"
// @Router /workplaces/{workplaceID}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplaceID")

	req := dto.CreateJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), workplaceID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal entry with its lines
// @Tags journals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Router /workplaces/{workplaceID}/journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journal, err := h.journalService.GetJournalByID(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals of a workplace
// @Tags journals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Keyset pagination token"
// @Success 200 {object} dto.ListJournalsResponse
// @Router /workplaces/{workplaceID}/journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	params := dto.ListJournalsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), c.Param("workplaceID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateJournal godoc
// @Summary Update a draft journal
// @Description Replaces content of a DRAFT (or REJECTED) journal, re-validating balance
// @Tags journals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Param journal body dto.UpdateJournalRequest true "Fields to update"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not editable"
// @Router /workplaces/{workplaceID}/journals/{journalID} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	req := dto.UpdateJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// deleteJournal godoc
// @Summary Delete a draft journal
// @Tags journals
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Success 204 "Journal deleted"
// @Failure 409 {object} map[string]string "Only DRAFT journals can be deleted"
// @Router /workplaces/{workplaceID}/journals/{journalID} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.journalService.DeleteJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), userID); err != nil {
		respondError(c, err, "Failed to delete journal")
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelJournal godoc
// @Summary Cancel a journal before posting
// @Tags journals
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Success 204 "Journal cancelled"
// @Router /workplaces/{workplaceID}/journals/{journalID}/cancel [post]
func (h *journalHandler) cancelJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.journalService.CancelJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), userID); err != nil {
		respondError(c, err, "Failed to cancel journal")
		return
	}
	c.Status(http.StatusNoContent)
}

// submitJournal godoc
// @Summary Submit a draft journal for approval
// @Description Opens an approval request sized by the journal total and moves the journal to PENDING_APPROVAL
// @Tags journals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Param submission body dto.SubmitJournalRequest false "Submission options"
// @Success 200 {object} dto.JournalResponse
// @Router /workplaces/{workplaceID}/journals/{journalID}/submit [post]
func (h *journalHandler) submitJournal(c *gin.Context) {
	req := dto.SubmitJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.SubmitJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to submit journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// approveJournal godoc
// @Summary Approve a pending journal
// @Description The approver must differ from the submitter and hold the level's role
// @Tags journals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Param approval body dto.ApproveJournalRequest false "Approval options"
// @Success 200 {object} dto.JournalResponse
// @Failure 403 {object} map[string]string "Self-approval or insufficient role"
// @Router /workplaces/{workplaceID}/journals/{journalID}/approve [post]
func (h *journalHandler) approveJournal(c *gin.Context) {
	req := dto.ApproveJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.ApproveJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to approve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// rejectJournal godoc
// @Summary Reject a pending journal
// @Tags journals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Param rejection body dto.RejectJournalRequest true "Rejection reason"
// @Success 200 {object} dto.JournalResponse
// @Router /workplaces/{workplaceID}/journals/{journalID}/reject [post]
func (h *journalHandler) rejectJournal(c *gin.Context) {
	req := dto.RejectJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.RejectJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to reject journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// resubmitJournal godoc
// @Summary Resubmit a rejected journal
// @Tags journals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Router /workplaces/{workplaceID}/journals/{journalID}/resubmit [post]
func (h *journalHandler) resubmitJournal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	journal, err := h.journalService.ResubmitJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), userID)
	if err != nil {
		respondError(c, err, "Failed to resubmit journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postJournal godoc
// @Summary Post an approved journal to the general ledger
// @Description Appends immutable GL rows and updates account balances in one transaction
// @Tags journals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not APPROVED"
// @Router /workplaces/{workplaceID}/journals/{journalID}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.postingService.PostJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), userID)
	if err != nil {
		respondError(c, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates and immediately posts a debit/credit-swapped counter-entry
// @Tags journals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param journalID path string true "Journal ID"
// @Param reversal body dto.ReverseJournalRequest true "Reversal parameters"
// @Success 201 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal already reversed or not posted"
// @Router /workplaces/{workplaceID}/journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ReverseJournalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	reversal, err := h.reversalService.ReverseJournal(c.Request.Context(), c.Param("workplaceID"), c.Param("journalID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("reversal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// RegisterJournalRoutes registers journal specific routes
func RegisterJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvcFacade, reversalService portssvc.ReversalSvcFacade) {
	h := newJournalHandler(journalService, postingService, reversalService)
	journals := group.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.PUT("/:journalID", h.updateJournal)
		journals.DELETE("/:journalID", h.deleteJournal)
		journals.POST("/:journalID/cancel", h.cancelJournal)
		journals.POST("/:journalID/submit", h.submitJournal)
		journals.POST("/:journalID/approve", h.approveJournal)
		journals.POST("/:journalID/reject", h.rejectJournal)
		journals.POST("/:journalID/resubmit", h.resubmitJournal)
		journals.POST("/:journalID/post", h.postJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
	}
}
