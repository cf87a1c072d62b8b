package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

// approvalHandler exposes the approval work queue and its actions.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(approvalService portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: approvalService}
}

// listApprovals godoc
// @Summary List approval requests of a workplace
// @Description Pending requests ordered by priority then due date; overdue=true narrows to requests past their due date
// @Tags approvals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param level query string false "Filter by approval level (L1, L2, L3)"
// @Param overdue query bool false "Only requests past their due date"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListApprovalsResponse
// @Router /workplaces/{workplaceID}/approvals [get]
func (h *approvalHandler) listApprovals(c *gin.Context) {
	params := dto.ListApprovalsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	requests, err := h.approvalService.ListApprovals(c.Request.Context(), c.Param("workplaceID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ListApprovalsResponse{Approvals: dto.ToApprovalResponses(requests)})
}

// getApproval godoc
// @Summary Get one approval request
// @Tags approvals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Router /workplaces/{workplaceID}/approvals/{requestID} [get]
func (h *approvalHandler) getApproval(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	request, err := h.approvalService.GetRequestByID(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve approval request")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(request))
}

// getApprovalHistory godoc
// @Summary Get the audit trail of an approval request
// @Tags approvals
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Success 200 {array} dto.ApprovalHistoryResponse
// @Router /workplaces/{workplaceID}/approvals/{requestID}/history [get]
func (h *approvalHandler) getApprovalHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	history, err := h.approvalService.GetHistory(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve approval history")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalHistoryResponses(history))
}

// approveRequest godoc
// @Summary Approve a pending request
// @Description The actor must differ from the requester and hold the level's role
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Param action body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 403 {object} map[string]string "Maker-checker violation or insufficient role"
// @Router /workplaces/{workplaceID}/approvals/{requestID}/approve [post]
func (h *approvalHandler) approveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ApprovalActionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.Approve(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID, req.Comment)
	if err != nil {
		respondError(c, err, "Failed to approve request")
		return
	}

	logger.Info("Approval request approved", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusOK, dto.ToApprovalResponse(request))
}

// rejectRequest godoc
// @Summary Reject a pending request
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Param rejection body dto.RejectApprovalRequest true "Rejection reason"
// @Success 200 {object} dto.ApprovalResponse
// @Router /workplaces/{workplaceID}/approvals/{requestID}/reject [post]
func (h *approvalHandler) rejectRequest(c *gin.Context) {
	req := dto.RejectApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.Reject(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject request")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(request))
}

// escalateRequest godoc
// @Summary Escalate a pending request to a specific approver
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Param escalation body dto.EscalateApprovalRequest true "Target approver and reason"
// @Success 200 {object} dto.ApprovalResponse
// @Router /workplaces/{workplaceID}/approvals/{requestID}/escalate [post]
func (h *approvalHandler) escalateRequest(c *gin.Context) {
	req := dto.EscalateApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.Escalate(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID, req.TargetUserID, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to escalate request")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(request))
}

// reassignRequest godoc
// @Summary Return an escalated request to the pending queue
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Param action body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ApprovalResponse
// @Router /workplaces/{workplaceID}/approvals/{requestID}/reassign [post]
func (h *approvalHandler) reassignRequest(c *gin.Context) {
	req := dto.ApprovalActionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.Reassign(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID, req.Comment)
	if err != nil {
		respondError(c, err, "Failed to reassign request")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(request))
}

// cancelRequest godoc
// @Summary Cancel a pending request
// @Description Only the requester or a workplace admin may cancel
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param requestID path string true "Approval request ID"
// @Param action body dto.ApprovalActionRequest false "Optional comment"
// @Success 200 {object} dto.ApprovalResponse
// @Router /workplaces/{workplaceID}/approvals/{requestID}/cancel [post]
func (h *approvalHandler) cancelRequest(c *gin.Context) {
	req := dto.ApprovalActionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	request, err := h.approvalService.Cancel(c.Request.Context(), c.Param("workplaceID"), c.Param("requestID"), userID, req.Comment)
	if err != nil {
		respondError(c, err, "Failed to cancel request")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(request))
}

// bulkApprove godoc
// @Summary Approve many requests in one call
// @Description Each request is processed independently; partial failure is reported per item
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param bulk body dto.BulkApprovalRequest true "Request IDs and optional comment"
// @Success 200 {object} dto.BulkActionResponse
// @Router /workplaces/{workplaceID}/approvals/bulk-approve [post]
func (h *approvalHandler) bulkApprove(c *gin.Context) {
	req := dto.BulkApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	results := h.approvalService.BulkApprove(c.Request.Context(), c.Param("workplaceID"), req.RequestIDs, userID, req.Comment)
	c.JSON(http.StatusOK, dto.BulkActionResponse{Results: results})
}

// bulkReject godoc
// @Summary Reject many requests in one call
// @Tags approvals
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param bulk body dto.BulkApprovalRequest true "Request IDs and rejection reason"
// @Success 200 {object} dto.BulkActionResponse
// @Router /workplaces/{workplaceID}/approvals/bulk-reject [post]
func (h *approvalHandler) bulkReject(c *gin.Context) {
	req := dto.BulkApprovalRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	results := h.approvalService.BulkReject(c.Request.Context(), c.Param("workplaceID"), req.RequestIDs, userID, req.Comment)
	c.JSON(http.StatusOK, dto.BulkActionResponse{Results: results})
}

// registerApprovalRoutes registers approval workflow routes
func registerApprovalRoutes(group *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)
	approvals := group.Group("/approvals")
	{
		approvals.GET("", h.listApprovals)
		approvals.GET("/:requestID", h.getApproval)
		approvals.GET("/:requestID/history", h.getApprovalHistory)
		approvals.POST("/:requestID/approve", h.approveRequest)
		approvals.POST("/:requestID/reject", h.rejectRequest)
		approvals.POST("/:requestID/escalate", h.escalateRequest)
		approvals.POST("/:requestID/reassign", h.reassignRequest)
		approvals.POST("/:requestID/cancel", h.cancelRequest)
		approvals.POST("/bulk-approve", h.bulkApprove)
		approvals.POST("/bulk-reject", h.bulkReject)
	}
}
