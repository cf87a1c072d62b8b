package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService}
}

// createAccount godoc
// @Summary Create an account
// @Description Creates a chart-of-accounts node in the workplace
// @Tags accounts
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Account code already in use"
// @Router /workplaces/{workplaceID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplaceID")

	req := dto.CreateAccountRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), workplaceID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by id
// @Tags accounts
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /workplaces/{workplaceID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts of a workplace
// @Tags accounts
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListAccountsResponse
// @Router /workplaces/{workplaceID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	params := dto.ListAccountsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("workplaceID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts)})
}

// getAccountTree godoc
// @Summary Get the hierarchical chart of accounts
// @Tags accounts
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Success 200 {array} dto.AccountNodeResponse
// @Router /workplaces/{workplaceID}/accounts/tree [get]
func (h *accountHandler) getAccountTree(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tree, err := h.accountService.AccountTree(c.Request.Context(), c.Param("workplaceID"), userID)
	if err != nil {
		respondError(c, err, "Failed to build account tree")
		return
	}

	roots := []dto.AccountNodeResponse{}
	for node := range tree {
		// The traversal is depth-first over all nodes; only roots carry the
		// full subtree in the response.
		if node.ParentAccountID == "" {
			roots = append(roots, dto.ToAccountNodeResponse(node))
		}
	}
	c.JSON(http.StatusOK, roots)
}

// updateAccount godoc
// @Summary Update an account's mutable details
// @Tags accounts
// @Accept json
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param accountID path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Router /workplaces/{workplaceID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	req := dto.UpdateAccountRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Inactive accounts are kept for history but rejected on new journal lines
// @Tags accounts
// @Param workplaceID path string true "Workplace ID"
// @Param accountID path string true "Account ID"
// @Success 204 "Account deactivated"
// @Router /workplaces/{workplaceID}/accounts/{accountID}/deactivate [post]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), userID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account that has no balance, postings or children
// @Tags accounts
// @Param workplaceID path string true "Workplace ID"
// @Param accountID path string true "Account ID"
// @Success 204 "Account deleted"
// @Failure 409 {object} map[string]string "Account is still referenced"
// @Router /workplaces/{workplaceID}/accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), userID); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// registerAccountRoutes registers account specific routes
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)
	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/tree", h.getAccountTree)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.POST("/:accountID/deactivate", h.deactivateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}
