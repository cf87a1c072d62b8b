package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// ledgerHandler serves read-only views over posted general ledger rows.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// getAccountLedger godoc
// @Summary Get the ledger of one account
// @Description Returns GL rows in commit order with running balances
// @Tags ledger
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Keyset pagination token"
// @Success 200 {object} dto.ListLedgerResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /workplaces/{workplaceID}/accounts/{accountID}/ledger [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	params := dto.ListLedgerParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetAccountLedger(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), params, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account ledger")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getAccountPeriodTotals godoc
// @Summary Get an account's activity totals for a period
// @Description Opening balance, period debit/credit totals, and closing balance
// @Tags ledger
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Param accountID path string true "Account ID"
// @Param periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodTotalsResponse
// @Router /workplaces/{workplaceID}/accounts/{accountID}/periods/{periodID}/totals [get]
func (h *ledgerHandler) getAccountPeriodTotals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	totals, err := h.ledgerService.GetAccountPeriodTotals(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), c.Param("periodID"), userID)
	if err != nil {
		respondError(c, err, "Failed to compute period totals")
		return
	}
	c.JSON(http.StatusOK, dto.PeriodTotalsResponse{
		AccountID:      totals.AccountID,
		PeriodID:       totals.PeriodID,
		OpeningBalance: totals.OpeningBalance,
		TotalDebit:     totals.TotalDebit,
		TotalCredit:    totals.TotalCredit,
		ClosingBalance: totals.ClosingBalance,
	})
}

// getTrialBalance godoc
// @Summary Get the trial balance of a workplace
// @Description Aggregates posted activity per postable account, ordered by code
// @Tags ledger
// @Produce json
// @Param workplaceID path string true "Workplace ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Router /workplaces/{workplaceID}/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.ledgerService.GetTrialBalance(c.Request.Context(), c.Param("workplaceID"), userID)
	if err != nil {
		respondError(c, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(rows))
}

// registerLedgerRoutes registers general ledger read routes
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	group.GET("/accounts/:accountID/ledger", h.getAccountLedger)
	group.GET("/accounts/:accountID/periods/:periodID/totals", h.getAccountPeriodTotals)
	group.GET("/trial-balance", h.getTrialBalance)
}
