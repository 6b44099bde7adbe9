package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankHandler handles HTTP requests related to bank accounts.
type bankHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func registerBankRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &bankHandler{ledgerService: ledgerService}

	bank := rg.Group("/bank")
	{
		bank.GET("/users", h.listUsers)
		bank.GET("/my-account", h.myAccount)
		bank.POST("/transfer", h.transfer)
		bank.GET("/history", h.history)
	}
}

// listUsers godoc
// @Summary List bank users
// @Description Lists every account that is not deleted.
// @Tags bank
// @Produce json
// @Success 200 {array} domain.Account
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /bank/users [get]
func (h *bankHandler) listUsers(c *gin.Context) {
	accounts, err := h.ledgerService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// myAccount godoc
// @Summary Get my account
// @Description Returns the caller's account, opening it with the starting balance on first use.
// @Tags bank
// @Produce json
// @Success 200 {object} domain.Account
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /bank/my-account [get]
func (h *bankHandler) myAccount(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// transfer godoc
// @Summary Transfer money
// @Tags bank
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Recipient username and amount"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or insufficient funds"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Too many concurrent updates"
// @Security BearerAuth
// @Router /bank/transfer [post]
func (h *bankHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	balance, err := h.ledgerService.Transfer(c.Request.Context(), identity, req.To, req.Amount, req.Comment)
	if err != nil {
		respondError(c, err, "Transfer failed")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Success: true, Balance: balance})
}

// history godoc
// @Summary Transaction history
// @Description Most recent transactions sent or received by the caller.
// @Tags bank
// @Produce json
// @Param limit query int false "Maximum number of entries (1-100)"
// @Success 200 {array} domain.Transaction
// @Security BearerAuth
// @Router /bank/history [get]
func (h *bankHandler) history(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var params dto.ListHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	history, err := h.ledgerService.GetHistory(c.Request.Context(), identity, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to get history")
		return
	}
	c.JSON(http.StatusOK, history)
}
