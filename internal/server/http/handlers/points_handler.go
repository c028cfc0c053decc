package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketo/points/internal/server/http/dto"
)

// PointsHandler manages balance, history, accrual and redemption endpoints.
type PointsHandler struct {
	facade AccountFacade
}

// NewPointsHandler constructs PointsHandler.
func NewPointsHandler(facade AccountFacade) *PointsHandler {
	return &PointsHandler{facade: facade}
}

// Balance handles GET /api/points/users/:userID/balance.
func (h *PointsHandler) Balance(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	systemID, ok := systemFilter(c)
	if !ok {
		return
	}

	balances, err := h.facade.Balances(c.Request.Context(), userID, systemID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.BalanceResponse, 0, len(balances))
	for i := range balances {
		resp = append(resp, dto.BalanceResponseFrom(&balances[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/points/users/:userID/history.
func (h *PointsHandler) History(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	systemID, ok := systemFilter(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := h.facade.History(c.Request.Context(), userID, systemID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(history))
	for i := range history {
		resp = append(resp, dto.TransactionResponseFrom(&history[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Earn handles POST /api/points/users/:userID/earn.
func (h *PointsHandler) Earn(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req dto.EarnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	systemID, err := uuid.Parse(req.SystemID)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.Earn(c.Request.Context(), CurrentTenant(c), userID, systemID, req.Amount, req.TicketID, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EarnResponse{
		Transaction: dto.TransactionResponseFrom(result.Transaction),
		Balance:     dto.BalanceResponseFrom(result.Balance),
	})
}

// Redeem handles POST /api/points/users/:userID/redeem.
func (h *PointsHandler) Redeem(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	systemID, err := uuid.Parse(req.SystemID)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.Redeem(c.Request.Context(), CurrentTenant(c), userID, systemID, req.Points, req.DiscountAmount, req.TicketID, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RedeemResponse{
		Transaction:    dto.TransactionResponseFrom(result.Transaction),
		Balance:        dto.BalanceResponseFrom(result.Balance),
		DiscountAmount: result.DiscountAmount,
	})
}
