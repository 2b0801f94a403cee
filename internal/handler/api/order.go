package api

import (
	"net/http"
	"strconv"

	reqdto "fio-market/internal/handler/dto/request"
	resdto "fio-market/internal/handler/dto/response"
	"fio-market/internal/handler/middleware"
	"fio-market/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
}

func NewOrderHandler(orderCommands commands.OrderCommands) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
	}
}

// @Summary Upsert sell order
// @Description Create or replace the caller's sell order for the same commodity, location, visibility and currency
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpsertSellOrderRequest true "Sell order"
// @Success 200 {object} resdto.SellOrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /orders/sell [put]
func (h *OrderHandler) UpsertSellOrder(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	var req reqdto.UpsertSellOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	order, err := h.orderCommands.UpsertSellOrder(c.Request.Context(), identity, req.ToParams())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSellOrder(order))
}

// @Summary Upsert buy order
// @Description Create or replace the caller's buy order for the same commodity, location, visibility and currency
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpsertBuyOrderRequest true "Buy order"
// @Success 200 {object} resdto.BuyOrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /orders/buy [put]
func (h *OrderHandler) UpsertBuyOrder(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	var req reqdto.UpsertBuyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	order, err := h.orderCommands.UpsertBuyOrder(c.Request.Context(), identity, req.ToParams())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBuyOrder(order))
}

// @Summary Delete sell order
// @Description Delete the caller's own sell order
// @Tags orders
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/sell/{id} [delete]
func (h *OrderHandler) DeleteSellOrder(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	if err := h.orderCommands.DeleteSellOrder(c.Request.Context(), identity, id); err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete buy order
// @Description Delete the caller's own buy order
// @Tags orders
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/buy/{id} [delete]
func (h *OrderHandler) DeleteBuyOrder(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	if err := h.orderCommands.DeleteBuyOrder(c.Request.Context(), identity, id); err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
