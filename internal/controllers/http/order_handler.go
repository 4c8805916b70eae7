package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), identityFrom(c).UserID, req.toDomain())
	if err != nil {
		h.fail(c, "create order", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.orders.MyOrders(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, "list my orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AllOrders(c *gin.Context) {
	orders, err := h.orders.AllOrders(c.Request.Context())
	if err != nil {
		h.fail(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id, identityFrom(c))
	if err != nil {
		h.fail(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) PayOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.Pay(c.Request.Context(), id, identityFrom(c), req.toDomain())
	if err != nil {
		h.fail(c, "pay order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	// The body is optional.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	order, err := h.orders.Cancel(c.Request.Context(), id, identityFrom(c), req.Reason)
	if err != nil {
		h.fail(c, "cancel order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, identityFrom(c), req.toDomain())
	if err != nil {
		h.fail(c, "update order status", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeliverOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Deliver(c.Request.Context(), id, identityFrom(c))
	if err != nil {
		h.fail(c, "deliver order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.stats.GetOrderStats(c.Request.Context())
	if err != nil {
		h.fail(c, "order stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pi, err := h.orders.CreatePaymentIntent(c.Request.Context(), identityFrom(c).UserID, req.Amount, req.Currency)
	if err != nil {
		h.fail(c, "create payment intent", err)
		return
	}
	c.JSON(http.StatusOK, PaymentIntentResponse{ClientSecret: pi.ClientSecret, PaymentIntentID: pi.ID})
}
