package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.carts.Get(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, "get cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.carts.AddItem(c.Request.Context(), identityFrom(c).UserID, req.toInput())
	if err != nil {
		h.fail(c, "add to cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.carts.UpdateItem(c.Request.Context(), identityFrom(c).UserID, c.Param("itemId"), *req.Quantity)
	if err != nil {
		h.fail(c, "update cart item", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	view, err := h.carts.RemoveItem(c.Request.Context(), identityFrom(c).UserID, c.Param("itemId"))
	if err != nil {
		h.fail(c, "remove cart item", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ClearCart(c *gin.Context) {
	view, err := h.carts.Clear(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, "clear cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.carts.ApplyCoupon(c.Request.Context(), identityFrom(c).UserID, req.Code)
	if err != nil {
		h.fail(c, "apply coupon", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveCoupon(c *gin.Context) {
	view, err := h.carts.RemoveCoupon(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		h.fail(c, "remove coupon", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) MergeCart(c *gin.Context) {
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.carts.Merge(c.Request.Context(), identityFrom(c).UserID, req.toGuestItems())
	if err != nil {
		h.fail(c, "merge cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
