package http

import (
	"net/http"
	"strconv"

	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	catalog *services.CatalogService
	carts   *services.CartService
	orders  *services.OrderService
	stats   *services.StatsService
	log     *zap.Logger
}

func NewHandler(catalog *services.CatalogService, carts *services.CartService, orders *services.OrderService,
	stats *services.StatsService, log *zap.Logger) *Handler {
	return &Handler{catalog: catalog, carts: carts, orders: orders, stats: stats, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	v1.GET("/products", h.ListProducts)
	v1.GET("/products/:id", h.GetProduct)
	v1.GET("/categories", h.ListCategories)

	authed := v1.Group("", Identify())

	cart := authed.Group("/cart")
	cart.GET("", h.GetCart)
	cart.POST("", h.AddToCart)
	cart.DELETE("", h.ClearCart)
	cart.POST("/coupon", h.ApplyCoupon)
	cart.DELETE("/coupon", h.RemoveCoupon)
	cart.POST("/merge", h.MergeCart)
	cart.PUT("/:itemId", h.UpdateCartItem)
	cart.DELETE("/:itemId", h.RemoveCartItem)

	orders := authed.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("/myorders", h.MyOrders)
	orders.POST("/payment-intent", h.CreatePaymentIntent)
	orders.GET("/:id", h.GetOrder)
	orders.PUT("/:id/pay", h.PayOrder)
	orders.PUT("/:id/cancel", h.CancelOrder)

	admin := orders.Group("", RequireAdmin())
	admin.GET("", h.AllOrders)
	admin.GET("/stats", h.OrderStats)
	admin.PUT("/:id/status", h.UpdateOrderStatus)
	admin.PUT("/:id/deliver", h.DeliverOrder)
}

// fail logs infrastructure failures before rendering; domain errors are
// expected outcomes and are not logged here.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	if !isDomainError(err) {
		h.log.Error(op+" failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	writeError(c, err)
}

func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) ListProducts(c *gin.Context) {
	var q ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), q.toFilter())
	if err != nil {
		h.fail(c, "list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
