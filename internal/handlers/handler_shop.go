package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type shopHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func registerShopPublicRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &shopHandler{inventoryService: inventoryService}
	rg.GET("/shop/products", h.listProducts)
}

func registerShopRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &shopHandler{inventoryService: inventoryService}

	shop := rg.Group("/shop")
	{
		shop.GET("/my-store", h.myStore)
		shop.POST("/purchase", h.purchase)
	}
}

// listProducts godoc
// @Summary List products
// @Tags shop
// @Produce json
// @Success 200 {array} domain.Product
// @Router /shop/products [get]
func (h *shopHandler) listProducts(c *gin.Context) {
	products, err := h.inventoryService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// myStore godoc
// @Summary Get my store
// @Description Returns null when the caller owns no store.
// @Tags shop
// @Produce json
// @Success 200 {object} domain.Store
// @Security BearerAuth
// @Router /shop/my-store [get]
func (h *shopHandler) myStore(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	store, err := h.inventoryService.GetMyStore(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to get store")
		return
	}
	c.JSON(http.StatusOK, store)
}

// purchase godoc
// @Summary Purchase cart
// @Tags shop
// @Accept json
// @Produce json
// @Param purchase body dto.PurchaseRequest true "Cart lines"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Empty cart, product unavailable or insufficient funds"
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /shop/purchase [post]
func (h *shopHandler) purchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for purchase", slog.String("error", err.Error()))
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	balance, err := h.inventoryService.Purchase(c.Request.Context(), identity, req.Cart)
	if err != nil {
		respondError(c, err, "Purchase failed")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Success: true, Balance: balance})
}
