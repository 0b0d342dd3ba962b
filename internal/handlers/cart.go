package handlers

import (
	"net/http"
	"strconv"

	"dotscent_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	summary, err := h.carts.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// 🟢 POST /api/cart/add
func (h *Handler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID int `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	summary, err := h.carts.Add(c.Request.Context(), middleware.SessionID(c), input.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// 🟡 PUT /api/cart/:productId
// Une quantité <= 0 retire la ligne.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	summary, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.SessionID(c), id, *input.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// 🔴 DELETE /api/cart/:productId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	summary, err := h.carts.Remove(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// 🔴 DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
