package handlers

import (
	"net/http"
	"strconv"

	"dotscent_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/products?category=men|women|unisex|all
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ByCategory(models.Category(c.Query("category")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// 🟢 GET /api/products/featured
func (h *Handler) FeaturedProducts(c *gin.Context) {
	products := h.catalog.Featured()
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// 🟢 GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, ok := h.catalog.ByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
