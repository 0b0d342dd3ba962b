package handlers

import (
	"encoding/base64"
	"net/http"

	"dotscent_back_end/internal/checkout"
	"dotscent_back_end/internal/middleware"
	"dotscent_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// handoffResponse est renvoyé au client qui ouvre whatsapp_url dans un nouvel onglet.
type handoffResponse struct {
	URL     string `json:"whatsapp_url"`
	Message string `json:"message"`
	Total   int    `json:"total,omitempty"`
	Count   int    `json:"count,omitempty"`
	QRCode  string `json:"qr_code,omitempty"`
}

func newHandoffResponse(res checkout.Result) handoffResponse {
	out := handoffResponse{
		URL:     res.URL,
		Message: res.Message,
		Total:   res.Total,
		Count:   res.Count,
	}
	if len(res.QRCode) > 0 {
		out.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(res.QRCode)
	}
	return out
}

// 🛒 POST /api/checkout
// Le panier est vidé dès que le lien est construit, sans attendre la confirmation WhatsApp.
func (h *Handler) Checkout(c *gin.Context) {
	var form models.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.checkout.PlaceOrder(c.Request.Context(), middleware.SessionID(c), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newHandoffResponse(res))
}

// ✉️ POST /api/contact
func (h *Handler) Contact(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.checkout.Contact(c.Request.Context(), form)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newHandoffResponse(res))
}
