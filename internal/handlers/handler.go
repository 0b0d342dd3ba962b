package handlers

import (
	"errors"
	"net/http"
	"time"

	"dotscent_back_end/internal/cart"
	"dotscent_back_end/internal/catalog"
	"dotscent_back_end/internal/chat"
	"dotscent_back_end/internal/checkout"
	"dotscent_back_end/internal/middleware"
	"dotscent_back_end/internal/promo"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler regroupe les dépendances des routes HTTP de la boutique.
type Handler struct {
	catalog     *catalog.Catalog
	carts       *cart.Service
	chats       *chat.Conversations
	checkout    *checkout.Service
	slider      *promo.Slider
	typingDelay time.Duration
	limiter     *middleware.Limiter
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Options complète New. AllowedOrigins vide ou "*" accepte toutes les origines WebSocket.
// Limiter est partagé avec les routes : le chat WebSocket compte dans le même quota que POST /api/chat/messages.
type Options struct {
	TypingDelay    time.Duration
	AllowedOrigins []string
	Limiter        *middleware.Limiter
}

func New(cat *catalog.Catalog, carts *cart.Service, chats *chat.Conversations, co *checkout.Service, slider *promo.Slider, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:     cat,
		carts:       carts,
		chats:       chats,
		checkout:    co,
		slider:      slider,
		typingDelay: opts.TypingDelay,
		limiter:     opts.Limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "products": h.catalog.Len()})
}

// respondError traduit les erreurs métier en statut HTTP.
func (h *Handler) respondError(c *gin.Context, err error) {
	var fields checkout.ValidationErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid form", "fields": fields})
	case errors.Is(err, cart.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "your cart is empty"})
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
	case errors.Is(err, catalog.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
	default:
		h.logger.Error("❌ Erreur interne", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
