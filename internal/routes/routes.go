package routes

import (
	"time"

	"dotscent_back_end/internal/handlers"
	"dotscent_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Options regroupe ce dont le routeur a besoin en plus des handlers.
type Options struct {
	Sessions    sessions.Store
	Limiter     *middleware.Limiter // nil : pas de limite
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter construit le moteur gin avec les middlewares et toutes les routes.
func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	RegisterRoutes(r, h, opts)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	// le cookie de session doit suivre les requêtes du front
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.GET("/health", h.Health)

	api := r.Group("/api")

	// Catalogue et bannières : pas de session nécessaire
	api.GET("/products", h.ListProducts)
	api.GET("/products/featured", h.FeaturedProducts)
	api.GET("/products/:id", h.GetProduct)

	api.GET("/slides", h.GetSlides)
	api.POST("/slides/next", h.NextSlide)
	api.POST("/slides/prev", h.PrevSlide)
	api.POST("/slides/pause", h.PauseSlides)
	api.POST("/slides/resume", h.ResumeSlides)

	visitor := api.Group("")
	visitor.Use(middleware.Session(opts.Sessions, opts.Logger))

	cart := visitor.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/add", h.AddToCart)
		cart.PUT("/:productId", h.UpdateCartItem)
		cart.DELETE("/:productId", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
	}

	chat := visitor.Group("/chat")
	{
		chat.GET("/messages", h.GetChatMessages)
		chat.POST("/messages", middleware.RateLimit(opts.Limiter, middleware.ScopeChat), h.PostChatMessage)
		// limité message par message dans la boucle de lecture
		chat.GET("/ws", h.ChatWebSocket)
	}

	visitor.POST("/checkout", middleware.RateLimit(opts.Limiter, middleware.ScopeCheckout), h.Checkout)
	visitor.POST("/contact", middleware.RateLimit(opts.Limiter, middleware.ScopeContact), h.Contact)
}

