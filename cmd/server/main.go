package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dotscent_back_end/internal/cache"
	"dotscent_back_end/internal/cart"
	"dotscent_back_end/internal/catalog"
	"dotscent_back_end/internal/chat"
	"dotscent_back_end/internal/checkout"
	"dotscent_back_end/internal/config"
	"dotscent_back_end/internal/handlers"
	"dotscent_back_end/internal/logger"
	"dotscent_back_end/internal/middleware"
	"dotscent_back_end/internal/promo"
	"dotscent_back_end/internal/routes"
	"dotscent_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	conversationIdle = 2 * time.Hour
	janitorInterval  = 10 * time.Minute
	shutdownTimeout  = 10 * time.Second
)

func main() {
	cfg, envLoaded := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Impossible d'initialiser le logger : %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if envLoaded {
		zl.Info("✅ Fichier .env chargé avec succès")
	} else {
		zl.Warn("⚠️ Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.SessionSecret == config.DefaultDevSessionSecret {
		zl.Warn("⚠️ SESSION_SECRET non défini, secret de développement utilisé")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Default()
	if err != nil {
		zl.Fatal("❌ Catalogue invalide", zap.Error(err))
	}
	zl.Info("✅ Catalogue chargé", zap.Int("products", cat.Len()))

	// Redis est optionnel : sans lui, panier et rate limit restent en mémoire
	var (
		repo    cart.Repository
		counter cache.Counter
		memRepo *cart.MemoryRepository
		rdb     *redis.Client
	)
	if cfg.RedisEnabled() {
		rdb, err = cache.NewRedisClient(ctx, cfg, zl)
		if err != nil {
			zl.Fatal("❌ Redis", zap.Error(err))
		}
		defer rdb.Close()
		repo = cart.NewRedisRepository(rdb, cfg.CartTTL)
		counter = cache.NewRedisCounter(rdb)
	} else {
		zl.Warn("⚠️ REDIS_HOST non défini, panier et rate limit en mémoire")
		memRepo = cart.NewMemoryRepository(cfg.CartTTL)
		repo = memRepo
		counter = cache.NewMemoryCounter()
	}

	carts := cart.NewService(repo, cat, zl)
	chats := chat.NewConversations(chat.NewResponder(cat, chat.DefaultBusinessInfo()), conversationIdle)

	var notifier checkout.ContactNotifier
	if mailer := utils.NewMailer(cfg, zl); mailer != nil {
		notifier = mailer
		zl.Info("✅ Copie e-mail des contacts activée", zap.String("to", cfg.ContactEmail))
	}
	co := checkout.NewService(carts, cfg.WhatsAppNumber, notifier, zl)

	slider, err := promo.NewSlider(cat.Slides(), cfg.SlideInterval, zl)
	if err != nil {
		zl.Fatal("❌ Bannières", zap.Error(err))
	}
	go slider.Run(ctx)

	go janitor(ctx, chats, memRepo, zl)

	limiter := middleware.NewLimiter(counter, cfg.RateLimitPerMinute, middleware.RateLimitWindow, zl)
	if limiter == nil {
		zl.Warn("⚠️ Rate limit désactivé")
	}

	h := handlers.New(cat, carts, chats, co, slider, handlers.Options{
		TypingDelay:    cfg.TypingDelay,
		AllowedOrigins: cfg.CORSOrigins,
		Limiter:        limiter,
	}, zl)

	r := routes.NewRouter(h, routes.Options{
		Sessions:    middleware.NewCookieStore(cfg.SessionSecret, cfg.SessionMaxAge, cfg.SecureCookies),
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("🚀 Serveur DotScent lancé", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("❌ Serveur HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("🛑 Arrêt du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("❌ Arrêt forcé", zap.Error(err))
	}
}

// janitor oublie les conversations inactives et purge les paniers mémoire expirés.
func janitor(ctx context.Context, chats *chat.Conversations, carts *cart.MemoryRepository, zl *zap.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := chats.Sweep()
			purged := 0
			if carts != nil {
				purged = carts.Purge()
			}
			if n > 0 || purged > 0 {
				zl.Debug("🧹 Nettoyage", zap.Int("conversations", n), zap.Int("carts", purged), zap.Int("active", chats.Len()))
			}
		}
	}
}
