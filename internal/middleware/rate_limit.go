package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dotscent_back_end/internal/cache"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Fenêtre par défaut des limites
	RateLimitWindow = 1 * time.Minute

	ScopeChat     = "chat"
	ScopeCheckout = "checkout"
	ScopeContact  = "contact"
)

// Limiter compte les actions d'un visiteur par scope sur une fenêtre fixe.
// Le chat HTTP et le chat WebSocket partagent ainsi le même compteur.
type Limiter struct {
	counter cache.Counter
	max     int
	window  time.Duration
	logger  *zap.Logger
}

// NewLimiter renvoie nil si counter est nil ou max <= 0 : une limite nil laisse tout passer.
func NewLimiter(counter cache.Counter, max int, window time.Duration, logger *zap.Logger) *Limiter {
	if counter == nil || max <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{counter: counter, max: max, window: window, logger: logger}
}

// Allow enregistre une action de who dans scope. remaining vaut -1 quand rien n'est compté.
func (l *Limiter) Allow(ctx context.Context, scope, who string) (allowed bool, remaining int64) {
	if l == nil {
		return true, -1
	}
	requests, err := l.counter.Increment(ctx, "rate:"+scope+":"+who, l.window)
	if err != nil {
		// compteur indisponible : la requête passe
		l.logger.Warn("⚠️ Rate limit indisponible", zap.String("scope", scope), zap.Error(err))
		return true, -1
	}

	remaining = int64(l.max) - requests
	if remaining < 0 {
		remaining = 0
	}
	if requests > int64(l.max) {
		l.logger.Info("🚫 Rate limit atteint", zap.String("scope", scope), zap.String("client", who))
		return false, 0
	}
	return true, remaining
}

func (l *Limiter) RetryAfter() time.Duration {
	if l == nil {
		return 0
	}
	return l.window
}

// RateLimit limite le nombre de requêtes par visiteur (session, sinon IP) sur une fenêtre fixe.
// scope isole les compteurs entre groupes de routes ("chat", "checkout"...).
func RateLimit(limiter *Limiter, scope string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		who := SessionID(c)
		if who == "" {
			who = c.ClientIP()
		}

		allowed, remaining := limiter.Allow(c.Request.Context(), scope, who)
		if remaining >= 0 || !allowed {
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.max))
			c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		}

		if !allowed {
			retry := int(limiter.window.Seconds())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("too many requests, retry in %d seconds", retry),
				"retry_after": retry,
			})
			return
		}

		c.Next()
	}
}
