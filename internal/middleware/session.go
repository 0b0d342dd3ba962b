package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	SessionCookieName = "dotscent_session"
	sessionIDKey      = "sid"
	// ContextSessionID est la clé gin du session id.
	ContextSessionID = "session_id"
)

// NewCookieStore configure le store de cookies signés des sessions visiteurs.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(maxAge)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session attribue à chaque visiteur un identifiant stable, porté par un cookie signé.
// Le panier et la conversation du chatbot sont rattachés à cet identifiant.
func Session(store sessions.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, SessionCookieName)
		if err != nil {
			// cookie illisible (secret changé...) : on repart sur une session neuve
			logger.Debug("cookie de session invalide", zap.Error(err))
		}

		sid, _ := session.Values[sessionIDKey].(string)
		if _, perr := uuid.Parse(sid); perr != nil {
			sid = uuid.NewString()
			session.Values[sessionIDKey] = sid
			if err := session.Save(c.Request, c.Writer); err != nil {
				logger.Error("❌ Erreur sauvegarde session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
		}

		c.Set(ContextSessionID, sid)
		c.Next()
	}
}

// SessionID renvoie l'identifiant posé par Session.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
