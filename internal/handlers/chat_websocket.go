package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"dotscent_back_end/internal/chat"
	"dotscent_back_end/internal/middleware"
	"dotscent_back_end/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second

	// réponses en attente du délai de frappe au-delà desquelles un message est refusé
	maxPendingReplies = 5
)

// Types des événements envoyés au client.
const (
	EventHistory = "history"
	EventMessage = "message"
	EventTyping  = "typing"
	EventReply   = "reply"
	EventError   = "error"
)

// wsConn sérialise les écritures : la boucle de lecture, les réponses différées
// et le ping écrivent sur la même connexion.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// replyQueue garde les messages en attente de réponse dans leur ordre d'arrivée.
// Chaque déclenchement du délai de frappe répond au plus ancien, sous verrou :
// les réponses partent dans l'ordre des messages même si deux timers expirent ensemble.
type replyQueue struct {
	mu    sync.Mutex
	texts []string
}

func (q *replyQueue) push(text string) {
	q.mu.Lock()
	q.texts = append(q.texts, text)
	q.mu.Unlock()
}

func (q *replyQueue) next(reply func(text string)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.texts) == 0 {
		return
	}
	text := q.texts[0]
	q.texts = q.texts[1:]
	reply(text)
}

// ChatWebSocket GET /api/chat/ws
// Chaque message reçoit un événement "typing" puis la réponse du bot après le délai de frappe.
// Les réponses encore en attente sont annulées à la fermeture.
// Chaque message compte dans le quota chat de la session, comme POST /api/chat/messages.
func (h *Handler) ChatWebSocket(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	conv := h.chats.Get(sessionID)

	// le cookie d'une session neuve doit partir avec la réponse 101
	var header http.Header
	if cookies := c.Writer.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header = http.Header{"Set-Cookie": cookies}
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		h.logger.Warn("❌ Erreur upgrade WebSocket", zap.Error(err))
		return
	}
	defer raw.Close()

	ws := &wsConn{conn: raw}
	queue := &replyQueue{}
	pending := scheduler.NewGroup()
	defer func() {
		if n := pending.Close(); n > 0 {
			h.logger.Debug("réponses annulées", zap.String("session_id", sessionID), zap.Int("pending", n))
		}
	}()

	raw.SetReadLimit(4096)
	_ = raw.SetReadDeadline(time.Now().Add(wsPongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := ws.ping(); err != nil {
					return
				}
			}
		}
	}()

	if err := ws.send(gin.H{
		"type":         EventHistory,
		"messages":     conv.Messages(),
		"quickReplies": conv.QuickReplies(),
	}); err != nil {
		return
	}

	h.logger.Debug("🔌 Chat WebSocket connecté", zap.String("session_id", sessionID))

	for {
		var input chatInput
		if err := raw.ReadJSON(&input); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket fermé", zap.Error(err))
			}
			return
		}

		if allowed, _ := h.limiter.Allow(c.Request.Context(), middleware.ScopeChat, sessionID); !allowed {
			retry := int(h.limiter.RetryAfter().Seconds())
			if ws.send(gin.H{"type": EventError, "error": fmt.Sprintf("too many messages, retry in %d seconds", retry)}) != nil {
				return
			}
			continue
		}
		if pending.Pending() >= maxPendingReplies {
			if ws.send(gin.H{"type": EventError, "error": "please wait for a reply"}) != nil {
				return
			}
			continue
		}

		user, err := conv.AddUserMessage(input.Text)
		if errors.Is(err, chat.ErrEmptyMessage) {
			if ws.send(gin.H{"type": EventError, "error": "message is empty"}) != nil {
				return
			}
			continue
		}

		if ws.send(gin.H{"type": EventMessage, "message": user}) != nil {
			return
		}
		if ws.send(gin.H{"type": EventTyping}) != nil {
			return
		}

		queue.push(input.Text)
		pending.After(h.typingDelay, func() {
			queue.next(func(text string) {
				bot, reply := conv.Reply(text)
				if err := ws.send(gin.H{
					"type":    EventReply,
					"message": bot,
					"rule":    reply.Rule,
					"product": reply.Product,
				}); err != nil {
					h.logger.Debug("réponse non envoyée", zap.Error(err))
				}
			})
		})
	}
}
