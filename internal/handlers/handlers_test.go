package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dotscent_back_end/internal/cache"
	"dotscent_back_end/internal/cart"
	"dotscent_back_end/internal/catalog"
	"dotscent_back_end/internal/chat"
	"dotscent_back_end/internal/checkout"
	"dotscent_back_end/internal/handlers"
	"dotscent_back_end/internal/middleware"
	"dotscent_back_end/internal/promo"
	"dotscent_back_end/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type storeOptions struct {
	rateLimit   int
	typingDelay time.Duration
}

func newStore(t *testing.T, o storeOptions) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()
	cat := catalog.MustDefault()

	carts := cart.NewService(cart.NewMemoryRepository(time.Hour), cat, logger)
	chats := chat.NewConversations(chat.NewResponder(cat, chat.DefaultBusinessInfo()), time.Hour)
	slider, err := promo.NewSlider(cat.Slides(), time.Hour, logger)
	require.NoError(t, err)
	co := checkout.NewService(carts, "+92 319 4635913", nil, logger)

	limiter := middleware.NewLimiter(cache.NewMemoryCounter(), o.rateLimit, time.Minute, logger)
	h := handlers.New(cat, carts, chats, co, slider, handlers.Options{
		TypingDelay: o.typingDelay,
		Limiter:     limiter,
	}, logger)
	return routes.NewRouter(h, routes.Options{
		Sessions: middleware.NewCookieStore("test-secret-0123456789abcdef", 3600, false),
		Limiter:  limiter,
		Logger:   logger,
	})
}

// visitor rejoue le cookie de session comme le ferait un navigateur.
type visitor struct {
	t       *testing.T
	engine  http.Handler
	cookies []*http.Cookie
}

func newVisitor(t *testing.T, engine http.Handler) *visitor {
	return &visitor{t: t, engine: engine}
}

func (v *visitor) do(method, path string, body any) *httptest.ResponseRecorder {
	v.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(v.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range v.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	v.engine.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		v.cookies = cs
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type productList struct {
	Products []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"products"`
	Count int `json:"count"`
}

type cartBody struct {
	Items []struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	Count    int    `json:"count"`
	Total    int    `json:"total"`
	Shipping string `json:"shipping"`
}

func TestHealth(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))
	w := v.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","products":11}`, w.Body.String())
}

func TestProducts(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))

	tests := []struct {
		path  string
		code  int
		count int
	}{
		{"/api/products", http.StatusOK, 11},
		{"/api/products?category=all", http.StatusOK, 11},
		{"/api/products?category=men", http.StatusOK, 4},
		{"/api/products?category=women", http.StatusOK, 2},
		{"/api/products?category=unisex", http.StatusOK, 5},
		{"/api/products/featured", http.StatusOK, 3},
		{"/api/products?category=kids", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := v.do(http.MethodGet, tt.path, nil)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, tt.count, decode[productList](t, w).Count)
			}
		})
	}

	w := v.do(http.MethodGet, "/api/products/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Jamaal"`)

	assert.Equal(t, http.StatusNotFound, v.do(http.MethodGet, "/api/products/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, v.do(http.MethodGet, "/api/products/abc", nil).Code)
}

func TestCartFlow(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))

	w := v.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[cartBody](t, w)
	assert.Empty(t, empty.Items)
	assert.Equal(t, "free", empty.Shipping)

	v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 2})
	v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 2})
	w = v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 6})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[cartBody](t, w)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "Jamaal", body.Items[0].Name)
	assert.Equal(t, 2, body.Items[0].Quantity)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, 2*1600+1400, body.Total)

	w = v.do(http.MethodPut, "/api/cart/2", map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[cartBody](t, w)
	assert.Equal(t, 6, body.Count)
	assert.Equal(t, 5*1600+1400, body.Total)

	w = v.do(http.MethodPut, "/api/cart/6", map[string]int{"quantity": 0})
	body = decode[cartBody](t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Items[0].ID)

	w = v.do(http.MethodDelete, "/api/cart/2", nil)
	assert.Empty(t, decode[cartBody](t, w).Items)

	v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 1})
	assert.Equal(t, http.StatusNoContent, v.do(http.MethodDelete, "/api/cart", nil).Code)
	assert.Equal(t, 0, decode[cartBody](t, v.do(http.MethodGet, "/api/cart", nil)).Count)
}

func TestCartErrors(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))

	assert.Equal(t, http.StatusNotFound, v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 99}).Code)
	assert.Equal(t, http.StatusBadRequest, v.do(http.MethodPost, "/api/cart/add", "{").Code)
	assert.Equal(t, http.StatusBadRequest, v.do(http.MethodPut, "/api/cart/x", map[string]int{"quantity": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, v.do(http.MethodPut, "/api/cart/2", map[string]any{}).Code)
	// ligne absente : sans effet
	assert.Equal(t, http.StatusOK, v.do(http.MethodPut, "/api/cart/3", map[string]int{"quantity": 4}).Code)
	assert.Equal(t, http.StatusOK, v.do(http.MethodDelete, "/api/cart/3", nil).Code)
}

func TestCartIsPerSession(t *testing.T) {
	engine := newStore(t, storeOptions{})
	alice := newVisitor(t, engine)
	bob := newVisitor(t, engine)

	alice.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 4})
	bob.do(http.MethodGet, "/api/cart", nil)

	assert.Equal(t, 1, decode[cartBody](t, alice.do(http.MethodGet, "/api/cart", nil)).Count)
	assert.Equal(t, 0, decode[cartBody](t, bob.do(http.MethodGet, "/api/cart", nil)).Count)
}

func TestChatMessages(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))

	w := v.do(http.MethodGet, "/api/chat/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Messages []struct {
			ID    int    `json:"id"`
			Text  string `json:"text"`
			IsBot bool   `json:"isBot"`
		} `json:"messages"`
		QuickReplies []string `json:"quickReplies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Messages, 1)
	assert.Equal(t, chat.WelcomeMessage, history.Messages[0].Text)
	assert.Equal(t, chat.QuickReplies, history.QuickReplies)

	w = v.do(http.MethodPost, "/api/chat/messages", map[string]string{"text": "price of Jamaal"})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Message struct {
			ID    int  `json:"id"`
			IsBot bool `json:"isBot"`
		} `json:"message"`
		Reply struct {
			ID    int    `json:"id"`
			Text  string `json:"text"`
			IsBot bool   `json:"isBot"`
		} `json:"reply"`
		Rule    string `json:"rule"`
		Product *struct {
			Name string `json:"name"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Message.ID)
	assert.False(t, res.Message.IsBot)
	assert.Equal(t, 3, res.Reply.ID)
	assert.True(t, res.Reply.IsBot)
	assert.Equal(t, chat.RuleProduct, res.Rule)
	require.NotNil(t, res.Product)
	assert.Equal(t, "Jamaal", res.Product.Name)
	assert.Contains(t, res.Reply.Text, "Rs1,600")

	assert.Equal(t, http.StatusBadRequest, v.do(http.MethodPost, "/api/chat/messages", map[string]string{"text": "   "}).Code)

	w = v.do(http.MethodGet, "/api/chat/messages", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Messages, 3)
	assert.Empty(t, history.QuickReplies)
}

type handoff struct {
	URL     string `json:"whatsapp_url"`
	Message string `json:"message"`
	Total   int    `json:"total"`
	Count   int    `json:"count"`
	QRCode  string `json:"qr_code"`
}

func TestCheckout(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))
	form := map[string]string{
		"name":    "Ali Khan",
		"phone":   "+92 300 1234567",
		"address": "12 Clifton Road",
		"city":    "Karachi",
	}

	w := v.do(http.MethodPost, "/api/checkout", form)
	assert.Equal(t, http.StatusConflict, w.Code)

	v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 1})
	v.do(http.MethodPost, "/api/cart/add", map[string]int{"productId": 1})

	bad := map[string]string{"name": "Ali", "phone": "abc", "address": "", "city": "Karachi"}
	w = v.do(http.MethodPost, "/api/checkout", bad)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var invalid struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.Equal(t, "Please enter a valid phone number", invalid.Fields["phone"])
	assert.Equal(t, "Address is required", invalid.Fields["address"])
	assert.Equal(t, 2, decode[cartBody](t, v.do(http.MethodGet, "/api/cart", nil)).Count, "invalid form keeps the cart")

	w = v.do(http.MethodPost, "/api/checkout", form)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[handoff](t, w)
	assert.True(t, strings.HasPrefix(res.URL, "https://wa.me/923194635913?text="), res.URL)
	assert.Equal(t, 3200, res.Total)
	assert.Equal(t, 2, res.Count)
	assert.Contains(t, res.Message, "K.Soul")
	assert.True(t, strings.HasPrefix(res.QRCode, "data:image/png;base64,"))

	assert.Equal(t, 0, decode[cartBody](t, v.do(http.MethodGet, "/api/cart", nil)).Count)
}

func TestContact(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))

	w := v.do(http.MethodPost, "/api/contact", map[string]string{"name": "Sara"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var invalid struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.Equal(t, map[string]string{
		"email":   checkout.ContactFormMessage,
		"message": checkout.ContactFormMessage,
	}, invalid.Fields)

	w = v.do(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Sara",
		"email":   "sara@example.com",
		"message": "Do you have gift boxes?",
	})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[handoff](t, w)
	assert.True(t, strings.HasPrefix(res.URL, "https://wa.me/923194635913?text="))
	assert.Contains(t, res.Message, "sara@example.com")
	assert.Zero(t, res.Total)
}

func TestSlides(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{}))

	type state struct {
		Index int `json:"index"`
		Total int `json:"total"`
	}

	w := v.do(http.MethodGet, "/api/slides", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Current state `json:"current"`
		Slides  []any `json:"slides"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Current.Index)
	assert.Equal(t, 2, body.Current.Total)
	assert.Len(t, body.Slides, 2)

	assert.Equal(t, 1, decode[state](t, v.do(http.MethodPost, "/api/slides/next", nil)).Index)
	assert.Equal(t, 0, decode[state](t, v.do(http.MethodPost, "/api/slides/next", nil)).Index)
	assert.Equal(t, 1, decode[state](t, v.do(http.MethodPost, "/api/slides/prev", nil)).Index)
}

func TestSlides_PauseResume(t *testing.T) {
	engine := newStore(t, storeOptions{})
	alice := newVisitor(t, engine)
	bob := newVisitor(t, engine)

	type state struct {
		Index  int  `json:"index"`
		Paused bool `json:"paused"`
	}

	w := alice.do(http.MethodPost, "/api/slides/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[state](t, w).Paused)

	// un seul carrousel pour tout le serveur
	var body struct {
		Current state `json:"current"`
	}
	require.NoError(t, json.Unmarshal(bob.do(http.MethodGet, "/api/slides", nil).Body.Bytes(), &body))
	assert.True(t, body.Current.Paused)

	// la navigation manuelle reste possible en pause
	assert.Equal(t, 1, decode[state](t, alice.do(http.MethodPost, "/api/slides/next", nil)).Index)

	w = alice.do(http.MethodPost, "/api/slides/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[state](t, w).Paused)
}

func TestRateLimitOnChat(t *testing.T) {
	v := newVisitor(t, newStore(t, storeOptions{rateLimit: 2}))

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, v.do(http.MethodPost, "/api/chat/messages", map[string]string{"text": "hi"}).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, v.do(http.MethodPost, "/api/chat/messages", map[string]string{"text": "hi"}).Code)
	// les lectures ne sont pas limitées
	assert.Equal(t, http.StatusOK, v.do(http.MethodGet, "/api/chat/messages", nil).Code)
}

type wsEvent struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Rule    string `json:"rule"`
	Message struct {
		ID    int    `json:"id"`
		Text  string `json:"text"`
		IsBot bool   `json:"isBot"`
	} `json:"message"`
	Messages []json.RawMessage `json:"messages"`
}

// dialChat ouvre le chat WebSocket et renvoie la connexion et un lecteur d'événements.
func dialChat(t *testing.T, o storeOptions) (*websocket.Conn, func() wsEvent) {
	t.Helper()
	srv := httptest.NewServer(newStore(t, o))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	read := func() wsEvent {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev wsEvent
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}
	return conn, read
}

func TestChatWebSocket(t *testing.T) {
	conn, read := dialChat(t, storeOptions{typingDelay: 20 * time.Millisecond})

	ev := read()
	assert.Equal(t, handlers.EventHistory, ev.Type)
	assert.Len(t, ev.Messages, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "hello"}))

	ev = read()
	assert.Equal(t, handlers.EventMessage, ev.Type)
	assert.Equal(t, 2, ev.Message.ID)
	assert.False(t, ev.Message.IsBot)

	assert.Equal(t, handlers.EventTyping, read().Type)

	ev = read()
	assert.Equal(t, handlers.EventReply, ev.Type)
	assert.Equal(t, chat.RuleGreeting, ev.Rule)
	assert.Equal(t, 3, ev.Message.ID)
	assert.True(t, ev.Message.IsBot)

	require.NoError(t, conn.WriteJSON(map[string]string{"text": " "}))
	ev = read()
	assert.Equal(t, handlers.EventError, ev.Type)
	assert.NotEmpty(t, ev.Error)
}

func TestChatWebSocket_RepliesInOrder(t *testing.T) {
	conn, read := dialChat(t, storeOptions{typingDelay: 20 * time.Millisecond})
	require.Equal(t, handlers.EventHistory, read().Type)

	for _, text := range []string{"hello", "thanks", "zzzz"} {
		require.NoError(t, conn.WriteJSON(map[string]string{"text": text}))
	}

	var replies []wsEvent
	for len(replies) < 3 {
		if ev := read(); ev.Type == handlers.EventReply {
			replies = append(replies, ev)
		}
	}

	assert.Equal(t, chat.RuleGreeting, replies[0].Rule)
	assert.Equal(t, chat.RuleThanks, replies[1].Rule)
	assert.Equal(t, chat.RuleDefault, replies[2].Rule)
	assert.Less(t, replies[0].Message.ID, replies[1].Message.ID)
	assert.Less(t, replies[1].Message.ID, replies[2].Message.ID)
}

func TestChatWebSocket_RateLimited(t *testing.T) {
	conn, read := dialChat(t, storeOptions{rateLimit: 2, typingDelay: time.Millisecond})
	require.Equal(t, handlers.EventHistory, read().Type)

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.WriteJSON(map[string]string{"text": "hi"}))
		assert.Equal(t, handlers.EventMessage, read().Type)
		assert.Equal(t, handlers.EventTyping, read().Type)
		assert.Equal(t, handlers.EventReply, read().Type)
	}

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "hi"}))
	ev := read()
	assert.Equal(t, handlers.EventError, ev.Type)
	assert.Equal(t, "too many messages, retry in 60 seconds", ev.Error)
}

func TestChatWebSocket_CapsPendingReplies(t *testing.T) {
	conn, read := dialChat(t, storeOptions{typingDelay: time.Hour})
	require.Equal(t, handlers.EventHistory, read().Type)

	for i := 0; i < 5; i++ {
		require.NoError(t, conn.WriteJSON(map[string]string{"text": fmt.Sprintf("message %d", i)}))
		assert.Equal(t, handlers.EventMessage, read().Type)
		assert.Equal(t, handlers.EventTyping, read().Type)
	}

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "one more"}))
	ev := read()
	assert.Equal(t, handlers.EventError, ev.Type)
	assert.Equal(t, "please wait for a reply", ev.Error)
}
