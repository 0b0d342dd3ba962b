package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"dotscent_back_end/internal/models"
)

var ErrEmptyMessage = errors.New("chat: empty message")

const WelcomeMessage = "Hello! 👋 Welcome to DotScent! I'm here to help you discover your perfect fragrance. How can I assist you today?"

// QuickReplies sont proposées tant que seule la bienvenue a été affichée.
var QuickReplies = []string{
	"Show products",
	"Prices",
	"Contact info",
	"Business hours",
}

// Conversation est le journal des messages d'une session, en ajout seul.
// Les ids sont croissants et ne sont jamais réutilisés.
type Conversation struct {
	mu        sync.Mutex
	responder *Responder
	messages  []models.ChatMessage
	nextID    int
	now       func() time.Time
}

func NewConversation(responder *Responder, now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	c := &Conversation{responder: responder, nextID: 1, now: now}
	c.appendLocked(WelcomeMessage, true)
	return c
}

// AddUserMessage enregistre le message de l'utilisateur. Un message vide est refusé.
func (c *Conversation) AddUserMessage(text string) (models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(text, false), nil
}

// Reply calcule la réponse du bot à text et l'ajoute au journal.
func (c *Conversation) Reply(text string) (models.ChatMessage, Reply) {
	reply := c.responder.Respond(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(reply.Text, true), reply
}

// Ask enchaîne AddUserMessage et Reply sans délai de frappe.
func (c *Conversation) Ask(text string) (user, bot models.ChatMessage, reply Reply, err error) {
	user, err = c.AddUserMessage(text)
	if err != nil {
		return models.ChatMessage{}, models.ChatMessage{}, Reply{}, err
	}
	bot, reply = c.Reply(text)
	return user, bot, reply, nil
}

// Messages renvoie une copie du journal.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.messages...)
}

func (c *Conversation) QuickReplies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) != 1 {
		return nil
	}
	return append([]string(nil), QuickReplies...)
}

func (c *Conversation) appendLocked(text string, isBot bool) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        c.nextID,
		Text:      text,
		IsBot:     isBot,
		Timestamp: c.now(),
	}
	c.nextID++
	c.messages = append(c.messages, msg)
	return msg
}

// Conversations garde une conversation par session, en mémoire uniquement.
type Conversations struct {
	mu        sync.Mutex
	responder *Responder
	entries   map[string]*conversationEntry
	idle      time.Duration
	now       func() time.Time
}

type conversationEntry struct {
	conv     *Conversation
	lastSeen time.Time
}

func NewConversations(responder *Responder, idle time.Duration) *Conversations {
	return &Conversations{
		responder: responder,
		entries:   make(map[string]*conversationEntry),
		idle:      idle,
		now:       time.Now,
	}
}

// Get renvoie la conversation de la session, créée au premier appel.
func (cs *Conversations) Get(sessionID string) *Conversation {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	e, ok := cs.entries[sessionID]
	if !ok {
		e = &conversationEntry{conv: NewConversation(cs.responder, cs.now)}
		cs.entries[sessionID] = e
	}
	e.lastSeen = cs.now()
	return e.conv
}

// Sweep oublie les conversations inactives depuis plus que idle et renvoie leur nombre.
func (cs *Conversations) Sweep() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.idle <= 0 {
		return 0
	}
	cutoff := cs.now().Add(-cs.idle)
	n := 0
	for id, e := range cs.entries {
		if e.lastSeen.Before(cutoff) {
			delete(cs.entries, id)
			n++
		}
	}
	return n
}

func (cs *Conversations) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entries)
}
