package cart

import (
	"context"
	"sync"
	"time"

	"dotscent_back_end/internal/models"
)

// Repository conserve le panier de chaque session le temps de sa durée de vie.
type Repository interface {
	// Load renvoie un panier vide si la session n'en a pas encore.
	Load(ctx context.Context, sessionID string) (*Store, error)
	Save(ctx context.Context, sessionID string, s *Store) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	lines     []models.CartLine
	expiresAt time.Time
}

// MemoryRepository garde les paniers dans le processus. Les entrées expirent après ttl d'inactivité.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemoryRepository) Load(_ context.Context, sessionID string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return NewStore(), nil
	}
	if r.ttl > 0 && r.now().After(e.expiresAt) {
		delete(r.entries, sessionID)
		return NewStore(), nil
	}
	return Restore(e.lines)
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, s *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.IsEmpty() {
		delete(r.entries, sessionID)
		return nil
	}
	r.entries[sessionID] = memoryEntry{
		lines:     s.Lines(),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
	return nil
}

// Purge supprime les paniers expirés et renvoie leur nombre.
func (r *MemoryRepository) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ttl <= 0 {
		return 0
	}
	now := r.now()
	n := 0
	for id, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}
