package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter compte les appels par clé sur une fenêtre fixe (rate limiting).
type Counter interface {
	// Increment incrémente la clé et renvoie la nouvelle valeur dans la fenêtre courante.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// incrWindow pose le TTL au premier hit seulement : la fenêtre ne glisse pas.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisCounter partage les compteurs entre instances (INCR + PEXPIRE atomiques).
type RedisCounter struct {
	client redis.Scripter
}

func NewRedisCounter(client redis.Scripter) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := incrWindow.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("compteur redis %s: %w", key, err)
	}
	return n, nil
}

// MemoryCounter est le repli sans Redis : compteurs locaux au processus.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]memoryWindow),
		now:     time.Now,
	}
}

func (m *MemoryCounter) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		w = memoryWindow{expiresAt: now.Add(window)}
	}
	w.count++
	m.windows[key] = w

	if len(m.windows) > 10000 {
		m.purgeLocked(now)
	}
	return w.count, nil
}

func (m *MemoryCounter) purgeLocked(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.expiresAt) {
			delete(m.windows, k)
		}
	}
}
