package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dotscent_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stocke le panier en JSON sous "cart:<sessionID>".
// Le TTL est rafraîchi à chaque sauvegarde; un panier vide supprime la clé.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*Store, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewStore(), nil
	}
	// toute autre erreur doit remonter : un panier vide serait ensuite sauvegardé par-dessus
	if err != nil {
		return nil, fmt.Errorf("lecture panier redis: %w", err)
	}
	if len(data) == 0 {
		return NewStore(), nil
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("décodage panier: %w", err)
	}
	return Restore(lines)
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, s *Store) error {
	if s.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}

	jsonData, err := json.Marshal(s.Lines())
	if err != nil {
		return fmt.Errorf("encodage panier: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("sauvegarde panier redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("vidage panier redis: %w", err)
	}
	return nil
}
