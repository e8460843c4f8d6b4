package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store держит корзины в Redis: key "cart:{id}", TTL продлевается при каждой записи
type Store struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewStore(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &Store{client: rdb, ttl: ttl, log: log}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func cartKey(id uuid.UUID) string {
	return fmt.Sprintf("cart:%s", id)
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(c.ID), raw, s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, cartKey(id)).Err()
}
