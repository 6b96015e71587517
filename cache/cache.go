// Package cache stores hotel candidate-id lists between requests.
// Candidate ids are reference data, not offers; offer responses are
// never cached, so availability stays fresh.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	GetCandidates(ctx context.Context, cityCode string, ratings []int) ([]string, bool)
	SetCandidates(ctx context.Context, cityCode string, ratings []int, ids []string) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) GetCandidates(ctx context.Context, cityCode string, ratings []int) ([]string, bool) {
	data, err := c.client.Get(ctx, candidateKey(cityCode, ratings)).Bytes()
	if err != nil {
		return nil, false
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}

	return ids, true
}

func (c *RedisCache) SetCandidates(ctx context.Context, cityCode string, ratings []int, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, candidateKey(cityCode, ratings), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetCandidates(ctx context.Context, cityCode string, ratings []int) ([]string, bool) {
	return nil, false
}

func (c *NoOpCache) SetCandidates(ctx context.Context, cityCode string, ratings []int, ids []string) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func candidateKey(cityCode string, ratings []int) string {
	keyData := struct {
		CityCode string
		Ratings  []int
	}{
		CityCode: cityCode,
		Ratings:  ratings,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "hotels:" + hex.EncodeToString(hash[:])
}
