package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCache{
		rdb:    rdb,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (c *RedisCache) makeKey(id int) string {
	return c.prefix + strconv.Itoa(id)
}

func (c *RedisCache) Set(id int, p domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.makeKey(id), data, c.ttl).Err()
}

func (c *RedisCache) Get(id int) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := c.rdb.Get(ctx, c.makeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Product{}, app.ErrNotFound
		}
		return domain.Product{}, err
	}

	var p domain.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (c *RedisCache) Delete(id int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := c.rdb.Del(ctx, c.makeKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return app.ErrNotFound
	}
	return nil
}

func (c *RedisCache) Close() error { return c.rdb.Close() }
