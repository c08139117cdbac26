package store

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"storefront-go/internal/domain/session/model"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a redis-backed store. Useful when several processes
// on one machine share a session (kiosk deployments).
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "storefront:session:"
	}
	return &redisStore{client: client, prefix: prefix}, nil
}

func (s *redisStore) key(name string) string {
	return s.prefix + name
}

func (s *redisStore) SaveSession(ctx context.Context, rec Record) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(KeyAccessToken), rec.AccessToken, 0)
	pipe.Set(ctx, s.key(KeyRefreshToken), rec.RefreshToken, 0)
	if rec.User != nil {
		raw, err := sonic.Marshal(rec.User)
		if err != nil {
			return err
		}
		pipe.Set(ctx, s.key(KeyUser), raw, 0)
	} else {
		pipe.Del(ctx, s.key(KeyUser))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) LoadSession(ctx context.Context) (Record, error) {
	var rec Record
	access, err := s.get(ctx, KeyAccessToken)
	if err != nil {
		return Record{}, err
	}
	refresh, err := s.get(ctx, KeyRefreshToken)
	if err != nil {
		return Record{}, err
	}
	rec.AccessToken = access
	rec.RefreshToken = refresh

	rawUser, err := s.client.Get(ctx, s.key(KeyUser)).Bytes()
	if err != nil && err != redis.Nil {
		return Record{}, err
	}
	if len(rawUser) > 0 {
		var user model.User
		if err := sonic.Unmarshal(rawUser, &user); err == nil {
			rec.User = &user
		}
	}
	return rec, nil
}

func (s *redisStore) get(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *redisStore) ClearSession(ctx context.Context) error {
	return s.client.Del(ctx,
		s.key(KeyAccessToken),
		s.key(KeyRefreshToken),
		s.key(KeyUser),
	).Err()
}

func (s *redisStore) SaveOTPToken(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key(KeyOTPToken), token, 0).Err()
}

func (s *redisStore) LoadOTPToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyOTPToken)
}

func (s *redisStore) ClearOTPToken(ctx context.Context) error {
	return s.client.Del(ctx, s.key(KeyOTPToken)).Err()
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
