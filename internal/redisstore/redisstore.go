// Package redisstore is the redis backed [poll.Store]. Each poll is one hash
// at poll:<id>, keyed by option.
package redisstore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/jdholdren/podsite/internal/poll"
)

var _ poll.Store = Store{}

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Dial connects to redis, retrying the first ping while the server comes up.
func Dial(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "redis not ready", "addr", cfg.Addr, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	slog.InfoContext(ctx, "connected to redis", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}

type Store struct {
	client *redis.Client
}

func New(client *redis.Client) Store {
	return Store{client: client}
}

func (s Store) Votes(ctx context.Context, id string) (poll.Votes, error) {
	fields, err := s.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching votes: %w", err)
	}

	return toVotes(fields)
}

// Increment bumps the option with HINCRBY and reads the hash back in the same
// MULTI, so the returned tally includes this vote.
func (s Store) Increment(ctx context.Context, id, option string) (poll.Votes, error) {
	var all *redis.MapStringStringCmd
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key(id), option, 1)
		all = pipe.HGetAll(ctx, key(id))
		return nil
	}); err != nil {
		return nil, fmt.Errorf("error incrementing vote: %w", err)
	}

	return toVotes(all.Val())
}

func key(id string) string {
	return "poll:" + id
}

func toVotes(fields map[string]string) (poll.Votes, error) {
	votes := make(poll.Votes, len(fields))
	for option, count := range fields {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing count for %q: %w", option, err)
		}
		votes[option] = n
	}

	return votes, nil
}
