package memory

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driftwatch/sdk/project"
)

// Mirror replicates recorded interactions to an external store. The
// in-context log stays the source of truth; mirror failures are logged
// by Memory and never surfaced to callers.
type Mirror interface {
	// Record stores an interaction at the front of the project's mirror
	// list and trims the list to limit entries.
	Record(ctx context.Context, projectName string, interaction project.Interaction, limit int) error

	// Recent returns up to n mirrored interactions, most recent first.
	Recent(ctx context.Context, projectName string, n int) ([]project.Interaction, error)

	// Close closes the mirror connection.
	Close() error
}

// RedisOptions configures the Redis mirror connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisMirror implements Mirror on a Redis list per project, using
// LPUSH and LTRIM so the mirror carries the same newest-first bounded
// shape as the in-context log.
type RedisMirror struct {
	client *redis.Client
}

// NewRedisMirror creates a Redis mirror with the given options and
// verifies the connection with a ping.
func NewRedisMirror(opts RedisOptions) (*RedisMirror, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMirror{client: client}, nil
}

// Record pushes the interaction onto the project's list and trims the
// list to limit entries.
func (r *RedisMirror) Record(ctx context.Context, projectName string, interaction project.Interaction, limit int) error {
	data, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction: %w", err)
	}

	key := interactionKey(projectName)
	if err := r.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to push interaction for %s: %w", projectName, err)
	}

	if limit > 0 {
		if err := r.client.LTrim(ctx, key, 0, int64(limit)-1).Err(); err != nil {
			return fmt.Errorf("failed to trim interactions for %s: %w", projectName, err)
		}
	}

	return nil
}

// Recent returns up to n mirrored interactions, most recent first.
// Entries that fail to decode are skipped.
func (r *RedisMirror) Recent(ctx context.Context, projectName string, n int) ([]project.Interaction, error) {
	if n <= 0 {
		return nil, nil
	}

	raw, err := r.client.LRange(ctx, interactionKey(projectName), 0, int64(n)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read interactions for %s: %w", projectName, err)
	}

	interactions := make([]project.Interaction, 0, len(raw))
	for _, entry := range raw {
		var it project.Interaction
		if err := json.Unmarshal([]byte(entry), &it); err != nil {
			continue
		}
		interactions = append(interactions, it)
	}

	return interactions, nil
}

// Close closes the Redis connection.
func (r *RedisMirror) Close() error {
	return r.client.Close()
}

// interactionKey builds the context:<project>:interactions list key.
func interactionKey(projectName string) string {
	return fmt.Sprintf("context:%s:interactions", projectName)
}
