// Package redis implements [forge.WorkspaceStore] on Redis. Workspaces are
// stored as the same JSON envelope the file store writes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/forge"
	forgejson "github.com/fwojciec/forge/json"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces workspace keys.
const DefaultKeyPrefix = "forge:workspace:"

// Client is the subset of the go-redis command set the store uses.
// *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Interface compliance check.
var _ forge.WorkspaceStore = (*Store)(nil)

// Store keeps one string key per workspace.
type Store struct {
	client Client
	prefix string
	ttl    time.Duration
}

// Option configures a [Store].
type Option func(*Store)

// WithKeyPrefix sets the prefix prepended to workspace ids.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL expires workspaces ttl after their last write. Zero keeps them
// forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New creates a Store backed by client.
func New(client Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultKeyPrefix}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dial connects to the Redis server at addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return c, nil
}

// Get implements forge.WorkspaceStore.
func (s *Store) Get(ctx context.Context, id string) (forge.Workspace, error) {
	if err := forge.ValidateWorkspaceID(id); err != nil {
		return forge.Workspace{}, err
	}
	val, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return forge.Workspace{}, fmt.Errorf("workspace %s: %w", id, forge.ErrNotFound)
	}
	if err != nil {
		return forge.Workspace{}, fmt.Errorf("redis: get: %w", err)
	}
	ws, err := forgejson.UnmarshalWorkspace(val)
	if err != nil {
		return forge.Workspace{}, fmt.Errorf("redis: %w", err)
	}
	return ws, nil
}

// Put implements forge.WorkspaceStore.
func (s *Store) Put(ctx context.Context, ws forge.Workspace) error {
	if err := forge.ValidateWorkspaceID(ws.ID); err != nil {
		return err
	}
	data, err := forgejson.MarshalWorkspace(ws)
	if err != nil {
		return fmt.Errorf("redis: marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+ws.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}
