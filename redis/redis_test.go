package redis_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/forge"
	forgeredis "github.com/fwojciec/forge/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient is an in-memory Client that records TTLs.
type memClient struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemClient() *memClient {
	return &memClient{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (m *memClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.data[key] = value.([]byte)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func workspace() forge.Workspace {
	return forge.Workspace{
		ID:          "ws-1",
		Environment: forge.EnvStaticSite,
		Messages:    []forge.Message{forge.UserMessage{Text: "a landing page"}, forge.AssistantMessage{Text: "Done."}},
		Files:       []forge.File{{Path: "/index.html", Code: "<h1>hi</h1>"}, {Path: "/style.css", Code: "h1{}"}},
		UpdatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	client := newMemClient()
	store := forgeredis.New(client, forgeredis.WithTTL(time.Hour))

	require.NoError(t, store.Put(context.Background(), workspace()))
	assert.Contains(t, client.data, "forge:workspace:ws-1")
	assert.Equal(t, time.Hour, client.ttls["forge:workspace:ws-1"])

	got, err := store.Get(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Equal(t, workspace(), got)
}

func TestStore_KeyPrefix(t *testing.T) {
	t.Parallel()
	client := newMemClient()
	store := forgeredis.New(client, forgeredis.WithKeyPrefix("test:"))
	require.NoError(t, store.Put(context.Background(), workspace()))
	assert.Contains(t, client.data, "test:ws-1")
	assert.Equal(t, time.Duration(0), client.ttls["test:ws-1"])
}

func TestStore_NotFound(t *testing.T) {
	t.Parallel()
	store := forgeredis.New(newMemClient())
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, forge.ErrNotFound)
}

func TestStore_InvalidID(t *testing.T) {
	t.Parallel()
	store := forgeredis.New(newMemClient())
	_, err := store.Get(context.Background(), "../x")
	assert.ErrorIs(t, err, forge.ErrValidation)
	ws := workspace()
	ws.ID = ""
	assert.ErrorIs(t, store.Put(context.Background(), ws), forge.ErrValidation)
}

func TestStore_ClientErrors(t *testing.T) {
	t.Parallel()
	client := newMemClient()
	client.err = errors.New("connection refused")
	store := forgeredis.New(client)

	_, err := store.Get(context.Background(), "ws-1")
	assert.ErrorContains(t, err, "redis: get: connection refused")
	assert.NotErrorIs(t, err, forge.ErrNotFound)

	assert.ErrorContains(t, store.Put(context.Background(), workspace()), "redis: set: connection refused")
}

func TestStore_CorruptValue(t *testing.T) {
	t.Parallel()
	client := newMemClient()
	client.data["forge:workspace:ws-1"] = []byte(`{"version":9}`)
	_, err := forgeredis.New(client).Get(context.Background(), "ws-1")
	assert.ErrorContains(t, err, "unsupported envelope version")
}

// TestStore_Server runs against a real server when FORGE_TEST_REDIS_ADDR
// is set.
func TestStore_Server(t *testing.T) {
	addr := os.Getenv("FORGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FORGE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := forgeredis.Dial(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	store := forgeredis.New(client, forgeredis.WithKeyPrefix("forge-test:"), forgeredis.WithTTL(time.Minute))
	require.NoError(t, store.Put(ctx, workspace()))
	got, err := store.Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, workspace(), got)
}
