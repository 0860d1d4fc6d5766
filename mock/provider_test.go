package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Complete(t *testing.T) {
	t.Parallel()
	t.Run("delegates to CompleteFn", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{
			IDFn:         func() forge.ProviderID { return forge.ProviderGemini },
			ConfiguredFn: func() bool { return true },
			CompleteFn: func(ctx context.Context, req forge.Request) (forge.Completion, error) {
				return forge.Completion{Text: req.Prompt}, nil
			},
		}
		got, err := p.Complete(context.Background(), forge.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "hi", got.Text)
		assert.Equal(t, forge.ProviderGemini, p.ID())
		assert.True(t, p.Configured())
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		p := mock.Provider{
			CompleteFn: func(ctx context.Context, req forge.Request) (forge.Completion, error) {
				return forge.Completion{}, wantErr
			},
		}
		_, err := p.Complete(context.Background(), forge.Request{})
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestWorkspaceStore(t *testing.T) {
	t.Parallel()
	var put forge.Workspace
	s := mock.WorkspaceStore{
		GetFn: func(ctx context.Context, id string) (forge.Workspace, error) {
			return forge.Workspace{}, forge.ErrNotFound
		},
		PutFn: func(ctx context.Context, ws forge.Workspace) error {
			put = ws
			return nil
		},
	}
	_, err := s.Get(context.Background(), "w1")
	assert.ErrorIs(t, err, forge.ErrNotFound)
	require.NoError(t, s.Put(context.Background(), forge.Workspace{ID: "w1"}))
	assert.Equal(t, "w1", put.ID)
}

func TestRecorder_NilFieldsAreNoops(t *testing.T) {
	t.Parallel()
	var r mock.Recorder
	assert.NotPanics(t, func() {
		r.ProviderAttempt(forge.ProviderGemini, forge.ModeChat, nil, time.Second)
		r.Recovered("extract")
		r.RequestDone("chat", nil, time.Second)
	})
}
