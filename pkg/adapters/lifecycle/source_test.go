package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cellifecycle "github.com/aretw0/cell/pkg/adapters/lifecycle"
	"github.com/aretw0/cell/pkg/core"
	"github.com/aretw0/cell/pkg/store"
)

func TestSource_EmitsCommitsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	price := store.New(core.PriceResource{ID: 1, Content: "1.00"}, store.WithName("price"))
	src := cellifecycle.NewSource(price)
	require.NoError(t, src.Start(ctx))

	for i, content := range []string{"1.10", "1.20"} {
		_, err := price.Update(ctx, func(p core.PriceResource) (core.PriceResource, error) {
			return p.Revised(content, time.UnixMilli(int64(i))), nil
		})
		require.NoError(t, err)

		select {
		case e := <-src.Events():
			commit, ok := e.(core.Event)
			require.True(t, ok, "unexpected event type %T", e)
			assert.Equal(t, core.EventCommit, commit.Type)
			assert.Equal(t, "price", commit.ID)
			assert.Equal(t, uint64(i+1), commit.Seq)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for commit %d", i+1)
		}
	}
}

func TestSource_SkipsCommitsBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.New(0, store.WithName("counter"))
	_, err := s.Set(ctx, 1)
	require.NoError(t, err)

	src := cellifecycle.NewSource(s)
	require.NoError(t, src.Start(ctx))

	_, err = s.Set(ctx, 2)
	require.NoError(t, err)

	select {
	case e := <-src.Events():
		assert.Equal(t, "COMMIT counter #2", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSource_StartTwiceFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := cellifecycle.NewSource(store.New(0, store.WithName("counter")))
	require.NoError(t, src.Start(ctx))
	assert.ErrorContains(t, src.Start(ctx), "already started")
}

func TestSource_StartWithEndedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := cellifecycle.NewSource(store.New(0))
	require.ErrorIs(t, src.Start(ctx), context.Canceled)

	_, ok := <-src.Events()
	assert.False(t, ok)
}

func TestSource_ClosesWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := cellifecycle.NewSource(store.New(0))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source not closed")
	}
}
