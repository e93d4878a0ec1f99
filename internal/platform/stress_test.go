package platform

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/cell/pkg/core"
)

// TestStress_ExternalVsInternal edits the record file from outside while the
// store commits its own updates and a subscriber reads. The store must not
// panic and the file must stay a valid record.
func TestStress_ExternalVsInternal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	dir := t.TempDir()
	openCtx, stopReload := context.WithCancel(context.Background())
	defer stopReload()

	s, err := Open(openCtx, dir, "price", core.DefaultPriceResource, WithReload(true))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var wg sync.WaitGroup

	// External actor.
	wg.Add(1)
	go func() {
		defer wg.Done()
		path := filepath.Join(dir, "price.yaml")
		for ctx.Err() == nil {
			content := fmt.Sprintf("id: 1\ntitle: Price\ndateCreated: %d\ncontent: \"ext-%d\"\n", time.Now().UnixMilli(), rand.Intn(100))
			_ = os.WriteFile(path, []byte(content), 0644)
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}()

	// Internal actor.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			_, _ = s.Update(ctx, func(p core.PriceResource) (core.PriceResource, error) {
				return p.Revised(fmt.Sprintf("int-%d", rand.Intn(100)), time.Now()), nil
			})
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}()

	values, err := s.Subscribe(ctx)
	require.NoError(t, err)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range values {
		}
	}()

	wg.Wait()
	stopReload()

	// One last commit leaves the file in a known state.
	_, err = s.Set(context.Background(), core.PriceResource{ID: 1, Title: "Price", Content: "final"})
	require.NoError(t, err)

	reopened, err := Open(context.Background(), dir, "price", core.DefaultPriceResource)
	require.NoError(t, err)
	require.Equal(t, "final", reopened.Snapshot().Content)
	t.Logf("survived with %d commits", s.Version())
}
