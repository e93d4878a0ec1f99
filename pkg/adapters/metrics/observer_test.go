package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aretw0/cell/pkg/store"
)

func TestObserverRecordsStoreActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.New(0, store.WithName("counter"), store.WithObserver(obs))

	if _, err := s.Subscribe(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if got := testutil.ToFloat64(obs.subscribers.WithLabelValues("counter")); got != 1 {
		t.Fatalf("expected 1 subscriber, got %f", got)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Update(ctx, func(v int) (int, error) { return v + 1, nil }); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if got := testutil.ToFloat64(obs.commits.WithLabelValues("counter")); got != 3 {
		t.Fatalf("expected 3 commits, got %f", got)
	}
	if got := testutil.ToFloat64(obs.version.WithLabelValues("counter")); got != 3 {
		t.Fatalf("expected version 3, got %f", got)
	}

	_, _ = s.Update(ctx, func(v int) (int, error) { return v, errors.New("nope") })
	if got := testutil.ToFloat64(obs.transformFailure.WithLabelValues("counter")); got != 1 {
		t.Fatalf("expected 1 transform failure, got %f", got)
	}

	if n := testutil.CollectAndCount(obs.updateWait); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestObserverPersistFailure(t *testing.T) {
	obs := NewObserver(prometheus.NewRegistry())

	obs.PersistFailed("price")
	obs.PersistFailed("price")
	if got := testutil.ToFloat64(obs.persistFailure.WithLabelValues("price")); got != 2 {
		t.Fatalf("expected 2 persist failures, got %f", got)
	}
}

func TestNewObserverDefaultRegisterer(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	t.Cleanup(func() { prometheus.DefaultRegisterer = origReg })

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg

	obs := NewObserver(nil)
	obs.Committed("location", 1)

	if n, err := testutil.GatherAndCount(reg, "cell_commits_total"); err != nil || n != 1 {
		t.Fatalf("expected commits series in the default registry, got %d (%v)", n, err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	NewObserver(nil)
}
