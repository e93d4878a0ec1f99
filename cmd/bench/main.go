package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/cell"
)

func main() {
	count := flag.Int("count", 1000, "Number of updates per writer")
	writers := flag.Int("writers", 8, "Concurrent writers")
	subscribers := flag.Int("subscribers", 4, "Concurrent subscribers")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "cell_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	memory := cell.NewMemory(0)
	fmt.Println("Running memory store...")
	memDur, memDelivered := run(ctx, memory, *writers, *count, *subscribers, func(n int) (int, error) {
		return n + 1, nil
	})

	// Run 2 writes through the file persister on every commit.
	price, err := cell.OpenPrice(ctx, benchDir, cell.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	fmt.Println("Running file store...")
	fileDur, fileDelivered := run(ctx, price, *writers, max(*count/10, 1), *subscribers, func(p cell.PriceResource) (cell.PriceResource, error) {
		return p.Revised(fmt.Sprintf("%d", time.Now().UnixNano()), time.Now()), nil
	})

	total := *writers * *count
	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d writers, %d subscribers):\n", *writers, *subscribers)
	fmt.Printf("  Memory: %d commits in %v (%.0f/s), %d deliveries\n", total, memDur, float64(total)/memDur.Seconds(), memDelivered)
	fmt.Printf("  File:   %d commits in %v (%.0f/s), %d deliveries\n", price.Version(), fileDur, float64(price.Version())/fileDur.Seconds(), fileDelivered)
	fmt.Printf("--------------------------------------------------\n")

	if got := memory.Snapshot(); got != total {
		fmt.Fprintf(os.Stderr, "lost updates: got %d, want %d\n", got, total)
		os.Exit(1)
	}
}

// run applies count updates from each writer while subscribers drain the store.
// It returns the time taken by the writers and the values delivered to subscribers.
func run[T any](ctx context.Context, s *cell.Store[T], writers, count, subscribers int, fn func(T) (T, error)) (time.Duration, int64) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		delivered int64
		readers   sync.WaitGroup
	)
	for range subscribers {
		values, err := s.Subscribe(subCtx)
		if err != nil {
			panic(err)
		}
		readers.Add(1)
		go func() {
			defer readers.Done()
			var n int64
			for range values {
				n++
			}
			mu.Lock()
			delivered += n
			mu.Unlock()
		}()
	}

	start := time.Now()
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range count {
				if _, err := s.Update(ctx, fn); err != nil {
					panic(err)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	cancel()
	readers.Wait()
	return elapsed, delivered
}
