package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cell/pkg/core"
)

// syncBuffer is a bytes.Buffer safe for a command writing while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func resetFlags() {
	verbose, dataDir, format = false, "", "yaml"
	readJSON, setJSON = false, false
	watchEvents, watchMetrics = false, ""
}

func run(ctx context.Context, out *syncBuffer, args ...string) error {
	resetFlags()
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func TestCLI_InitReadSet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	out := &syncBuffer{}
	require.NoError(t, run(ctx, out, "init", "--dir", dir))
	assert.Contains(t, out.String(), "Initialized cell records")
	assert.DirExists(t, filepath.Join(dir, ".cell"))
	assert.FileExists(t, filepath.Join(dir, "location.yaml"))
	assert.FileExists(t, filepath.Join(dir, "price.yaml"))

	out = &syncBuffer{}
	require.NoError(t, run(ctx, out, "read", "location", "--json", "--dir", dir))
	var loc core.LocationResource
	require.NoError(t, json.Unmarshal([]byte(out.String()), &loc))
	assert.Equal(t, core.DefaultID, loc.ID)
	assert.Equal(t, core.DefaultLatitude, loc.Latitude)
	assert.Equal(t, core.DefaultLongitude, loc.Longitude)

	out = &syncBuffer{}
	require.NoError(t, run(ctx, out, "set", "price", "--content", "3.50", "--dir", dir))
	assert.Contains(t, out.String(), "content: \"3.50\"")

	out = &syncBuffer{}
	require.NoError(t, run(ctx, out, "read", "price", "--dir", dir))
	assert.Contains(t, out.String(), "content: \"3.50\"")
	assert.Contains(t, out.String(), "title: Price")
}

func TestCLI_SetLocation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	out := &syncBuffer{}
	require.NoError(t, run(ctx, out, "set", "location", "--lat", "48.5", "--lon", "2.25", "--json", "--dir", dir))

	var loc core.LocationResource
	require.NoError(t, json.Unmarshal([]byte(out.String()), &loc))
	assert.Equal(t, 48.5, loc.Latitude)
	assert.Equal(t, 2.25, loc.Longitude)
	assert.Equal(t, core.DefaultID, loc.ID)

	err := run(ctx, &syncBuffer{}, "set", "location", "--lat", "91", "--lon", "0", "--dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidCoordinate)
	assert.ErrorIs(t, err, core.ErrTransformFailed)
}

func TestCLI_RejectsUnknownKind(t *testing.T) {
	err := run(context.Background(), &syncBuffer{}, "read", "weather", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	out := &syncBuffer{}
	require.NoError(t, run(context.Background(), out, "version"))
	assert.True(t, strings.HasPrefix(out.String(), "cell version "))
}

func TestCLI_WatchReloadsExternalEdits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(context.Background(), &syncBuffer{}, "init", "--dir", dir))

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, out, "watch", "price", "--dir", dir)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"content":"0.00"`)
	}, 5*time.Second, 10*time.Millisecond)

	edited := "id: 1\ntitle: Price\ndateCreated: 42\ncontent: \"7.25\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "price.yaml"), []byte(edited), 0644))

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"content":"7.25"`)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestCLI_ResolvesMarkedRootAboveGitRepo(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(base, ".cell"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "app", ".git"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "app", "sub"), 0755))
	t.Chdir(filepath.Join(base, "app", "sub"))

	out := &syncBuffer{}
	require.NoError(t, run(context.Background(), out, "set", "price", "--content", "4.00"))

	assert.FileExists(t, filepath.Join(base, "price.yaml"))
	assert.NoFileExists(t, filepath.Join(base, "app", "sub", "price.yaml"))
}
