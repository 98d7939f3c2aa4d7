package nixstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixdiff/nixdiff/store"
)

func mustParse(t *testing.T, raw string, id, registerTime int64) store.StorePath {
	t.Helper()

	parsed, ok := store.Parse(raw)
	require.True(t, ok, "failed to parse %s", raw)

	parsed.ID = id
	parsed.RegisterTime = registerTime
	return parsed
}

type fakeSource struct {
	mu       sync.Mutex
	stores   store.StoreSet
	closures map[store.Name][]store.StorePath
	failFor  store.Name
	calls    int
}

func (f *fakeSource) Name() string {
	return "fake"
}

func (f *fakeSource) SystemStores(ctx context.Context) (store.StoreSet, error) {
	return f.stores, nil
}

func (f *fakeSource) Closure(ctx context.Context, path store.StorePath) ([]store.StorePath, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if path.Key() == f.failFor {
		return nil, errors.New("store vanished")
	}

	return f.closures[path.Key()], nil
}

func TestBuildSystemPackages(t *testing.T) {
	wine := store.StorePath{Name: "wine", Version: "4.1"}
	steam := store.StorePath{Name: "steam", Version: "1.0"}

	src := &fakeSource{
		stores: store.NewStoreSet(wine, steam),
		closures: map[store.Name][]store.StorePath{
			"wine": {
				wine, // closure includes the package itself
				{Name: "vulkan-loader", Version: "1.1.85"},
			},
			"steam": {
				{Name: "glibc", Version: "2.27"},
			},
		},
	}

	var progressCalls int
	config := DefaultBuilderConfig()
	config.OnProgress = func(done, total int) {
		progressCalls++
		assert.Equal(t, 2, total)
	}

	pkgs, err := BuildSystemPackages(context.Background(), src, config)
	require.NoError(t, err)

	require.Len(t, pkgs, 2)
	assert.Contains(t, pkgs["wine"].Deps, "vulkan-loader")
	assert.NotContains(t, pkgs["wine"].Deps, "wine")
	assert.Contains(t, pkgs["steam"].Deps, "glibc")
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 2, progressCalls)
}

func TestBuildSystemPackagesLookupFailure(t *testing.T) {
	src := &fakeSource{
		stores: store.NewStoreSet(
			store.StorePath{Name: "wine", Version: "4.1"},
			store.StorePath{Name: "steam", Version: "1.0"},
		),
		failFor: "steam",
	}

	_, err := BuildSystemPackages(context.Background(), src, DefaultBuilderConfig())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClosureLookup)
	assert.Contains(t, err.Error(), "steam", "the failing package must be named")
}

func TestBuildSystemPackagesEmpty(t *testing.T) {
	src := &fakeSource{stores: store.NewStoreSet()}

	pkgs, err := BuildSystemPackages(context.Background(), src, DefaultBuilderConfig())
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}
