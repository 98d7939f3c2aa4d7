package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkpkg(name, version string, deps ...StorePath) *SystemPackage {
	return &SystemPackage{
		Path: StorePath{Name: name, Version: version},
		Deps: NewStoreSet(deps...),
	}
}

func TestIsolateGlobalDeps(t *testing.T) {
	pkgs := NewSystemPackageMap(
		mkpkg("test1", "1.0",
			StorePath{Name: "db", Version: "4.8.30"},
			StorePath{Name: "glibc", Version: "2.27"},
		),
		mkpkg("test2", "1.0",
			StorePath{Name: "db", Version: "5.0.0"},
			StorePath{Name: "glibc", Version: "2.27"},
		),
		mkpkg("test3", "1.0",
			StorePath{Name: "db", Version: "4.8.30"},
			StorePath{Name: "glibc", Version: "2.27"},
		),
	)

	global := IsolateGlobalDeps(pkgs)

	// glibc has one version everywhere and moves to the shared set once.
	require.Len(t, global, 1)
	require.Contains(t, global, "glibc")
	assert.Equal(t, "2.27", global["glibc"].Version)

	// db is pinned differently by test2, so every package keeps its own.
	assert.Equal(t, "4.8.30", pkgs["test1"].Deps["db"].Version)
	assert.Equal(t, "5.0.0", pkgs["test2"].Deps["db"].Version)
	assert.Equal(t, "4.8.30", pkgs["test3"].Deps["db"].Version)

	for name, pkg := range pkgs {
		assert.NotContains(t, pkg.Deps, "glibc", "package %s kept an extracted dependency", name)
	}
}

func TestIsolateGlobalDepsMutualExclusion(t *testing.T) {
	pkgs := NewSystemPackageMap(
		mkpkg("alpha", "1.0",
			StorePath{Name: "zlib", Version: "1.2.11"},
			StorePath{Name: "openssl", Version: "1.1.1"},
			StorePath{Name: "curl", Version: "7.64"},
		),
		mkpkg("beta", "2.0",
			StorePath{Name: "zlib", Version: "1.2.11"},
			StorePath{Name: "openssl", Version: "1.0.2"},
		),
		mkpkg("gamma", "3.0",
			StorePath{Name: "curl", Version: "7.64"},
		),
	)

	global := IsolateGlobalDeps(pkgs)

	for name := range global {
		for pkgName, pkg := range pkgs {
			assert.NotContains(t, pkg.Deps, name,
				"%s is in both the shared set and %s's dependencies", name, pkgName)
		}
	}

	assert.Contains(t, global, "zlib")
	assert.Contains(t, global, "curl")
	assert.NotContains(t, global, "openssl",
		"a dependency with two versions across packages can never be shared")
}

func TestIsolateGlobalDepsSingleConsumer(t *testing.T) {
	// One consumer trivially agrees with itself.
	pkgs := NewSystemPackageMap(
		mkpkg("solo", "1.0", StorePath{Name: "readline", Version: "8.0"}),
	)

	global := IsolateGlobalDeps(pkgs)

	assert.Contains(t, global, "readline")
	assert.Empty(t, pkgs["solo"].Deps)
}

func TestIsolateGlobalDepsEmpty(t *testing.T) {
	global := IsolateGlobalDeps(SystemPackageMap{})
	assert.Empty(t, global)
}
