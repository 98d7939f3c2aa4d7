package store

// SystemPackage is a top-level, user-visible package together with its
// deduplicated dependency closure.
type SystemPackage struct {
	Path StorePath `msgpack:"path"`
	Deps StoreSet  `msgpack:"deps"`
}

// SystemPackageMap maps a package's identity key to the package.
type SystemPackageMap map[Name]*SystemPackage

// NewSystemPackage builds a package from its own store path and the raw
// dependency closure supplied by a collaborator. The closure is deduplicated
// through Unique and the package itself is excluded from its dependencies;
// closure listings conventionally include it.
func NewSystemPackage(path StorePath, closure []StorePath) *SystemPackage {
	deps := Unique(closure)
	delete(deps, path.Key())

	return &SystemPackage{
		Path: path,
		Deps: deps,
	}
}

// NewSystemPackageMap keys the given packages by identity.
func NewSystemPackageMap(pkgs ...*SystemPackage) SystemPackageMap {
	m := make(SystemPackageMap, len(pkgs))
	for _, pkg := range pkgs {
		m[pkg.Path.Key()] = pkg
	}

	return m
}
