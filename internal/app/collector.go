package app

import "sync"

// PackageableCollector accumulates what each resource rule contributes to
// downstream packaging: resource directories (split into normal and
// string-whitelisted buckets), assets directories, manifest pieces and
// explicit resource packages, each keyed by the contributing rule's name.
type PackageableCollector struct {
	mu sync.Mutex

	resourceDirs            map[string]string
	whitelistedResourceDirs map[string]string
	assetsDirs              map[string]string
	manifestPieces          map[string]string
	resourcePackages        map[string]string
}

func NewPackageableCollector() *PackageableCollector {
	return &PackageableCollector{
		resourceDirs:            map[string]string{},
		whitelistedResourceDirs: map[string]string{},
		assetsDirs:              map[string]string{},
		manifestPieces:          map[string]string{},
		resourcePackages:        map[string]string{},
	}
}

func (c *PackageableCollector) AddResourceDirectory(rule, dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resourceDirs[rule] = dir
}

func (c *PackageableCollector) AddStringWhitelistedResourceDirectory(rule, dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.whitelistedResourceDirs[rule] = dir
}

func (c *PackageableCollector) AddAssetsDirectory(rule, dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assetsDirs[rule] = dir
}

func (c *PackageableCollector) AddManifestPiece(rule, manifest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifestPieces[rule] = manifest
}

func (c *PackageableCollector) AddResourcePackage(rule, pkg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resourcePackages[rule] = pkg
}

func (c *PackageableCollector) ResourceDirectories() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.resourceDirs)
}

func (c *PackageableCollector) StringWhitelistedResourceDirectories() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.whitelistedResourceDirs)
}

func (c *PackageableCollector) AssetsDirectories() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.assetsDirs)
}

func (c *PackageableCollector) ManifestPieces() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.manifestPieces)
}

func (c *PackageableCollector) ResourcePackages() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.resourcePackages)
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
