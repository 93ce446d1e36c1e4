package adapters

import (
	"encoding/xml"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"resym/internal/ports"
)

// ManifestXMLAdapter extracts the package attribute from
// AndroidManifest.xml files. Parsed results are cached per path and
// revalidated against the file's modification time.
type ManifestXMLAdapter struct {
	mu    sync.Mutex
	cache map[string]manifestCacheEntry
}

func NewManifestXMLAdapter() *ManifestXMLAdapter {
	return &ManifestXMLAdapter{cache: map[string]manifestCacheEntry{}}
}

type manifestXML struct {
	XMLName xml.Name `xml:"manifest"`
	Package string   `xml:"package,attr"`
}

type manifestCacheEntry struct {
	modTime time.Time
	pkg     string
}

func (a *ManifestXMLAdapter) ExtractPackage(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read manifest").
			WithCause(err)
	}
	a.mu.Lock()
	if entry, ok := a.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		return entry.pkg, nil
	}
	a.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read manifest").
			WithCause(err)
	}
	var manifest manifestXML
	if err := xml.Unmarshal(content, &manifest); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("parse: malformed manifest " + path).
			WithCause(err)
	}
	pkg := strings.TrimSpace(manifest.Package)
	if pkg == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("parse: manifest " + path + " has no package attribute")
	}

	a.mu.Lock()
	a.cache[path] = manifestCacheEntry{modTime: info.ModTime(), pkg: pkg}
	a.mu.Unlock()
	return pkg, nil
}

var _ ports.ManifestPort = (*ManifestXMLAdapter)(nil)
