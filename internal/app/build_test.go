package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGraphFixture lays out a two-module project: app's layout references
// a string that only lib declares, so the build succeeds only when lib's
// symbol file is resolved through the dependency walk.
func writeGraphFixture(t *testing.T) (graphPath, outRoot string) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"lib/res/values/strings.xml": `<resources><string name="lib_title">Lib</string></resources>`,
		"app/res/layout/main.xml": `<View xmlns:android="http://schemas.android.com/apk/res/android" ` +
			`android:text="@string/lib_title"/>`,
		"graph.yaml": `
api_version: v1
modules:
  - name: lib
    res: lib/res
    package: com.example.lib
  - name: app
    res: app/res
    package: com.example.app
    deps: [lib]
`,
	})
	return filepath.Join(root, "graph.yaml"), filepath.Join(root, "out")
}

func TestBuildGraphResolvesAcrossModules(t *testing.T) {
	graphPath, outRoot := writeGraphFixture(t)
	svc := NewService()
	collector := NewPackageableCollector()

	result, err := svc.BuildGraph(t.Context(), BuildRequest{
		GraphPath: graphPath,
		OutRoot:   outRoot,
	}, collector)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Built)
	assert.Equal(t, 0, result.Cached)

	require.FileExists(t, filepath.Join(outRoot, "lib", SymbolFileName))
	require.FileExists(t, filepath.Join(outRoot, "app", SymbolFileName))
	require.FileExists(t, filepath.Join(outRoot, "app", PackageFileName))
	assert.Len(t, collector.ResourceDirectories(), 2)
}

func TestBuildGraphSecondRunHitsCache(t *testing.T) {
	graphPath, outRoot := writeGraphFixture(t)
	svc := NewService()

	_, err := svc.BuildGraph(t.Context(), BuildRequest{GraphPath: graphPath, OutRoot: outRoot},
		NewPackageableCollector())
	require.NoError(t, err)

	result, err := svc.BuildGraph(t.Context(), BuildRequest{GraphPath: graphPath, OutRoot: outRoot},
		NewPackageableCollector())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Built)
	assert.Equal(t, 2, result.Cached)
}

func TestBuildGraphRebuildsWhenInputChanges(t *testing.T) {
	graphPath, outRoot := writeGraphFixture(t)
	svc := NewService()

	_, err := svc.BuildGraph(t.Context(), BuildRequest{GraphPath: graphPath, OutRoot: outRoot},
		NewPackageableCollector())
	require.NoError(t, err)

	libStrings := filepath.Join(filepath.Dir(graphPath), "lib", "res", "values", "strings.xml")
	require.NoError(t, os.WriteFile(libStrings,
		[]byte(`<resources><string name="lib_title">Changed</string></resources>`), 0644))

	result, err := svc.BuildGraph(t.Context(), BuildRequest{GraphPath: graphPath, OutRoot: outRoot},
		NewPackageableCollector())
	require.NoError(t, err)
	// lib rebuilds. app stays cached: its key covers the dependency symbol
	// file's content, and a changed string value does not change lib's
	// symbol table.
	assert.Equal(t, 1, result.Built)
	assert.Equal(t, 1, result.Cached)
}

func TestBuildGraphExportTransitiveResolution(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"base/res/values/strings.xml": `<resources><string name="base_title">B</string></resources>`,
		"app/res/layout/main.xml": `<View xmlns:android="http://schemas.android.com/apk/res/android" ` +
			`android:text="@string/base_title"/>`,
		"graph.yaml": `
modules:
  - name: base
    res: base/res
    package: com.example.base
  - name: middle
    exported_deps: [base]
  - name: app
    res: app/res
    package: com.example.app
    deps: [middle]
`,
	})

	// app only reaches base through middle's re-exported edge.
	_, err := NewService().BuildGraph(t.Context(), BuildRequest{
		GraphPath: filepath.Join(root, "graph.yaml"),
		OutRoot:   filepath.Join(root, "out"),
	}, NewPackageableCollector())
	require.NoError(t, err)
}

func TestBuildGraphNonExportedDepIsInvisible(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"base/res/values/strings.xml":   `<resources><string name="base_title">B</string></resources>`,
		"middle/res/values/strings.xml": `<resources><string name="mid">M</string></resources>`,
		"app/res/layout/main.xml": `<View xmlns:android="http://schemas.android.com/apk/res/android" ` +
			`android:text="@string/base_title"/>`,
		"graph.yaml": `
modules:
  - name: base
    res: base/res
    package: com.example.base
  - name: middle
    res: middle/res
    package: com.example.middle
    deps: [base]
  - name: app
    res: app/res
    package: com.example.app
    deps: [middle]
`,
	})

	_, err := NewService().BuildGraph(t.Context(), BuildRequest{
		GraphPath: filepath.Join(root, "graph.yaml"),
		OutRoot:   filepath.Join(root, "out"),
	}, NewPackageableCollector())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string/base_title")
}

func TestBuildGraphConstructionErrorsFireBeforeSteps(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"bad/res/values/strings.xml": `<resources><string name="a">x</string></resources>`,
		"graph.yaml": `
modules:
  - name: bad
    res: bad/res
`,
	})
	outRoot := filepath.Join(root, "out")

	_, err := NewService().BuildGraph(t.Context(), BuildRequest{
		GraphPath: filepath.Join(root, "graph.yaml"),
		OutRoot:   outRoot,
	}, NewPackageableCollector())
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	// Fail-fast: no output directory was created for the bad rule.
	_, statErr := os.Stat(filepath.Join(outRoot, "bad"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTopologicalOrderRejectsCycles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"graph.yaml": `
modules:
  - name: a
    deps: [b]
  - name: b
    deps: [a]
`,
	})
	_, err := NewService().BuildGraph(t.Context(), BuildRequest{
		GraphPath: filepath.Join(root, "graph.yaml"),
		OutRoot:   filepath.Join(root, "out"),
	}, NewPackageableCollector())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuildGraphModuleFilter(t *testing.T) {
	graphPath, outRoot := writeGraphFixture(t)
	svc := NewService()

	result, err := svc.BuildGraph(t.Context(), BuildRequest{
		GraphPath: graphPath,
		OutRoot:   outRoot,
		Module:    "lib",
	}, NewPackageableCollector())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Built)

	require.FileExists(t, filepath.Join(outRoot, "lib", SymbolFileName))
	_, statErr := os.Stat(filepath.Join(outRoot, "app"))
	assert.True(t, os.IsNotExist(statErr))
}
