package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"resym/internal/core"
	"resym/internal/ports"
	"resym/internal/shared"
	"resym/internal/types"
)

// Symbol and package file names within a rule's output directory.
const (
	SymbolFileName  = "R.txt"
	PackageFileName = "package.txt"
	cacheKeyName    = ".cachekey"
)

// RuleConfig declares one resource rule's inputs. Everything here is
// cache-key relevant except Name and the dependency edge lists (the edges
// enter the key through the symbol files they resolve to).
type RuleConfig struct {
	Name string

	Res          string
	ResOverrides map[string]string

	Assets         string
	AssetOverrides map[string]string

	Manifest string

	// Package is the explicit package argument; when empty the package is
	// extracted from Manifest at build time.
	Package string

	Deps         []string
	ExportedDeps []string

	WhitelistedStrings bool
	VerifyXMLAttrs     bool

	// SymbolFilesFromDeps lazily resolves the sorted transitive set of
	// dependency symbol-file paths. Evaluated only on cache miss, after
	// every dependency's outputs are materialized.
	SymbolFilesFromDeps func() []string
}

// ResourceRule compiles one module's resource tree into a symbol table
// file and a package file, with cacheable inputs and disk-recoverable
// package state.
type ResourceRule struct {
	cfg    RuleConfig
	outDir string

	manifest ports.ManifestPort
	resTree  ports.ResTreePort
	symbols  ports.SymbolFilePort
	engine   core.Engine

	state    types.RuleState
	pkgState types.PackageState
	pkg      string
}

// NewResourceRule validates and constructs a rule. A resource tree without
// at least one of an explicit package or a manifest is a configuration
// error raised here, before any build step can run.
func NewResourceRule(cfg RuleConfig, outDir string, svc Service) (*ResourceRule, error) {
	if cfg.Name == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resource rule requires a name")
	}
	if cfg.Res != "" && cfg.Package == "" && cfg.Manifest == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf(
				"when 'res' is specified for resource rule %s, at least one of 'package' or 'manifest' must be specified",
				cfg.Name))
	}
	rule := &ResourceRule{
		cfg:      cfg,
		outDir:   outDir,
		manifest: svc.Manifest,
		resTree:  svc.ResTree,
		symbols:  svc.Symbols,
		engine:   svc.Engine,
		state:    types.RuleStateUnbuilt,
		pkgState: types.PackageUnset,
	}
	if cfg.Package != "" {
		rule.pkg = cfg.Package
		rule.pkgState = types.PackageDerived
	}
	return rule, nil
}

func (r *ResourceRule) Name() string { return r.cfg.Name }

func (r *ResourceRule) State() types.RuleState { return r.state }

// Res returns the rule's resource tree root, empty when it has none.
func (r *ResourceRule) Res() string { return r.cfg.Res }

func (r *ResourceRule) SymbolFilePath() string {
	return filepath.Join(r.outDir, SymbolFileName)
}

func (r *ResourceRule) PackageFilePath() string {
	return filepath.Join(r.outDir, PackageFileName)
}

func (r *ResourceRule) cacheKeyPath() string {
	return filepath.Join(r.outDir, cacheKeyName)
}

// Package returns the rule's effective package. It fails loudly when the
// value has been neither derived this build nor recovered from disk.
func (r *ResourceRule) Package() (string, error) {
	if r.pkgState == types.PackageUnset {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("package of rule " + r.cfg.Name + " was requested before it was made available")
	}
	return r.pkg, nil
}

// CacheKey digests every declared input: resource and asset tree contents,
// override files, the manifest, both flags, the package argument, and the
// contents of every transitive dependency symbol file. Identical inputs
// always produce the same key.
func (r *ResourceRule) CacheKey() (string, error) {
	digest := sha256.New()
	writeField := func(field, value string) {
		fmt.Fprintf(digest, "%s=%s\n", field, value)
	}
	writeField("package", r.cfg.Package)
	writeField("whitelisted_strings", fmt.Sprintf("%t", r.cfg.WhitelistedStrings))
	writeField("verify_xml_attrs", fmt.Sprintf("%t", r.cfg.VerifyXMLAttrs))

	if err := r.digestTree(digest, "res", r.cfg.Res, r.cfg.ResOverrides); err != nil {
		return "", err
	}
	if err := r.digestTree(digest, "assets", r.cfg.Assets, r.cfg.AssetOverrides); err != nil {
		return "", err
	}
	if r.cfg.Manifest != "" {
		if err := digestFile(digest, "manifest", r.cfg.Manifest); err != nil {
			return "", err
		}
	}
	if r.cfg.Res != "" && r.cfg.SymbolFilesFromDeps != nil {
		for _, path := range r.cfg.SymbolFilesFromDeps() {
			if err := digestFile(digest, "dep_symbols:"+path, path); err != nil {
				return "", err
			}
		}
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

func (r *ResourceRule) digestTree(w io.Writer, label, root string, overrides map[string]string) error {
	if root == "" && len(overrides) == 0 {
		return nil
	}
	pairs := map[string]string{}
	if root != "" {
		scanned, err := r.resTree.ScanTree(root)
		if err != nil {
			return err
		}
		pairs = scanned
	}
	for logical, override := range overrides {
		pairs[logical] = override
	}
	logicals := make([]string, 0, len(pairs))
	for logical := range pairs {
		logicals = append(logicals, logical)
	}
	sort.Strings(logicals)
	for _, logical := range logicals {
		if err := digestFile(w, label+":"+logical, pairs[logical]); err != nil {
			return err
		}
	}
	return nil
}

func digestFile(w io.Writer, label, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read cache input " + path).
			WithCause(err)
	}
	sum := sha256.Sum256(content)
	fmt.Fprintf(w, "%s=%s\n", label, hex.EncodeToString(sum[:]))
	return nil
}

// Build runs the rule's step sequence: clean output directory, package
// resolution, dependency symbol resolution, compilation, output
// publication. Steps execute strictly sequentially.
func (r *ResourceRule) Build(ctx context.Context) error {
	if r.state != types.RuleStateUnbuilt {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("rule %s built twice (state %s)", r.cfg.Name, r.state))
	}
	assert.NotEmpty(ctx, r.outDir, "rule output directory must be set")
	r.state = types.RuleStateBuilding

	if err := r.runSteps(ctx); err != nil {
		r.state = types.RuleStateFailed
		return err
	}
	r.state = types.RuleStateBuilt
	return nil
}

func (r *ResourceRule) runSteps(ctx context.Context) error {
	logger := log.Ctx(ctx).With().Str("rule", r.cfg.Name).Logger()

	if err := os.RemoveAll(r.outDir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to clean output directory").
			WithCause(err)
	}
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}

	if r.cfg.Res == "" {
		if err := r.symbols.Write(r.SymbolFilePath(), types.NewSymbolTable()); err != nil {
			return err
		}
		if err := r.writePackageFile(r.cfg.Package); err != nil {
			return err
		}
		r.pkg = r.cfg.Package
		r.pkgState = types.PackageDerived
		logger.Debug().Msg("no resource tree, wrote empty outputs")
		return nil
	}

	pkg := r.cfg.Package
	if pkg == "" {
		// Constructor guarantees a manifest exists on this path.
		extracted, err := r.manifest.ExtractPackage(r.cfg.Manifest)
		if err != nil {
			return err
		}
		pkg = extracted
	}
	if err := r.writePackageFile(pkg); err != nil {
		return err
	}
	r.pkg = pkg
	r.pkgState = types.PackageDerived

	var depSymbolPaths []string
	if r.cfg.SymbolFilesFromDeps != nil {
		depSymbolPaths = r.cfg.SymbolFilesFromDeps()
	}

	resourcePaths, err := r.resTree.ScanTree(r.cfg.Res)
	if err != nil {
		return err
	}
	for logical, override := range r.cfg.ResOverrides {
		resourcePaths[logical] = override
	}

	engine := r.engine
	engine.Parser.VerifyXMLAttrs = r.cfg.VerifyXMLAttrs
	table, err := engine.Compile(ctx, resourcePaths, depSymbolPaths)
	if err != nil {
		return err
	}
	if err := r.symbols.Write(r.SymbolFilePath(), table); err != nil {
		return err
	}

	logger.Info().
		Str("package", pkg).
		Int("symbols", table.Len()).
		Msg("resource rule built")
	return nil
}

func (r *ResourceRule) writePackageFile(pkg string) error {
	if err := os.WriteFile(r.PackageFilePath(), []byte(pkg+"\n"), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write package file").
			WithCause(err)
	}
	return nil
}

// InitializeFromDisk recovers the rule's package state from a prior
// build's persisted outputs without re-running any step. A persisted value
// disagreeing with a declared package argument is an internal-consistency
// fault, never silently resolved.
func (r *ResourceRule) InitializeFromDisk() error {
	persisted, err := shared.ReadFirstLine(r.PackageFilePath())
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read persisted package file for rule " + r.cfg.Name).
			WithCause(err)
	}
	if r.cfg.Package != "" && persisted != r.cfg.Package {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("%s contains incorrect package (%s != %s)",
				r.PackageFilePath(), persisted, r.cfg.Package))
	}
	r.pkg = persisted
	r.pkgState = types.PackagePersisted
	r.state = types.RuleStateBuilt
	return nil
}

// AddToCollector contributes the rule's packageable pieces, keyed by its
// name, to the shared downstream collector.
func (r *ResourceRule) AddToCollector(collector *PackageableCollector) {
	if r.cfg.Res != "" {
		if r.cfg.WhitelistedStrings {
			collector.AddStringWhitelistedResourceDirectory(r.cfg.Name, r.cfg.Res)
		} else {
			collector.AddResourceDirectory(r.cfg.Name, r.cfg.Res)
		}
	}
	if r.cfg.Assets != "" {
		collector.AddAssetsDirectory(r.cfg.Name, r.cfg.Assets)
	}
	if r.cfg.Manifest != "" {
		collector.AddManifestPiece(r.cfg.Name, r.cfg.Manifest)
	}
	if r.cfg.Package != "" {
		collector.AddResourcePackage(r.cfg.Name, r.cfg.Package)
	}
}
