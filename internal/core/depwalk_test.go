package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitiveSymbolFilesFollowsExportedEdges(t *testing.T) {
	nodes := map[string]DepNode{
		// lib re-exports base; base's symbols must be visible to anything
		// depending on lib.
		"lib":  {ExportedDeps: []string{"base"}, SymbolFile: "/out/lib/R.txt"},
		"base": {SymbolFile: "/out/base/R.txt"},
		// helper depends on base without exporting it.
		"helper": {Deps: []string{"base"}, SymbolFile: "/out/helper/R.txt"},
	}

	got := TransitiveSymbolFiles([]string{"lib"}, nodes)
	assert.Equal(t, []string{"/out/base/R.txt", "/out/lib/R.txt"}, got)

	// Non-exported dependencies of a dependency stay invisible.
	got = TransitiveSymbolFiles([]string{"helper"}, nodes)
	assert.Equal(t, []string{"/out/helper/R.txt"}, got)
}

func TestTransitiveSymbolFilesDiamond(t *testing.T) {
	nodes := map[string]DepNode{
		"left":  {ExportedDeps: []string{"shared"}, SymbolFile: "/out/left/R.txt"},
		"right": {ExportedDeps: []string{"shared"}, SymbolFile: "/out/right/R.txt"},
		"shared": {
			SymbolFile: "/out/shared/R.txt",
		},
	}
	got := TransitiveSymbolFiles([]string{"left", "right"}, nodes)
	assert.Equal(t, []string{"/out/left/R.txt", "/out/right/R.txt", "/out/shared/R.txt"}, got)
}

func TestTransitiveSymbolFilesSkipsNonResourceRules(t *testing.T) {
	nodes := map[string]DepNode{
		"code_only": {ExportedDeps: []string{"res_lib"}},
		"res_lib":   {SymbolFile: "/out/res_lib/R.txt"},
	}
	got := TransitiveSymbolFiles([]string{"code_only"}, nodes)
	assert.Equal(t, []string{"/out/res_lib/R.txt"}, got)
}

func TestTransitiveSymbolFilesEmpty(t *testing.T) {
	assert.Empty(t, TransitiveSymbolFiles(nil, map[string]DepNode{}))
}
