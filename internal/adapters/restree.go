package adapters

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"resym/internal/ports"
)

// ResTreeAdapter walks resource trees on the local filesystem.
type ResTreeAdapter struct{}

func NewResTreeAdapter() ResTreeAdapter {
	return ResTreeAdapter{}
}

func (a ResTreeAdapter) ScanTree(root string) (map[string]string, error) {
	if root == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resource tree root is empty")
	}
	pairs := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		pairs[filepath.ToSlash(rel)] = abs
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to scan resource tree " + root).
			WithCause(err)
	}
	return pairs, nil
}

var _ ports.ResTreePort = ResTreeAdapter{}
