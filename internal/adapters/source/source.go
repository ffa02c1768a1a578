// Package source discovers and reads chat export files. The directory
// source walks one input directory for .json files in sorted path order,
// so repeated runs over the same directory visit files identically.
package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arianv/chatmend/pkg/logger"
)

// Source supplies export files to the pipeline. List is restartable:
// calling it again re-discovers the current directory contents.
type Source interface {
	// List returns the paths of all export files in deterministic order.
	List(ctx context.Context) ([]string, error)
	// Read returns the raw bytes of one export file.
	Read(ctx context.Context, path string) ([]byte, error)
}

// Dir is a Source over one directory tree.
type Dir struct {
	root string
	log  logger.Logger
}

// NewDir creates a directory source rooted at root.
func NewDir(root string, opts ...Option) *Dir {
	d := &Dir{
		root: root,
		log:  logger.Get().Named("source"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// List walks the root for .json files and returns their paths sorted.
func (d *Dir) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(paths)

	d.log.Debug(ctx, "discovered export files",
		logger.String("root", d.root),
		logger.Int("count", len(paths)),
	)
	return paths, nil
}

// Read loads one export file fully into memory. Exports are bounded by the
// messaging platform's per-file split, so streaming is not needed here.
func (d *Dir) Read(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
