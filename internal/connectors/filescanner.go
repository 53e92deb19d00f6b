package connectors

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

type DiscoveryOptions struct {
	Recursive bool
	MinSize   int64
	MaxSize   int64
}

// DiscoverFiles walks root and returns the files whose extension is one of
// exts, sorted by path.
func DiscoverFiles(root string, exts []string, options DiscoveryOptions) ([]FileMeta, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	if len(exts) == 0 {
		return nil, fmt.Errorf("file extensions cannot be empty")
	}
	wanted := make([]string, len(exts))
	for i, ext := range exts {
		wanted[i] = "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !slices.Contains(wanted, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}

		if options.MinSize > 0 && info.Size() < options.MinSize {
			return nil
		}
		if options.MaxSize > 0 && info.Size() > options.MaxSize {
			return nil
		}

		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})

		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}

	return files, nil
}
