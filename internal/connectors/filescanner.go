package connectors

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SampleFile describes one discovered sample CSV.
type SampleFile struct {
	Path     string
	Size     int64
	Modified time.Time
}

type ScanOptions struct {
	Recursive bool
	MinSize   int64
	MaxSize   int64

	// SkipSuffix filters out files whose base name (before the .csv
	// extension) ends with this suffix. Used to keep previously written
	// augmented outputs out of a fresh compute run.
	SkipSuffix string
}

// DiscoverSamples walks root for sample CSVs. Results are sorted by path so
// a directory run processes files in a stable order.
func DiscoverSamples(root string, options ScanOptions) ([]SampleFile, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var files []SampleFile
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

		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		if options.SkipSuffix != "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if strings.HasSuffix(base, options.SkipSuffix) {
				return nil
			}
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

		files = append(files, SampleFile{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no sample CSV files found in %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
