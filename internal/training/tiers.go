// ABOUTME: Discovers training audio laid out as tier/category/file
// ABOUTME: Category names come from directory names inside each tier root
package training

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CategoryDir is one trainable category with its audio files.
type CategoryDir struct {
	Category string
	Tier     string
	Files    []string
}

// audioFile reports whether a name carries a decodable extension.
func audioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".mp3":
		return true
	}
	return false
}

// DiscoverCategories walks tier roots and collects one CategoryDir per
// category directory that contains audio. A category appearing under
// more than one root keeps the first root's tier name and merges its
// files. Results are sorted by category, files by path.
func DiscoverCategories(roots ...string) ([]CategoryDir, error) {
	byCategory := make(map[string]*CategoryDir)

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read training root %s: %w", root, err)
		}
		tier := filepath.Base(filepath.Clean(root))

		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			category := entry.Name()
			files, err := audioFilesIn(filepath.Join(root, category))
			if err != nil {
				return nil, err
			}
			if len(files) == 0 {
				continue
			}
			dir, ok := byCategory[category]
			if !ok {
				dir = &CategoryDir{Category: category, Tier: tier}
				byCategory[category] = dir
			}
			dir.Files = append(dir.Files, files...)
		}
	}

	out := make([]CategoryDir, 0, len(byCategory))
	for _, dir := range byCategory {
		sort.Strings(dir.Files)
		out = append(out, *dir)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func audioFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read category directory %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if audioFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
