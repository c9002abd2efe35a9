// ABOUTME: Discovers image files that can be uploaded as a profile picture
// ABOUTME: Looks in MYTHIC_PICTURES_DIR or the user's Pictures directory

package pictures

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
)

// Picture represents a discovered image file
type Picture struct {
	Name string // Filename (e.g., "avatar.png")
	Path string // Full path to the file
	Size int64
}

// Discover finds all accepted image files in the given directory, sorted by name
func Discover(dir string) ([]Picture, error) {
	if dir == "" {
		return []Picture{}, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []Picture{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []Picture{}
	for _, entry := range entries {
		if entry.IsDir() || !account.IsPicture(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, Picture{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FindPicturesDir locates the directory to browse
// Checks in order:
// 1. MYTHIC_PICTURES_DIR environment variable
// 2. Pictures/ under the given home directory
func FindPicturesDir(home string) string {
	if envPath := os.Getenv("MYTHIC_PICTURES_DIR"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	if home == "" {
		return ""
	}
	dir := filepath.Join(home, "Pictures")
	if _, err := os.Stat(dir); err == nil {
		return dir
	}

	return ""
}
