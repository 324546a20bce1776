package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/samber/lo"
)

// List returns the regular files directly inside dir whose extension matches
// one of exts, sorted by path. An empty exts accepts every file. A missing or
// unreadable directory yields an empty list.
func List(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		events.Script.WatchError(dir, err)
		return []string{}
	}
	wanted := normalizeExtensions(exts)
	files := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if entry.IsDir() {
			return "", false
		}
		if len(wanted) > 0 && !lo.Contains(wanted, strings.ToLower(filepath.Ext(entry.Name()))) {
			return "", false
		}
		return filepath.Join(dir, entry.Name()), true
	})
	sort.Strings(files)
	return files
}

func normalizeExtensions(exts []string) []string {
	out := lo.FilterMap(exts, func(ext string, _ int) (string, bool) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return "", false
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext, true
	})
	return lo.Uniq(out)
}
