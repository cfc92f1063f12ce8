// Package discovery collects the connection files and project files a run
// works on. Folder order is preserved and files inside a folder are returned
// in lexical order, which fixes the order the locator scans candidates in.
package discovery

import (
	"context"

	"github.com/vk/aprxrelink/internal/ctxlog"
	"github.com/vk/aprxrelink/internal/fsutil"
)

// Connections lists the connection files directly inside each folder. Folders
// that are not directories are logged and skipped.
func Connections(ctx context.Context, folders []string, extension string) []string {
	var paths []string
	for _, folder := range folders {
		logger := ctxlog.FromContext(ctxlog.With(ctx, "folder", folder))
		if !fsutil.IsDir(folder) {
			logger.Warn("Invalid connection folder path.")
			continue
		}
		files, err := fsutil.ListFilesByExtension(folder, extension)
		if err != nil {
			logger.Warn("Failed to list connection folder.", "error", err)
			continue
		}
		logger.Debug("Scanned connection folder.", "count", len(files))
		paths = append(paths, files...)
	}
	return paths
}

// Projects walks each folder recursively for project files. Folders that are
// not directories are logged and skipped.
func Projects(ctx context.Context, folders []string, extension string) []string {
	var paths []string
	for _, folder := range folders {
		logger := ctxlog.FromContext(ctxlog.With(ctx, "folder", folder))
		if !fsutil.IsDir(folder) {
			logger.Warn("Invalid project folder path.")
			continue
		}
		files, err := fsutil.FindFilesByExtension(folder, extension)
		if err != nil {
			logger.Warn("Failed to walk project folder.", "error", err)
			continue
		}
		logger.Debug("Scanned project folder.", "count", len(files))
		paths = append(paths, files...)
	}
	return paths
}
