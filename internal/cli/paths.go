package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// ensureDir creates a directory and its parents if missing.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// writeFile writes data to path with standard permissions.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped so multiple formats can
// share the base.
func basePath(output, input string, validFormats map[string]bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
