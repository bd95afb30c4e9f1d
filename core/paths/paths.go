package paths

import (
	"path/filepath"
	"strings"
)

// OutputPath returns the companion file path for source: same directory,
// extension replaced by suffix. "api/user.ts" with ".type.ts" becomes
// "api/user.type.ts".
func OutputPath(source, suffix string) string {
	dir, file := filepath.Split(source)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dir, base+suffix)
}

// IsOutput reports whether path is itself a companion file.
func IsOutput(path, suffix string) bool {
	return suffix != "" && strings.HasSuffix(filepath.Base(path), suffix)
}

// HasExtension reports whether path ends in one of exts.
func HasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// IsSource reports whether path is a file the generator should scan.
func IsSource(path, suffix string, exts []string) bool {
	return HasExtension(path, exts) && !IsOutput(path, suffix)
}
