package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureSubDir creates base/name if it does not exist yet and returns the
// joined path.
func EnsureSubDir(base, name string) (string, error) {
	dir := filepath.Join(base, name)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
