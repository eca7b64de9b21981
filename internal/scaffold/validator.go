package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CheckExisting returns an error naming the files Initialize would
// overwrite in dir, or nil if there are none
func CheckExisting(dir string) error {
	var existing []string
	for _, name := range Created {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			existing = append(existing, name)
		}
	}

	if len(existing) == 0 {
		return nil
	}
	return &ExistingFilesError{Files: existing}
}

// ExistingFilesError reports files that init refused to overwrite.
type ExistingFilesError struct {
	Files []string
}

func (e *ExistingFilesError) Error() string {
	return fmt.Sprintf("already initialized: found %s", strings.Join(e.Files, ", "))
}
