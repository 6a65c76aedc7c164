package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoVault is returned when no vault root is configured.
	ErrNoVault = errors.New("vault root is not configured")
	// ErrTraversal is returned when a note path escapes the vault root.
	ErrTraversal = errors.New("path traversal is not allowed")
	// ErrNoteNotFound is returned when a note does not exist.
	ErrNoteNotFound = errors.New("note not found")
)

// OpenNote reads one note by its vault-relative path, truncated to maxChars
// runes with an ellipsis marker. Paths that resolve outside the vault root
// are rejected before any filesystem access.
func (ix *Index) OpenNote(relPath string, maxChars int) (string, error) {
	if ix.root == "" {
		return "", ErrNoVault
	}

	target, err := filepath.Abs(filepath.Join(ix.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("resolve note path: %w", err)
	}
	if !strings.HasPrefix(target, ix.root+string(os.PathSeparator)) {
		return "", ErrTraversal
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoteNotFound, relPath)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read note %s: %w", relPath, err)
	}

	content := string(data)
	if runes := []rune(content); len(runes) > maxChars {
		return string(runes[:maxChars]) + "\n...\n", nil
	}
	return content, nil
}
