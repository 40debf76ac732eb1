package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/codelore/internal/chunker"
)

// codeExtensions is the allowlist of recognized code file extensions.
// Images, static assets, and templates are excluded.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".java": true, ".cpp": true,
	".c": true, ".cs": true, ".go": true, ".rb": true, ".php": true,
	".rs": true, ".scala": true, ".kt": true, ".swift": true, ".m": true,
	".h": true, ".sh": true, ".bat": true, ".pl": true, ".sql": true,
}

// Walker discovers and loads code files under a root directory.
type Walker struct {
	root   string
	logger *zap.Logger
}

// NewWalker creates a Walker rooted at root.
func NewWalker(root string, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{root: root, logger: logger}
}

// Read walks the tree and returns one document per recognized code
// file, with file IDs relative to the root. Unreadable files are
// logged and skipped; an empty tree is valid and yields no documents.
func (w *Walker) Read() ([]chunker.Document, error) {
	var docs []chunker.Document

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != w.root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if !codeExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			w.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, chunker.Document{
			FileID:  filepath.ToSlash(rel),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.root, err)
	}

	return docs, nil
}

// ReadReadme loads the README.md at the root for the project-summary
// step. A missing readme is not an error; it returns "".
func (w *Walker) ReadReadme() string {
	for _, name := range []string{"README.md", "README.MD", "readme.md", "README"} {
		content, err := os.ReadFile(filepath.Join(w.root, name))
		if err == nil {
			return string(content)
		}
	}
	return ""
}
