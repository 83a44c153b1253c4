package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/todo-service/internal/model"
)

// JSON snapshot files for export/import. Single file, human-readable,
// portable. This is a client-side copy; the server keeps nothing on disk.

// DefaultFileName is used when no path is given.
const DefaultFileName = "todos.json"

func resolve(path string) (string, error) {
	if path == "" {
		path = DefaultFileName
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, path), nil
}

// Load reads items from path. A missing file is an error wrapping
// os.ErrNotExist.
func Load(path string) ([]model.TodoItem, error) {
	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.TodoItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", p, err)
	}
	if items == nil {
		items = []model.TodoItem{}
	}
	return items, nil
}

// Save writes items to path with 2-space indentation and returns the
// absolute path written.
func Save(path string, items []model.TodoItem) (string, error) {
	p, err := resolve(path)
	if err != nil {
		return "", err
	}
	if items == nil {
		items = []model.TodoItem{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return p, nil
}
