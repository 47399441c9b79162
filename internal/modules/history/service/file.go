package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// File история в JSON-массиве id. Файл переписывается целиком на каждое изменение.
type File struct {
	path string
	mu   sync.Mutex
}

const defaultPath = "data/processed_signals.json"

func NewFile(path string) *File {
	if path == "" {
		path = defaultPath
	}
	return &File{path: path}
}

func (f *File) Name() string { return "file" }

func (f *File) Path() string { return f.path }

func (f *File) LoadIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return nil, nil
	}

	var ids []string
	if err := sonic.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return ids, nil
}

func (f *File) Persist(_ context.Context, _ string, all []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.saveLocked(all)
}

// saveLocked tmp + fsync + rename: при падении посреди записи старый файл цел.
func (f *File) saveLocked(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	b, err := sonic.ConfigStd.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path) // атомарно
}

func (f *File) Close() error { return nil }
