package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func (s *LocalStorage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Info(err.Error())
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *LocalStorage) PublicURL(key string) string {
	return "/uploads/" + strings.TrimLeft(key, "/")
}

func (s *LocalStorage) Name() string { return "local" }
