package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localConfig struct {
	Dir       string `json:"dir"`
	PublicURL string `json:"public_url"`
}

type localStore struct {
	dir       string
	publicURL string
}

func init() {
	Register("local", createLocalStore)
}

func createLocalStore(args interface{}) (Store, error) {
	cfg := &localConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("local store dir is required")
	}
	return &localStore{dir: cfg.Dir, publicURL: cfg.PublicURL}, nil
}

func (s *localStore) Type() string {
	return "local"
}

func (s *localStore) URL(key, baseURL string) string {
	key = strings.TrimPrefix(key, "/")
	if s.publicURL != "" {
		return strings.TrimSuffix(s.publicURL, "/") + "/" + key
	}
	return strings.TrimSuffix(baseURL, "/") + "/api/v1/assets/" + key
}

func (s *localStore) Save(ctx context.Context, key string, r ReadSeekCloser, size int64) error {
	_ = ctx
	_ = size
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	if !validKey(key) {
		return fmt.Errorf("invalid asset key")
	}
	out, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	return err
}

func (s *localStore) Open(ctx context.Context, key string) (ReadSeekCloser, error) {
	_ = ctx
	if !validKey(key) {
		return nil, fmt.Errorf("invalid asset key")
	}
	return os.Open(filepath.Join(s.dir, key))
}

func validKey(key string) bool {
	return key != "" && !strings.Contains(key, "/") && !strings.Contains(key, "\\")
}
