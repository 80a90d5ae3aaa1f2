package mpsync

import (
	"os"
	"path/filepath"
	"sync"
)

// Storage keys for the client's persisted state.
const (
	pendingOpsKey    = "pendingEntitiesOperations"
	cachedBandsKey   = "cachedEntities"
	kvFileExtension  = ".json"
	kvFilePermission = 0644
)

// KV is the small persistence surface the queue and cache sit on. Reads of
// missing keys return ok == false; callers treat unparseable values as
// missing, so corruption never propagates.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileKV persists each key as a file under dir, surviving restarts the way
// browser local storage survives reloads.
type FileKV struct {
	mu  sync.Mutex
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &FileKV{dir: dir}, nil
}

func (s *FileKV) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	return b, true
}

func (s *FileKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.path(key), value, kvFilePermission)
}

func (s *FileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (s *FileKV) path(key string) string {
	return filepath.Join(s.dir, key+kvFileExtension)
}

// MemKV is an in-memory KV used by tests.
type MemKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{values: make(map[string][]byte)}
}

func (s *MemKV) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.values[key]
	return b, ok
}

func (s *MemKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
