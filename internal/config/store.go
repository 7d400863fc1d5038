package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a persistent string key-value map.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// BatchStore writes several keys in one operation.
type BatchStore interface {
	Store
	SetAll(values map[string]string) error
}

// ListStore reads every stored key in one operation.
type ListStore interface {
	Store
	All() (map[string]string, error)
}

type MemStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemStore() *MemStore { return &MemStore{m: map[string]string{}} }

func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// Snapshot copies the current contents.
func (s *MemStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}

// FileStore keeps settings in a flat YAML map, rewritten on every change.
type FileStore struct {
	mu   sync.Mutex
	path string
	m    map[string]string
}

func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, m: map[string]string{}}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(b, &s.m); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.m == nil {
		s.m = map[string]string{}
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	return s.SetAll(map[string]string{key: value})
}

func (s *FileStore) SetAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.m[k] = v
	}
	return s.flush()
}

func (s *FileStore) flush() error {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	node := yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.m[k]},
		)
	}
	b, err := yaml.Marshal(&node)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return os.Rename(tmp, s.path)
}
