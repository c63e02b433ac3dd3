package bearer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/kochabx/apiclient/errors"
)

// Store 凭证存储接口
//
// Get 在键不存在时返回 ErrNotFound。实现必须是并发安全的。
type Store interface {
	// Get 读取键对应的值
	Get(ctx context.Context, key string) (string, error)
}

// WritableStore 可写的凭证存储
type WritableStore interface {
	Store

	// Set 写入键值
	Set(ctx context.Context, key, value string) error

	// Delete 删除键，键不存在时不返回错误
	Delete(ctx context.Context, key string) error
}

// MemoryStore 进程内存储
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ WritableStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStore 以 JSON 对象持久化到单个文件的存储
//
// 每次 Get 都重新读取文件，其他进程写入的值立即可见。
// 写入先落到临时文件再 rename，读者不会看到写了一半的文件。
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ WritableStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 返回存储文件路径
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.save(data)
}

// load 读取文件内容，文件不存在视为空存储
func (s *FileStore) load() (map[string]string, error) {
	data := make(map[string]string)

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "read token file %s", s.path)
	}
	if len(b) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "decode token file %s", s.path)
	}
	return data, nil
}

func (s *FileStore) save(data map[string]string) error {
	b, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, errors.UnknownCode, "encode token file")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "create token dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, errors.UnknownCode, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.UnknownCode, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "close temp file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, errors.UnknownCode, "replace token file %s", s.path)
	}
	return nil
}
