package upgradeprompt

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
)

const memoryStoreSize = 10 * 1024 * 1024

// MemoryStore is an in process Store for development and single instance setups.
type MemoryStore struct {
	cache *freecache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: freecache.NewCache(memoryStoreSize),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, err := s.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(value), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	return s.cache.Set([]byte(key), []byte(value), int(DismissCooldown.Seconds()))
}
