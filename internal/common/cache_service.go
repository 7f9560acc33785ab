package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the go-cache backed SessionCache. Values are stored by
// reference, so it can hold live objects such as form sessions.
type CacheService struct {
	cache *cache.Cache
}

var _ SessionCache = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.cache.Set(key, value, ttl)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}

func (cs *CacheService) OnEvicted(fn func(key string, value interface{})) {
	cs.cache.OnEvicted(fn)
}

// Close drops every entry without firing eviction callbacks.
func (cs *CacheService) Close() error {
	cs.cache.Flush()
	return nil
}
