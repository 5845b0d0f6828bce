package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thread-safe key-value store for fetched catalog data: filter
// options, sampled pages, anything cached-once with a TTL. When a Redis
// client is provided, string-keyed JSON-encodable values are written through
// to it so a restarted widget host warms up from the shared cache; a nil
// client means in-memory only, same as the widget running without Redis.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to a set of keys
	tagIndex sync.Map // map[string]*sync.Map
	redis    *redis.Client
	prefix   string
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt int64 // Unix timestamp in nanoseconds; 0 means no expiration
}

// New creates an in-memory cache.
func New() *Cache {
	return &Cache{}
}

// NewWithRedis creates a cache backed by rdb (may be nil). prefix namespaces
// the widget's keys in the shared Redis instance.
func NewWithRedis(rdb *redis.Client, prefix string) *Cache {
	return &Cache{redis: rdb, prefix: prefix}
}

// Set stores a value for a key with an optional TTL and optional tags. A zero
// ttl means the value does not expire.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.tagKey(key, tags)
	}
	if c.redis != nil {
		if data, err := json.Marshal(value); err == nil {
			// Best effort; a miss on restart is just a refetch.
			c.redis.Set(context.Background(), c.prefix+key, data, ttl)
		}
	}
}

// Get retrieves a value for a key. Returns (value, true) if found and not
// expired, (nil, false) otherwise. Redis is not consulted here; use GetJSON
// for values that round-trip through it.
func (c *Cache) Get(key string) (interface{}, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && time.Now().UnixNano() > item.ExpiresAt {
		c.m.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// GetJSON looks up key locally and then in Redis, decoding into out on a
// Redis hit. Returns false when neither layer has the key.
func (c *Cache) GetJSON(key string, out interface{}) bool {
	if v, ok := c.Get(key); ok {
		if data, err := json.Marshal(v); err == nil {
			return json.Unmarshal(data, out) == nil
		}
	}
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(context.Background(), c.prefix+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// Delete removes a key from the cache (and the Redis layer when configured).
func (c *Cache) Delete(key string) {
	c.m.Delete(key)
	if c.redis != nil {
		c.redis.Del(context.Background(), c.prefix+key)
	}
}

func (c *Cache) tagKey(key string, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		km := val.(*sync.Map)
		km.Store(key, struct{}{})
	}
}

// KeysByTag returns all keys assigned to a tag.
func (c *Cache) KeysByTag(tag string) []string {
	var keys []string
	if val, ok := c.tagIndex.Load(tag); ok {
		km := val.(*sync.Map)
		km.Range(func(key, _ interface{}) bool {
			keys = append(keys, key.(string))
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all cache entries assigned to a tag. Used by the facet
// refresh job to drop the cached-once filter options.
func (c *Cache) DeleteByTag(tag string) {
	if val, ok := c.tagIndex.Load(tag); ok {
		km := val.(*sync.Map)
		km.Range(func(key, _ interface{}) bool {
			c.Delete(key.(string))
			km.Delete(key)
			return true
		})
		c.tagIndex.Delete(tag)
	}
}
