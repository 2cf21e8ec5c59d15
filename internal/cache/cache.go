/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache: key is missing")

// Cache stores JSON encoded values under string keys.
type Cache interface {
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the value stored under key into data. A missing key
	// yields ErrCacheMiss and leaves data untouched.
	Get(ctx context.Context, key string, data interface{}) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache on top of go-redis/cache, optionally fronted by
// an in-process TinyLFU cache.
type RedisCache struct {
	cache *cache.Cache
}

// Options configure NewRedisCache. A zero LocalSize disables the local cache,
// which is what mutable data shared between instances needs.
type Options struct {
	Prefix    string
	LocalSize int
	LocalTTL  time.Duration
}

type prefixedCache struct {
	prefix string
	*RedisCache
}

// NewRedisCache builds a cache over an existing redis client.
func NewRedisCache(client redis.UniversalClient, opts Options) Cache {
	cacheOpts := &cache.Options{Redis: client}
	if opts.LocalSize > 0 {
		ttl := opts.LocalTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		cacheOpts.LocalCache = cache.NewTinyLFU(opts.LocalSize, ttl)
	}

	rc := &RedisCache{cache: cache.New(cacheOpts)}
	if opts.Prefix == "" {
		return rc
	}
	return &prefixedCache{prefix: opts.Prefix, RedisCache: rc}
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: raw,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	var raw []byte
	err := r.cache.Get(ctx, key, &raw)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, data)
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	return r.cache.Exists(ctx, key), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (p *prefixedCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return p.RedisCache.Set(ctx, p.prefix+key, data, ttl)
}

func (p *prefixedCache) Get(ctx context.Context, key string, data interface{}) error {
	return p.RedisCache.Get(ctx, p.prefix+key, data)
}

func (p *prefixedCache) Exists(ctx context.Context, key string) (bool, error) {
	return p.RedisCache.Exists(ctx, p.prefix+key)
}

func (p *prefixedCache) Delete(ctx context.Context, key string) error {
	return p.RedisCache.Delete(ctx, p.prefix+key)
}
