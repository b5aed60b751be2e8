// Copyright (c) 2026 Manabi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/manabi/internal/platform/constants"
	"github.com/taibuivan/manabi/internal/validation"
)

// ValidationCache stores merged validation reports keyed by document digest.
//
// # Why cache?
//
// Validation of an unchanged document is deterministic (modulo error IDs),
// and the remote schema validator is a shared deployment with its own rate
// budget. Caching by content digest makes repeated "validate before save"
// round-trips free.
type ValidationCache interface {
	// Get returns the cached report for a digest, or (nil, nil) on miss.
	Get(ctx context.Context, digest string) (*validation.Result, error)

	// Set stores a report under a digest with the standard TTL.
	Set(ctx context.Context, digest string, result validation.Result) error
}

// RedisValidationCache implements [ValidationCache] using go-redis.
//
// # Keying
//
// Reports are keyed by the BLAKE2b digest of the submitted document, never
// by course ID: the same course ID covers many in-flight editor states, and
// a digest key invalidates itself the moment the document changes.
type RedisValidationCache struct {
	client *redis.Client
}

// NewRedisValidationCache creates a Redis-backed [ValidationCache].
func NewRedisValidationCache(client *redis.Client) *RedisValidationCache {
	return &RedisValidationCache{client: client}
}

// Get returns the cached report for a digest, or (nil, nil) on a cache miss.
//
// # Failure Semantics
//
// A Redis outage degrades to a miss plus an error the caller may log;
// validation itself must never fail because the cache is down.
func (cache *RedisValidationCache) Get(ctx context.Context, digest string) (*validation.Result, error) {
	raw, err := cache.client.Get(ctx, cacheKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_validation_cache_get_failed: %w", err)
	}

	result := &validation.Result{}
	if err := json.Unmarshal(raw, result); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, nil
	}

	return result, nil
}

// Set stores a report under a digest with the standard TTL.
func (cache *RedisValidationCache) Set(ctx context.Context, digest string, result validation.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis_validation_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, cacheKey(digest), raw, constants.ValidationCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_validation_cache_set_failed: %w", err)
	}

	return nil
}

// cacheKey builds the namespaced Redis key for a document digest.
func cacheKey(digest string) string {
	return constants.RedisPrefixValidation + digest
}
