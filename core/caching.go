package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge is how long a cached bundle stays valid.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedAnalysisBundle memoizes the full pipeline output in the store's
// analysis cache. Without a cache store it falls back to direct computation.
func cachedAnalysisBundle(cfg *contract.Config, mgr contract.StoreManager, in *loadedInputs) (*schema.AnalysisBundle, error) {
	cache := mgr.GetCacheStore()
	if cache == nil {
		// Fallback to direct computation
		return computeAnalysisBundle(cfg, in), nil
	}

	key := generateCacheKey(cfg, in)

	// Check for cache hit
	if result := checkCacheHit(cache, key); result != nil {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(cfg, cache, key, in), nil
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(cache contract.CacheStore, key string) *schema.AnalysisBundle {
	data, version, ts, err := cache.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			var result schema.AnalysisBundle
			if err := json.Unmarshal(data, &result); err == nil {
				return &result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// computeAndStore computes the bundle and stores it in cache
func computeAndStore(cfg *contract.Config, cache contract.CacheStore, key string, in *loadedInputs) *schema.AnalysisBundle {
	result := computeAnalysisBundle(cfg, in)

	// Store in cache
	if data, err := json.Marshal(result); err == nil {
		_ = cache.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return result
}

// generateCacheKey creates a unique key based on analysis parameters.
// The input source identity stands in for the data itself: a re-imported
// export or a fresh store row changes the identity and misses the cache.
func generateCacheKey(cfg *contract.Config, in *loadedInputs) string {
	// Use canonical helpers from contract.Config to ensure consistent time granularity
	startHour := cfg.GetAnalysisStartTime()
	endHour := cfg.GetAnalysisEndTime()

	key := fmt.Sprintf("%s:%d:%d:%.3f:%d:%d:%d:%s:%s:%d:%d:%d:%d",
		in.SourceID,
		startHour.Unix(),
		endHour.Unix(),
		cfg.DangerThreshold,
		cfg.SmoothingWindow,
		cfg.ResponseWindow,
		cfg.MealTolerance,
		cfg.GroupFilter,
		cfg.Day,
		len(in.Readings),
		len(in.Foods),
		latestReadingUnix(in.Readings),
		latestFoodUnix(in.Foods),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func latestReadingUnix(readings []schema.GlucoseReading) int64 {
	if len(readings) == 0 {
		return 0
	}
	return readings[len(readings)-1].Timestamp.UnixMilli()
}

func latestFoodUnix(foods []schema.FoodEntry) int64 {
	if len(foods) == 0 {
		return 0
	}
	return foods[len(foods)-1].Timestamp.UnixMilli()
}
