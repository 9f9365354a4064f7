package analysis

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/log"
	"github.com/huangsam/touchline/internal/metrics"
	"github.com/huangsam/touchline/schema"
)

// currentCacheVersion defines the version of the cached result encoding
const currentCacheVersion = 1

// cacheTTL bounds the age of a reusable cache entry.
const cacheTTL = 30 * 24 * time.Hour

// resultKey derives a cache key from a model name, its parameters and the XY content.
func resultKey(model string, xy *core.XY, params ...string) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s|%g|%d|%d|%s", model, xy.Framerate(), xy.Len(), xy.N(), xy.Direction())
	for _, p := range params {
		_, _ = fmt.Fprintf(h, "|%s", p)
	}
	var buf [8]byte
	for _, row := range xy.Raw() {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		}
	}
	return model + ":" + hex.EncodeToString(h.Sum(nil))
}

// pitchKey describes an optional pitch for cache keys.
func pitchKey(pitch *core.Pitch) string {
	if pitch == nil {
		return "meters"
	}
	length, _ := pitch.Length()
	width, _ := pitch.Width()
	return fmt.Sprintf("%s|%g|%g", pitch, length, width)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](store contract.CacheStore, key string) (T, bool) {
	var result T
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false
	}
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// cachedCompute returns the cached result for key, or computes and stores it.
func cachedCompute[T any](mgr contract.CacheManager, key string, compute func() (T, error)) (T, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetResultStore()
	}
	if store == nil {
		return compute()
	}

	if result, ok := checkCacheHit[T](store, key); ok {
		metrics.RecordCacheLookup(true)
		log.Named("cache").Debug("result hit", log.String("key", key))
		return result, nil
	}
	metrics.RecordCacheLookup(false)

	result, err := compute()
	if err != nil {
		return result, err
	}
	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			log.Named("cache").Warn("failed to store result", log.String("key", key), log.ErrorField(err))
		}
	}
	return result, nil
}

// kinematicsKey derives the cache key for kinematic aggregates.
func kinematicsKey(xy *core.XY, pitch *core.Pitch, difference schema.Difference) string {
	return resultKey("kinematics", xy, pitchKey(pitch), string(difference))
}
