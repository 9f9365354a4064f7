package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/iocache"
	"github.com/huangsam/touchline/schema"
)

func TestResultKey(t *testing.T) {
	xy := runnerXY(t, 10)

	key := resultKey("kinematics", xy, "meters", "central")
	assert.True(t, strings.HasPrefix(key, "kinematics:"))
	assert.Len(t, key, len("kinematics:")+64)
	assert.Equal(t, key, resultKey("kinematics", runnerXY(t, 10), "meters", "central"))

	t.Run("parameters change the key", func(t *testing.T) {
		assert.NotEqual(t, key, resultKey("kinematics", xy, "meters", "forward"))
		assert.NotEqual(t, key, resultKey("kinematics", runnerXY(t, 25), "meters", "central"))
	})

	t.Run("content changes the key", func(t *testing.T) {
		moved := xy.Translate(1, 0)
		assert.NotEqual(t, key, resultKey("kinematics", moved, "meters", "central"))
	})
}

func TestPitchKey(t *testing.T) {
	assert.Equal(t, "meters", pitchKey(nil))

	a, err := core.FromTemplate("statsperform", core.WithLength(105), core.WithWidth(68))
	require.NoError(t, err)
	b, err := core.FromTemplate("statsperform", core.WithLength(100), core.WithWidth(68))
	require.NoError(t, err)
	assert.NotEqual(t, pitchKey(a), pitchKey(b))
}

func TestCachedCompute(t *testing.T) {
	want := []schema.KinematicsResult{{Entity: 1, Frames: 5, Distance: 12}}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("nil manager computes", func(t *testing.T) {
		calls := 0
		got, err := cachedCompute(nil, "k", func() ([]schema.KinematicsResult, error) {
			calls++
			return want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("no result store computes", func(t *testing.T) {
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(nil)
		got, err := cachedCompute(mgr, "k", func() ([]schema.KinematicsResult, error) { return want, nil })
		require.NoError(t, err)
		assert.Equal(t, want, got)
		mgr.AssertExpectations(t)
	})

	t.Run("hit skips compute", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(data, currentCacheVersion, time.Now().Unix(), nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(store)

		got, err := cachedCompute(mgr, "k", func() ([]schema.KinematicsResult, error) {
			t.Fatal("compute must not run on a cache hit")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertNotCalled(t, "Set")
	})

	t.Run("miss computes and stores", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(nil, 0, int64(0), errors.New("not found"))
		store.On("Set", "k", data, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(store)

		got, err := cachedCompute(mgr, "k", func() ([]schema.KinematicsResult, error) { return want, nil })
		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertExpectations(t)
	})

	t.Run("stale entries are recomputed", func(t *testing.T) {
		tests := []struct {
			name    string
			version int
			ts      int64
		}{
			{"old version", currentCacheVersion + 1, time.Now().Unix()},
			{"expired", currentCacheVersion, time.Now().Add(-cacheTTL - time.Hour).Unix()},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := &iocache.MockCacheStore{}
				store.On("Get", "k").Return(data, tt.version, tt.ts, nil)
				store.On("Set", "k", data, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
				mgr := &iocache.MockCacheManager{}
				mgr.On("GetResultStore").Return(store)

				calls := 0
				_, err := cachedCompute(mgr, "k", func() ([]schema.KinematicsResult, error) {
					calls++
					return want, nil
				})
				require.NoError(t, err)
				assert.Equal(t, 1, calls)
			})
		}
	})

	t.Run("store failure is not fatal", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(nil, 0, int64(0), errors.New("not found"))
		store.On("Set", "k", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(store)

		got, err := cachedCompute(mgr, "k", func() ([]schema.KinematicsResult, error) { return want, nil })
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("compute error is returned and not stored", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(nil, 0, int64(0), errors.New("not found"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetResultStore").Return(store)

		_, err := cachedCompute(mgr, "k", func() ([]schema.KinematicsResult, error) { return nil, assert.AnError })
		require.ErrorIs(t, err, assert.AnError)
		store.AssertNotCalled(t, "Set")
	})
}
