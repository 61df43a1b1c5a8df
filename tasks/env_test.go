package tasks

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

func TestEnvSetAndGet(t *testing.T) {
	env := NewEnv()

	require.NoError(t, env.Set("a", attrs.Int(1)))
	v, ok := env.Get("a")
	assert.True(t, ok)
	assert.Equal(t, attrs.Int(1), v)

	require.NoError(t, env.Set("stats.mean", attrs.Float(2.5)))
	v, ok = env.Get("stats.mean")
	assert.True(t, ok)
	assert.Equal(t, attrs.Float(2.5), v)

	_, ok = env.Get("missing")
	assert.False(t, ok)
	_, ok = env.Get("stats.median")
	assert.False(t, ok)

	err := env.Set("a.b", attrs.Int(2))
	assert.EqualError(t, err, "`a` is Integer, not Table")

	assert.Equal(t, 2, env.Len())
	assert.True(t, env.Delete("a"))
	assert.False(t, env.Delete("a"))
}

func TestEnvSnapshotIsolation(t *testing.T) {
	env := NewEnv()
	require.NoError(t, env.Set("list", attrs.Array(attrs.Int(1))))

	snap := env.Snapshot()
	require.NoError(t, env.Set("list", attrs.Array()))
	v, _ := snap.Get("list")
	assert.Len(t, v.Array, 1)

	clone := env.Clone()
	require.NoError(t, clone.Set("other", attrs.Bool(true)))
	_, ok := env.Get("other")
	assert.False(t, ok)

	updates := attrs.NewTable()
	updates.Set("x", attrs.String("y"))
	env.ApplyUpdates(updates)
	env.ApplyUpdates(nil)
	v, ok = env.Get("x")
	require.True(t, ok)
	assert.Equal(t, "y", v.Str)
}

func TestEnvConcurrentAccess(t *testing.T) {
	env := NewEnv()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = env.Set(fmt.Sprintf("k%d", i), attrs.Int(int64(i)))
		}()
		go func() {
			defer wg.Done()
			env.Get(fmt.Sprintf("k%d", i))
			env.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, env.Len())
}
