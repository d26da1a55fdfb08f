package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdg_commerce/internal/common"
)

func TestRegistry_RegisterGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("orders", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("orders", 2)
	require.NoError(t, err)
	assert.False(t, isNew, "đăng ký lại phải là ghi đè")

	v, ok := r.Get("orders")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.ErrorIs(t, err, common.ErrRequiredField)
}

func TestRegistry_MustGet(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.MustGet("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegistry_GetOrCreateChiTaoMotLan(t *testing.T) {
	r := NewRegistry[int]()
	var calls int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrCreate("seq", func() (int, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				return 42, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)

	_, err := r.GetOrCreate("bad", func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	_, ok := r.Get("bad")
	assert.False(t, ok)
}

func TestRegistry_ClearAndNames(t *testing.T) {
	r := NewRegistry[string]()
	_, _ = r.Register("b", "x")
	_, _ = r.Register("a", "y")
	assert.Equal(t, []string{"a", "b"}, r.Names())

	var cleaned string
	deleted, err := r.Clear("a", func(v string) error { cleaned = v; return nil })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "y", cleaned)

	deleted, err = r.Clear("zzz", nil)
	require.NoError(t, err)
	assert.False(t, deleted)
}
