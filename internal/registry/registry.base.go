// Package registry cung cấp registry generic, thread-safe, dùng để giữ các
// singleton dùng chung (collection MongoDB, service...) theo tên.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"vdg_commerce/internal/common"
)

// Registry lưu các item kiểu T theo tên
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register đăng ký (hoặc ghi đè) item; isNew = false khi ghi đè
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("tên registry rỗng: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet như Get nhưng trả lỗi ErrNotFound khi chưa đăng ký
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		return item, fmt.Errorf("registry chưa có %q: %w", name, common.ErrNotFound)
	}
	return item, nil
}

// GetOrCreate trả item đã có, hoặc tạo mới bằng creator (giữ lock trong lúc tạo)
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("tên registry rỗng: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[name]; ok {
		return existing, nil
	}
	created, err := creator()
	if err != nil {
		return item, fmt.Errorf("tạo %q: %w", name, err)
	}
	r.items[name] = created
	return created, nil
}

// Clear xoá item, gọi cleanup trước nếu có
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[name]
	if !ok {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("cleanup %q: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}

// Names trả danh sách tên đã đăng ký, sắp xếp tăng dần
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for k := range r.items {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
