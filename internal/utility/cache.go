package utility

import (
	"sync"
	"time"
)

type cacheItem struct {
	value    any
	expireAt time.Time
}

// Cache là cache in-memory có thời gian sống cho từng item và goroutine dọn dẹp định kỳ.
// Gọi Stop khi không dùng nữa.
type Cache struct {
	items    map[string]cacheItem
	mu       sync.RWMutex
	ttl      time.Duration
	cleanup  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewCache tạo cache mới
func NewCache(ttl, cleanup time.Duration) *Cache {
	c := &Cache{
		items:    make(map[string]cacheItem),
		ttl:      ttl,
		cleanup:  cleanup,
		stopChan: make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Set lưu giá trị với ttl mặc định của cache
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expireAt: time.Now().Add(c.ttl)}
}

// Get lấy giá trị còn hạn
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok || time.Now().After(item.expireAt) {
		return nil, false
	}
	return item.value, true
}

// Delete xoá key (ví dụ khi user đăng xuất hoặc bị khoá)
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len trả số item hiện có (kể cả item đã hết hạn nhưng chưa dọn)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop dừng goroutine dọn dẹp
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, item := range c.items {
				if now.After(item.expireAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
