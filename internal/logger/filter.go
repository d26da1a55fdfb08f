package logger

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// FilterHook đánh dấu entry không khớp bộ lọc (module, collection, endpoint, method, level)
// bằng field _filtered; AsyncHook sẽ bỏ qua các entry này.
// Entry thiếu field tương ứng thì không bị lọc theo tiêu chí đó.
type FilterHook struct {
	mu          sync.RWMutex
	modules     map[string]bool
	collections map[string]bool
	endpoints   map[string]bool
	methods     map[string]bool
	levels      map[string]bool
}

// NewFilterHook tạo filter hook từ cấu hình
func NewFilterHook(cfg *LogConfig) *FilterHook {
	h := &FilterHook{}
	h.UpdateFilters(cfg)
	return h
}

// UpdateFilters nạp lại bộ lọc lúc runtime
func (h *FilterHook) UpdateFilters(cfg *LogConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modules = parseFilter(cfg.FilterModules)
	h.collections = parseFilter(cfg.FilterCollections)
	h.endpoints = parseFilter(cfg.FilterEndpoints)
	h.methods = parseFilter(cfg.FilterMethods)
	h.levels = parseFilter(cfg.FilterLogTypes)
}

// parseFilter trả về nil khi cho phép tất cả ("" hoặc "*")
func parseFilter(s string) map[string]bool {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return nil
	}
	out := make(map[string]bool)
	for _, v := range strings.Split(s, ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out[v] = true
		}
	}
	if out["*"] {
		return nil
	}
	return out
}

func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *FilterHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.allowed(entry) {
		entry.Data[filteredField] = true
	}
	return nil
}

func (h *FilterHook) allowed(entry *logrus.Entry) bool {
	if h.levels != nil && !h.levels[entry.Level.String()] {
		return false
	}
	if !matchField(h.modules, entry.Data["module"], false) {
		return false
	}
	if !matchField(h.collections, entry.Data["collection"], false) {
		return false
	}
	if !matchField(h.methods, entry.Data["method"], false) {
		return false
	}
	endpoint := entry.Data["endpoint"]
	if endpoint == nil {
		endpoint = entry.Data["path"]
	}
	return matchField(h.endpoints, endpoint, true)
}

func matchField(allowed map[string]bool, raw any, prefix bool) bool {
	if allowed == nil {
		return true
	}
	v, ok := raw.(string)
	if !ok || v == "" {
		return true
	}
	v = strings.ToLower(v)
	if allowed[v] {
		return true
	}
	if prefix {
		for p := range allowed {
			if strings.HasPrefix(v, p) {
				return true
			}
		}
	}
	return false
}
