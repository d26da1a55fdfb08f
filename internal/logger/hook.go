package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

const filteredField = "_filtered"

// AsyncHook ghi log bất đồng bộ: Fire chỉ đẩy entry vào channel,
// một goroutine riêng format và ghi ra các writer
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHookWithWriters tạo hook với danh sách writer (file, stdout...)
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block: channel đầy thì bỏ entry
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		h.write(entry)
		return nil
	}
	select {
	case h.entries <- entry:
	default:
	}
	return nil
}

func (h *AsyncHook) run() {
	defer h.wg.Done()
	for entry := range h.entries {
		h.write(entry)
	}
}

func (h *AsyncHook) write(entry *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
			debug.PrintStack()
		}
	}()

	if filtered, _ := entry.Data[filteredField].(bool); filtered {
		return
	}
	if _, ok := entry.Data[filteredField]; ok {
		clone := *entry
		clone.Data = make(logrus.Fields, len(entry.Data))
		for k, v := range entry.Data {
			if k != filteredField {
				clone.Data[k] = v
			}
		}
		entry = &clone
	}

	var data []byte
	var err error
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return
	}
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close dừng nhận entry mới và đợi ghi hết buffer
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
