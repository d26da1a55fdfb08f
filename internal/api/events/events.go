// Package events phát sự kiện khi dữ liệu thay đổi qua base service.
// Các phản ứng phụ (đồng bộ products của category, xoá cache user...) đăng ký qua OnDataChanged.
package events

import (
	"context"
	"reflect"
	"sync"

	"vdg_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// DataChangeEvent mô tả một thay đổi; Document là bản ghi sau thay đổi (trước khi xoá với OpDelete)
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	Document       any
}

// DataChangeHandler xử lý sự kiện thay đổi dữ liệu
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

var (
	handlers   []DataChangeHandler
	handlersMu sync.RWMutex
)

// OnDataChanged đăng ký handler cho mọi collection
func OnDataChanged(h DataChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// OnCollectionChanged đăng ký handler chỉ cho một collection và các thao tác chỉ định (rỗng = tất cả)
func OnCollectionChanged(collection string, ops []string, h DataChangeHandler) {
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName != collection {
			return
		}
		if len(ops) > 0 {
			matched := false
			for _, op := range ops {
				if op == e.Operation {
					matched = true
					break
				}
			}
			if !matched {
				return
			}
		}
		h(ctx, e)
	})
}

// Reset xoá toàn bộ handler (dùng trong test)
func Reset() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = nil
}

// EmitDataChanged chạy mỗi handler trong goroutine riêng.
// Context được tách khỏi cancel của request để handler không bị huỷ khi response đã trả.
func EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	if len(list) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	for _, h := range list {
		go func(fn DataChangeHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithCollection(e.CollectionName).WithField("operation", e.Operation).
						Errorf("🔥 [EVENTS] Handler panic: %v", r)
				}
			}()
			fn(detached, e)
		}(h)
	}
}

func structValue(doc any) (reflect.Value, bool) {
	if doc == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(doc)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

// GetObjectIDField lấy field kiểu ObjectID (hoặc *ObjectID) theo tên Go, không có thì trả NilObjectID
func GetObjectIDField(doc any, fieldName string) primitive.ObjectID {
	v, ok := structValue(doc)
	if !ok {
		return primitive.NilObjectID
	}
	f := v.FieldByName(fieldName)
	if !f.IsValid() || !f.CanInterface() {
		return primitive.NilObjectID
	}
	switch id := f.Interface().(type) {
	case primitive.ObjectID:
		return id
	case *primitive.ObjectID:
		if id != nil {
			return *id
		}
	}
	return primitive.NilObjectID
}

// GetObjectIDSliceField lấy field kiểu []ObjectID theo tên Go
func GetObjectIDSliceField(doc any, fieldName string) []primitive.ObjectID {
	v, ok := structValue(doc)
	if !ok {
		return nil
	}
	f := v.FieldByName(fieldName)
	if !f.IsValid() || !f.CanInterface() {
		return nil
	}
	ids, _ := f.Interface().([]primitive.ObjectID)
	return ids
}
