package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertMongoError(t *testing.T) {
	t.Run("nil giữ nguyên nil", func(t *testing.T) {
		assert.NoError(t, ConvertMongoError(nil))
	})

	t.Run("ErrNoDocuments thành ErrNotFound", func(t *testing.T) {
		err := ConvertMongoError(fmt.Errorf("find: %w", mongo.ErrNoDocuments))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("lỗi *Error đã chuẩn hoá không bị đổi", func(t *testing.T) {
		err := ConvertMongoError(ErrInsufficientFunds)
		assert.Same(t, ErrInsufficientFunds, err)
	})

	t.Run("duplicate key thành 409", func(t *testing.T) {
		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
		err := ConvertMongoError(dup)
		e, ok := AsError(err)
		assert.True(t, ok)
		assert.Equal(t, StatusConflict, e.StatusCode)
	})

	t.Run("timeout thành 503", func(t *testing.T) {
		err := ConvertMongoError(fmt.Errorf("query: %w", context.DeadlineExceeded))
		assert.ErrorIs(t, err, ErrMongoTimeout)
	})

	t.Run("CommandError phân loại theo dải mã", func(t *testing.T) {
		assert.ErrorIs(t, ConvertMongoError(mongo.CommandError{Code: 150, Message: "conn"}), ErrMongoConnection)
		assert.ErrorIs(t, ConvertMongoError(mongo.CommandError{Code: 350, Message: "query"}), ErrMongoQuery)
	})

	t.Run("lỗi lạ thành lỗi DB chung 500", func(t *testing.T) {
		e, ok := AsError(ConvertMongoError(errors.New("boom")))
		assert.True(t, ok)
		assert.Equal(t, ErrCodeDatabase.Code, e.Code.Code)
		assert.Equal(t, StatusInternalServerError, e.StatusCode)
		assert.Equal(t, "boom", e.Details)
	})
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("tạo danh mục: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrDuplicate))

	e, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, StatusNotFound, e.StatusCode)
}
