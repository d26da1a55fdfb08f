package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type product struct {
	ID         primitive.ObjectID
	ShopID     *primitive.ObjectID
	Categories []primitive.ObjectID
}

func TestOnCollectionChanged_LocTheoCollectionVaOp(t *testing.T) {
	Reset()
	defer Reset()

	got := make(chan DataChangeEvent, 4)
	OnCollectionChanged("products", []string{OpInsert, OpDelete}, func(ctx context.Context, e DataChangeEvent) {
		got <- e
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	EmitDataChanged(ctx, DataChangeEvent{CollectionName: "orders", Operation: OpInsert})
	EmitDataChanged(ctx, DataChangeEvent{CollectionName: "products", Operation: OpUpdate})
	EmitDataChanged(ctx, DataChangeEvent{CollectionName: "products", Operation: OpInsert})

	select {
	case e := <-got:
		assert.Equal(t, "products", e.CollectionName)
		assert.Equal(t, OpInsert, e.Operation)
	case <-time.After(time.Second):
		t.Fatal("không nhận được sự kiện products/insert")
	}
	select {
	case e := <-got:
		t.Fatalf("nhận sự kiện ngoài bộ lọc: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmitDataChanged_HandlerPanicKhongAnhHuongHandlerKhac(t *testing.T) {
	Reset()
	defer Reset()

	done := make(chan struct{})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) { panic("boom") })
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		assert.NoError(t, ctx.Err(), "context của handler không bị huỷ theo request")
		close(done)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	EmitDataChanged(ctx, DataChangeEvent{CollectionName: "users", Operation: OpUpdate})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler thứ hai không chạy")
	}
}

func TestGetObjectIDFields(t *testing.T) {
	shop := primitive.NewObjectID()
	cat := primitive.NewObjectID()
	p := product{ID: primitive.NewObjectID(), ShopID: &shop, Categories: []primitive.ObjectID{cat}}

	assert.Equal(t, p.ID, GetObjectIDField(p, "ID"))
	assert.Equal(t, shop, GetObjectIDField(&p, "ShopID"))
	assert.Equal(t, primitive.NilObjectID, GetObjectIDField(p, "Missing"))
	assert.Equal(t, primitive.NilObjectID, GetObjectIDField(nil, "ID"))
	assert.Equal(t, []primitive.ObjectID{cat}, GetObjectIDSliceField(p, "Categories"))
}
