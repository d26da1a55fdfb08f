package salessvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "vdg_commerce/internal/api/base/service"
	models "vdg_commerce/internal/api/sales/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentService là service thanh toán
type PaymentService struct {
	*basesvc.BaseServiceMongoImpl[models.Payment]
	orders *OrderService
}

// NewPaymentService tạo PaymentService
func NewPaymentService(orders *OrderService) (*PaymentService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Payments)
	if !exist {
		return nil, fmt.Errorf("failed to get payments collection: %w", common.ErrNotFound)
	}
	return &PaymentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Payment](coll),
		orders:               orders,
	}, nil
}

// payableOrder lấy đơn của khách còn chờ thanh toán
func (s *PaymentService) payableOrder(ctx context.Context, orderID, customerID primitive.ObjectID) (models.Order, error) {
	order, err := s.orders.FindOne(ctx, bson.M{"_id": orderID, "customerId": customerID}, nil)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status != models.OrderStatusInitiated {
		return models.Order{}, common.ErrInvalidState
	}
	switch order.PaymentStatus {
	case models.PaymentPending, models.PaymentFailed, models.PaymentProcessing:
		return order, nil
	}
	return models.Order{}, common.ErrInvalidState
}

// CreateIntent tạo thanh toán chờ xử lý cho đơn
func (s *PaymentService) CreateIntent(ctx context.Context, customerID, orderID primitive.ObjectID, gateway string) (models.Payment, error) {
	order, err := s.payableOrder(ctx, orderID, customerID)
	if err != nil {
		return models.Payment{}, err
	}
	payment, err := s.InsertOne(ctx, models.Payment{
		OrderID:    order.ID,
		CustomerID: customerID,
		ShopID:     order.ShopID,
		Gateway:    gateway,
		Amount:     order.Total,
		Status:     models.PaymentProcessing,
	})
	if err != nil {
		return models.Payment{}, err
	}
	if _, err := s.orders.Settle(ctx, order.ID, models.PaymentProcessing, gateway); err != nil {
		return models.Payment{}, err
	}
	logger.WithContext(ctx).WithFields(map[string]any{
		"order":   order.TrackingNumber,
		"payment": payment.ID.Hex(),
		"gateway": gateway,
	}).Info("✅ [PAYMENT] Đã tạo thanh toán")
	return payment, nil
}

// Confirm ghi nhận kết quả từ cổng thanh toán; chỉ thanh toán đang xử lý mới được xác nhận
func (s *PaymentService) Confirm(ctx context.Context, paymentID primitive.ObjectID, status, ref string) (models.Payment, error) {
	set := map[string]any{"status": status}
	if ref != "" {
		set["transactionRef"] = ref
	}
	payment, err := s.UpdateOne(ctx,
		bson.M{"_id": paymentID, "status": bson.M{"$in": bson.A{models.PaymentPending, models.PaymentProcessing}}},
		set, nil)
	if errors.Is(err, common.ErrNotFound) {
		return models.Payment{}, common.ErrInvalidState
	}
	if err != nil {
		return models.Payment{}, err
	}

	if _, err := s.orders.Settle(ctx, payment.OrderID, status, payment.Gateway); err != nil {
		return models.Payment{}, err
	}
	log := logger.WithContext(ctx).WithField("payment", payment.ID.Hex())
	if status == models.PaymentSuccess {
		log.Info("✅ [PAYMENT] Thanh toán thành công")
	} else {
		log.Warn("⚠️ [PAYMENT] Thanh toán thất bại")
	}
	return payment, nil
}

// CashOnDelivery chuyển đơn sang thanh toán khi nhận hàng
func (s *PaymentService) CashOnDelivery(ctx context.Context, customerID, orderID primitive.ObjectID) (models.Order, error) {
	order, err := s.payableOrder(ctx, orderID, customerID)
	if err != nil {
		return models.Order{}, err
	}
	if _, err := s.InsertOne(ctx, models.Payment{
		OrderID:    order.ID,
		CustomerID: customerID,
		ShopID:     order.ShopID,
		Gateway:    models.GatewayCOD,
		Amount:     order.Total,
		Status:     models.PaymentCashOnDelivery,
	}); err != nil {
		return models.Order{}, err
	}
	return s.orders.Settle(ctx, order.ID, models.PaymentCashOnDelivery, models.GatewayCOD)
}

// ListForOrder trả các lần thanh toán của đơn; customerID khác nil thì chỉ trả của khách đó
func (s *PaymentService) ListForOrder(ctx context.Context, orderID primitive.ObjectID, customerID, shopID *primitive.ObjectID) ([]models.Payment, error) {
	filter := bson.M{"orderId": orderID}
	if customerID != nil {
		filter["customerId"] = *customerID
	}
	if shopID != nil {
		filter["shopId"] = *shopID
	}
	return s.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}
