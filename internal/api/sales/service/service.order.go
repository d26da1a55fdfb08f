package salessvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basemodels "vdg_commerce/internal/api/base/models"
	basesvc "vdg_commerce/internal/api/base/service"
	commercemodels "vdg_commerce/internal/api/commerce/models"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	pricingmodels "vdg_commerce/internal/api/pricing/models"
	pricingsvc "vdg_commerce/internal/api/pricing/service"
	salesdto "vdg_commerce/internal/api/sales/dto"
	models "vdg_commerce/internal/api/sales/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/notification"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderService là service đơn hàng
type OrderService struct {
	*basesvc.BaseServiceMongoImpl[models.Order]
	products  *commercesvc.ProductService
	shops     *commercesvc.ShopService
	sequences commercesvc.SequenceGenerator
	taxes     *pricingsvc.TaxService
	shippings *pricingsvc.ShippingService
	coupons   *pricingsvc.CouponService
	notifier  notification.Notifier
}

// NewOrderService tạo OrderService và các service phụ thuộc từ registry collection
func NewOrderService() (*OrderService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Orders)
	if !exist {
		return nil, fmt.Errorf("failed to get orders collection: %w", common.ErrNotFound)
	}
	products, err := commercesvc.NewProductService()
	if err != nil {
		return nil, err
	}
	shops, err := commercesvc.NewShopService()
	if err != nil {
		return nil, err
	}
	sequences, err := commercesvc.NewSequenceService()
	if err != nil {
		return nil, err
	}
	taxes, err := pricingsvc.NewTaxService()
	if err != nil {
		return nil, err
	}
	shippings, err := pricingsvc.NewShippingService()
	if err != nil {
		return nil, err
	}
	coupons, err := pricingsvc.NewCouponService()
	if err != nil {
		return nil, err
	}
	return &OrderService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Order](coll),
		products:             products,
		shops:                shops,
		sequences:            sequences,
		taxes:                taxes,
		shippings:            shippings,
		coupons:              coupons,
		notifier:             notification.Default(),
	}, nil
}

// FormatTrackingNumber tạo mã theo dõi từ số thứ tự đơn
func FormatTrackingNumber(seq int64) string {
	return fmt.Sprintf("TN%08d", seq)
}

func currency() string {
	if global.MongoDB_ServerConfig != nil {
		return global.MongoDB_ServerConfig.Currency
	}
	return "INR"
}

// Quote là kết quả tính tiền giỏ hàng trước khi đặt
type Quote struct {
	ShopID primitive.ObjectID      `json:"shopId"`
	Items  []models.OrderItem      `json:"items"`
	Totals Totals                  `json:"totals"`
	Coupon *pricingmodels.Coupon   `json:"coupon,omitempty"`
	Tax    *pricingmodels.Tax      `json:"tax,omitempty"`
	Ship   *pricingmodels.Shipping `json:"shipping,omitempty"`
}

// Quote tính tiền giỏ hàng theo giá, thuế, phí vận chuyển và mã giảm giá hiện hành
func (s *OrderService) Quote(ctx context.Context, input *salesdto.CheckoutInput) (*Quote, error) {
	ids := make([]primitive.ObjectID, 0, len(input.Items))
	for _, it := range input.Items {
		ids = append(ids, utility.String2ObjectID(it.ProductID))
	}
	products, err := s.products.FindManyByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	items, shopID, err := BuildItems(input.Items, products)
	if err != nil {
		return nil, err
	}
	shop, err := s.shops.FindOneById(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !shop.IsActive {
		return nil, common.NewError(common.ErrCodeBusinessState, "Cửa hàng chưa hoạt động", common.StatusBadRequest, nil)
	}

	addr := input.ShippingAddress
	tax, err := s.taxes.Resolve(ctx, pricingsvc.TaxLocation{Country: addr.Country, State: addr.State, City: addr.City, Zip: addr.Zip})
	if err != nil {
		return nil, err
	}
	var shippingID *primitive.ObjectID
	if input.ShippingID != "" {
		id := utility.String2ObjectID(input.ShippingID)
		shippingID = &id
	}
	ship, err := s.shippings.Resolve(ctx, shippingID)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if tax != nil {
		rate = tax.Rate
	}
	var coupon *pricingmodels.Coupon
	if input.CouponCode != "" {
		amount := CalculateTotals(items, 0, nil, nil).Amount
		if coupon, err = s.coupons.Verify(ctx, input.CouponCode, amount); err != nil {
			return nil, err
		}
	}
	return &Quote{
		ShopID: shopID,
		Items:  items,
		Totals: CalculateTotals(items, rate, ship, coupon),
		Coupon: coupon,
		Tax:    tax,
		Ship:   ship,
	}, nil
}

// releaseItems hoàn tồn kho cho các dòng đã giữ; lỗi chỉ được ghi log
func (s *OrderService) releaseItems(ctx context.Context, items []models.OrderItem) {
	for _, it := range items {
		if err := s.products.ReleaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("product_id", it.ProductID.Hex()).Error("❌ [ORDER] Không hoàn được tồn kho")
		}
	}
}

// Checkout tạo đơn: giữ tồn kho, dùng mã giảm giá, cấp mã theo dõi rồi lưu đơn.
// Bước nào lỗi thì hoàn lại các bước trước đó.
func (s *OrderService) Checkout(ctx context.Context, customerID primitive.ObjectID, email string, input *salesdto.CheckoutInput) (*models.OrderDetail, error) {
	quote, err := s.Quote(ctx, input)
	if err != nil {
		return nil, err
	}

	reserved := make([]models.OrderItem, 0, len(quote.Items))
	rollback := func() { s.releaseItems(ctx, reserved) }
	for _, it := range quote.Items {
		if err := s.products.ReserveStock(ctx, it.ProductID, it.Quantity); err != nil {
			rollback()
			return nil, err
		}
		reserved = append(reserved, it)
	}

	var couponID *primitive.ObjectID
	if quote.Coupon != nil {
		if err := s.coupons.Redeem(ctx, quote.Coupon.ID); err != nil {
			rollback()
			return nil, err
		}
		id := quote.Coupon.ID
		couponID = &id
		rollback = func() {
			s.releaseItems(ctx, reserved)
			if err := s.coupons.Release(ctx, id); err != nil {
				logger.WithContext(ctx).WithError(err).Error("❌ [ORDER] Không trả lại lượt dùng mã giảm giá")
			}
		}
	}

	seq, err := s.sequences.Next(ctx, commercemodels.SequenceOrder)
	if err != nil {
		rollback()
		return nil, err
	}

	now := time.Now().UnixMilli()
	order := models.Order{
		TrackingNumber:  FormatTrackingNumber(seq),
		CustomerID:      customerID,
		CustomerEmail:   email,
		ShopID:          quote.ShopID,
		Products:        quote.Items,
		Amount:          quote.Totals.Amount,
		SalesTax:        quote.Totals.SalesTax,
		DeliveryFee:     quote.Totals.DeliveryFee,
		Discount:        quote.Totals.Discount,
		Total:           quote.Totals.Total,
		CouponID:        couponID,
		ShippingAddress: input.ShippingAddress.ToModel(),
		Status:          models.OrderStatusInitiated,
		PaymentGateway:  input.PaymentGateway,
		PaymentStatus:   models.PaymentPending,
		StatusHistory:   []models.StatusChange{{Status: models.OrderStatusInitiated, ChangedBy: &customerID, At: now}},
		Note:            input.Note,
	}
	if quote.Coupon != nil {
		order.CouponCode = quote.Coupon.Code
	}
	if input.PaymentGateway == models.GatewayCOD {
		order.Status = models.OrderStatusPlaced
		order.PaymentStatus = models.PaymentCashOnDelivery
		order.StatusHistory = append(order.StatusHistory, models.StatusChange{Status: models.OrderStatusPlaced, Note: "cash on delivery", At: now})
	}

	created, err := s.InsertOne(ctx, order)
	if err != nil {
		rollback()
		return nil, err
	}
	if created.PaymentStatus == models.PaymentCashOnDelivery {
		if err := s.products.IncrementSold(ctx, created.SoldQuantities()); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("order", created.TrackingNumber).Warn("⚠️ [ORDER] Chưa cập nhật được số lượng đã bán")
		}
	}

	logger.WithContext(ctx).WithFields(map[string]any{
		"order":   created.TrackingNumber,
		"shop_id": created.ShopID.Hex(),
		"total":   created.Total,
	}).Info("✅ [ORDER] Đã tạo đơn hàng")
	if err := s.notifier.Notify(ctx, notification.EventOrderPlaced, email, map[string]any{
		"tracking": created.TrackingNumber,
		"total":    utility.FormatMoney(created.Total, currency()),
	}); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("⚠️ [ORDER] Gửi thông báo đặt hàng thất bại")
	}
	return NewOrderDetail(created), nil
}

// scopedFilter giới hạn theo cửa hàng khi shopID khác nil
func scopedFilter(filter bson.M, shopID *primitive.ObjectID) bson.M {
	if shopID != nil {
		filter["shopId"] = *shopID
	}
	return filter
}

// ListFilter dựng filter danh sách đơn từ query
func ListFilter(q *salesdto.OrderListQuery, shopID, customerID *primitive.ObjectID) bson.M {
	filter := scopedFilter(bson.M{}, shopID)
	if customerID != nil {
		filter["customerId"] = *customerID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Tracking != "" {
		filter["trackingNumber"] = q.Tracking
	}
	return filter
}

// List trả danh sách đơn mới nhất trước; shopID nil là toàn hệ thống (admin)
func (s *OrderService) List(ctx context.Context, q *salesdto.OrderListQuery, shopID, customerID *primitive.ObjectID) (*basemodels.PaginateResult[models.Order], error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return s.FindWithPagination(ctx, ListFilter(q, shopID, customerID), q.Page, q.Limit, opts)
}

// Detail lấy đơn theo id kèm dòng thời gian
func (s *OrderService) Detail(ctx context.Context, id primitive.ObjectID, shopID *primitive.ObjectID) (*models.OrderDetail, error) {
	order, err := s.FindOne(ctx, scopedFilter(bson.M{"_id": id}, shopID), nil)
	if err != nil {
		return nil, err
	}
	return NewOrderDetail(order), nil
}

// FindByTracking lấy đơn của khách theo mã theo dõi
func (s *OrderService) FindByTracking(ctx context.Context, customerID primitive.ObjectID, tracking string) (*models.OrderDetail, error) {
	order, err := s.FindOne(ctx, bson.M{"customerId": customerID, "trackingNumber": tracking}, nil)
	if err != nil {
		return nil, err
	}
	return NewOrderDetail(order), nil
}

// transition đổi trạng thái nguyên tử: filter gồm trạng thái cũ nên hai thao tác đồng thời không ghi đè nhau
func (s *OrderService) transition(ctx context.Context, order models.Order, to, note string, by *primitive.ObjectID, extra map[string]any) (models.Order, error) {
	if !models.CanTransition(order.Status, to) {
		return models.Order{}, common.ErrInvalidTransition
	}
	set := map[string]any{"status": to}
	for k, v := range extra {
		set[k] = v
	}
	updated, err := s.UpdateOne(ctx,
		bson.M{"_id": order.ID, "status": order.Status},
		&basesvc.UpdateData{
			Set:  set,
			Push: map[string]any{"statusHistory": models.StatusChange{Status: to, Note: note, ChangedBy: by, At: time.Now().UnixMilli()}},
		},
		nil,
	)
	if errors.Is(err, common.ErrNotFound) {
		return models.Order{}, common.ErrInvalidState
	}
	return updated, err
}

// creditShop cộng doanh thu cho cửa hàng đúng một lần cho mỗi đơn.
// Số tiền đã cộng được lưu trên đơn để hoàn đúng số đó khi đơn bị huỷ.
func (s *OrderService) creditShop(ctx context.Context, order models.Order) {
	log := logger.WithContext(ctx).WithField("order", order.TrackingNumber)
	net, err := s.shops.NetEarnings(ctx, order.ShopID, order.Revenue())
	if err != nil {
		log.WithError(err).Error("❌ [ORDER] Không tính được doanh thu cửa hàng")
		return
	}
	res, err := s.Collection().UpdateOne(ctx,
		bson.M{"_id": order.ID, "earningsCredited": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"earningsCredited": true, "creditedEarnings": net}},
	)
	if err != nil || res.ModifiedCount == 0 {
		if err != nil {
			log.WithError(err).Error("❌ [ORDER] Không đánh dấu được doanh thu")
		}
		return
	}
	if _, err := s.shops.AdjustEarnings(ctx, order.ShopID, net, 1); err != nil {
		log.WithError(err).Error("❌ [ORDER] Không cộng được doanh thu cửa hàng")
	}
}

// debitShop trừ lại doanh thu đã cộng cho đơn; bỏ cờ earningsCredited nguyên tử nên chỉ trừ một lần
func (s *OrderService) debitShop(ctx context.Context, orderID primitive.ObjectID) {
	log := logger.WithContext(ctx).WithField("order_id", orderID.Hex())
	var prev models.Order
	err := s.Collection().FindOneAndUpdate(ctx,
		bson.M{"_id": orderID, "earningsCredited": true},
		bson.M{"$set": bson.M{"earningsCredited": false}, "$unset": bson.M{"creditedEarnings": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&prev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return
	}
	if err != nil {
		log.WithError(err).Error("❌ [ORDER] Không bỏ được cờ doanh thu")
		return
	}
	net := prev.CreditedEarnings
	if net == 0 {
		// đơn cũ chưa lưu số đã cộng
		if net, err = s.shops.NetEarnings(ctx, prev.ShopID, prev.Revenue()); err != nil {
			log.WithError(err).Error("❌ [ORDER] Không tính được doanh thu cần trừ")
			return
		}
	}
	if _, err := s.shops.AdjustEarnings(ctx, prev.ShopID, -net, -1); err != nil {
		log.WithError(err).Error("❌ [ORDER] Không trừ được doanh thu cửa hàng")
		return
	}
	log.WithField("amount", net).Info("🔄 [ORDER] Đã trừ doanh thu cửa hàng")
}

// revertSold trừ số lượng đã bán đã cộng khi đơn sang placed
func (s *OrderService) revertSold(ctx context.Context, order *models.Order) {
	sold := order.SoldQuantities()
	for id, qty := range sold {
		sold[id] = -qty
	}
	if err := s.products.IncrementSold(ctx, sold); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("⚠️ [ORDER] Chưa trừ được số lượng đã bán")
	}
}

// UpdateStatus đổi trạng thái đơn (cửa hàng hoặc admin), ghi lịch sử và gửi email cho khách.
// Việc phụ theo PlanStatusChange: huỷ/thất bại hoàn tồn kho và mã giảm giá, đóng đơn đã thu tiền
// thì chuyển payment-reversal và trừ doanh thu, giao xong đơn COD thì ghi nhận doanh thu.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, shopID *primitive.ObjectID, to, note string, by *primitive.ObjectID) (*models.OrderDetail, error) {
	order, err := s.FindOne(ctx, scopedFilter(bson.M{"_id": id}, shopID), nil)
	if err != nil {
		return nil, err
	}

	fx := PlanStatusChange(&order, to)
	extra := map[string]any{}
	if fx.PaymentStatus != "" {
		extra["paymentStatus"] = fx.PaymentStatus
	}

	updated, err := s.transition(ctx, order, to, note, by, extra)
	if err != nil {
		return nil, err
	}

	if fx.ReleaseStock {
		s.releaseItems(ctx, updated.Products)
	}
	if fx.ReleaseCoupon {
		if err := s.coupons.Release(ctx, *updated.CouponID); err != nil {
			logger.WithContext(ctx).WithError(err).Warn("⚠️ [ORDER] Không trả lại lượt dùng mã giảm giá")
		}
	}
	if fx.RevertSold {
		s.revertSold(ctx, &updated)
	}
	if fx.ReverseEarnings {
		s.debitShop(ctx, updated.ID)
	}
	if fx.CreditEarnings {
		s.creditShop(ctx, updated)
	}

	logger.WithContext(ctx).WithFields(map[string]any{
		"order": updated.TrackingNumber,
		"from":  order.Status,
		"to":    to,
	}).Info("✅ [ORDER] Đã đổi trạng thái đơn")
	if err := s.notifier.Notify(ctx, notification.EventOrderStatusChanged, updated.CustomerEmail, map[string]any{
		"tracking": updated.TrackingNumber,
		"status":   to,
	}); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("⚠️ [ORDER] Gửi thông báo trạng thái thất bại")
	}
	return NewOrderDetail(updated), nil
}

// Cancel cho khách huỷ đơn của mình khi đơn chưa được giao cho vận chuyển
func (s *OrderService) Cancel(ctx context.Context, id, customerID primitive.ObjectID, note string) (*models.OrderDetail, error) {
	order, err := s.FindOne(ctx, bson.M{"_id": id, "customerId": customerID}, nil)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusInitiated && order.Status != models.OrderStatusPlaced {
		return nil, common.ErrInvalidTransition
	}
	return s.UpdateStatus(ctx, id, nil, models.OrderStatusCancelled, note, &customerID)
}

// Settle ghi nhận kết quả thanh toán cho đơn.
// Thành công: đơn sang placed, cộng số lượng đã bán và doanh thu cửa hàng.
func (s *OrderService) Settle(ctx context.Context, orderID primitive.ObjectID, paymentStatus, gateway string) (models.Order, error) {
	order, err := s.FindOneById(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	set := map[string]any{"paymentStatus": paymentStatus}
	if gateway != "" {
		set["paymentGateway"] = gateway
	}

	if !models.IsSettled(paymentStatus) || order.Status != models.OrderStatusInitiated {
		return s.UpdateById(ctx, orderID, set)
	}
	updated, err := s.transition(ctx, order, models.OrderStatusPlaced, paymentStatus, nil, set)
	if err != nil {
		return models.Order{}, err
	}
	if err := s.products.IncrementSold(ctx, updated.SoldQuantities()); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("⚠️ [ORDER] Chưa cập nhật được số lượng đã bán")
	}
	if paymentStatus == models.PaymentSuccess {
		s.creditShop(ctx, updated)
	}
	return updated, nil
}

// StaleFilter là filter đơn initiated chưa thanh toán, tạo trước mốc before (ms)
func StaleFilter(before int64) bson.M {
	return bson.M{
		"status":        models.OrderStatusInitiated,
		"paymentStatus": bson.M{"$in": bson.A{models.PaymentPending, models.PaymentFailed, models.PaymentProcessing}},
		"createdAt":     bson.M{"$lt": before},
	}
}

// FailStale chuyển tối đa limit đơn chưa thanh toán quá hạn sang failed (trả hàng về kho, nhả mã giảm giá).
// Trả số đơn đã chuyển; đơn nào lỗi thì bỏ qua để lần chạy sau thử lại.
func (s *OrderService) FailStale(ctx context.Context, before time.Time, limit int64) (int64, error) {
	stale, err := s.Find(ctx, StaleFilter(before.UnixMilli()),
		options.Find().SetSort(bson.M{"createdAt": 1}).SetLimit(limit).SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return 0, err
	}
	var done int64
	for _, o := range stale {
		if _, err := s.UpdateStatus(ctx, o.ID, nil, models.OrderStatusFailed, "Quá hạn thanh toán", nil); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("order_id", o.ID.Hex()).Warn("⚠️ Không huỷ được đơn quá hạn")
			continue
		}
		done++
	}
	return done, nil
}
