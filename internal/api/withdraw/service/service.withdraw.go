// Package withdrawsvc - service rút tiền của cửa hàng.
package withdrawsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authsvc "vdg_commerce/internal/api/auth/service"
	basemodels "vdg_commerce/internal/api/base/models"
	basesvc "vdg_commerce/internal/api/base/service"
	commercemodels "vdg_commerce/internal/api/commerce/models"
	commercesvc "vdg_commerce/internal/api/commerce/service"
	withdrawdto "vdg_commerce/internal/api/withdraw/dto"
	models "vdg_commerce/internal/api/withdraw/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/notification"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// openStatuses là các trạng thái mà số tiền vẫn đang bị giữ chờ xử lý
var openStatuses = bson.A{models.StatusPending, models.StatusProcessing, models.StatusOnHold}

// WithdrawService là service rút tiền
type WithdrawService struct {
	*basesvc.BaseServiceMongoImpl[models.Withdraw]
	shops     *commercesvc.ShopService
	users     *authsvc.UserService
	sequences commercesvc.SequenceGenerator
	notifier  notification.Notifier
}

// NewWithdrawService tạo WithdrawService
func NewWithdrawService() (*WithdrawService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Withdraws)
	if !exist {
		return nil, fmt.Errorf("failed to get withdraws collection: %w", common.ErrNotFound)
	}
	shops, err := commercesvc.NewShopService()
	if err != nil {
		return nil, err
	}
	users, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	sequences, err := commercesvc.NewSequenceService()
	if err != nil {
		return nil, err
	}
	return &WithdrawService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Withdraw](coll),
		shops:                shops,
		users:                users,
		sequences:            sequences,
		notifier:             notification.Default(),
	}, nil
}

func currency() string {
	if global.MongoDB_ServerConfig != nil {
		return global.MongoDB_ServerConfig.Currency
	}
	return "INR"
}

// ParseWithdrawSort dựng sort cho danh sách; mặc định mới nhất trước, _id làm tiêu chí phụ
func ParseWithdrawSort(orderBy, sortedBy string) bson.D {
	field := "createdAt"
	switch orderBy {
	case "amount", "status":
		field = orderBy
	}
	dir := -1
	if strings.EqualFold(sortedBy, "asc") {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// NewPaginatorInfo tính thông tin phân trang; lastPage tối thiểu là 1
func NewPaginatorInfo(total, page, perPage int64) models.PaginatorInfo {
	last := basemodels.CalcTotalPage(total, perPage)
	if last < 1 {
		last = 1
	}
	return models.PaginatorInfo{Total: total, CurrentPage: page, PerPage: perPage, LastPage: last}
}

var badges = map[string]models.StatusBadge{
	models.StatusApproved:   {Text: "text-approved", Color: "bg-accent"},
	models.StatusPending:    {Text: "text-pending", Color: "bg-purple-500"},
	models.StatusOnHold:     {Text: "text-on-hold", Color: "bg-pink-500"},
	models.StatusRejected:   {Text: "text-rejected", Color: "bg-red-500"},
	models.StatusProcessing: {Text: "text-processing", Color: "bg-yellow-500"},
}

// BadgeFor trả nhãn theo trạng thái (so sánh không phân biệt hoa thường); trạng thái lạ trả nil
func BadgeFor(status string) *models.StatusBadge {
	b, ok := badges[strings.ToUpper(status)]
	if !ok {
		return nil
	}
	return &b
}

// NewWithdrawView dựng một dòng hiển thị
func NewWithdrawView(w models.Withdraw, shop *models.ShopRef, currencyCode string) models.WithdrawView {
	return models.WithdrawView{
		Withdraw:    w,
		Shop:        shop,
		Price:       utility.FormatMoney(w.Amount, currencyCode),
		StatusBadge: BadgeFor(w.Status),
	}
}

// List trả một trang rút tiền; shopID nil là toàn hệ thống (admin)
func (s *WithdrawService) List(ctx context.Context, shopID *primitive.ObjectID, q *withdrawdto.WithdrawListQuery) (*models.WithdrawPage, error) {
	filter := bson.M{}
	if shopID != nil {
		filter["shopId"] = *shopID
	}
	if q.Status != "" {
		filter["status"] = strings.ToUpper(q.Status)
	}
	opts := options.Find().SetSort(ParseWithdrawSort(q.OrderBy, q.SortedBy))
	result, err := s.FindWithPagination(ctx, filter, q.Page, q.Limit, opts)
	if err != nil {
		return nil, err
	}

	shopIDs := make([]primitive.ObjectID, 0, len(result.Items))
	seen := map[primitive.ObjectID]bool{}
	for _, w := range result.Items {
		if !seen[w.ShopID] {
			seen[w.ShopID] = true
			shopIDs = append(shopIDs, w.ShopID)
		}
	}
	shops, err := s.shops.FindManyByIds(ctx, shopIDs)
	if err != nil {
		return nil, err
	}
	refs := make(map[primitive.ObjectID]*models.ShopRef, len(shops))
	for _, sh := range shops {
		refs[sh.ID] = &models.ShopRef{ID: sh.ID, Name: sh.Name}
	}

	cur := currency()
	views := make([]models.WithdrawView, 0, len(result.Items))
	for _, w := range result.Items {
		views = append(views, NewWithdrawView(w, refs[w.ShopID], cur))
	}
	return &models.WithdrawPage{
		Data:          views,
		PaginatorInfo: NewPaginatorInfo(result.Total, result.Page, result.Limit),
	}, nil
}

// outstanding là tổng số tiền đang chờ xử lý của cửa hàng
func (s *WithdrawService) outstanding(ctx context.Context, shopID primitive.ObjectID) (float64, error) {
	var rows []struct {
		Sum float64 `bson:"sum"`
	}
	pipeline := bson.A{
		bson.M{"$match": bson.M{"shopId": shopID, "status": bson.M{"$in": openStatuses}}},
		bson.M{"$group": bson.M{"_id": nil, "sum": bson.M{"$sum": "$amount"}}},
	}
	if err := s.Aggregate(ctx, pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Sum, nil
}

// Request tạo yêu cầu rút tiền; tổng các yêu cầu đang mở không được vượt số dư hiện tại
func (s *WithdrawService) Request(ctx context.Context, shopID, userID primitive.ObjectID, input *withdrawdto.WithdrawRequestInput) (models.Withdraw, error) {
	shop, err := s.shops.FindOneById(ctx, shopID)
	if err != nil {
		return models.Withdraw{}, err
	}
	open, err := s.outstanding(ctx, shopID)
	if err != nil {
		return models.Withdraw{}, err
	}
	amount := utility.RoundMoney(input.Amount)
	if amount <= 0 || amount+open > shop.Balance.CurrentBalance {
		return models.Withdraw{}, common.ErrInsufficientFunds
	}

	number, err := s.sequences.Next(ctx, commercemodels.SequenceWithdraw)
	if err != nil {
		return models.Withdraw{}, err
	}
	w, err := s.InsertOne(ctx, models.Withdraw{
		Number:        number,
		ShopID:        shopID,
		Amount:        amount,
		PaymentMethod: input.PaymentMethod,
		Details:       input.Details,
		Note:          input.Note,
		Status:        models.StatusPending,
		RequestedBy:   userID,
	})
	if err == nil {
		logger.WithContext(ctx).WithFields(map[string]any{"shop_id": shopID.Hex(), "number": number, "amount": amount}).Info("✅ [WITHDRAW] Đã tạo yêu cầu rút tiền")
	}
	return w, err
}

// UpdateStatus đổi trạng thái (admin). APPROVED trừ số dư cửa hàng nguyên tử trước khi ghi trạng thái.
func (s *WithdrawService) UpdateStatus(ctx context.Context, id primitive.ObjectID, to, note string) (models.Withdraw, error) {
	to = strings.ToUpper(to)
	w, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.Withdraw{}, err
	}
	if !models.CanTransition(w.Status, to) {
		return models.Withdraw{}, common.ErrInvalidTransition
	}

	if to == models.StatusApproved {
		if _, err := s.shops.DebitWithdraw(ctx, w.ShopID, w.Amount); err != nil {
			return models.Withdraw{}, err
		}
	}
	set := map[string]any{"status": to}
	if note != "" {
		set["note"] = note
	}
	updated, err := s.UpdateOne(ctx, bson.M{"_id": id, "status": w.Status}, set, nil)
	if err != nil {
		if to == models.StatusApproved {
			s.revertDebit(ctx, w)
		}
		if errors.Is(err, common.ErrNotFound) {
			return models.Withdraw{}, common.ErrInvalidState
		}
		return models.Withdraw{}, err
	}

	logger.WithContext(ctx).WithFields(map[string]any{"number": updated.Number, "from": w.Status, "to": to}).Info("✅ [WITHDRAW] Đã đổi trạng thái")
	s.notifyOwner(ctx, updated)
	return updated, nil
}

func (s *WithdrawService) revertDebit(ctx context.Context, w models.Withdraw) {
	_, err := s.shops.UpdateById(ctx, w.ShopID, &basesvc.UpdateData{Inc: map[string]any{
		"balance.currentBalance":  w.Amount,
		"balance.withdrawnAmount": -w.Amount,
	}})
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("number", w.Number).Error("🔥 [WITHDRAW] Không hoàn được số dư sau khi duyệt thất bại")
	}
}

func (s *WithdrawService) notifyOwner(ctx context.Context, w models.Withdraw) {
	shop, err := s.shops.FindOneById(ctx, w.ShopID)
	if err != nil {
		return
	}
	owner, err := s.users.FindOneById(ctx, shop.OwnerID)
	if err != nil {
		return
	}
	if err := s.notifier.Notify(ctx, notification.EventWithdrawStatus, owner.Email, map[string]any{
		"number": w.Number,
		"amount": utility.FormatMoney(w.Amount, currency()),
		"status": w.Status,
		"note":   w.Note,
	}); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("⚠️ [WITHDRAW] Gửi thông báo thất bại")
	}
}

// DeletePending xoá yêu cầu còn PENDING; shopID khác nil thì chỉ xoá của cửa hàng đó
func (s *WithdrawService) DeletePending(ctx context.Context, id primitive.ObjectID, shopID *primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	if shopID != nil {
		filter["shopId"] = *shopID
	}
	exists, err := s.DocumentExists(ctx, filter)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrNotFound
	}
	filter["status"] = models.StatusPending
	if _, err := s.FindOneAndDelete(ctx, filter, nil); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidState
		}
		return err
	}
	return nil
}
