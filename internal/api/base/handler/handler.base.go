// Package basehdl cung cấp handler CRUD generic và các tiện ích xử lý request/response.
package basehdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	basesvc "vdg_commerce/internal/api/base/service"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// FilterOptions cấu hình validate filter từ client
type FilterOptions struct {
	DeniedFields     []string
	AllowedOperators []string
	MaxFields        int
}

// ModelConverter được DTO triển khai khi cần chuyển đổi đặc thù sang model
type ModelConverter[T any] interface {
	ToModel() (*T, error)
}

// BaseHandler là handler CRUD generic.
//
// Type parameters:
// - T: model lưu trong MongoDB
// - CreateInput: DTO khi tạo mới
// - UpdateInput: DTO khi cập nhật
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService   basesvc.BaseServiceMongo[T]
	filterOptions FilterOptions
}

// NewBaseHandler tạo BaseHandler với cấu hình filter mặc định
func NewBaseHandler[T any, CreateInput any, UpdateInput any](baseService basesvc.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService:   baseService,
		filterOptions: defaultFilterOptions(),
	}
}

func defaultFilterOptions() FilterOptions {
	return FilterOptions{
		DeniedFields:     []string{"password", "token", "tokens", "secret", "key", "hash"},
		AllowedOperators: []string{"$eq", "$gt", "$gte", "$lt", "$lte", "$in", "$nin", "$exists", "$regex", "$options"},
		MaxFields:        10,
	}
}

// ====================================
// SHOP SCOPE
// ====================================

// hasShopIDField kiểm tra model có field ShopID (dữ liệu thuộc cửa hàng)
func (h *BaseHandler[T, CreateInput, UpdateInput]) hasShopIDField() bool {
	var zero T
	val := reflect.ValueOf(zero)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return false
	}
	f, ok := val.Type().FieldByName("ShopID")
	return ok && f.Type == reflect.TypeOf(primitive.ObjectID{})
}

// GetShopID lấy shop hiện hành do middleware ShopContext gắn vào
func GetShopID(c fiber.Ctx) *primitive.ObjectID {
	s, ok := c.Locals("shop_id").(string)
	if !ok || s == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil
	}
	return &id
}

// GetUserID lấy user đang đăng nhập do AuthMiddleware gắn vào
func GetUserID(c fiber.Ctx) *primitive.ObjectID {
	s, ok := c.Locals("user_id").(string)
	if !ok || s == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil
	}
	return &id
}

// setShopID gán ShopID cho model nếu model chưa có giá trị
func (h *BaseHandler[T, CreateInput, UpdateInput]) setShopID(model *T, shopID primitive.ObjectID) {
	if !h.hasShopIDField() || shopID.IsZero() {
		return
	}
	val := reflect.ValueOf(model).Elem()
	field := val.FieldByName("ShopID")
	if !field.CanSet() {
		return
	}
	if current, ok := field.Interface().(primitive.ObjectID); ok && current.IsZero() {
		field.Set(reflect.ValueOf(shopID))
	}
}

// applyShopFilter giới hạn filter theo shop hiện hành (nếu model thuộc shop)
func (h *BaseHandler[T, CreateInput, UpdateInput]) applyShopFilter(c fiber.Ctx, filter map[string]any) map[string]any {
	if !h.hasShopIDField() {
		return filter
	}
	shopID := GetShopID(c)
	if shopID == nil {
		return filter
	}
	if filter == nil {
		filter = map[string]any{}
	}
	filter["shopId"] = *shopID
	return filter
}

// ====================================
// PARSE & VALIDATE
// ====================================

// ValidateInput validate struct theo tag `validate`
func (h *BaseHandler[T, CreateInput, UpdateInput]) ValidateInput(input any) error {
	return ValidateStruct(input)
}

// ParseRequestBody parse body JSON rồi validate
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input any) error {
	return ParseBody(c, input)
}

// ParseRequestQuery bind query string vào struct rồi validate
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestQuery(c fiber.Ctx, input any) error {
	return ParseQuery(c, input)
}

// ValidateStruct validate struct bằng validator dùng chung
func ValidateStruct(input any) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return nil
}

// ParseBody parse body JSON (UseNumber để giữ chính xác số) rồi validate nếu là struct
func ParseBody(c fiber.Ctx, input any) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	if reflect.Indirect(reflect.ValueOf(input)).Kind() != reflect.Struct {
		return nil
	}
	return ValidateStruct(input)
}

// ParseQuery bind query string vào struct rồi validate
func ParseQuery(c fiber.Ctx, input any) error {
	if err := c.Bind().Query(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return ValidateStruct(input)
}

// ProcessFilter đọc `filter` (JSON) từ query, chuẩn hoá ObjectID rồi validate
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFilter(c fiber.Ctx) (map[string]any, error) {
	var filter map[string]any
	filterStr := c.Query("filter", "{}")
	if err := json.Unmarshal([]byte(filterStr), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter không đúng định dạng JSON: %v", err),
			common.StatusBadRequest,
			filterStr,
		)
	}
	if filter == nil {
		filter = map[string]any{}
	}
	filter = normalizeFilter(filter)
	if err := h.validateFilter(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// normalizeFilter chuyển chuỗi ObjectID thành ObjectID với field tên kết thúc bằng "id"
func normalizeFilter(filter map[string]any) map[string]any {
	out := make(map[string]any, len(filter))
	for field, value := range filter {
		lower := strings.ToLower(field)
		isIDField := lower == "_id" || (strings.HasSuffix(lower, "id") && len(lower) > 2)
		out[field] = normalizeFilterValue(value, isIDField)
	}
	return out
}

func normalizeFilterValue(value any, isIDField bool) any {
	switch v := value.(type) {
	case string:
		if isIDField && primitive.IsValidObjectID(v) {
			oid, _ := primitive.ObjectIDFromHex(v)
			return oid
		}
		return v
	case []any:
		arr := make([]any, len(v))
		for i, item := range v {
			arr[i] = normalizeFilterValue(item, isIDField)
		}
		return arr
	case map[string]any:
		if oid, ok := v["$oid"].(string); ok && primitive.IsValidObjectID(oid) {
			id, _ := primitive.ObjectIDFromHex(oid)
			return id
		}
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = normalizeFilterValue(val, isIDField)
		}
		return m
	}
	return value
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) validateFilter(filter map[string]any) error {
	opts := h.filterOptions
	if opts.MaxFields == 0 {
		opts = defaultFilterOptions()
	}

	if len(filter) > opts.MaxFields {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter tối đa %d trường, hiện có %d", opts.MaxFields, len(filter)),
			common.StatusBadRequest,
			nil,
		)
	}

	for field, value := range filter {
		if utility.Contains(opts.DeniedFields, field) {
			return common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Trường '%s' không được phép dùng trong filter", field),
				common.StatusBadRequest,
				nil,
			)
		}
		if strings.HasPrefix(field, "$") {
			return common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Toán tử '%s' không được dùng ở cấp gốc của filter", field),
				common.StatusBadRequest,
				nil,
			)
		}
		if m, ok := value.(map[string]any); ok {
			for op := range m {
				if strings.HasPrefix(op, "$") && !utility.Contains(opts.AllowedOperators, op) {
					return common.NewError(
						common.ErrCodeValidationFormat,
						fmt.Sprintf("Toán tử '%s' không được phép. Cho phép: %v", op, opts.AllowedOperators),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}
	return nil
}

// rawOptions là `options` (JSON) từ query: projection, sort, limit, skip
type rawOptions struct {
	Projection map[string]any  `json:"projection"`
	Sort       json.RawMessage `json:"sort"`
	Limit      *int64          `json:"limit"`
	Skip       *int64          `json:"skip"`
}

// parseSort đọc sort giữ nguyên thứ tự key trong JSON
func parseSort(raw json.RawMessage) (bson.D, error) {
	sort := bson.D{}
	if len(raw) == 0 {
		return sort, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("sort phải là object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		field, _ := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("giá trị sort của '%s' phải là 1 hoặc -1", field)
		}
		dir, err := num.Int64()
		if err != nil || (dir != 1 && dir != -1) {
			return nil, fmt.Errorf("giá trị sort của '%s' phải là 1 hoặc -1", field)
		}
		sort = append(sort, bson.E{Key: field, Value: int(dir)})
	}
	return sort, nil
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) parseOptions(c fiber.Ctx) (*rawOptions, bson.D, error) {
	optionsStr := c.Query("options", "{}")
	var raw rawOptions
	dec := json.NewDecoder(strings.NewReader(optionsStr))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Options không hợp lệ (chỉ hỗ trợ projection, sort, limit, skip): %v", err),
			common.StatusBadRequest,
			optionsStr,
		)
	}

	denied := h.filterOptions.DeniedFields
	for field := range raw.Projection {
		if utility.Contains(denied, field) {
			return nil, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Trường '%s' không được phép dùng trong projection", field), common.StatusBadRequest, nil)
		}
	}

	sort, err := parseSort(raw.Sort)
	if err != nil {
		return nil, nil, common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, nil)
	}
	for _, e := range sort {
		if utility.Contains(denied, e.Key) {
			return nil, nil, common.NewError(common.ErrCodeValidationFormat,
				fmt.Sprintf("Trường '%s' không được phép dùng trong sort", e.Key), common.StatusBadRequest, nil)
		}
	}

	if raw.Limit != nil && (*raw.Limit <= 0 || *raw.Limit > 1000) {
		return nil, nil, common.NewError(common.ErrCodeValidationFormat, "limit phải trong khoảng 1..1000", common.StatusBadRequest, nil)
	}
	if raw.Skip != nil && *raw.Skip < 0 {
		return nil, nil, common.NewError(common.ErrCodeValidationFormat, "skip không được âm", common.StatusBadRequest, nil)
	}
	return &raw, sort, nil
}

// ProcessFindOptions chuyển `options` thành FindOptions
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFindOptions(c fiber.Ctx) (*mongoopts.FindOptions, error) {
	raw, sort, err := h.parseOptions(c)
	if err != nil {
		return nil, err
	}
	opts := mongoopts.Find()
	if len(raw.Projection) > 0 {
		opts.SetProjection(raw.Projection)
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if raw.Limit != nil {
		opts.SetLimit(*raw.Limit)
	}
	if raw.Skip != nil {
		opts.SetSkip(*raw.Skip)
	}
	return opts, nil
}

// ProcessFindOneOptions chuyển `options` thành FindOneOptions
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFindOneOptions(c fiber.Ctx) (*mongoopts.FindOneOptions, error) {
	raw, sort, err := h.parseOptions(c)
	if err != nil {
		return nil, err
	}
	opts := mongoopts.FindOne()
	if len(raw.Projection) > 0 {
		opts.SetProjection(raw.Projection)
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts, nil
}

// ParsePagination đọc page (mặc định 1) và limit (mặc định 10)
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParsePagination(c fiber.Ctx) (int64, int64) {
	return ParsePagination(c, 10)
}

// ParsePagination là bản dùng chung cho handler không embed BaseHandler
func ParsePagination(c fiber.Ctx, defaultLimit int64) (int64, int64) {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", ""), 10, 64)
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	return page, limit
}

// GetIDFromContext lấy và kiểm tra :id từ URI
func (h *BaseHandler[T, CreateInput, UpdateInput]) GetIDFromContext(c fiber.Ctx) (primitive.ObjectID, error) {
	return ParseObjectIDParam(c, "id")
}

// ParseObjectIDParam đọc tham số URI dạng ObjectID
func ParseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	raw := c.Params(name)
	if raw == "" {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("Thiếu tham số '%s' trong URL", name), common.StatusBadRequest, nil)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("'%s' không phải ObjectID hợp lệ", raw), common.StatusBadRequest, nil)
	}
	return id, nil
}

// transformCreateInputToModel chuyển DTO sang model: ưu tiên ToModel(), nếu không có thì map qua bson
func (h *BaseHandler[T, CreateInput, UpdateInput]) transformCreateInputToModel(input *CreateInput) (*T, error) {
	if conv, ok := any(input).(ModelConverter[T]); ok {
		return conv.ToModel()
	}
	if model, ok := any(input).(*T); ok {
		return model, nil
	}
	var model T
	if err := utility.FromMap(input, &model); err != nil {
		return nil, err
	}
	return &model, nil
}
