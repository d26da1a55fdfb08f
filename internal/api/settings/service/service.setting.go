// Package settingssvc - đọc/ghi cấu hình và nạp dữ liệu mặc định từ file YAML.
package settingssvc

import (
	"context"
	"errors"
	"fmt"
	"os"

	basesvc "vdg_commerce/internal/api/base/service"
	pricingmodels "vdg_commerce/internal/api/pricing/models"
	models "vdg_commerce/internal/api/settings/models"
	"vdg_commerce/internal/common"
	"vdg_commerce/internal/global"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

// SettingService là service cấu hình
type SettingService struct {
	*basesvc.BaseServiceMongoImpl[models.Setting]
}

// NewSettingService tạo SettingService
func NewSettingService() (*SettingService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Settings)
	if !exist {
		return nil, fmt.Errorf("failed to get settings collection: %w", common.ErrNotFound)
	}
	return &SettingService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Setting](coll)}, nil
}

// Get trả cấu hình theo key; chưa có thì trả bản rỗng
func (s *SettingService) Get(ctx context.Context, key string) (*models.Setting, error) {
	if key == "" {
		key = models.DefaultKey
	}
	setting, err := s.FindOne(ctx, bson.M{"key": key}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return &models.Setting{Key: key, Options: map[string]any{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpsertFields dựng update cho Upsert: merge thì $set từng option, ngược lại thay cả options
func UpsertFields(key string, opts map[string]any, merge bool, now int64) bson.M {
	set := bson.M{"updatedAt": now}
	if merge {
		for k, v := range opts {
			set["options."+k] = v
		}
	} else {
		set["options"] = opts
	}
	return bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"key": key, "createdAt": now},
	}
}

// Save tạo hoặc cập nhật cấu hình theo key
func (s *SettingService) Save(ctx context.Context, key string, opts map[string]any, merge bool) (*models.Setting, error) {
	if key == "" {
		key = models.DefaultKey
	}
	update := UpsertFields(key, opts, merge, utility.CurrentTimeInMilli())
	var out models.Setting
	err := s.Collection().FindOneAndUpdate(ctx, bson.M{"key": key}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	logger.WithContext(ctx).WithField("key", key).Info("✅ Đã lưu cấu hình")
	return &out, nil
}

// Seed là nội dung file dữ liệu mặc định
type Seed struct {
	Key       string                   `yaml:"key"`
	Options   map[string]any           `yaml:"options"`
	Taxes     []pricingmodels.Tax      `yaml:"taxes"`
	Shippings []pricingmodels.Shipping `yaml:"shippings"`
}

// ParseSeed đọc seed từ YAML
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "File seed không hợp lệ", common.StatusBadRequest, err)
	}
	if seed.Key == "" {
		seed.Key = models.DefaultKey
	}
	return &seed, nil
}

// LoadSeed đọc seed từ file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("đọc file seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// SeedResult cho biết những gì đã được tạo
type SeedResult struct {
	Settings  bool `json:"settings"`
	Taxes     int  `json:"taxes"`
	Shippings int  `json:"shippings"`
}

// ApplySeed chỉ ghi dữ liệu còn thiếu: cấu hình khi chưa có key, thuế và phí ship khi collection trống
func ApplySeed(ctx context.Context, seed *Seed) (*SeedResult, error) {
	log := logger.WithContext(ctx).WithField("module", "seed")
	res := &SeedResult{}
	now := utility.CurrentTimeInMilli()

	settings, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Settings)
	if err != nil {
		return nil, err
	}
	r, err := settings.UpdateOne(ctx, bson.M{"key": seed.Key},
		bson.M{"$setOnInsert": bson.M{"key": seed.Key, "options": seed.Options, "createdAt": now, "updatedAt": now}},
		options.Update().SetUpsert(true))
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	res.Settings = r.UpsertedCount > 0

	insertIfEmpty := func(name string, docs []any) (int, error) {
		if len(docs) == 0 {
			return 0, nil
		}
		coll, err := global.RegistryCollections.MustGet(name)
		if err != nil {
			return 0, err
		}
		n, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return 0, common.ConvertMongoError(err)
		}
		if n > 0 {
			return 0, nil
		}
		out, err := coll.InsertMany(ctx, docs)
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return 0, common.ConvertMongoError(err)
		}
		if out == nil {
			return 0, nil
		}
		return len(out.InsertedIDs), nil
	}

	taxes := make([]any, 0, len(seed.Taxes))
	for i := range seed.Taxes {
		t := seed.Taxes[i]
		t.CreatedAt, t.UpdatedAt = now, now
		taxes = append(taxes, t)
	}
	if res.Taxes, err = insertIfEmpty(global.MongoDB_ColNames.Taxes, taxes); err != nil {
		return nil, err
	}

	ships := make([]any, 0, len(seed.Shippings))
	for i := range seed.Shippings {
		sh := seed.Shippings[i]
		sh.CreatedAt, sh.UpdatedAt = now, now
		ships = append(ships, sh)
	}
	if res.Shippings, err = insertIfEmpty(global.MongoDB_ColNames.Shippings, ships); err != nil {
		return nil, err
	}

	log.WithField("result", res).Info("✅ Đã nạp dữ liệu mặc định")
	return res, nil
}
