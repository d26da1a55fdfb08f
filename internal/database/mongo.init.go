package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"vdg_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections tạo các collection còn thiếu trong database
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("liệt kê collection: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}
	for _, n := range names {
		if n == "" || have[n] {
			continue
		}
		if err := db.CreateCollection(ctx, n); err != nil {
			return fmt.Errorf("tạo collection %s: %w", n, err)
		}
		logger.WithCollection(n).Info("Đã tạo collection")
	}
	return nil
}

// indexSpec là một index dựng từ tag `index` của model
type indexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	TTL    *int32
}

func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	return opts
}

// parseIndexTag tách tag dạng "unique,sparse;single,order:-1" thành các nhóm key:value
func parseIndexTag(tag string) []map[string]string {
	var out []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			k, v, _ := strings.Cut(sub, ":")
			entry[k] = v
		}
		if len(entry) > 0 {
			out = append(out, entry)
		}
	}
	return out
}

func parseOrder(entry map[string]string) int {
	if entry["order"] == "-1" {
		return -1
	}
	return 1
}

// buildIndexSpecs đọc tag `index` trên các field của model.
// Hỗ trợ: text, single, unique (+sparse), ttl:<giây>, compound:<tên> (tên chứa "_unique" thì unique), order:-1.
func buildIndexSpecs(model any) ([]indexSpec, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model phải là struct, nhận %s", t.Kind())
	}

	var specs []indexSpec
	compound := map[string]*indexSpec{}
	var compoundOrder []string

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("index")
		if !ok {
			continue
		}
		field, _, _ := strings.Cut(f.Tag.Get("bson"), ",")
		if field == "" || field == "-" {
			continue
		}

		for _, entry := range parseIndexTag(tag) {
			_, sparse := entry["sparse"]
			if _, ok := entry["text"]; ok {
				specs = append(specs, indexSpec{Name: field + "_text", Keys: bson.D{{Key: field, Value: "text"}}})
			}
			if _, ok := entry["single"]; ok {
				specs = append(specs, indexSpec{Name: field + "_single", Keys: bson.D{{Key: field, Value: parseOrder(entry)}}})
			}
			if _, ok := entry["unique"]; ok {
				specs = append(specs, indexSpec{Name: field + "_unique", Keys: bson.D{{Key: field, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if v, ok := entry["ttl"]; ok {
				ttl, err := strconv.Atoi(v)
				if err != nil {
					return nil, fmt.Errorf("TTL không hợp lệ trên %s: %w", field, err)
				}
				sec := int32(ttl)
				specs = append(specs, indexSpec{Name: field + "_ttl", Keys: bson.D{{Key: field, Value: 1}}, TTL: &sec})
			}
			if group, ok := entry["compound"]; ok && group != "" {
				s, exists := compound[group]
				if !exists {
					s = &indexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = s
					compoundOrder = append(compoundOrder, group)
				}
				s.Keys = append(s.Keys, bson.E{Key: field, Value: parseOrder(entry)})
				s.Sparse = s.Sparse || sparse
			}
		}
	}

	sort.Strings(compoundOrder)
	for _, g := range compoundOrder {
		specs = append(specs, *compound[g])
	}
	return specs, nil
}

// sameIndex so sánh index hiện có với spec (keys, unique, ttl)
func sameIndex(existing bson.M, spec indexSpec) bool {
	keys, ok := existing["key"].(bson.M)
	if !ok || len(keys) != len(spec.Keys) {
		return false
	}
	for _, k := range spec.Keys {
		ev, ok := keys[k.Key]
		if !ok {
			return false
		}
		if want, isInt := k.Value.(int); isInt {
			var got int
			switch v := ev.(type) {
			case int32:
				got = int(v)
			case int64:
				got = int(v)
			case float64:
				got = int(v)
			default:
				return false
			}
			if got != want {
				return false
			}
		} else if ev != k.Value {
			return false
		}
	}
	unique, _ := existing["unique"].(bool)
	if unique != spec.Unique {
		return false
	}
	if spec.TTL != nil {
		ttl, ok := existing["expireAfterSeconds"].(int32)
		if !ok || ttl != *spec.TTL {
			return false
		}
	}
	return true
}

// CreateIndexes đồng bộ index của collection theo tag `index` trên model:
// tạo index còn thiếu, thay index sai cấu hình, bỏ các <field>_unique không còn khai báo.
func CreateIndexes(ctx context.Context, coll *mongo.Collection, model any) error {
	log := logger.WithCollection(coll.Name())

	specs, err := buildIndexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("lấy danh sách index: %w", err)
	}
	existing := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			_ = cursor.Close(ctx)
			return fmt.Errorf("giải mã index: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existing[name] = info
		}
	}
	_ = cursor.Close(ctx)

	declared := map[string]bool{}
	for _, spec := range specs {
		declared[spec.Name] = true
		if info, ok := existing[spec.Name]; ok {
			if sameIndex(info, spec) {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("xoá index %s: %w", spec.Name, err)
			}
			log.WithField("index", spec.Name).Info("Đã xoá index sai cấu hình")
		}
		if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: spec.options()}); err != nil {
			return fmt.Errorf("tạo index %s: %w", spec.Name, err)
		}
		log.WithField("index", spec.Name).Info("Đã tạo index")
	}

	for name, info := range existing {
		if !strings.HasSuffix(name, "_unique") || declared[name] {
			continue
		}
		if unique, _ := info["unique"].(bool); !unique {
			continue
		}
		if _, err := coll.Indexes().DropOne(ctx, name); err != nil {
			log.WithError(err).WithField("index", name).Warn("Không xoá được unique index thừa")
			continue
		}
		log.WithField("index", name).Info("Đã xoá unique index không còn khai báo")
	}
	return nil
}
