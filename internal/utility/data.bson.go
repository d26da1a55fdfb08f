package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển struct (hoặc map) sang map theo tag bson
func ToMap(s any) (map[string]any, error) {
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal: %w", err)
	}
	var out map[string]any
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal: %w", err)
	}
	return out, nil
}

// FromMap giải mã map (hoặc bson.M) vào struct đích theo tag bson
func FromMap(m any, target any) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("bson marshal: %w", err)
	}
	return bson.Unmarshal(raw, target)
}
