// Package settingsdto - DTO cấu hình.
package settingsdto

// SettingUpsertInput là dữ liệu ghi cấu hình; merge=true thì chỉ ghi đè các option được gửi
type SettingUpsertInput struct {
	Key     string         `json:"key" validate:"omitempty,max=60,slug"`
	Options map[string]any `json:"options" validate:"required"`
	Merge   bool           `json:"merge"`
}
