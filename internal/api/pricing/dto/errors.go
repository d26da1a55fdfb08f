package pricingdto

import "vdg_commerce/internal/common"

// ErrPercentTooHigh là lỗi mã phần trăm vượt quá 100
var ErrPercentTooHigh = common.NewError(common.ErrCodeValidationInput, "Giảm giá phần trăm không được vượt quá 100", common.StatusBadRequest, nil)
