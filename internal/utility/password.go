package utility

import (
	"errors"
	"fmt"

	"vdg_commerce/internal/common"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword băm mật khẩu bằng bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("băm mật khẩu: %w", err)
	}
	return string(hash), nil
}

// CheckPassword so khớp mật khẩu với hash, sai thì trả ErrInvalidCredentials
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrInvalidCredentials
	}
	if err != nil {
		return common.NewError(common.ErrCodeAuthCredentials, "Không kiểm tra được mật khẩu", common.StatusInternalServerError, err.Error())
	}
	return nil
}

// NewOpaqueToken sinh token ngẫu nhiên (refresh token, token đặt lại mật khẩu)
func NewOpaqueToken() string {
	return uuid.NewString() + uuid.NewString()[:8]
}
