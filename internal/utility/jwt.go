package utility

import (
	"errors"
	"fmt"
	"time"

	"vdg_commerce/internal/common"

	"github.com/dgrijalva/jwt-go"
)

// JwtClaims là dữ liệu mã hoá trong access token
type JwtClaims struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	Time         string `json:"time"`
	RandomNumber string `json:"randomNumber"`
	jwt.StandardClaims
}

// CreateToken ký access token HS256 cho user; ttl <= 0 nghĩa là không hết hạn.
// Trả về map {"token": ..., "expiresAt": <unix giây>}
func CreateToken(secret string, claims JwtClaims, ttl time.Duration) (map[string]string, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret rỗng: %w", common.ErrRequiredField)
	}
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.Subject = claims.UserID
	expiresAt := ""
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
		expiresAt = fmt.Sprintf("%d", claims.ExpiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("ký jwt: %w", err)
	}
	return map[string]string{"token": signed, "expiresAt": expiresAt}, nil
}

// ParseToken kiểm tra chữ ký và hạn của token.
// Lỗi trả về là common.ErrTokenExpired hoặc common.ErrTokenInvalid.
func ParseToken(secret, tokenString string) (*JwtClaims, error) {
	claims := &JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("thuật toán ký không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
