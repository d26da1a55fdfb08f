package global

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// InitValidator khởi tạo validator và đăng ký các rule tuỳ chỉnh
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("strong_password", validateStrongPassword)
	_ = Validate.RegisterValidation("slug", validateSlug)
	_ = Validate.RegisterValidation("object_id", validateObjectID)
	_ = Validate.RegisterValidation("exists", validateExists)
}

// validateNoXSS chặn các chuỗi có dấu hiệu chèn script
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, p := range []string{
		"<script", "javascript:", "onerror=", "onload=", "onclick=", "onmouseover=",
		"eval(", "document.cookie", "<iframe", "<object", "<embed",
	} {
		if strings.Contains(value, p) {
			return false
		}
	}
	return true
}

// validateStrongPassword yêu cầu >= 8 ký tự và ít nhất 3 trong 4 nhóm (hoa, thường, số, ký tự đặc biệt)
func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword dùng chung cho validator và service đổi mật khẩu
func IsStrongPassword(value string) bool {
	if len(value) < 8 {
		return false
	}
	var upper, lower, number, special bool
	for _, ch := range value {
		switch {
		case unicode.IsUpper(ch):
			upper = true
		case unicode.IsLower(ch):
			lower = true
		case unicode.IsNumber(ch):
			number = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			special = true
		}
	}
	n := 0
	for _, ok := range []bool{upper, lower, number, special} {
		if ok {
			n++
		}
	}
	return n >= 3
}

func validateSlug(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v == "" || slugRegex.MatchString(v)
}

func validateObjectID(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	return primitive.IsValidObjectID(v)
}

// validateExists kiểm tra khoá ngoại: validate:"exists=<collection>"
// Giá trị rỗng được bỏ qua.
func validateExists(fl validator.FieldLevel) bool {
	name := fl.Param()
	if name == "" {
		return false
	}

	var id primitive.ObjectID
	switch v := fl.Field().Interface().(type) {
	case string:
		if v == "" {
			return true
		}
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return false
		}
		id = oid
	case primitive.ObjectID:
		if v.IsZero() {
			return true
		}
		id = v
	case *primitive.ObjectID:
		if v == nil {
			return true
		}
		id = *v
	default:
		return false
	}

	coll, ok := RegistryCollections.Get(name)
	if !ok {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	return err == nil && n > 0
}
