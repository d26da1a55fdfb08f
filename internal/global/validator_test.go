package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Name     string `validate:"required,no_xss"`
	Password string `validate:"required,strong_password"`
	Slug     string `validate:"omitempty,slug"`
	ShopID   string `validate:"omitempty,object_id"`
}

func TestInitValidator_CustomRules(t *testing.T) {
	InitValidator()

	ok := registerInput{Name: "Asha", Password: "Secret#2024", Slug: "summer-sale", ShopID: "65a1b2c3d4e5f60718293a4b"}
	assert.NoError(t, Validate.Struct(ok))

	cases := map[string]registerInput{
		"xss trong tên":      {Name: "<script>alert(1)</script>", Password: "Secret#2024"},
		"mật khẩu yếu":       {Name: "Asha", Password: "password"},
		"slug sai định dạng": {Name: "Asha", Password: "Secret#2024", Slug: "Summer Sale"},
		"object id sai":      {Name: "Asha", Password: "Secret#2024", ShopID: "xyz"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Validate.Struct(in))
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Abcdef12"))
	assert.True(t, IsStrongPassword("abcdef1!"))
	assert.False(t, IsStrongPassword("Ab1!"))
	assert.False(t, IsStrongPassword("abcdefgh"))
}
