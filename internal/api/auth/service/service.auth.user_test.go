package authsvc

import (
	"testing"

	models "vdg_commerce/internal/api/auth/models"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsOf(t *testing.T) {
	assert.Equal(t, []string{"super_admin", "store_owner", "customer"}, PermissionsOf(models.RoleSuperAdmin))
	assert.Equal(t, []string{"customer"}, PermissionsOf("unknown"), "vai trò lạ coi như customer")
}

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		required []string
		want     bool
	}{
		{"không yêu cầu vai trò", models.RoleCustomer, nil, true},
		{"super admin có quyền store owner", models.RoleSuperAdmin, []string{models.RoleStoreOwner}, true},
		{"staff không có quyền store owner", models.RoleStaff, []string{models.RoleStoreOwner}, false},
		{"staff có quyền staff hoặc owner", models.RoleStaff, []string{models.RoleStoreOwner, models.RoleStaff}, true},
		{"customer không có quyền admin", models.RoleCustomer, []string{models.RoleSuperAdmin}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAnyRole(tt.role, tt.required...))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@shop.vn", normalizeEmail("  Admin@Shop.VN "))
}
