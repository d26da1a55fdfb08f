package bootstrap

import (
	"testing"

	"vdg_commerce/internal/global"

	"github.com/stretchr/testify/assert"
)

func TestCollectionSpecs(t *testing.T) {
	InitColNames()
	specs := CollectionSpecs()

	seen := map[string]bool{}
	for _, s := range specs {
		assert.NotEmpty(t, s.Name)
		assert.False(t, seen[s.Name], "trùng collection %s", s.Name)
		seen[s.Name] = true
	}
	for _, name := range []string{
		global.MongoDB_ColNames.Orders,
		global.MongoDB_ColNames.Withdraws,
		global.MongoDB_ColNames.Coupons,
		global.MongoDB_ColNames.Attachments,
		global.MongoDB_ColNames.Sequences,
	} {
		assert.True(t, seen[name], name)
	}
}
