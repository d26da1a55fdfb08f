package settingssvc

import (
	"os"
	"path/filepath"
	"testing"

	pricingmodels "vdg_commerce/internal/api/pricing/models"
	models "vdg_commerce/internal/api/settings/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpsertFields(t *testing.T) {
	t.Run("ghi đè toàn bộ options", func(t *testing.T) {
		u := UpsertFields("default", map[string]any{"currency": "INR"}, false, 42)
		set := u["$set"].(bson.M)
		assert.Equal(t, map[string]any{"currency": "INR"}, set["options"])
		assert.Equal(t, int64(42), set["updatedAt"])
		assert.Equal(t, bson.M{"key": "default", "createdAt": int64(42)}, u["$setOnInsert"])
	})

	t.Run("merge từng option", func(t *testing.T) {
		u := UpsertFields("default", map[string]any{"useOtp": true, "seo": map[string]any{"metaTitle": "x"}}, true, 1)
		set := u["$set"].(bson.M)
		assert.NotContains(t, set, "options")
		assert.Equal(t, true, set["options.useOtp"])
		assert.Equal(t, map[string]any{"metaTitle": "x"}, set["options.seo"])
	})
}

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed([]byte(`
options:
  currency: INR
  contactDetails:
    location:
      city: Chennai
taxes:
  - name: GST
    rate: 18
    isGlobal: true
shippings:
  - name: Standard
    amount: 50
    type: fixed
    isGlobal: true
`))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultKey, seed.Key)
	assert.Equal(t, "INR", seed.Options["currency"])
	require.Len(t, seed.Taxes, 1)
	assert.Equal(t, 18.0, seed.Taxes[0].Rate)
	assert.True(t, seed.Taxes[0].IsGlobal)
	require.Len(t, seed.Shippings, 1)
	assert.Equal(t, pricingmodels.TypeFixed, seed.Shippings[0].Type)

	_, err = ParseSeed([]byte("options: [unclosed"))
	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: shop\noptions:\n  siteTitle: Demo\n"), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, "shop", seed.Key)
	assert.Equal(t, "Demo", seed.Options["siteTitle"])

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
