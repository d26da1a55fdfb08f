package uploadhdl

import (
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uploadsvc "vdg_commerce/internal/api/upload/service"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	assert.Nil(t, CollectFiles(nil))

	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"attachment":   {{Filename: "a.png"}},
		"attachment[]": {{Filename: "b.png"}, {Filename: "c.png"}},
		"other":        {{Filename: "x.png"}},
	}}
	var names []string
	for _, f := range CollectFiles(form) {
		names = append(names, f.Filename)
	}
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, names)
}

func TestServeFile(t *testing.T) {
	store, err := uploadsvc.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save("x.svg", strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`))
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/files/:name", ServeFile(store))

	t.Run("SVG bị ép tải về và chạy trong sandbox", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/files/x.svg", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment"))
		assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "sandbox")
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	})

	t.Run("tên tệp chứa thư mục bị từ chối", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/files/..x.svg", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
