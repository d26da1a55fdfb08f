package uploadsvc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want string
	}{
		{"png", pngHeader, "image/png"},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F'}, "image/jpeg"},
		{"gif", []byte("GIF89a......"), "image/gif"},
		{"svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`), "image/svg+xml"},
		{"văn bản thường", []byte("hello world"), ""},
		{"html", []byte("<html><body>x</body></html>"), ""},
		{"pdf", []byte("%PDF-1.4"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.head))
		})
	}
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	t.Run("chặn tên chứa đường dẫn", func(t *testing.T) {
		for _, name := range []string{"", "../x.png", "a/b.png", ".hidden"} {
			_, err := store.Path(name)
			assert.Error(t, err, name)
		}
	})

	t.Run("lưu, không ghi đè, xoá", func(t *testing.T) {
		n, err := store.Save("a.png", bytes.NewReader(pngHeader))
		require.NoError(t, err)
		assert.Equal(t, int64(len(pngHeader)), n)

		_, err = store.Save("a.png", bytes.NewReader(pngHeader))
		assert.Error(t, err)

		require.NoError(t, store.Remove("a.png"))
		_, err = os.Stat(filepath.Join(dir, "nested", "a.png"))
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, store.Remove("a.png"))
	})

	t.Run("vượt giới hạn thì xoá tệp dở", func(t *testing.T) {
		_, err := store.Save("big.png", &limitedReader{r: strings.NewReader(strings.Repeat("x", 11)), n: 10})
		assert.True(t, errors.Is(err, errLimitReached))
		_, statErr := os.Stat(filepath.Join(dir, "nested", "big.png"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("đúng bằng giới hạn", func(t *testing.T) {
		n, err := store.Save("exact.png", &limitedReader{r: strings.NewReader(strings.Repeat("x", 10)), n: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	})
}

func TestServeHeaders(t *testing.T) {
	t.Run("SVG tải về dạng attachment", func(t *testing.T) {
		h := ServeHeaders("logo.SVG")
		assert.Equal(t, `attachment; filename="logo.SVG"`, h["Content-Disposition"])
		assert.Contains(t, h["Content-Security-Policy"], "sandbox")
		assert.Equal(t, "nosniff", h["X-Content-Type-Options"])
	})

	t.Run("ảnh thường hiển thị inline nhưng vẫn có sandbox", func(t *testing.T) {
		h := ServeHeaders("a.png")
		_, ok := h["Content-Disposition"]
		assert.False(t, ok)
		assert.Contains(t, h["Content-Security-Policy"], "sandbox")
		assert.Equal(t, "nosniff", h["X-Content-Type-Options"])
	})
}
