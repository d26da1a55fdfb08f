package logger

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestLogger(cfg *LogConfig, buf *bytes.Buffer) (*logrus.Logger, *AsyncHook) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(io.Discard)
	l.AddHook(NewFilterHook(cfg))
	h := NewAsyncHookWithWriters([]io.Writer{buf}, 16)
	l.AddHook(h)
	return l, h
}

func TestFilterHook_LocTheoModuleVaLevel(t *testing.T) {
	var buf bytes.Buffer
	l, h := newTestLogger(&LogConfig{FilterModules: "order, withdraw", FilterLogTypes: "info,error"}, &buf)

	l.WithField("module", "order").Info("đơn hàng mới")
	l.WithField("module", "catalog").Info("bị lọc theo module")
	l.WithField("module", "withdraw").Warn("bị lọc theo level")
	l.Error("không có module vẫn ghi")
	assert.NoError(t, h.Close())

	out := buf.String()
	assert.Contains(t, out, "đơn hàng mới")
	assert.Contains(t, out, "không có module vẫn ghi")
	assert.NotContains(t, out, "bị lọc theo module")
	assert.NotContains(t, out, "bị lọc theo level")
	assert.NotContains(t, out, filteredField)
}

func TestFilterHook_EndpointPrefix(t *testing.T) {
	var buf bytes.Buffer
	l, h := newTestLogger(&LogConfig{FilterEndpoints: "/api/v1/orders"}, &buf)

	l.WithField("path", "/api/v1/orders/find").Info("khớp prefix")
	l.WithField("path", "/api/v1/coupons").Info("không khớp")
	assert.NoError(t, h.Close())

	assert.Contains(t, buf.String(), "khớp prefix")
	assert.NotContains(t, buf.String(), "không khớp")
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, parseFilter(""))
	assert.Nil(t, parseFilter("*"))
	assert.Nil(t, parseFilter("a,*"))
	assert.Equal(t, map[string]bool{"get": true, "post": true}, parseFilter(" GET , post ,"))
}

func TestAsyncHook_CloseIdempotent(t *testing.T) {
	var buf bytes.Buffer
	l, h := newTestLogger(&LogConfig{}, &buf)
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())

	// sau khi đóng vẫn ghi trực tiếp
	l.Info("sau khi đóng")
	assert.Contains(t, buf.String(), "sau khi đóng")
}
