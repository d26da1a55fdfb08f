package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vdg_commerce/config"
	"vdg_commerce/internal/notification/channels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	n := NewEmailNotifier(&config.Configuration{FrontendURL: "https://shop.example.com"})

	tpl, err := n.Render(EventOrderPlaced, map[string]any{"tracking": "20240001", "total": "₹1,200.00", "link": "/orders/20240001"})
	require.NoError(t, err)
	assert.Equal(t, "Đơn hàng #20240001 đã được đặt", tpl.Subject)
	assert.Contains(t, tpl.Content, "₹1,200.00")
	require.Len(t, tpl.CTAs, 1)
	assert.Equal(t, "https://shop.example.com/orders/20240001", tpl.CTAs[0].URL)

	_, err = n.Render("unknown", nil)
	assert.Error(t, err)
}

func TestNotify(t *testing.T) {
	t.Run("chưa cấu hình SMTP thì không gửi", func(t *testing.T) {
		called := false
		n := NewEmailNotifier(&config.Configuration{}).WithSender(func(context.Context, channels.SMTPSender, string, *channels.RenderedTemplate) error {
			called = true
			return nil
		})
		require.NoError(t, n.Notify(context.Background(), EventPasswordReset, "a@b.c", map[string]any{"token": "x", "ttl": "1h"}))
		assert.False(t, called)
	})

	t.Run("có SMTP thì gửi đúng người nhận", func(t *testing.T) {
		var got string
		var subject string
		n := NewEmailNotifier(&config.Configuration{SMTPHost: "smtp.local", SMTPPort: 25, SMTPFrom: "no-reply@shop"}).
			WithSender(func(_ context.Context, s channels.SMTPSender, to string, tpl *channels.RenderedTemplate) error {
				got = to
				subject = tpl.Subject
				assert.Equal(t, "smtp.local", s.Host)
				return nil
			})
		err := n.Notify(context.Background(), EventWithdrawStatus, "vendor@shop", map[string]any{"number": 7, "status": "APPROVED", "amount": "₹50.00"})
		require.NoError(t, err)
		assert.Equal(t, "vendor@shop", got)
		assert.True(t, strings.HasPrefix(subject, "Yêu cầu rút tiền #7"))
	})

	t.Run("lỗi gửi được trả về khi gửi đồng bộ", func(t *testing.T) {
		n := NewEmailNotifier(&config.Configuration{SMTPHost: "smtp.local"}).
			WithSender(func(context.Context, channels.SMTPSender, string, *channels.RenderedTemplate) error {
				return errors.New("dial tcp: refused")
			})
		err := n.Notify(context.Background(), EventOrderStatusChanged, "c@d.e", map[string]any{"tracking": "1", "status": "shipped"})
		assert.Error(t, err)
	})
}

func TestBuildMessage(t *testing.T) {
	msg := channels.BuildMessage(channels.SMTPSender{From: "no-reply@shop", FromName: "Shop"}, "c@d.e",
		&channels.RenderedTemplate{Subject: "Xin chào", Content: "<p>hi</p>"})
	assert.Equal(t, []string{"c@d.e"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Xin chào"}, msg.GetHeader("Subject"))
}
