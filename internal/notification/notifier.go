// Package notification gửi thông báo nghiệp vụ (đơn hàng, rút tiền, đặt lại mật khẩu).
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"vdg_commerce/config"
	"vdg_commerce/internal/logger"
	"vdg_commerce/internal/notification/channels"
	"vdg_commerce/internal/utility"
)

// Notifier là giao diện service nghiệp vụ dùng để gửi thông báo
type Notifier interface {
	Notify(ctx context.Context, event, recipient string, data map[string]any) error
}

// SendFunc gửi một email đã render; thay được trong test
type SendFunc func(ctx context.Context, sender channels.SMTPSender, recipient string, tpl *channels.RenderedTemplate) error

type emailTemplate struct {
	subject string
	body    *template.Template
	cta     string
}

var templates = map[string]emailTemplate{
	EventOrderPlaced: {
		subject: "Đơn hàng #{{.tracking}} đã được đặt",
		body:    template.Must(template.New("placed").Parse(`<p>Cảm ơn bạn đã đặt hàng.</p><p>Mã đơn: <b>{{.tracking}}</b><br>Tổng tiền: <b>{{.total}}</b></p>`)),
		cta:     "Xem đơn hàng",
	},
	EventOrderStatusChanged: {
		subject: "Đơn hàng #{{.tracking}}: {{.status}}",
		body:    template.Must(template.New("status").Parse(`<p>Đơn hàng <b>{{.tracking}}</b> đã chuyển sang trạng thái <b>{{.status}}</b>.</p>`)),
		cta:     "Theo dõi đơn hàng",
	},
	EventWithdrawStatus: {
		subject: "Yêu cầu rút tiền #{{.number}}: {{.status}}",
		body:    template.Must(template.New("withdraw").Parse(`<p>Yêu cầu rút <b>{{.amount}}</b> đã chuyển sang trạng thái <b>{{.status}}</b>.</p>{{if .note}}<p>Ghi chú: {{.note}}</p>{{end}}`)),
	},
	EventPasswordReset: {
		subject: "Đặt lại mật khẩu",
		body:    template.Must(template.New("reset").Parse(`<p>Mã đặt lại mật khẩu của bạn: <b>{{.token}}</b></p><p>Mã có hiệu lực trong {{.ttl}}.</p>`)),
		cta:     "Đặt lại mật khẩu",
	},
}

// EmailNotifier gửi thông báo qua SMTP; khi chưa cấu hình SMTP thì chỉ ghi log
type EmailNotifier struct {
	sender      channels.SMTPSender
	frontendURL string
	send        SendFunc
	async       bool
}

// NewEmailNotifier tạo notifier từ cấu hình
func NewEmailNotifier(cfg *config.Configuration) *EmailNotifier {
	return &EmailNotifier{
		sender: channels.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: "PickBazar",
		},
		frontendURL: cfg.FrontendURL,
		send:        channels.SendEmail,
		async:       true,
	}
}

// WithSender thay hàm gửi và tắt chế độ gửi nền (dùng trong test)
func (n *EmailNotifier) WithSender(send SendFunc) *EmailNotifier {
	n.send = send
	n.async = false
	return n
}

// Enabled cho biết SMTP đã được cấu hình
func (n *EmailNotifier) Enabled() bool {
	return n.sender.Host != ""
}

// Render dựng nội dung email cho sự kiện
func (n *EmailNotifier) Render(event string, data map[string]any) (*channels.RenderedTemplate, error) {
	tpl, ok := templates[event]
	if !ok {
		return nil, fmt.Errorf("không có template cho sự kiện %q", event)
	}
	subject, err := template.New("subject").Parse(tpl.subject)
	if err != nil {
		return nil, err
	}
	var subj, body bytes.Buffer
	if err := subject.Execute(&subj, data); err != nil {
		return nil, err
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return nil, err
	}
	out := &channels.RenderedTemplate{Subject: subj.String(), Content: body.String()}
	if tpl.cta != "" && n.frontendURL != "" {
		link := n.frontendURL
		if path, ok := data["link"].(string); ok {
			link += path
		}
		out.CTAs = []channels.RenderedCTA{{Label: tpl.cta, URL: link}}
	}
	return out, nil
}

// Notify render và gửi email. Lỗi gửi nền chỉ được ghi log.
func (n *EmailNotifier) Notify(ctx context.Context, event, recipient string, data map[string]any) error {
	log := logger.WithModule("notification").WithFields(map[string]any{
		"event":     event,
		"domain":    eventDomains[event],
		"recipient": recipient,
	})
	if recipient == "" {
		log.Warn("⚠️ Bỏ qua thông báo vì không có người nhận")
		return nil
	}
	tpl, err := n.Render(event, data)
	if err != nil {
		return err
	}
	if !n.Enabled() {
		log.WithField("subject", tpl.Subject).Info("📭 SMTP chưa cấu hình, chỉ ghi log thông báo")
		return nil
	}

	if !n.async {
		return n.send(ctx, n.sender, recipient, tpl)
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	utility.GoProtect(func() {
		defer cancel()
		if err := n.send(sendCtx, n.sender, recipient, tpl); err != nil {
			log.WithError(err).Error("❌ Gửi email thất bại")
			return
		}
		log.Info("📧 Đã gửi email")
	})
	return nil
}

var (
	defaultNotifier Notifier = noopNotifier{}
	notifierMu      sync.RWMutex
)

// SetDefault đặt notifier dùng chung (gọi khi khởi động server)
func SetDefault(n Notifier) {
	notifierMu.Lock()
	defer notifierMu.Unlock()
	defaultNotifier = n
}

// Default trả notifier dùng chung
func Default() Notifier {
	notifierMu.RLock()
	defer notifierMu.RUnlock()
	return defaultNotifier
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, string, map[string]any) error { return nil }
