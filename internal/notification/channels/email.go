// Package channels chứa các kênh gửi thông báo (hiện có email qua SMTP).
package channels

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// RenderedTemplate là nội dung đã render sẵn
type RenderedTemplate struct {
	Subject string
	Content string
	CTAs    []RenderedCTA
}

// RenderedCTA là nút hành động trong email
type RenderedCTA struct {
	Label string
	URL   string
}

// SMTPSender là cấu hình SMTP gửi đi
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// BuildMessage dựng message gomail từ template
func BuildMessage(sender SMTPSender, recipient string, tpl *RenderedTemplate) *gomail.Message {
	html := tpl.Content
	if len(tpl.CTAs) > 0 {
		html += "<div style='margin-top:20px;'>"
		for _, cta := range tpl.CTAs {
			html += fmt.Sprintf(`<a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#009f7f;color:#fff;">%s</a>`,
				cta.URL, cta.Label)
		}
		html += "</div>"
	}

	msg := gomail.NewMessage()
	if sender.FromName != "" {
		msg.SetAddressHeader("From", sender.From, sender.FromName)
	} else {
		msg.SetHeader("From", sender.From)
	}
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", tpl.Subject)
	msg.SetBody("text/html", html)
	return msg
}

// SendEmail gửi email qua SMTP; ctx bị huỷ trước khi gửi thì bỏ qua
func SendEmail(ctx context.Context, sender SMTPSender, recipient string, tpl *RenderedTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dialer := gomail.NewDialer(sender.Host, sender.Port, sender.Username, sender.Password)
	return dialer.DialAndSend(BuildMessage(sender, recipient, tpl))
}
