// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"globetrotter/internal/config"
	"globetrotter/pkg/logger"
)

const (
	otpSubject     = "Your OTP for GlobeTrotter Email Verification"
	welcomeSubject = "Welcome to GlobeTrotter"
	appName        = "GlobeTrotter"
)

type IMailService interface {
	SendOtp(to, displayName, otp string) error
	SendWelcome(to, displayName string) error
}

type EmailData struct {
	Title   string
	Greet   string
	Intro   string
	Code    string
	Outro   string
	AppName string
	Year    int
}

type smtpMailService struct {
	cfg     config.SMTPConfig
	htmlTpl *template.Template
	textTpl *texttemplate.Template
	// send delivers a rendered message; swapped in tests.
	send func(to string, msg []byte) error
	now  func() time.Time
}

func NewSMTPMailService(cfg config.SMTPConfig) IMailService {
	s := &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
		now:     time.Now,
	}
	s.send = s.sendSMTP
	return s
}

func (s *smtpMailService) SendOtp(to, displayName, otp string) error {
	return s.deliver(to, otpSubject, EmailData{
		Title: "Verify your email",
		Greet: displayName,
		Intro: "Use the code below to finish creating your account.",
		Code:  otp,
		Outro: "The code expires in 5 minutes. If you did not sign up, you can ignore this email.",
	})
}

func (s *smtpMailService) SendWelcome(to, displayName string) error {
	return s.deliver(to, welcomeSubject, EmailData{
		Title: "Your account is ready",
		Greet: displayName,
		Intro: "Your email is verified. Start planning your next trip with AI suggestions tailored to you.",
	})
}

func (s *smtpMailService) deliver(to, subject string, data EmailData) error {
	data.AppName = appName
	data.Year = s.now().Year()

	html, text, err := s.renderEmail(data)
	if err != nil {
		return fmt.Errorf("render %q: %w", subject, err)
	}
	msg := s.buildMessage(to, subject, html, text)
	if err := s.send(to, msg); err != nil {
		logger.GetLogger().Errorw("SMTP delivery failed", "to", logger.MaskEmail(to), "subject", subject, "error", err)
		return err
	}
	logger.GetLogger().Infow("Email sent", "to", logger.MaskEmail(to), "subject", subject)
	return nil
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f8fafc; color: #0f172a; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 40px 16px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 16px; overflow: hidden; box-shadow: 0 20px 60px rgba(0, 0, 0, 0.08); }
    .header { padding: 32px 32px 24px; border-bottom: 1px solid rgba(0, 0, 0, 0.06); }
    .brand { font-weight: 700; font-size: 22px; color: #2563eb; text-transform: uppercase; letter-spacing: 0.5px; }
    .hero { padding: 40px 32px; }
    h1 { margin: 0 0 16px; font-size: 28px; }
    p { margin: 0 0 20px; line-height: 1.7; color: #475569; font-size: 16px; }
    .code { display: inline-block; padding: 16px 32px; font-size: 32px; font-weight: 700; letter-spacing: 8px; background: #eff6ff; color: #1d4ed8; border-radius: 12px; }
    .footer { padding: 24px 32px; color: #64748b; font-size: 13px; text-align: center; background: #f8fafc; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header"><div class="brand">{{.AppName}}</div></div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        {{if .Greet}}<p>Hi {{.Greet}},</p>{{end}}
        <p>{{.Intro}}</p>
        {{if .Code}}<p><span class="code">{{.Code}}</span></p>{{end}}
        {{if .Outro}}<p>{{.Outro}}</p>{{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}. All rights reserved.</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{if .Greet}}Hi {{.Greet}},

{{end}}{{.Intro}}
{{if .Code}}
    {{.Code}}
{{end}}{{if .Outro}}
{{.Outro}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// buildMessage assembles a multipart/alternative message with text and HTML parts.
func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("mixed_%d", s.now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", s.now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

// sendSMTP uses implicit TLS on port 465 and STARTTLS otherwise.
func (s *smtpMailService) sendSMTP(to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	if s.cfg.Port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if s.cfg.Port != 465 {
		ok, _ := c.Extension("STARTTLS")
		if !ok {
			return fmt.Errorf("smtp server %s does not support STARTTLS", s.cfg.Host)
		}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}
