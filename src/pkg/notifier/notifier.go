package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrDisabled = errors.New("notification channel disabled")

type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type WhatsAppConfig struct {
	Enabled    bool
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

// Notifier delivers rendered messages over email and WhatsApp.
type Notifier struct {
	smtp     SMTPConfig
	whatsapp WhatsAppConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(smtpCfg SMTPConfig, waCfg WhatsAppConfig) *Notifier {
	if waCfg.BaseURL == "" {
		waCfg.BaseURL = "https://api.twilio.com"
	}
	if waCfg.Timeout == 0 {
		waCfg.Timeout = 10 * time.Second
	}
	return &Notifier{
		smtp:     smtpCfg,
		whatsapp: waCfg,
		sendMail: smtp.SendMail,
	}
}

func (n *Notifier) SendEmail(ctx context.Context, to, subject, html string) error {
	if !n.smtp.Enabled {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sender := n.smtp.Sender
	if sender == "" {
		sender = "no-reply@localhost"
	}

	var auth smtp.Auth
	if n.smtp.Username != "" && n.smtp.Password != "" {
		auth = smtp.PlainAuth("", n.smtp.Username, n.smtp.Password, n.smtp.Host)
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			html,
	)

	addr := fmt.Sprintf("%s:%d", n.smtp.Host, n.smtp.Port)
	return n.sendMail(addr, auth, sender, []string{to}, msg)
}

// SendWhatsApp posts to the Twilio Messages API.
func (n *Notifier) SendWhatsApp(ctx context.Context, to, body string) error {
	if !n.whatsapp.Enabled {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(n.whatsapp.BaseURL, "/"), n.whatsapp.AccountSID)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("From", whatsappAddress(n.whatsapp.From))
	args.Set("To", whatsappAddress(to))
	args.Set("Body", body)

	agent := fiber.Post(url)
	agent.BasicAuth(n.whatsapp.AccountSID, n.whatsapp.AuthToken)
	agent.Timeout(n.whatsapp.Timeout)
	agent.Form(args)

	code, resp, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("whatsapp send failed with status %d: %s", code, string(resp))
	}
	return nil
}

func whatsappAddress(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	if !strings.HasPrefix(number, "+") {
		// bare ten digit numbers are Indian mobiles
		if len(number) == 10 {
			number = "+91" + number
		} else {
			number = "+" + number
		}
	}
	return "whatsapp:" + number
}
