package config

import (
	"kotidham-service/src/internal/gateway/payment"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/notifier"
)

func NewLogger(cfg *AppConfig) log.Log {
	return log.New(cfg.App.Name, cfg.Log.Level)
}

func NewRazorpay(cfg *AppConfig, log log.Log) *payment.Razorpay {
	return payment.NewRazorpay(payment.Config{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
	}, log)
}

func NewNotifier(cfg *AppConfig) *notifier.Notifier {
	smtp := cfg.Notification.SMTP
	wa := cfg.Notification.WhatsApp
	return notifier.New(notifier.SMTPConfig{
		Enabled:  smtp.Enabled,
		Host:     smtp.Host,
		Port:     smtp.Port,
		Username: smtp.Username,
		Password: smtp.Password,
		Sender:   smtp.Sender,
	}, notifier.WhatsAppConfig{
		Enabled:    wa.Enabled,
		BaseURL:    wa.BaseURL,
		AccountSID: wa.AccountSID,
		AuthToken:  wa.AuthToken,
		From:       wa.From,
		Timeout:    wa.Timeout,
	})
}
