package notifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsappAddress(t *testing.T) {
	assert.Equal(t, "whatsapp:+919876543210", whatsappAddress("9876543210"))
	assert.Equal(t, "whatsapp:+919876543210", whatsappAddress("+919876543210"))
	assert.Equal(t, "whatsapp:+919876543210", whatsappAddress("919876543210"))
	assert.Equal(t, "whatsapp:+14155238886", whatsappAddress("whatsapp:+14155238886"))
}

func TestSendWhatsApp(t *testing.T) {
	var form url.Values
	var user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, _ = r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(raw))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	n := New(SMTPConfig{}, WhatsAppConfig{
		Enabled:    true,
		BaseURL:    srv.URL,
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155238886",
	})

	err := n.SendWhatsApp(context.Background(), "9876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "AC123", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "whatsapp:+919876543210", form.Get("To"))
	assert.Equal(t, "whatsapp:+14155238886", form.Get("From"))
	assert.Equal(t, "hello", form.Get("Body"))
}

func TestSendWhatsAppRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := New(SMTPConfig{}, WhatsAppConfig{Enabled: true, BaseURL: srv.URL, AccountSID: "AC1"})
	assert.Error(t, n.SendWhatsApp(context.Background(), "+911234567890", "x"))
}

func TestDisabledChannels(t *testing.T) {
	n := New(SMTPConfig{}, WhatsAppConfig{})
	assert.ErrorIs(t, n.SendEmail(context.Background(), "a@b.c", "s", "b"), ErrDisabled)
	assert.ErrorIs(t, n.SendWhatsApp(context.Background(), "1", "b"), ErrDisabled)
}

func TestSendEmail(t *testing.T) {
	n := New(SMTPConfig{Enabled: true, Host: "mail.local", Port: 587, Sender: "bookings@kotidham.in"}, WhatsAppConfig{})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, n.SendEmail(context.Background(), "devotee@example.com", "Booking Confirmation", "<p>ok</p>"))
	assert.Equal(t, "mail.local:587", gotAddr)
	assert.Equal(t, "bookings@kotidham.in", gotFrom)
	assert.Equal(t, []string{"devotee@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Booking Confirmation\r\n")
	assert.Contains(t, string(gotMsg), "<p>ok</p>")
}
