package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globetrotter/internal/config"
)

func TestSendOtpRendersMessage(t *testing.T) {
	svc := NewSMTPMailService(config.SMTPConfig{
		Host: "smtp.gmail.com", Port: 587, From: "noreply@gmail.com", FromName: "GlobeTrotter",
	}).(*smtpMailService)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	var gotTo string
	var gotMsg []byte
	svc.send = func(to string, msg []byte) error {
		gotTo, gotMsg = to, msg
		return nil
	}

	require.NoError(t, svc.SendOtp("traveler@gmail.com", "Nia", "482913"))

	body := string(gotMsg)
	assert.Equal(t, "traveler@gmail.com", gotTo)
	assert.Contains(t, body, "Subject: Your OTP for GlobeTrotter Email Verification\r\n")
	assert.Contains(t, body, "From: GlobeTrotter <noreply@gmail.com>\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "482913")
	assert.Contains(t, body, "Hi Nia,")
	assert.Contains(t, body, "© 2025 GlobeTrotter")
}

func TestSendPropagatesDeliveryError(t *testing.T) {
	svc := NewSMTPMailService(config.SMTPConfig{From: "noreply@gmail.com"}).(*smtpMailService)
	svc.send = func(string, []byte) error { return errors.New("connection refused") }

	err := svc.SendWelcome("traveler@gmail.com", "Nia")
	assert.EqualError(t, err, "connection refused")
}
