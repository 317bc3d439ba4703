package notify

import (
	"context"

	mail "gopkg.in/mail.v2"

	"petclinic/internal/http-api/models"
)

// emailSupportedTypes is the allow-list of notification types delivered over
// email.
var emailSupportedTypes = map[string]bool{
	models.TypeAppointmentReminder24h: true,
	models.TypeAppointmentReminder3h:  true,
	models.TypeAppointmentAccepted:    true,
	models.TypeAppointmentCancelled:   true,
	models.TypePaymentDue:             true,
	models.TypePetRecordAdded:         true,
}

// EmailChannel sends plain-text notification emails over SMTP.
type EmailChannel struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
}

func NewEmailChannel(smtpHost string, smtpPort int, username, password string) *EmailChannel {
	return &EmailChannel{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     username,
	}
}

func (c *EmailChannel) Name() string {
	return "email"
}

func (c *EmailChannel) Supports(notifType string) bool {
	return emailSupportedTypes[notifType]
}

func (c *EmailChannel) Send(_ context.Context, to, subject, body string) error {
	if subject == "" {
		subject = "Notification"
	}

	message := mail.NewMessage()
	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)

	return dialer.DialAndSend(message)
}
