package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"petclinic/internal/http-api/models"
)

// smsSupportedTypes mirrors the email allow-list minus pet record updates,
// which are too long for an SMS.
var smsSupportedTypes = map[string]bool{
	models.TypeAppointmentReminder24h: true,
	models.TypeAppointmentReminder3h:  true,
	models.TypeAppointmentAccepted:    true,
	models.TypeAppointmentCancelled:   true,
	models.TypePaymentDue:             true,
}

// SMSChannel sends notification texts through the Twilio Messages API.
type SMSChannel struct {
	accountSID         string
	authToken          string
	fromNumber         string
	defaultCountryCode string
	client             *http.Client
}

func NewSMSChannel(accountSID, authToken, fromNumber, defaultCountryCode string) *SMSChannel {
	return &SMSChannel{
		accountSID:         accountSID,
		authToken:          authToken,
		fromNumber:         fromNumber,
		defaultCountryCode: defaultCountryCode,
		client:             &http.Client{},
	}
}

func (c *SMSChannel) Name() string {
	return "sms"
}

func (c *SMSChannel) Supports(notifType string) bool {
	return smsSupportedTypes[notifType]
}

// NormalizePhone converts a local number to E.164 using the default country
// code. Numbers already carrying a "+" prefix pass through unchanged.
func (c *SMSChannel) NormalizePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "0") {
		return c.defaultCountryCode + trimmed[1:]
	}
	return c.defaultCountryCode + trimmed
}

func (c *SMSChannel) Send(ctx context.Context, to, _ string, body string) error {
	normalized := c.NormalizePhone(to)
	if normalized == "" {
		return fmt.Errorf("no destination phone number")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", c.accountSID)

	form := url.Values{}
	form.Set("To", normalized)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio API error: %s", resp.Status)
	}

	return nil
}
