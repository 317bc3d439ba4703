package notify

import (
	"testing"

	"petclinic/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	channel := NewSMSChannel("sid", "token", "+15550001111", "+63")

	assert.Equal(t, "+639171234567", channel.NormalizePhone("09171234567"))
	assert.Equal(t, "+639171234567", channel.NormalizePhone("+639171234567"))
	assert.Equal(t, "+639171234567", channel.NormalizePhone("9171234567"))
	assert.Equal(t, "+15550001111", channel.NormalizePhone(" +15550001111 "))
	assert.Equal(t, "", channel.NormalizePhone("  "))
}

func TestSMSChannel_Supports(t *testing.T) {
	channel := NewSMSChannel("sid", "token", "+15550001111", "+63")

	assert.True(t, channel.Supports(models.TypeAppointmentReminder24h))
	assert.True(t, channel.Supports(models.TypePaymentDue))
	// record summaries are too long for a text message
	assert.False(t, channel.Supports(models.TypePetRecordAdded))
	assert.False(t, channel.Supports(models.TypeInfo))
}

func TestEmailChannel_Supports(t *testing.T) {
	channel := NewEmailChannel("smtp.test", 587, "clinic@example.com", "secret")

	assert.True(t, channel.Supports(models.TypePetRecordAdded))
	assert.True(t, channel.Supports(models.TypeAppointmentCancelled))
	assert.False(t, channel.Supports(models.TypeInfo))
	assert.False(t, channel.Supports("unknown"))
}
