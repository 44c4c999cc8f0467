package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSTicketRoundTrip(t *testing.T) {
	ticket, err := GenerateWSTicket(42, time.Minute, "topsecret")
	require.NoError(t, err)

	claims, err := ValidateWSTicket(ticket, "topsecret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestWSTicketRejectsTampering(t *testing.T) {
	ticket, err := GenerateWSTicket(42, time.Minute, "topsecret")
	require.NoError(t, err)

	_, err = ValidateWSTicket(ticket, "othersecret")
	assert.Error(t, err)

	parts := strings.Split(ticket, ".")
	_, err = ValidateWSTicket("AAAA."+parts[1], "topsecret")
	assert.Error(t, err)

	_, err = ValidateWSTicket("not-a-ticket", "topsecret")
	assert.Error(t, err)
}

func TestWSTicketExpiry(t *testing.T) {
	ticket, err := GenerateWSTicket(42, -time.Second, "topsecret")
	require.NoError(t, err)

	_, err = ValidateWSTicket(ticket, "topsecret")
	assert.Error(t, err)
}

func TestWSTicketRequiresSecret(t *testing.T) {
	_, err := GenerateWSTicket(42, time.Minute, "")
	assert.Error(t, err)

	_, err = ValidateWSTicket("x.y", "")
	assert.Error(t, err)
}
