package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// WSTicketClaims authorize one short-lived websocket connection. The ticket
// is handed out by the HTTP API to an authenticated session and redeemed by
// the realtime endpoint, which runs outside the session cookie's scope.
type WSTicketClaims struct {
	UserID    uint  `json:"user_id"`
	ExpiresAt int64 `json:"exp"`
}

func GenerateWSTicket(userID uint, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for ticket generation")
	}
	claims := WSTicketClaims{
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshalling ticket claims: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return body + "." + sig, nil
}

func ValidateWSTicket(ticket, secret string) (*WSTicketClaims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for ticket validation")
	}
	parts := strings.Split(ticket, ".")
	if len(parts) != 2 {
		return nil, errors.New("malformed ticket")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[0]))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil, errors.New("invalid ticket signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("malformed ticket payload")
	}

	var claims WSTicketClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.New("malformed ticket claims")
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, errors.New("ticket expired")
	}
	return &claims, nil
}
