// Package session implements the signed cookie session that identifies a
// logged-in user between requests. The cookie value is payload.signature:
// a base64url JSON payload authenticated with HMAC-SHA256. There is no
// server-side session state.
package session

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

// CookieName is the local session cookie. The platform session secret lives
// in a separate cookie owned by the HTTP layer.
const CookieName = "ticklist_session"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("expired session")
)

// Session is the state carried by the local cookie.
type Session struct {
	UserID      string `json:"uid"`
	DisplayName string `json:"name"`
	Exp         int64  `json:"exp"`
}

func New(userID, displayName string, ttl time.Duration) Session {
	return Session{
		UserID:      userID,
		DisplayName: displayName,
		Exp:         time.Now().Add(ttl).Unix(),
	}
}

func Encode(secret []byte, s Session) (string, error) {
	payloadBytes, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	return payload + "." + sign(secret, payload), nil
}

func Decode(secret []byte, value string) (Session, error) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return Session{}, ErrInvalidSession
	}
	payload := parts[0]
	signature := parts[1]

	expected := sign(secret, payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return Session{}, ErrInvalidSession
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Session{}, ErrInvalidSession
	}

	var s Session
	if err := json.Unmarshal(decoded, &s); err != nil {
		return Session{}, ErrInvalidSession
	}
	if s.UserID == "" || s.Exp == 0 {
		return Session{}, ErrInvalidSession
	}
	if time.Now().Unix() >= s.Exp {
		return Session{}, ErrExpiredSession
	}
	return s, nil
}

func sign(secret []byte, payload string) string {
	sum := hmac.New(sha256.New, secret)
	_, _ = sum.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(sum.Sum(nil))
}
