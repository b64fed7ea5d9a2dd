package appwrite

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Error is the platform's wire error shape. Code mirrors the HTTP status the
// platform chose for the failure.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *Error) Error() string { return e.Message }

func decodeError(status int, body []byte) error {
	platformErr := &Error{}
	if err := json.Unmarshal(body, platformErr); err != nil || platformErr.Message == "" {
		platformErr.Message = strings.TrimSpace(string(body))
		if platformErr.Message == "" {
			platformErr.Message = http.StatusText(status)
		}
	}
	if platformErr.Code == 0 {
		platformErr.Code = status
	}
	return platformErr
}
