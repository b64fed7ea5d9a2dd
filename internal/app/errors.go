package app

import (
	"errors"
	"net/http"

	"ticklist/internal/appwrite"
)

// mapError translates a platform failure into the HTTP status the client
// sees. Permission denials and missing documents keep their meaning; every
// other platform error surfaces as a 500 carrying the platform's message
// verbatim.
func mapError(err error) (int, string) {
	var platformErr *appwrite.Error
	if errors.As(err, &platformErr) {
		switch platformErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusForbidden, platformErr.Message
		case http.StatusNotFound:
			return http.StatusNotFound, platformErr.Message
		}
		return http.StatusInternalServerError, platformErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}
