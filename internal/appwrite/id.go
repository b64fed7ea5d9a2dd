package appwrite

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UniqueID returns a fresh id for user and document creation. The platform
// accepts up to 36 lowercase alphanumeric characters; 32 hex characters of a
// random UUID fit comfortably.
func UniqueID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
