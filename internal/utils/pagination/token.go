package pagination

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded keyset token from the sort key of the
// last row of a page: its creation time and id.
func EncodeToken(createdAt time.Time, id string) string {
	tokenStr := createdAt.UTC().Format(timeFormat) + "|" + id
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken. Malformed tokens are
// validation errors.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", apperrors.NewValidationError("next_token", "invalid pagination token format (base64 decode)")
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", apperrors.NewValidationError("next_token", "invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", apperrors.NewValidationError("next_token", "invalid pagination token format (created_at parse)")
	}
	return createdAt, parts[1], nil
}

// After reports whether a row with key (createdAt, id) comes after the token
// key in newest-first order.
func After(createdAt time.Time, id string, tokenAt time.Time, tokenID string) bool {
	if createdAt.Equal(tokenAt) {
		return id < tokenID
	}
	return createdAt.Before(tokenAt)
}
