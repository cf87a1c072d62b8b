package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	postedAt := time.Date(2026, 3, 15, 14, 30, 45, 123456789, time.UTC)
	id := "0d2cf0cb-6f3e-4a9e-9f3f-2a1b4b7a8c9d"

	token := EncodeToken(postedAt, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, postedAt.Equal(decodedAt), "Posted time should match after decode")
	assert.Equal(t, id, decodedID, "ID should match after decode")

	// Zero time round-trips too.
	zeroToken := EncodeToken(time.Time{}, "x")
	decodedZero, _, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.True(t, decodedZero.IsZero(), "Zero time should survive the round trip")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	missingSep := EncodeMultiFieldToken("2026-03-15T00:00:00Z")
	_, _, err = DecodeToken(missingSep)
	assert.Error(t, err, "Should return an error when the separator is missing")
	assert.Contains(t, err.Error(), "split", "Error should mention the split")

	// Unparseable time component
	badTime := EncodeMultiFieldToken("notatime", "some-id")
	_, _, err = DecodeToken(badTime)
	assert.Error(t, err, "Should return an error for an unparseable time")
	assert.Contains(t, err.Error(), "time parse", "Error should mention time parsing")
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	fields := []string{"2026-03-15", "JV-20260315-0007", "42"}

	token := EncodeMultiFieldToken(fields...)
	decoded, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, fields, decoded)

	_, err = DecodeMultiFieldToken("%%%not-base64%%%")
	assert.Error(t, err, "Should return an error for invalid base64")
}
