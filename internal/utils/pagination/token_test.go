package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeHistoryToken(t *testing.T) {
	token := EncodeHistoryToken(20, "TXN1020")
	assert.NotEmpty(t, token, "Token should not be empty")

	position, lastID, err := DecodeHistoryToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 20, position)
	assert.Equal(t, "TXN1020", lastID)

	// Start-of-history cursor
	position, lastID, err = DecodeHistoryToken(EncodeHistoryToken(0, ""))
	assert.NoError(t, err)
	assert.Equal(t, 0, position)
	assert.Empty(t, lastID)
}

func TestDecodeHistoryTokenError(t *testing.T) {
	_, _, err := DecodeHistoryToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("20"))
	_, _, err = DecodeHistoryToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badPosition := base64.StdEncoding.EncodeToString([]byte("-3|TXN1001"))
	_, _, err = DecodeHistoryToken(badPosition)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "position parse")
}
