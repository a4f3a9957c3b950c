package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodeHistoryToken creates a base64 encoded cursor pointing just past the record
// lastTxnID, which sits at index position-1 of an account's history.
// Histories are append-only, so a position stays valid for the life of the account.
func EncodeHistoryToken(position int, lastTxnID string) string {
	tokenStr := fmt.Sprintf("%d|%s", position, lastTxnID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeHistoryToken parses a cursor produced by EncodeHistoryToken.
func DecodeHistoryToken(token string) (int, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid pagination token format (split)")
	}

	position, err := strconv.Atoi(parts[0])
	if err != nil || position < 0 {
		return 0, "", fmt.Errorf("invalid pagination token format (position parse): %q", parts[0])
	}
	return position, parts[1], nil
}
