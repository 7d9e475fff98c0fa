package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EncodeToken creates a base64 encoded keyset token from the last entry's
// date and number. Journal listings sort by (entry_date, entry_number) desc.
func EncodeToken(entryDate time.Time, entryNumber string) string {
	tokenStr := fmt.Sprintf("%s|%s", entryDate.Format(dateFormat), entryNumber)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the token back into entry date and entry number.
func DecodeToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	return entryDate, parts[1], nil
}
