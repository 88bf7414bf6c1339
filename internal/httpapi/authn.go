package httpapi

import (
	"errors"
	"strings"
)

const (
	authHeader = "Authorization"
	keyScheme  = "key "
)

// extractKey parses the "key <hex>" authorization scheme.
func extractKey(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing authorization key")
	}
	if !strings.HasPrefix(strings.ToLower(header), keyScheme) {
		return "", errors.New("invalid authorization scheme")
	}
	key := strings.TrimSpace(header[len(keyScheme):])
	if key == "" {
		return "", errors.New("missing authorization key")
	}
	return key, nil
}
