// Package username turns free-form user input (handle, profile URL, or bare
// name) into the canonical lookup key.
package username

import (
	"strings"

	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
)

var hostPrefixes = []string{
	"https://www.instagram.com/",
	"https://instagram.com/",
}

// Normalize strips whitespace, a leading @, a recognized profile URL prefix
// and any slashes. It is idempotent. An empty result is reported as
// instagram.ErrInvalidUsername instead of being passed to the network layer.
func Normalize(input string) (string, error) {
	s := strings.TrimSpace(input)
	for _, prefix := range hostPrefixes {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimPrefix(s, "@")
	s = strings.ReplaceAll(s, "/", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", instagram.ErrInvalidUsername
	}
	return s, nil
}
