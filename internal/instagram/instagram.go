package instagram

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
)

var (
	// ErrInvalidUsername means the input was empty after normalization.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrUserNotFound maps a remote 404.
	ErrUserNotFound = errors.New("user not found")
	// ErrMalformedResponse covers a 200 response that fails to decode or is
	// missing the mandatory identity fields.
	ErrMalformedResponse = errors.New("malformed profile response")
)

// TransportError is any non-success HTTP status other than 404. A host-level
// network failure is reported with StatusCode 0.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return "network failure"
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

//go:generate go run go.uber.org/mock/mockgen -source=instagram.go -destination=mocks/mock.go -package=mocks
type Client interface {
	// FetchProfile performs exactly one remote lookup for the canonical
	// username. No retries happen at this layer.
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
}
