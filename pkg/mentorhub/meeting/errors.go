package meeting

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the provider answers with a syntactically
	// valid but empty body. The provider does this instead of a 404.
	ErrNotFound = errors.New("meeting: not found")

	// ErrNotSupported is returned for provider responses this client does not
	// handle, such as multi-page record file addresses.
	ErrNotSupported = errors.New("meeting: not supported")

	// ErrBadRequest marks provider rejections that carried a response.
	ErrBadRequest = errors.New("meeting: provider rejected request")
)

// ProviderError carries the provider's status and payload for a rejected
// request. It unwraps to ErrBadRequest so callers can match the class.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("meeting: provider status %d: %s", e.Status, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return ErrBadRequest
}
