package forum

import (
	"fmt"

	"github.com/alethic/forumdigest/internal/models"
)

// NetworkError reports a transport-level failure: connection errors, timeouts,
// or non-200 responses from a forum endpoint.
type NetworkError struct {
	Forum models.Forum
	Err   error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Forum, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a user, topic, or post slug the upstream service does
// not recognize.
type NotFoundError struct {
	Forum models.Forum
	Kind  string
	Slug  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found: %s", e.Forum, e.Kind, e.Slug)
}
