package fetch

import (
	"context"
	"fmt"
)

// PageFetcher retrieves the HTML body of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError is returned when a page could not be retrieved or came back
// with a non-success status. StatusCode is 0 for transport failures.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
