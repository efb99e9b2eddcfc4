package aisvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNoMedia          = errors.New("model returned no media")
	ErrImageUnsupported = errors.New("image generation is not supported by this provider")
)

// RateLimitError is returned when the provider throttled the request.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return "rate limited: " + e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

// InvalidResponseError is returned when the model answer does not match the requested schema.
type InvalidResponseError struct {
	Content []byte
	Err     error
}

func (e *InvalidResponseError) Error() string { return "invalid model response: " + e.Err.Error() }
func (e *InvalidResponseError) Unwrap() error { return e.Err }

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
