package eventsvc

import (
	"context"
	"sync"

	"github.com/farmwise/farmwise/core"
)

type noopPublisher struct{}

var _ core.EventPublisher = (*noopPublisher)(nil)

func NewNoopPublisher() core.EventPublisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, core.Event) error { return nil }
func (noopPublisher) Close() error                              { return nil }

// Recorder keeps published events in memory. Set Err to make Publish fail.
type Recorder struct {
	Err error

	mu     sync.Mutex
	events []core.Event
}

var _ core.EventPublisher = (*Recorder)(nil)

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, event core.Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Event(nil), r.events...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
