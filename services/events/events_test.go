package eventsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/testutil"
)

func TestNewPublisher_noBroker(t *testing.T) {
	conf := testutil.NewConfig()
	conf.Events.URL = ""

	pub, err := NewPublisher(conf, testutil.NewLogger(conf))
	require.NoError(t, err)
	assert.IsType(t, noopPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), core.NewEvent(core.EventUserRegistered, "u1", nil)))
	assert.NoError(t, pub.Close())
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder()

	require.NoError(t, rec.Publish(ctx, core.NewEvent(core.EventUserRegistered, "u1", nil)))
	require.NoError(t, rec.Publish(ctx, core.NewEvent(core.EventQuizCompleted, "u1", map[string]int{"score": 1})))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, core.EventUserRegistered, events[0].Type)
	assert.Equal(t, core.EventQuizCompleted, events[1].Type)
	assert.False(t, events[1].OccurredAt.IsZero())

	rec.Err = errors.New("broker down")
	assert.Error(t, rec.Publish(ctx, core.NewEvent(core.EventQuizCompleted, "u2", nil)))
	assert.Len(t, rec.Events(), 2)

	rec.Reset()
	assert.Empty(t, rec.Events())
}
