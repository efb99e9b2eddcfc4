package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/user"
)

// sessionCache keeps the signed-in user's profile in the session store.
// Store failures are logged and otherwise ignored: the database stays the source of truth.
type sessionCache struct {
	store  core.SessionStore
	ttl    time.Duration
	logger core.Logger
}

func (c sessionCache) get(ctx context.Context, userID string) (user.Profile, bool) {
	var p user.Profile
	data, err := c.store.Get(ctx, core.SessionKey(userID))
	if err != nil {
		if !core.IsNotFound(err) {
			c.logger.Warn(fmt.Sprintf("reading session: %v", err), err)
		}
		return p, false
	}
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn(fmt.Sprintf("decoding session: %v", err), err)
		return p, false
	}
	return p, true
}

func (c sessionCache) set(ctx context.Context, p user.Profile) {
	data, err := json.Marshal(p)
	if err == nil {
		err = c.store.Set(ctx, core.SessionKey(p.ID), data, c.ttl)
	}
	if err != nil {
		c.logger.Warn(fmt.Sprintf("saving session: %v", err), err, p)
	}
}

func (c sessionCache) remove(ctx context.Context, userID string) {
	if err := c.store.Remove(ctx, core.SessionKey(userID)); err != nil {
		c.logger.Warn(fmt.Sprintf("removing session: %v", err), err)
	}
}
