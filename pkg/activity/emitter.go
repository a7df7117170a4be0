package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel tags events emitted without an explicit channel.
const DefaultChannel = "anchor"

// Config controls how an Emitter stamps events.
type Config struct {
	Enabled bool
	// Channel defaults to DefaultChannel.
	Channel string
	// Actor fills events that carry no actor identifiers, e.g. the service
	// account behind a bookmark resolver.
	Actor Actor
	// Now stamps OccurredAt. Defaults to time.Now.
	Now func() time.Time
}

// Emitter stamps anchor events with channel, actor and time defaults and
// hands them to hooks.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	actor   Actor
	now     func() time.Time
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	active := cloneHooks(hooks)
	return &Emitter{
		hooks:   active,
		enabled: cfg.Enabled && len(active) > 0,
		channel: channel,
		actor:   cfg.Actor,
		now:     now,
	}
}

// Enabled reports whether Emit reaches any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled
}

// Emit applies the defaults to fields the event leaves empty and notifies
// every hook. Hook errors are joined.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if event.Actor == (Actor{}) {
		event.Actor = e.actor
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	return e.hooks.Notify(ctx, event)
}

func cloneHooks(hooks Hooks) Hooks {
	var active Hooks
	for _, hook := range hooks {
		if hook != nil {
			active = append(active, hook)
		}
	}
	return active
}
