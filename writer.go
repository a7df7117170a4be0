package anchor

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-anchor/pkg/activity"
)

// WithActivityHooks attaches hooks notified after every successful write.
// Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *codecConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActor sets the identifiers recorded on write activity events.
func WithActor(actor activity.Actor) Option {
	return func(cfg *codecConfig) {
		cfg.actor = actor
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// TargetHref returns href with its fragment replaced by "#!"+fragment, or
// with no fragment at all when fragment is empty.
func TargetHref(href, fragment string) string {
	base, _, _ := strings.Cut(href, "#")
	if fragment == "" {
		return base
	}
	return base + "#!" + fragment
}

// Writer commits encoded anchor state to a Location.
type Writer struct {
	codec    *Codec
	location Location
}

// NewWriter binds a Location to a Codec built from opts.
func NewWriter(location Location, opts ...Option) *Writer {
	return &Writer{codec: New(opts...), location: location}
}

// Codec returns the codec used by the writer.
func (w *Writer) Codec() *Codec {
	return w.codec
}

// Read decodes the current location fragment.
func (w *Writer) Read() State {
	return w.codec.DecodeURI(w.location.Href())
}

// Write encodes state and navigates the location to the result. With replace
// set the current history entry is replaced, otherwise a new entry is pushed.
// It returns replace so callers know whether an entry was pushed. Schema
// errors abort before any navigation.
func (w *Writer) Write(ctx context.Context, state State, replace bool) (bool, error) {
	fragment, err := w.codec.Encode(state)
	if err != nil {
		return false, err
	}

	start := time.Now()
	previous := w.location.Href()
	target := TargetHref(previous, fragment)
	if replace {
		err = w.location.Replace(target)
	} else {
		err = w.location.Assign(target)
	}
	w.codec.logger().LogCodec(LogEvent{
		Op:       OpWrite,
		Fragment: fragment,
		Href:     target,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return false, err
	}

	w.notify(ctx, activity.AnchorEventInput{
		Actor:    w.codec.cfg.actor,
		Href:     target,
		OldHref:  previous,
		Fragment: fragment,
		Replace:  replace,
	})
	return replace, nil
}

// notify reports hook failures through the logger; the navigation already
// happened and is not rolled back.
func (w *Writer) notify(ctx context.Context, input activity.AnchorEventInput) {
	hooks := w.codec.cfg.activityHooks
	if len(hooks) == 0 {
		return
	}
	if err := hooks.Notify(ctx, activity.BuildAnchorWrittenEvent(input)); err != nil {
		w.codec.logger().LogCodec(LogEvent{
			Op:   OpWrite,
			Href: input.Href,
			Err:  err,
		})
	}
}

// SetAnchor writes state to location with a Writer built from opts.
func SetAnchor(location Location, state State, replace bool, opts ...Option) (bool, error) {
	return NewWriter(location, opts...).Write(context.Background(), state, replace)
}
