package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	anchor "github.com/goliatone/go-anchor"
	"github.com/goliatone/go-anchor/pkg/activity"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one bookmark: a domain (e.g. "chat") and the owner it
// belongs to (a user or session id).
type Ref struct {
	Domain string
	Owner  string
}

// Meta is storage-owned metadata used for concurrency control and audit.
type Meta struct {
	ETag      string            `json:"etag,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Store loads/saves the encoded fragment for a single Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (fragment string, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, fragment string, meta Meta) (Meta, error)
}

// Mutator edits a decoded state in place.
type Mutator func(anchor.State) error

// Identifier returns the canonical storage key "domain/owner".
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	if r.Owner == "" {
		return "", fmt.Errorf("state: owner is required for domain %q", r.Domain)
	}
	if strings.Contains(r.Domain, "/") || strings.Contains(r.Owner, "/") {
		return "", fmt.Errorf("state: domain and owner must not contain %q", "/")
	}
	return r.Domain + "/" + r.Owner, nil
}

// Resolver decodes and re-encodes bookmarks through a Codec.
type Resolver struct {
	Store Store
	// Codec defaults to anchor.New().
	Codec *anchor.Codec
	// Emitter receives anchor.saved events after successful mutations.
	Emitter *activity.Emitter
	Actor   activity.Actor
	// Logger receives hook failures that do not fail the save.
	Logger anchor.Logger
}

func (r Resolver) codec() *anchor.Codec {
	if r.Codec != nil {
		return r.Codec
	}
	return anchor.New()
}

// Resolve loads and decodes the bookmark for ref. ok is false when nothing
// is stored.
func (r Resolver) Resolve(ctx context.Context, ref Ref) (anchor.State, Meta, bool, error) {
	if r.Store == nil {
		return nil, Meta{}, false, fmt.Errorf("state: store is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return nil, Meta{}, false, err
	}
	fragment, meta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("state: load %q for owner %q: %w", ref.Domain, ref.Owner, err)
	}
	if !ok {
		return anchor.State{}, Meta{}, false, nil
	}
	return r.codec().Decode(fragment), meta, true, nil
}

// ResolveWithDefaults resolves ref and fills keys missing from the stored
// bookmark with defaults. A missing bookmark yields a copy of defaults.
func (r Resolver) ResolveWithDefaults(ctx context.Context, ref Ref, defaults anchor.State) (anchor.State, Meta, error) {
	stored, meta, _, err := r.Resolve(ctx, ref)
	if err != nil {
		return nil, Meta{}, err
	}
	return stored.WithDefaults(defaults), meta, nil
}

// Mutate loads the bookmark, applies fn, encodes the result (schema errors
// abort the save) and stores it. When meta.ETag is set it must match the
// stored ETag. The returned state is decoded from the saved fragment.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (anchor.State, Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}
	id, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, err
	}

	fragment, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for owner %q: %w", ref.Domain, ref.Owner, err)
	}
	if !ok {
		fragment = ""
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	codec := r.codec()
	current := codec.Decode(fragment)
	if err := fn(current); err != nil {
		return nil, loadedMeta, err
	}

	encoded, err := codec.Encode(current)
	if err != nil {
		return nil, loadedMeta, err
	}

	savedMeta, err := r.Store.Save(ctx, ref, encoded, mergeMeta(loadedMeta, meta))
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q for owner %q: %w", ref.Domain, ref.Owner, err)
	}

	r.emitSaved(ctx, id, encoded, savedMeta)
	return codec.Decode(encoded), savedMeta, nil
}

// emitSaved reports hook failures through the logger; the bookmark is
// already stored.
func (r Resolver) emitSaved(ctx context.Context, id, fragment string, meta Meta) {
	if !r.Emitter.Enabled() {
		return
	}
	err := r.Emitter.Emit(ctx, activity.BuildBookmarkSavedEvent(activity.BookmarkEventInput{
		Actor:    r.Actor,
		Ref:      id,
		Fragment: fragment,
		ETag:     meta.ETag,
	}))
	if err != nil && r.Logger != nil {
		r.Logger.LogCodec(anchor.LogEvent{
			Op:       anchor.OpSave,
			Key:      id,
			Fragment: fragment,
			Err:      err,
		})
	}
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
