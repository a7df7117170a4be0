package activity

import "time"

const (
	VerbAnchorPushed   = "anchor.pushed"
	VerbAnchorReplaced = "anchor.replaced"
	VerbAnchorSaved    = "anchor.saved"

	ObjectTypeAnchor   = "anchor"
	ObjectTypeBookmark = "anchor.bookmark"
)

// AnchorEventInput describes an anchor write.
type AnchorEventInput struct {
	Actor    Actor
	Channel  string
	Href     string
	OldHref  string
	Fragment string
	Replace  bool
	Metadata map[string]any
	At       time.Time
}

// BuildAnchorWrittenEvent builds the event for a location write: verb
// anchor.replaced when the history entry was replaced, anchor.pushed
// otherwise. The object id is the target href.
func BuildAnchorWrittenEvent(input AnchorEventInput) Event {
	verb := VerbAnchorPushed
	if input.Replace {
		verb = VerbAnchorReplaced
	}
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["fragment"] = input.Fragment
	metadata["replace"] = input.Replace
	if input.OldHref != "" {
		metadata["old_href"] = input.OldHref
	}
	return Event{
		Verb:       verb,
		Actor:      input.Actor,
		ObjectType: ObjectTypeAnchor,
		ObjectID:   input.Href,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.At,
	}
}

// BookmarkEventInput describes a persisted anchor bookmark.
type BookmarkEventInput struct {
	Actor    Actor
	Channel  string
	Ref      string
	Fragment string
	ETag     string
	At       time.Time
}

// BuildBookmarkSavedEvent builds the event for a saved bookmark keyed by its
// storage reference.
func BuildBookmarkSavedEvent(input BookmarkEventInput) Event {
	metadata := map[string]any{"fragment": input.Fragment}
	if input.ETag != "" {
		metadata["etag"] = input.ETag
	}
	return Event{
		Verb:       VerbAnchorSaved,
		Actor:      input.Actor,
		ObjectType: ObjectTypeBookmark,
		ObjectID:   input.Ref,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.At,
	}
}
