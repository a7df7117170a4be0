package usersink_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-anchor/pkg/activity"
	"github.com/goliatone/go-anchor/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsAnchorEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()

	event := activity.BuildAnchorWrittenEvent(activity.AnchorEventInput{
		Actor:    activity.Actor{ActorID: actorID.String(), UserID: userID.String(), TenantID: "not-a-uuid"},
		Channel:  "chat",
		Href:     "http://x/y#!chat=opened",
		Fragment: "chat=opened",
		At:       now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != userID {
		t.Fatalf("unexpected ids: actor=%s user=%s", record.ActorID, record.UserID)
	}
	if record.TenantID != uuid.Nil {
		t.Fatalf("expected invalid tenant to map to uuid.Nil, got %s", record.TenantID)
	}
	if record.Verb != activity.VerbAnchorPushed || record.ObjectType != activity.ObjectTypeAnchor {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.ObjectID != "http://x/y#!chat=opened" || record.Channel != "chat" {
		t.Fatalf("unexpected object/channel: %+v", record)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["fragment"] != "chat=opened" {
		t.Fatalf("expected fragment metadata got %v", record.Data["fragment"])
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyWithoutSink(t *testing.T) {
	hook := usersink.Hook{}
	event := activity.Event{Verb: activity.VerbAnchorSaved, ObjectType: activity.ObjectTypeBookmark, ObjectID: "1"}
	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("expected nil sink to be a no-op, got %v", err)
	}
}
