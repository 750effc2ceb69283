package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/goliatone/go-shim/pkg/transport/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookSendMapsReport(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	tenantID := uuid.New()

	report := transport.BuildMessageReport(shim.Event{
		EventID:     "3f2b9c",
		Level:       shim.LevelWarning,
		Message:     "quota nearly exhausted",
		Timestamp:   now,
		User:        map[string]any{"id": userID.String(), "email": "ada@example.com"},
		Tags:        map[string]any{"tenant_id": tenantID.String(), "env": "prod"},
		Fingerprint: []string{"quota"},
	}, "errors")

	require.NoError(t, hook.Send(context.Background(), report))
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, userID, record.ActorID)
	assert.Equal(t, tenantID, record.TenantID)
	assert.Equal(t, usersink.Verb, record.Verb)
	assert.Equal(t, usersink.ObjectType, record.ObjectType)
	assert.Equal(t, "3f2b9c", record.ObjectID)
	assert.Equal(t, "errors", record.Channel)
	assert.Equal(t, now, record.OccurredAt)
	assert.Equal(t, "warning", record.Data["level"])
	assert.Equal(t, "quota nearly exhausted", record.Data["message"])
	assert.Equal(t, []string{"quota"}, record.Data["fingerprint"])
	assert.Equal(t, "ada@example.com", record.Data["user_email"])
}

func TestHookSendSkipsReportsWithoutEventID(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	require.NoError(t, hook.Send(context.Background(), transport.Report{}))
	assert.Empty(t, sink.records)
}

func TestHookSendToleratesNonUUIDIdentifiers(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, TenantKey: "org"}

	err := hook.Send(context.Background(), transport.Report{Event: shim.Event{
		EventID: "e1",
		User:    map[string]any{"id": 42},
		Tags:    map[string]any{"org": "acme"},
	}})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, uuid.Nil, sink.records[0].UserID)
	assert.Equal(t, uuid.Nil, sink.records[0].TenantID)
	assert.False(t, sink.records[0].OccurredAt.IsZero())
}

func TestHookSendReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Send(context.Background(), transport.Report{Event: shim.Event{EventID: "e1"}})
	assert.ErrorIs(t, err, boom)
}

func TestHookWithoutSinkIsNoop(t *testing.T) {
	var hook usersink.Hook
	assert.NoError(t, hook.Send(context.Background(), transport.Report{Event: shim.Event{EventID: "e1"}}))
}

func TestHookPlugsIntoHooks(t *testing.T) {
	sink := &recordingSink{}
	hooks := transport.Hooks{usersink.Hook{Sink: sink}}
	emitter := transport.NewEmitter(hooks, transport.Config{Enabled: true})

	require.NoError(t, emitter.Send(context.Background(), transport.Report{Event: shim.Event{EventID: "e1"}}))
	require.Len(t, sink.records, 1)
	assert.Equal(t, transport.DefaultChannel, sink.records[0].Channel)
}
