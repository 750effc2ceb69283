// Package usersink forwards captured reports to a go-users ActivitySink so
// errors land in the same activity feed as user actions.
package usersink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-shim/pkg/transport"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

const (
	// Verb is recorded for every forwarded report.
	Verb = "error.captured"
	// ObjectType is recorded for every forwarded report.
	ObjectType = "event"
)

// Hook adapts transport reports to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// TenantKey names the tag holding the tenant id. Defaults to "tenant_id".
	TenantKey string
}

// Send maps the report into an ActivityRecord and forwards it to the sink.
func (h Hook) Send(ctx context.Context, report transport.Report) error {
	if h.Sink == nil {
		return nil
	}

	normalized := transport.NormalizeReport(report)
	if normalized.Event.EventID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	userID := parseUUID(lookupString(normalized.Event.User, "id"))
	record := usertypes.ActivityRecord{
		ActorID:    userID,
		UserID:     userID,
		TenantID:   parseUUID(lookupString(normalized.Event.Tags, h.tenantKey())),
		Verb:       Verb,
		ObjectType: ObjectType,
		ObjectID:   normalized.Event.EventID,
		Channel:    normalized.Channel,
		Data:       normalized.Summary(),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}
	if email := lookupString(normalized.Event.User, "email"); email != "" {
		record.Data["user_email"] = email
	}

	return h.Sink.Log(ctx, record)
}

func (h Hook) tenantKey() string {
	if key := strings.TrimSpace(h.TenantKey); key != "" {
		return key
	}
	return "tenant_id"
}

func lookupString(values map[string]any, key string) string {
	value, ok := values[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
