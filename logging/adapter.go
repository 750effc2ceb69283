package logging

import (
	"context"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/goliatone/go-shim/rules"
	"github.com/sirupsen/logrus"
)

// Adapter routes hub operations, rule evaluations and reports to logrus.
type Adapter struct {
	entry *logrus.Entry
}

// NewLogrus wraps a *logrus.Logger or *logrus.Entry. A nil logger uses the
// logrus standard logger.
func NewLogrus(logger logrus.FieldLogger) *Adapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Adapter{entry: logger.WithField("component", "shim")}
}

// LogOperation implements shim.Logger. Failures log at warn, everything else
// at debug.
func (a *Adapter) LogOperation(event shim.LogEvent) {
	fields := logrus.Fields{"op": event.Op}
	if event.Depth > 0 {
		fields["depth"] = event.Depth
	}
	if event.Client != "" {
		fields["client"] = event.Client
	}
	if event.Reason != "" {
		fields["reason"] = event.Reason
	}
	if event.Skipped {
		fields["skipped"] = true
	}
	entry := a.entry.WithFields(fields)
	if event.Err != nil {
		entry.WithError(event.Err).Warn("shim operation failed")
		return
	}
	entry.Debug("shim operation")
}

// LogEvaluation implements rules.Logger.
func (a *Adapter) LogEvaluation(event rules.LogEvent) {
	entry := a.entry.WithFields(logrus.Fields{
		"engine":   event.Engine,
		"rule":     event.Rule,
		"expr":     event.Expr,
		"duration": event.Duration,
	})
	if event.Err != nil {
		entry.WithError(event.Err).Warn("rule evaluation failed")
		return
	}
	entry.WithField("result", event.Result).Trace("rule evaluated")
}

// Send implements transport.Transport by writing the report as a log entry at
// the matching logrus level.
func (a *Adapter) Send(ctx context.Context, report transport.Report) error {
	event := report.Event
	entry := a.entry.WithContext(ctx).WithFields(logrus.Fields{
		"event_id": event.EventID,
		"kind":     report.Kind,
		"channel":  report.Channel,
	})
	if len(event.Tags) > 0 {
		entry = entry.WithField("tags", event.Tags)
	}
	if len(event.Fingerprint) > 0 {
		entry = entry.WithField("fingerprint", event.Fingerprint)
	}
	message := event.Message
	if message == "" && len(event.Exception) > 0 {
		outer := event.Exception[len(event.Exception)-1]
		message = outer.Value
		entry = entry.WithField("exception_type", outer.Type)
	}
	entry.Log(LevelFor(event.Level), message)
	return nil
}

// LevelFor maps an event level onto logrus. Fatal and critical map to error
// so a report never terminates the process.
func LevelFor(level shim.Level) logrus.Level {
	switch level {
	case shim.LevelFatal, shim.LevelCritical, shim.LevelError:
		return logrus.ErrorLevel
	case shim.LevelWarning:
		return logrus.WarnLevel
	case shim.LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

var (
	_ shim.Logger         = (*Adapter)(nil)
	_ rules.Logger        = (*Adapter)(nil)
	_ transport.Transport = (*Adapter)(nil)
)
