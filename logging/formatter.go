package logging

import (
	shim "github.com/goliatone/go-shim"
	"github.com/sirupsen/logrus"
)

// HubFormatter annotates entries logged with a context carrying a hub with
// the hub's stack depth.
type HubFormatter struct {
	BaseFormatter logrus.Formatter
}

func (f *HubFormatter) Format(e *logrus.Entry) ([]byte, error) {
	if ctx := e.Context; ctx != nil {
		if hub, ok := shim.HubFromContext(ctx); ok {
			e.Data["hub_depth"] = hub.Depth()
		}
	}
	return f.BaseFormatter.Format(e)
}
