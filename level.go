package shim

import "strings"

// Level is the severity attached to events and breadcrumbs.
type Level string

const (
	LevelFatal    Level = "fatal"
	LevelError    Level = "error"
	LevelWarning  Level = "warning"
	LevelLog      Level = "log"
	LevelInfo     Level = "info"
	LevelDebug    Level = "debug"
	LevelCritical Level = "critical"
)

func (l Level) String() string {
	return string(l)
}

// IsZero reports whether no level was set.
func (l Level) IsZero() bool {
	return l == ""
}

// ParseLevel converts a string into the matching Level. Matching ignores case
// and surrounding whitespace; "warn" is accepted for LevelWarning. Unknown
// values return the zero Level.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "fatal":
		return LevelFatal
	case "error":
		return LevelError
	case "warning", "warn":
		return LevelWarning
	case "log":
		return LevelLog
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	case "critical":
		return LevelCritical
	default:
		return ""
	}
}
